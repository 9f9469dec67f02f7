package catalog

import "github.com/s0up4200/discoverr/tmdb"

// Visibility describes what the display surface should show
type Visibility int

const (
	// VisibilityLoading means a fetch is in flight and the list is empty
	VisibilityLoading Visibility = iota
	// VisibilityContent means Items holds the latest results
	VisibilityContent
	// VisibilityEmptyOrError means there is nothing to show; Reason says why
	VisibilityEmptyOrError
)

// String returns the string representation of a Visibility
func (v Visibility) String() string {
	switch v {
	case VisibilityLoading:
		return "LOADING"
	case VisibilityContent:
		return "CONTENT"
	case VisibilityEmptyOrError:
		return "EMPTY_OR_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Reason explains an empty or failed list
type Reason int

const (
	// ReasonNone is used while loading or showing content
	ReasonNone Reason = iota
	// ReasonNoResults means the fetch succeeded with zero items
	ReasonNoResults
	// ReasonNoConnectivity means the service was unreachable
	ReasonNoConnectivity
	// ReasonServerError means the service answered with an error or the transport failed
	ReasonServerError
	// ReasonDecodeError means the response could not be decoded
	ReasonDecodeError
)

// User facing message categories
const (
	MessageNoResults      = "No movies found."
	MessageNoConnectivity = "No internet connection. Please check your connection and try again."
	MessageGeneral        = "Something went wrong. Please try again later."
)

// String returns the string representation of a Reason
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "NONE"
	case ReasonNoResults:
		return "NO_RESULTS"
	case ReasonNoConnectivity:
		return "NO_CONNECTIVITY"
	case ReasonServerError:
		return "SERVER_ERROR"
	case ReasonDecodeError:
		return "DECODE_ERROR"
	default:
		return "UNKNOWN"
	}
}

// IsError reports whether the reason is a failure rather than an empty result
func (r Reason) IsError() bool {
	return r == ReasonNoConnectivity || r == ReasonServerError || r == ReasonDecodeError
}

// Message returns the user facing message for the reason
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNoResults:
		return MessageNoResults
	case ReasonNoConnectivity:
		return MessageNoConnectivity
	default:
		return MessageGeneral
	}
}

func reasonFor(failure tmdb.FailureReason) Reason {
	switch failure {
	case tmdb.ReasonNoConnectivity:
		return ReasonNoConnectivity
	case tmdb.ReasonDecodeError:
		return ReasonDecodeError
	default:
		return ReasonServerError
	}
}

// ListState is the observable state of the displayed list
type ListState struct {
	Items      []tmdb.CatalogItem
	Visibility Visibility
	Reason     Reason
	Order      tmdb.SortOrder
	Generation uint64
}

// Empty reports whether the state holds no items
func (s ListState) Empty() bool {
	return len(s.Items) == 0
}

// clone returns a copy whose Items slice is not shared
func (s ListState) clone() ListState {
	c := s
	if s.Items != nil {
		c.Items = make([]tmdb.CatalogItem, len(s.Items))
		copy(c.Items, s.Items)
	}
	return c
}
