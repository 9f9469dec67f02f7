package tmdb

import (
	"fmt"
	"strings"
)

// SortOrder represents the ranking criterion sent to the discover endpoint
type SortOrder int

const (
	// MostPopular ranks movies by popularity
	MostPopular SortOrder = iota
	// TopRated ranks movies by average vote
	TopRated
)

// SortOrders lists every supported sort order in menu order
var SortOrders = []SortOrder{MostPopular, TopRated}

// String returns the configuration name of a SortOrder
func (s SortOrder) String() string {
	switch s {
	case MostPopular:
		return "popular"
	case TopRated:
		return "top_rated"
	default:
		return fmt.Sprintf("SortOrder(%d)", int(s))
	}
}

// Label returns the human readable name of a SortOrder
func (s SortOrder) Label() string {
	switch s {
	case MostPopular:
		return "Most Popular"
	case TopRated:
		return "Top Rated"
	default:
		return "Unknown"
	}
}

// QueryValue returns the sort_by value understood by the remote service
func (s SortOrder) QueryValue() string {
	switch s {
	case MostPopular:
		return "popularity.desc"
	case TopRated:
		return "vote_average.desc"
	default:
		return ""
	}
}

// Valid reports whether s is one of the supported sort orders
func (s SortOrder) Valid() bool {
	return s == MostPopular || s == TopRated
}

// ParseSortOrder converts a user supplied choice into a SortOrder
func ParseSortOrder(choice string) (SortOrder, error) {
	normalized := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(choice)))
	switch normalized {
	case "popular", "most_popular", "popularity":
		return MostPopular, nil
	case "top_rated", "toprated", "rated":
		return TopRated, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSortOrder, choice)
	}
}

// CatalogItem is a single decoded movie record
type CatalogItem struct {
	Title         string  `json:"title" yaml:"title"`
	ThumbnailPath *string `json:"thumbnail_path" yaml:"thumbnail_path"`
	Synopsis      string  `json:"synopsis" yaml:"synopsis"`
	Rating        float64 `json:"rating" yaml:"rating"`
	ReleaseDate   string  `json:"release_date" yaml:"release_date"`
}

// HasThumbnail reports whether the item carries a poster path
func (c CatalogItem) HasThumbnail() bool {
	return c.ThumbnailPath != nil && *c.ThumbnailPath != ""
}

// Thumbnail returns the poster path or an empty string
func (c CatalogItem) Thumbnail() string {
	if c.ThumbnailPath == nil {
		return ""
	}
	return *c.ThumbnailPath
}

// Year returns the release year, or 0 when the release date is missing or malformed
func (c CatalogItem) Year() int {
	if len(c.ReleaseDate) < 4 {
		return 0
	}
	year := 0
	for _, r := range c.ReleaseDate[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}

// FailureReason classifies a failed fetch
type FailureReason int

const (
	// ReasonNone marks a successful outcome
	ReasonNone FailureReason = iota
	// ReasonNoConnectivity means the network was unreachable and no request was made
	ReasonNoConnectivity
	// ReasonServerError covers non-success statuses and transport failures
	ReasonServerError
	// ReasonDecodeError means the payload did not have the expected shape
	ReasonDecodeError
)

// String returns the string representation of a FailureReason
func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "NONE"
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

// Outcome is the terminal result of one fetch attempt.
// Exactly one of Items (with Reason == ReasonNone) or a failure Reason is meaningful.
type Outcome struct {
	Order  SortOrder
	Items  []CatalogItem
	Reason FailureReason
	Err    error
}

// Succeeded builds a successful outcome
func Succeeded(order SortOrder, items []CatalogItem) Outcome {
	if items == nil {
		items = []CatalogItem{}
	}
	return Outcome{Order: order, Items: items, Reason: ReasonNone}
}

// Failed builds a failed outcome carrying the underlying cause
func Failed(order SortOrder, reason FailureReason, err error) Outcome {
	return Outcome{Order: order, Reason: reason, Err: err}
}

// OK reports whether the outcome is a success
func (o Outcome) OK() bool {
	return o.Reason == ReasonNone
}

// State is the lifecycle state of a Client
type State int32

const (
	// StateIdle means no fetch is running
	StateIdle State = iota
	// StateRequesting means a fetch is in flight
	StateRequesting
	// StateSucceeded is held briefly while a successful outcome is handed back
	StateSucceeded
	// StateFailed is held briefly while a failed outcome is handed back
	StateFailed
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRequesting:
		return "REQUESTING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
