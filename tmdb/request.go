package tmdb

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultDiscoverURL is the discover endpoint used when none is configured
const DefaultDiscoverURL = "https://api.themoviedb.org/3/discover/movie"

// Query parameter names understood by the discover endpoint
const (
	apiKeyParam = "api_key"
	sortByParam = "sort_by"
)

// Request describes a single discover request. Two requests built from the
// same SortOrder are equal.
type Request struct {
	Method string
	URL    string
	Order  SortOrder
}

// RequestBuilder turns a SortOrder into a fully qualified discover request
type RequestBuilder struct {
	endpoint string
	apiKey   string
}

// NewRequestBuilder creates a RequestBuilder for the given endpoint and credential.
// A missing credential is reported as ErrMissingCredential.
func NewRequestBuilder(endpoint, apiKey string) (*RequestBuilder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	if endpoint == "" {
		endpoint = DefaultDiscoverURL
	}

	// Ensure endpoint doesn't have trailing slash
	endpoint = strings.TrimRight(endpoint, "/")

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid tmdb endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid tmdb endpoint %q: scheme and host are required", endpoint)
	}

	return &RequestBuilder{
		endpoint: endpoint,
		apiKey:   apiKey,
	}, nil
}

// Endpoint returns the configured discover endpoint
func (b *RequestBuilder) Endpoint() string {
	return b.endpoint
}

// Build constructs the request for order
func (b *RequestBuilder) Build(order SortOrder) (Request, error) {
	if !order.Valid() {
		return Request{}, fmt.Errorf("%w: %d", ErrInvalidSortOrder, int(order))
	}

	params := url.Values{}
	params.Set(apiKeyParam, b.apiKey)
	params.Set(sortByParam, order.QueryValue())

	return Request{
		Method: http.MethodGet,
		URL:    b.endpoint + "?" + params.Encode(),
		Order:  order,
	}, nil
}

// Redacted returns the request URL with the credential masked, for logging
func (r Request) Redacted() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if q.Has(apiKeyParam) {
		q.Set(apiKeyParam, "***")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
