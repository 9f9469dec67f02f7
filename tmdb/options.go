package tmdb

import (
	"net/http"
	"time"
)

// DefaultTimeout is the HTTP client timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout           time.Duration
	httpClient        *http.Client
	prober            Prober
	checkConnectivity bool
	userAgent         string
	maxBodySize       int64
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:           DefaultTimeout,
		checkConnectivity: true,
		userAgent:         "discoverr",
		maxBodySize:       10 << 20,
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
// The timeout option is ignored when a custom client is supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithProber sets the reachability check performed before each request.
func WithProber(prober Prober) Option {
	return func(o *clientOptions) {
		o.prober = prober
		o.checkConnectivity = prober != nil
	}
}

// WithoutConnectivityCheck disables the reachability check.
func WithoutConnectivityCheck() Option {
	return func(o *clientOptions) {
		o.prober = nil
		o.checkConnectivity = false
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}
