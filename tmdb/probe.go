package tmdb

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// Prober reports whether the remote service can currently be reached
type Prober interface {
	Reachable(ctx context.Context) bool
}

// ProberFunc adapts a function to the Prober interface
type ProberFunc func(ctx context.Context) bool

// Reachable calls f(ctx)
func (f ProberFunc) Reachable(ctx context.Context) bool {
	return f(ctx)
}

// DefaultProbeTimeout bounds a single reachability probe
const DefaultProbeTimeout = 3 * time.Second

// DialProber checks reachability by opening a TCP connection to the service host
type DialProber struct {
	address string
	timeout time.Duration
}

// NewDialProber creates a DialProber for the host of endpoint
func NewDialProber(endpoint string, timeout time.Duration) (*DialProber, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}

	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	return &DialProber{
		address: net.JoinHostPort(u.Hostname(), port),
		timeout: timeout,
	}, nil
}

// Address returns the host:port being probed
func (p *DialProber) Address() string {
	return p.address
}

// Reachable dials the service address and reports whether a connection could be opened
func (p *DialProber) Reachable(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
