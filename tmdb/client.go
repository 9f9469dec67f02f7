package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Client executes discover requests and turns their responses into outcomes
type Client struct {
	builder     *RequestBuilder
	httpClient  *http.Client
	prober      Prober
	userAgent   string
	maxBodySize int64
	logger      zerolog.Logger
	state       atomic.Int32
}

// NewClient creates a new TMDB discover client
func NewClient(endpoint, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	builder, err := NewRequestBuilder(endpoint, apiKey)
	if err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	prober := options.prober
	if prober == nil && options.checkConnectivity {
		prober, err = NewDialProber(builder.Endpoint(), DefaultProbeTimeout)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		builder:     builder,
		httpClient:  httpClient,
		prober:      prober,
		userAgent:   options.userAgent,
		maxBodySize: options.maxBodySize,
		logger:      logger,
	}, nil
}

// Builder returns the request builder used by the client
func (c *Client) Builder() *RequestBuilder {
	return c.builder
}

// State returns the current lifecycle state
func (c *Client) State() State {
	return State(c.state.Load())
}

// Fetch runs one discover request for order and returns its outcome.
// Every failure, including transport errors, is reported through the
// outcome rather than returned.
func (c *Client) Fetch(ctx context.Context, order SortOrder) Outcome {
	c.state.Store(int32(StateRequesting))

	outcome := c.fetch(ctx, order)

	if outcome.OK() {
		c.state.Store(int32(StateSucceeded))
		c.logger.Debug().
			Str("sort", order.String()).
			Int("count", len(outcome.Items)).
			Msg("Fetched movies from TMDB")
	} else {
		c.state.Store(int32(StateFailed))
		c.logger.Warn().
			Err(outcome.Err).
			Str("sort", order.String()).
			Stringer("reason", outcome.Reason).
			Msg("Failed to fetch movies from TMDB")
	}

	c.state.Store(int32(StateIdle))
	return outcome
}

// FetchAsync runs Fetch in a new goroutine. The returned channel receives
// exactly one outcome and is then closed.
func (c *Client) FetchAsync(ctx context.Context, order SortOrder) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- c.Fetch(ctx, order)
	}()
	return ch
}

func (c *Client) fetch(ctx context.Context, order SortOrder) Outcome {
	if c.prober != nil && !c.prober.Reachable(ctx) {
		return Failed(order, ReasonNoConnectivity, ErrNoConnectivity)
	}

	request, err := c.builder.Build(order)
	if err != nil {
		return Failed(order, ReasonServerError, fmt.Errorf("%w: %w", ErrServerError, err))
	}

	body, err := c.doRequest(ctx, request)
	if err != nil {
		return Failed(order, ReasonServerError, err)
	}

	items, err := Decode(body)
	if err != nil {
		return Failed(order, ReasonDecodeError, err)
	}

	return Succeeded(order, items)
}

// doRequest performs the HTTP request and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, request Request) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, request.Method, request.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrServerError, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("method", request.Method).
		Str("url", request.Redacted()).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServerError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrServerError, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(resp.StatusCode, body),
			Body:       string(body),
		}
	}

	return body, nil
}

// statusMessage extracts the service supplied status_message, falling back to the status text
func statusMessage(code int, body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.StatusMessage != "" {
		return payload.StatusMessage
	}
	return http.StatusText(code)
}
