// Package library checks discovered movies against a local Radarr library.
package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

// DefaultTimeout is used for requests to Radarr
const DefaultTimeout = 30 * time.Second

// ErrNotConfigured is returned when Radarr is enabled without a URL or API key
var ErrNotConfigured = errors.New("radarr url and api key are required")

// Client wraps the starr Radarr client
type Client struct {
	api    RadarrAPI
	logger zerolog.Logger
}

// NewClient creates a new Radarr client and verifies the connection
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	if url == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}

	config := starr.New(apiKey, url, DefaultTimeout)
	client := NewClientWithAPI(radarr.New(config), logger)

	if err := client.Ping(); err != nil {
		return nil, err
	}

	return client, nil
}

// NewClientWithAPI creates a client around an existing API implementation
func NewClientWithAPI(api RadarrAPI, logger zerolog.Logger) *Client {
	return &Client{
		api:    api,
		logger: logger.With().Str("component", "library").Logger(),
	}
}

// Ping checks that Radarr is reachable
func (c *Client) Ping() error {
	if err := c.api.Ping(); err != nil {
		return fmt.Errorf("failed to connect to Radarr: %w", err)
	}
	return nil
}

// Index retrieves all movies from Radarr and indexes them by title
func (c *Client) Index(ctx context.Context) (*Index, error) {
	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	index := NewIndex()
	for _, movie := range movies {
		if movie == nil {
			continue
		}
		index.Add(movie.Title, movie.Year)
		if movie.OriginalTitle != "" && movie.OriginalTitle != movie.Title {
			index.Add(movie.OriginalTitle, movie.Year)
		}
	}

	c.logger.Debug().Msgf("Indexed %d movies from Radarr", len(movies))
	return index, nil
}
