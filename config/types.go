package config

import (
	"time"

	"github.com/s0up4200/discoverr/tmdb"
)

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Sort    SortConfig    `mapstructure:"sort"`
	Radarr  RadarrConfig  `mapstructure:"radarr"`
	Filters FilterConfig  `mapstructure:"filters"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds the movie database connection details
type TMDBConfig struct {
	URL               string        `mapstructure:"url"`
	APIKey            string        `mapstructure:"api_key"`
	ImageURL          string        `mapstructure:"image_url"`
	ImageSize         string        `mapstructure:"image_size"`
	Timeout           time.Duration `mapstructure:"timeout"`
	CheckConnectivity bool          `mapstructure:"check_connectivity"`
}

// SortConfig holds the initial sort order
type SortConfig struct {
	Default string `mapstructure:"default"`
}

// Order returns the configured default sort order
func (c SortConfig) Order() (tmdb.SortOrder, error) {
	return tmdb.ParseSortOrder(c.Default)
}

// RadarrConfig holds Radarr API connection details used for library marking
type RadarrConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// FilterConfig maps preset names to filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
