package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/discoverr/tmdb"
)

// EnvPrefix is the prefix for environment overrides, e.g. DISCOVERR_TMDB_API_KEY
const EnvPrefix = "DISCOVERR"

// envFiles are loaded in order; variables already set in the environment win
var envFiles = []string{".env", ".env.local"}

// Load loads the configuration from file and environment.
// A missing config file is not an error since every key can come from the environment.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()

	// Set default values
	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".discoverr"))
		}

		// Check /etc
		v.AddConfigPath("/etc/discoverr/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFiles loads environment variables from .env files
func loadEnvFiles() {
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindEnv maps DISCOVERR_* variables onto config keys and binds the conventional TMDB_API_KEY
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("tmdb.api_key", EnvPrefix+"_TMDB_API_KEY", "TMDB_API_KEY")
	_ = v.BindEnv("radarr.api_key", EnvPrefix+"_RADARR_API_KEY", "RADARR_API_KEY")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.url", tmdb.DefaultDiscoverURL)
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.image_url", tmdb.DefaultImageURL)
	v.SetDefault("tmdb.image_size", tmdb.DefaultImageSize)
	v.SetDefault("tmdb.timeout", tmdb.DefaultTimeout)
	v.SetDefault("tmdb.check_connectivity", true)

	v.SetDefault("sort.default", tmdb.MostPopular.String())

	// Radarr defaults
	v.SetDefault("radarr.enabled", false)
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if _, err := tmdb.NewRequestBuilder(cfg.TMDB.URL, cfg.TMDB.APIKey); err != nil {
		if errors.Is(err, tmdb.ErrMissingCredential) {
			return fmt.Errorf("tmdb.api_key must be set (or TMDB_API_KEY): %w", err)
		}
		return fmt.Errorf("tmdb.url: %w", err)
	}

	if cfg.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", cfg.TMDB.Timeout)
	}

	if strings.TrimSpace(cfg.TMDB.ImageSize) == "" {
		return fmt.Errorf("tmdb.image_size is required")
	}

	if _, err := cfg.Sort.Order(); err != nil {
		return fmt.Errorf("sort.default: %w", err)
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filters.%s: expression is empty", name)
		}
	}

	if cfg.Radarr.Enabled {
		if cfg.Radarr.URL == "" {
			return fmt.Errorf("radarr.url is required when radarr is enabled")
		}
		if cfg.Radarr.APIKey == "" || cfg.Radarr.APIKey == "your-api-key-here" {
			return fmt.Errorf("radarr.api_key must be set to a valid API key")
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
