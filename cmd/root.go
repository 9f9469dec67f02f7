package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/discoverr/config"
	"github.com/s0up4200/discoverr/library"
	"github.com/s0up4200/discoverr/tmdb"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	tmdbClient *tmdb.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "discoverr",
	Short: "Browse popular and top rated movies from TMDB",
	Long: `discoverr is a CLI tool that fetches the most popular or top rated movies
from The Movie Database, optionally filters them with an expression and marks
the ones already present in your Radarr library.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration, logger and TMDB client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging, os.Stderr)

	// Create TMDB client
	tmdbClient, err = newTMDBClient(cfg.TMDB, logger)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	return nil
}

// newTMDBClient creates the discovery client from configuration
func newTMDBClient(c config.TMDBConfig, logger zerolog.Logger) (*tmdb.Client, error) {
	opts := []tmdb.Option{tmdb.WithTimeout(c.Timeout)}
	if !c.CheckConnectivity {
		opts = append(opts, tmdb.WithoutConnectivityCheck())
	}
	return tmdb.NewClient(c.URL, c.APIKey, logger, opts...)
}

// newLibraryClient creates the Radarr client used for library marking
func newLibraryClient() (*library.Client, error) {
	if !cfg.Radarr.Enabled {
		return nil, fmt.Errorf("radarr is not enabled; set radarr.enabled in config")
	}
	client, err := library.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Radarr client: %w", err)
	}
	return client, nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
