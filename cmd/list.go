package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/discoverr/catalog"
	"github.com/s0up4200/discoverr/filter"
	"github.com/s0up4200/discoverr/format"
	"github.com/s0up4200/discoverr/library"
	"github.com/s0up4200/discoverr/tmdb"
)

var (
	sortChoice   string
	filterExpr   string
	preset       string
	outputFormat string
	showDetails  bool
	markLibrary  bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most popular or top rated movies",
	Long: `Fetch one page of movies in the chosen sort order and print it.

Examples:
  discoverr list --sort top_rated
  discoverr list --filter 'Rating >= 7.5 && Year >= 2015' --details
  discoverr list --preset acclaimed
  discoverr list --output json --mark-library`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&sortChoice, "sort", "s", "", "sort order: popular or top_rated (default from config)")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.Flags().StringVarP(&outputFormat, "output", "o", format.FormatText, "output format: text, json or yaml")
	listCmd.Flags().BoolVar(&showDetails, "details", false, "show release date, poster and synopsis")
	listCmd.Flags().BoolVar(&markLibrary, "mark-library", false, "mark movies already in Radarr")
}

// listOptions holds everything listMovies needs apart from the fetcher
type listOptions struct {
	Order     tmdb.SortOrder
	Filter    *filter.Filter
	Formatter format.Formatter
	Format    format.Options
}

func runList(cmd *cobra.Command, args []string) error {
	order, err := resolveSortOrder(sortChoice)
	if err != nil {
		return err
	}

	f, err := resolveFilter(filterExpr, preset, cfg.Filters)
	if err != nil {
		return err
	}

	formatter, err := format.New(outputFormat)
	if err != nil {
		return err
	}

	opts := listOptions{
		Order:     order,
		Filter:    f,
		Formatter: formatter,
		Format:    formatOptions(),
	}

	ctx := cmd.Context()
	if markLibrary {
		index, err := loadLibraryIndex(ctx)
		if err != nil {
			return err
		}
		opts.Format.InLibrary = index.Contains
	}

	logger.Info().Str("sort", order.String()).Str("filter", filterExpr).Str("preset", preset).Msg("Fetching movies")

	return listMovies(ctx, cmd.OutOrStdout(), tmdbClient, opts)
}

// listMovies performs a single refresh through a synchronizer and renders the settled state
func listMovies(ctx context.Context, w io.Writer, fetcher catalog.Fetcher, opts listOptions) error {
	synchronizer := catalog.NewSynchronizer(fetcher, nil, logger)
	if _, err := synchronizer.ChangeSortOrder(ctx, opts.Order); err != nil {
		return err
	}
	synchronizer.Wait()

	state, err := applyFilter(synchronizer.State(), opts.Filter)
	if err != nil {
		return err
	}

	return opts.Formatter.Write(w, state, opts.Format)
}

// applyFilter narrows a content state; a filter that matches nothing yields the no-results state
func applyFilter(state catalog.ListState, f *filter.Filter) (catalog.ListState, error) {
	if f == nil || state.Visibility != catalog.VisibilityContent {
		return state, nil
	}

	matched, err := filter.Apply(f, state.Items)
	if err != nil {
		return state, fmt.Errorf("failed to apply filter: %w", err)
	}

	state.Items = matched
	if len(matched) == 0 {
		state.Visibility = catalog.VisibilityEmptyOrError
		state.Reason = catalog.ReasonNoResults
	}
	return state, nil
}

// resolveFilter picks the command line expression over a named preset
func resolveFilter(expression, preset string, presets map[string]string) (*filter.Filter, error) {
	if expression != "" {
		f, err := filter.Compile(expression)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return f, nil
	}

	if preset == "" {
		return nil, nil
	}

	manager := filter.NewManager(nil)
	if err := manager.RegisterFilters(presets); err != nil {
		return nil, err
	}
	f, ok := manager.GetFilter(strings.ToLower(preset))
	if !ok {
		return nil, fmt.Errorf("preset '%s' not found in config (available: %s)", preset, strings.Join(manager.ListFilters(), ", "))
	}
	return f, nil
}

func resolveSortOrder(choice string) (tmdb.SortOrder, error) {
	if choice == "" {
		return cfg.Sort.Order()
	}
	return tmdb.ParseSortOrder(choice)
}

func formatOptions() format.Options {
	return format.Options{
		ShowDetails: showDetails,
		ImageURL:    cfg.TMDB.ImageURL,
		ImageSize:   cfg.TMDB.ImageSize,
	}
}

func loadLibraryIndex(ctx context.Context) (*library.Index, error) {
	client, err := newLibraryClient()
	if err != nil {
		return nil, err
	}

	index, err := client.Index(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("titles", index.Len()).Msg("Loaded Radarr library")
	return index, nil
}
