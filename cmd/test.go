package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/discoverr/catalog"
	"github.com/s0up4200/discoverr/tmdb"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connections to TMDB and Radarr",
	Long: `Check that TMDB is reachable, fetch every sort order concurrently and,
when enabled, ping Radarr.`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

// pinger is satisfied by library.Client
type pinger interface {
	Ping() error
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Testing connection to TMDB at %s...\n", tmdbClient.Builder().Endpoint())

	if cfg.TMDB.CheckConnectivity {
		prober, err := tmdb.NewDialProber(tmdbClient.Builder().Endpoint(), tmdb.DefaultProbeTimeout)
		if err != nil {
			return err
		}
		if !prober.Reachable(ctx) {
			fmt.Fprintf(out, "✗ %s is not reachable\n", prober.Address())
			return tmdb.ErrNoConnectivity
		}
		fmt.Fprintf(out, "✓ %s is reachable\n", prober.Address())
	}

	var radarr pinger
	if cfg.Radarr.Enabled {
		fmt.Fprintf(out, "Testing connection to Radarr at %s...\n", cfg.Radarr.URL)
		client, err := newLibraryClient()
		if err != nil {
			return err
		}
		radarr = client
	}

	return checkServices(ctx, out, tmdbClient, radarr)
}

// checkServices fetches every sort order and pings radarr (if non-nil) concurrently
func checkServices(ctx context.Context, out io.Writer, client catalog.Fetcher, radarr pinger) error {
	outcomes := make([]tmdb.Outcome, len(tmdb.SortOrders))
	var radarrErr error

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(len(tmdb.SortOrders) + 1)

	for i, order := range tmdb.SortOrders {
		g.Go(func() error {
			outcomes[i] = client.Fetch(ctx, order)
			return nil
		})
	}

	if radarr != nil {
		g.Go(func() error {
			radarrErr = radarr.Ping()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.OK() {
			fmt.Fprintf(out, "✓ %s: %d movies\n", outcome.Order.Label(), len(outcome.Items))
			continue
		}
		failed++
		fmt.Fprintf(out, "✗ %s: %s (%v)\n", outcome.Order.Label(), outcome.Reason, outcome.Err)
	}

	if radarr != nil {
		if radarrErr != nil {
			failed++
			fmt.Fprintf(out, "✗ Radarr: %v\n", radarrErr)
		} else {
			fmt.Fprintln(out, "✓ Radarr connection successful!")
		}
	} else {
		fmt.Fprintln(out, "Radarr integration: Disabled")
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
