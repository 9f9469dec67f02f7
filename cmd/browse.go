package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/s0up4200/discoverr/catalog"
	"github.com/s0up4200/discoverr/format"
	"github.com/s0up4200/discoverr/tmdb"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively switch between popular and top rated movies",
	Long: `Start an interactive session that shows the movie list and lets you switch
the sort order, refresh, and open the details of a single movie.

Commands:
  p        most popular
  t        top rated
  r        refresh the current order
  d <n>    show details for movie n
  q        quit`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	order, err := cfg.Sort.Order()
	if err != nil {
		return err
	}

	b := newBrowser(tmdbClient, cmd.OutOrStdout(), formatOptions())
	return b.Run(cmd.Context(), cmd.InOrStdin(), order)
}

// browser renders every synchronizer state change and drives it from line commands
type browser struct {
	synchronizer *catalog.Synchronizer
	formatter    *format.ConsoleFormatter
	options      format.Options

	mu  sync.Mutex
	out io.Writer
}

func newBrowser(fetcher catalog.Fetcher, out io.Writer, options format.Options) *browser {
	return &browser{
		synchronizer: catalog.NewSynchronizer(fetcher, nil, logger),
		formatter:    format.NewConsoleFormatter(),
		options:      options,
		out:          out,
	}
}

// Run loads the initial order and processes commands until q or end of input
func (b *browser) Run(ctx context.Context, in io.Reader, initial tmdb.SortOrder) error {
	cancel := b.synchronizer.Subscribe(func(state catalog.ListState) {
		b.printf("%s", b.formatter.FormatList(state, b.options))
	})
	defer cancel()

	if _, err := b.synchronizer.ChangeSortOrder(ctx, initial); err != nil {
		return err
	}
	b.synchronizer.Wait()

	scanner := bufio.NewScanner(in)
	for {
		b.printMenu()

		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q", "quit", "exit":
			return nil
		case "p":
			b.changeOrder(ctx, tmdb.MostPopular)
		case "t":
			b.changeOrder(ctx, tmdb.TopRated)
		case "r":
			if _, err := b.synchronizer.RefreshCurrent(ctx); err != nil {
				return err
			}
			b.synchronizer.Wait()
		case "d":
			b.showDetail(fields[1:])
		default:
			b.printf("Unknown command %q\n", fields[0])
		}
	}
}

func (b *browser) changeOrder(ctx context.Context, order tmdb.SortOrder) {
	if _, err := b.synchronizer.ChangeSortOrder(ctx, order); err != nil {
		b.printf("%v\n", err)
		return
	}
	b.synchronizer.Wait()
}

func (b *browser) showDetail(args []string) {
	state := b.synchronizer.State()
	if len(args) != 1 {
		b.printf("Usage: d <n>\n")
		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(state.Items) {
		b.printf("No movie %s in the current list\n", args[0])
		return
	}

	b.printf("\n%s\n", b.formatter.FormatDetail(state.Items[n-1], b.options))
}

// printMenu shows the sort menu with the current order checked
func (b *browser) printMenu() {
	current := b.synchronizer.Policy().Current()

	var sb strings.Builder
	for _, order := range tmdb.SortOrders {
		mark := " "
		if order == current {
			mark = "x"
		}
		key := "p"
		if order == tmdb.TopRated {
			key = "t"
		}
		fmt.Fprintf(&sb, "[%s] %s) %s  ", mark, key, order.Label())
	}
	sb.WriteString("r) refresh  d <n>) details  q) quit\n> ")

	b.printf("%s", sb.String())
}

func (b *browser) printf(tmpl string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, tmpl, args...)
}
