package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"

	"github.com/s0up4200/discoverr/catalog"
	"github.com/s0up4200/discoverr/tmdb"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options contains options for formatting output
type Options struct {
	ShowDetails bool
	ImageURL    string
	ImageSize   string
	// InLibrary reports whether an item is already in the local library; nil disables marking
	InLibrary func(tmdb.CatalogItem) bool
	// Now is used for relative release dates; zero means time.Now
	Now time.Time
}

// Formatter renders a list state
type Formatter interface {
	Write(w io.Writer, state catalog.ListState, options Options) error
}

// New returns the formatter for the named output format
func New(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", FormatText:
		return NewConsoleFormatter(), nil
	case FormatJSON:
		return &jsonFormatter{}, nil
	case FormatYAML:
		return &yamlFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}

// ConsoleFormatter provides console output formatting for movie lists
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// Write implements Formatter
func (f *ConsoleFormatter) Write(w io.Writer, state catalog.ListState, options Options) error {
	_, err := io.WriteString(w, f.FormatList(state, options))
	return err
}

// FormatList formats a list state for console display
func (f *ConsoleFormatter) FormatList(state catalog.ListState, options Options) string {
	switch state.Visibility {
	case catalog.VisibilityLoading:
		return fmt.Sprintf("Loading %s movies...\n", state.Order.Label())
	case catalog.VisibilityEmptyOrError:
		return state.Reason.Message() + "\n"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s movie", state.Order.Label())
	if len(state.Items) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%s):\n\n", humanize.Comma(int64(len(state.Items))))

	for i, item := range state.Items {
		isLast := i == len(state.Items)-1
		f.formatItem(&sb, i+1, item, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatDetail formats a single item the way a detail view presents it
func (f *ConsoleFormatter) FormatDetail(item tmdb.CatalogItem, options Options) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", displayTitle(item))
	fmt.Fprintf(&sb, "Rating: %s/10\n", formatRating(item.Rating))
	if item.ReleaseDate != "" {
		fmt.Fprintf(&sb, "Released: %s\n", formatReleaseDate(item.ReleaseDate, options.now()))
	}
	if poster := tmdb.PosterURL(options.ImageURL, options.ImageSize, item); poster != "" {
		fmt.Fprintf(&sb, "Poster: %s\n", poster)
	}
	if item.Synopsis != "" {
		fmt.Fprintf(&sb, "\n%s\n", item.Synopsis)
	}

	return sb.String()
}

// formatItem formats a single movie entry
func (f *ConsoleFormatter) formatItem(sb *strings.Builder, position int, item tmdb.CatalogItem, isLast bool, options Options) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %d. %s", prefix, position, displayTitle(item))
	if year := item.Year(); year > 0 {
		fmt.Fprintf(sb, " (%d)", year)
	}
	fmt.Fprintf(sb, " ★ %s", formatRating(item.Rating))
	if options.InLibrary != nil && options.InLibrary(item) {
		sb.WriteString(" [IN LIBRARY]")
	}
	sb.WriteString("\n")

	if !options.ShowDetails {
		return
	}

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if item.ReleaseDate != "" {
		fmt.Fprintf(sb, "%sReleased: %s\n", indent, formatReleaseDate(item.ReleaseDate, options.now()))
	}
	if poster := tmdb.PosterURL(options.ImageURL, options.ImageSize, item); poster != "" {
		fmt.Fprintf(sb, "%sPoster: %s\n", indent, poster)
	}
	if item.Synopsis != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, truncate(item.Synopsis, 120))
	}
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func displayTitle(item tmdb.CatalogItem) string {
	if item.Title == "" {
		return "(untitled)"
	}
	return item.Title
}

func formatRating(rating float64) string {
	return humanize.FtoaWithDigits(rating, 1)
}

// formatReleaseDate renders "2016-11-10 (8 years ago)", keeping unparseable dates verbatim
func formatReleaseDate(date string, now time.Time) string {
	released, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", date, humanize.RelTime(released, now, "ago", "from now"))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// document is the structured representation used by the JSON and YAML formats
type document struct {
	Sort       string         `json:"sort" yaml:"sort"`
	Visibility string         `json:"visibility" yaml:"visibility"`
	Reason     string         `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message    string         `json:"message,omitempty" yaml:"message,omitempty"`
	Items      []itemDocument `json:"items" yaml:"items"`
}

type itemDocument struct {
	tmdb.CatalogItem `yaml:",inline"`
	PosterURL        string `json:"poster_url,omitempty" yaml:"poster_url,omitempty"`
	InLibrary        *bool  `json:"in_library,omitempty" yaml:"in_library,omitempty"`
}

func newDocument(state catalog.ListState, options Options) document {
	doc := document{
		Sort:       state.Order.String(),
		Visibility: state.Visibility.String(),
		Items:      make([]itemDocument, 0, len(state.Items)),
	}
	if state.Reason != catalog.ReasonNone {
		doc.Reason = state.Reason.String()
		doc.Message = state.Reason.Message()
	}

	for _, item := range state.Items {
		entry := itemDocument{
			CatalogItem: item,
			PosterURL:   tmdb.PosterURL(options.ImageURL, options.ImageSize, item),
		}
		if options.InLibrary != nil {
			inLibrary := options.InLibrary(item)
			entry.InLibrary = &inLibrary
		}
		doc.Items = append(doc.Items, entry)
	}

	return doc
}

type jsonFormatter struct{}

func (f *jsonFormatter) Write(w io.Writer, state catalog.ListState, options Options) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newDocument(state, options))
}

type yamlFormatter struct{}

func (f *yamlFormatter) Write(w io.Writer, state catalog.ListState, options Options) error {
	out, err := yaml.Marshal(newDocument(state, options))
	if err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}
