package library

import (
	"strings"
	"unicode"

	"github.com/s0up4200/discoverr/tmdb"
)

// Index answers whether a catalog item is already in the library.
// Titles are compared after normalization; years are compared only when both sides have one.
type Index struct {
	years map[string][]int
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{years: make(map[string][]int)}
}

// Add records a library title and its release year (0 if unknown)
func (i *Index) Add(title string, year int) {
	key := normalizeTitle(title)
	if key == "" {
		return
	}
	i.years[key] = append(i.years[key], year)
}

// Len returns the number of distinct normalized titles
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.years)
}

// Contains reports whether the item matches a library movie
func (i *Index) Contains(item tmdb.CatalogItem) bool {
	if i == nil {
		return false
	}

	years, ok := i.years[normalizeTitle(item.Title)]
	if !ok {
		return false
	}

	itemYear := item.Year()
	for _, year := range years {
		if itemYear == 0 || year == 0 || year == itemYear {
			return true
		}
	}
	return false
}

// normalizeTitle converts a title into lowercase alphanumeric tokens separated by spaces
func normalizeTitle(input string) string {
	var b strings.Builder
	lastSpace := true

	for _, r := range strings.ToLower(input) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}
