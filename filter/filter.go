// Package filter evaluates expr-lang expressions against catalog items.
//
// Expressions see the item fields Title, Synopsis, Rating, ReleaseDate,
// Released (time.Time), Year, HasPoster and Poster, plus date and string
// helpers such as containsText, daysSince and yearsAgo:
//
//	Rating >= 7.5 && Year >= 2015
//	containsText(Synopsis, "heist") || startsWithText(Title, "the ")
//	HasPoster && Released > yearsAgo(2)
package filter

import (
	"github.com/s0up4200/discoverr/tmdb"
)

// Apply returns the items matched by f, preserving their order.
// The first evaluation error aborts filtering.
func Apply(f *Filter, items []tmdb.CatalogItem) ([]tmdb.CatalogItem, error) {
	if f == nil {
		return items, nil
	}

	matched := make([]tmdb.CatalogItem, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, item)
		}
	}

	return matched, nil
}

// ParseAndApply compiles expression and applies it to items. An empty
// expression returns items unchanged.
func ParseAndApply(expression string, items []tmdb.CatalogItem) ([]tmdb.CatalogItem, error) {
	if expression == "" {
		return items, nil
	}

	f, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return Apply(f, items)
}
