package tmdb

import "strings"

// Poster image defaults
const (
	DefaultImageURL  = "https://image.tmdb.org/t/p/"
	DefaultImageSize = "w185"
)

// PosterURL builds the absolute poster URL for an item, or returns an empty
// string when the item has no thumbnail
func PosterURL(baseURL, size string, item CatalogItem) string {
	if !item.HasThumbnail() {
		return ""
	}
	if baseURL == "" {
		baseURL = DefaultImageURL
	}
	if size == "" {
		size = DefaultImageSize
	}

	return strings.TrimRight(baseURL, "/") + "/" + strings.Trim(size, "/") + "/" + strings.TrimLeft(item.Thumbnail(), "/")
}
