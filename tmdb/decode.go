package tmdb

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Field names of the discover response
const (
	fieldTotalResults  = "total_results"
	fieldResults       = "results"
	fieldOriginalTitle = "original_title"
	fieldPosterPath    = "poster_path"
	fieldOverview      = "overview"
	fieldVoteAverage   = "vote_average"
	fieldReleaseDate   = "release_date"
)

// Decode parses a discover response into catalog items, preserving the
// order of the results array. Individual fields that are missing or of the
// wrong type fall back to their zero value; only an unparseable payload or
// a missing or non-array results collection is an error.
func Decode(payload []byte) ([]CatalogItem, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, &DecodeError{Reason: "payload is not a JSON object", Err: err}
	}
	if envelope == nil {
		return nil, &DecodeError{Reason: "payload is not a JSON object"}
	}

	if raw, ok := envelope[fieldTotalResults]; ok {
		if total, ok := optNumber(raw); ok && total <= 0 {
			return []CatalogItem{}, nil
		}
	}

	raw, ok := envelope[fieldResults]
	if !ok {
		return nil, &DecodeError{Reason: "missing results array"}
	}
	if !isArray(raw) {
		return nil, &DecodeError{Reason: "results is not an array"}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &DecodeError{Reason: "results is not an array", Err: err}
	}

	items := make([]CatalogItem, 0, len(elements))
	for _, element := range elements {
		items = append(items, decodeItem(element))
	}

	return items, nil
}

// DecodeString is a convenience wrapper around Decode
func DecodeString(payload string) ([]CatalogItem, error) {
	return Decode([]byte(payload))
}

func decodeItem(raw json.RawMessage) CatalogItem {
	var fields map[string]json.RawMessage
	// A non-object element decodes to an item with every field defaulted
	_ = json.Unmarshal(raw, &fields)

	item := CatalogItem{
		Title:       optString(fields[fieldOriginalTitle]),
		Synopsis:    optString(fields[fieldOverview]),
		ReleaseDate: optString(fields[fieldReleaseDate]),
	}

	if poster, ok := lookupString(fields[fieldPosterPath]); ok {
		item.ThumbnailPath = &poster
	}

	if rating, ok := optNumber(fields[fieldVoteAverage]); ok {
		item.Rating = rating
	}

	return item
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// isNull reports whether raw is absent or a JSON null, both of which
// json.Unmarshal would otherwise accept into a zero value
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func optString(raw json.RawMessage) string {
	s, _ := lookupString(raw)
	return s
}

func lookupString(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// optNumber accepts JSON numbers and numeric strings, rejecting NaN and infinities
func optNumber(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
