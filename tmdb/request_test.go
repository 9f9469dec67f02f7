package tmdb

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestBuilder(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		apiKey   string
		wantErr  error
		errMsg   string
	}{
		{name: "valid", endpoint: "https://api.themoviedb.org/3/discover/movie", apiKey: "key"},
		{name: "default endpoint", endpoint: "", apiKey: "key"},
		{name: "missing credential", endpoint: DefaultDiscoverURL, apiKey: "", wantErr: ErrMissingCredential},
		{name: "blank credential", endpoint: DefaultDiscoverURL, apiKey: "   ", wantErr: ErrMissingCredential},
		{name: "relative endpoint", endpoint: "/discover/movie", apiKey: "key", errMsg: "scheme and host are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, err := NewRequestBuilder(tt.endpoint, tt.apiKey)
			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
				assert.NotNil(t, builder)
			}
		})
	}
}

func TestRequestBuilderBuild(t *testing.T) {
	builder, err := NewRequestBuilder("https://api.themoviedb.org/3/discover/movie/", "secret")
	require.NoError(t, err)

	tests := []struct {
		order  SortOrder
		sortBy string
	}{
		{MostPopular, "popularity.desc"},
		{TopRated, "vote_average.desc"},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			req, err := builder.Build(tt.order)
			require.NoError(t, err)
			assert.Equal(t, "GET", req.Method)
			assert.Equal(t, tt.order, req.Order)

			u, err := url.Parse(req.URL)
			require.NoError(t, err)
			assert.Equal(t, "api.themoviedb.org", u.Host)
			assert.Equal(t, "/3/discover/movie", u.Path)
			assert.Equal(t, "secret", u.Query().Get("api_key"))
			assert.Equal(t, tt.sortBy, u.Query().Get("sort_by"))
			assert.Len(t, u.Query(), 2)

			again, err := builder.Build(tt.order)
			require.NoError(t, err)
			assert.Equal(t, req, again)
		})
	}

	_, err = builder.Build(SortOrder(7))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSortOrder))
}

func TestRequestRedacted(t *testing.T) {
	builder, err := NewRequestBuilder(DefaultDiscoverURL, "secret")
	require.NoError(t, err)

	req, err := builder.Build(TopRated)
	require.NoError(t, err)
	assert.NotContains(t, req.Redacted(), "secret")
	assert.Contains(t, req.Redacted(), "sort_by=vote_average.desc")
}

func TestSortOrder(t *testing.T) {
	assert.Equal(t, "popular", MostPopular.String())
	assert.Equal(t, "top_rated", TopRated.String())
	assert.Equal(t, "Most Popular", MostPopular.Label())
	assert.Equal(t, "Top Rated", TopRated.Label())
	assert.True(t, MostPopular.Valid())
	assert.False(t, SortOrder(-1).Valid())
	assert.Empty(t, SortOrder(2).QueryValue())

	tests := []struct {
		choice   string
		expected SortOrder
		wantErr  bool
	}{
		{"popular", MostPopular, false},
		{"Most-Popular", MostPopular, false},
		{" most popular ", MostPopular, false},
		{"top_rated", TopRated, false},
		{"TOP-RATED", TopRated, false},
		{"toprated", TopRated, false},
		{"newest", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			got, err := ParseSortOrder(tt.choice)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSortOrder))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
