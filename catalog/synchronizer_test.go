package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/discoverr/tmdb"
)

// gatedFetcher blocks each fetch until the test releases an outcome for its sort order
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[tmdb.SortOrder]chan tmdb.Outcome
	calls []tmdb.SortOrder
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[tmdb.SortOrder]chan tmdb.Outcome)}
}

func (f *gatedFetcher) gate(order tmdb.SortOrder) chan tmdb.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.gates[order]
	if !ok {
		ch = make(chan tmdb.Outcome, 1)
		f.gates[order] = ch
	}
	return ch
}

func (f *gatedFetcher) Fetch(ctx context.Context, order tmdb.SortOrder) tmdb.Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, order)
	f.mu.Unlock()
	return <-f.gate(order)
}

func (f *gatedFetcher) release(order tmdb.SortOrder, outcome tmdb.Outcome) {
	f.gate(order) <- outcome
}

func items(titles ...string) []tmdb.CatalogItem {
	result := make([]tmdb.CatalogItem, 0, len(titles))
	for _, title := range titles {
		result = append(result, tmdb.CatalogItem{Title: title})
	}
	return result
}

func TestSynchronizerInitialState(t *testing.T) {
	s := NewSynchronizer(newGatedFetcher(), nil, zerolog.Nop())

	state := s.State()
	assert.Equal(t, VisibilityLoading, state.Visibility)
	assert.Empty(t, state.Items)
	assert.Equal(t, tmdb.MostPopular, state.Order)
	assert.Zero(t, s.Generation())
}

func TestSynchronizerRefreshOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		outcome    tmdb.Outcome
		visibility Visibility
		reason     Reason
		titles     []string
	}{
		{
			name:       "content",
			outcome:    tmdb.Succeeded(tmdb.MostPopular, items("A", "B")),
			visibility: VisibilityContent,
			reason:     ReasonNone,
			titles:     []string{"A", "B"},
		},
		{
			name:       "no results",
			outcome:    tmdb.Succeeded(tmdb.MostPopular, nil),
			visibility: VisibilityEmptyOrError,
			reason:     ReasonNoResults,
		},
		{
			name:       "no connectivity",
			outcome:    tmdb.Failed(tmdb.MostPopular, tmdb.ReasonNoConnectivity, tmdb.ErrNoConnectivity),
			visibility: VisibilityEmptyOrError,
			reason:     ReasonNoConnectivity,
		},
		{
			name:       "server error",
			outcome:    tmdb.Failed(tmdb.MostPopular, tmdb.ReasonServerError, tmdb.ErrServerError),
			visibility: VisibilityEmptyOrError,
			reason:     ReasonServerError,
		},
		{
			name:       "decode error",
			outcome:    tmdb.Failed(tmdb.MostPopular, tmdb.ReasonDecodeError, tmdb.ErrDecode),
			visibility: VisibilityEmptyOrError,
			reason:     ReasonDecodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newGatedFetcher()
			s := NewSynchronizer(fetcher, nil, zerolog.Nop())

			generation, err := s.Refresh(context.Background(), tmdb.MostPopular)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), generation)

			loading := s.State()
			assert.Equal(t, VisibilityLoading, loading.Visibility)
			assert.Empty(t, loading.Items)

			fetcher.release(tmdb.MostPopular, tt.outcome)
			s.Wait()

			state := s.State()
			assert.Equal(t, tt.visibility, state.Visibility)
			assert.Equal(t, tt.reason, state.Reason)
			assert.Equal(t, generation, state.Generation)

			titles := []string{}
			for _, item := range state.Items {
				titles = append(titles, item.Title)
			}
			if tt.titles == nil {
				assert.Empty(t, titles)
			} else {
				assert.Equal(t, tt.titles, titles)
			}
		})
	}
}

func TestSynchronizerClearsBeforeFetch(t *testing.T) {
	fetcher := newGatedFetcher()
	s := NewSynchronizer(fetcher, nil, zerolog.Nop())

	_, err := s.Refresh(context.Background(), tmdb.MostPopular)
	require.NoError(t, err)
	fetcher.release(tmdb.MostPopular, tmdb.Succeeded(tmdb.MostPopular, items("Old")))
	s.Wait()
	require.Equal(t, VisibilityContent, s.State().Visibility)

	_, err = s.Refresh(context.Background(), tmdb.MostPopular)
	require.NoError(t, err)

	state := s.State()
	assert.Equal(t, VisibilityLoading, state.Visibility)
	assert.Empty(t, state.Items)

	fetcher.release(tmdb.MostPopular, tmdb.Failed(tmdb.MostPopular, tmdb.ReasonServerError, tmdb.ErrServerError))
	s.Wait()

	state = s.State()
	assert.Equal(t, VisibilityEmptyOrError, state.Visibility)
	assert.Equal(t, ReasonServerError, state.Reason)
	assert.Empty(t, state.Items)
}

func TestSynchronizerSupersession(t *testing.T) {
	tests := []struct {
		name         string
		popularFirst bool
	}{
		{name: "stale outcome arrives last", popularFirst: false},
		{name: "stale outcome arrives first", popularFirst: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newGatedFetcher()
			s := NewSynchronizer(fetcher, nil, zerolog.Nop())
			ctx := context.Background()

			first, err := s.Refresh(ctx, tmdb.MostPopular)
			require.NoError(t, err)
			second, err := s.Refresh(ctx, tmdb.TopRated)
			require.NoError(t, err)
			assert.Greater(t, second, first)

			popular := tmdb.Succeeded(tmdb.MostPopular, items("Popular"))
			rated := tmdb.Succeeded(tmdb.TopRated, items("Rated 1", "Rated 2"))

			if tt.popularFirst {
				fetcher.release(tmdb.MostPopular, popular)
				fetcher.release(tmdb.TopRated, rated)
			} else {
				fetcher.release(tmdb.TopRated, rated)
				require.Eventually(t, func() bool {
					return s.State().Visibility == VisibilityContent
				}, time.Second, 5*time.Millisecond)
				fetcher.release(tmdb.MostPopular, popular)
			}
			s.Wait()

			state := s.State()
			assert.Equal(t, VisibilityContent, state.Visibility)
			assert.Equal(t, tmdb.TopRated, state.Order)
			assert.Equal(t, second, state.Generation)
			assert.Equal(t, items("Rated 1", "Rated 2"), state.Items)
		})
	}
}

func TestSynchronizerApplyDiscardsStaleGeneration(t *testing.T) {
	fetcher := newGatedFetcher()
	s := NewSynchronizer(fetcher, nil, zerolog.Nop())

	first, err := s.Refresh(context.Background(), tmdb.MostPopular)
	require.NoError(t, err)
	_, err = s.Refresh(context.Background(), tmdb.TopRated)
	require.NoError(t, err)

	assert.False(t, s.apply(first, tmdb.Succeeded(tmdb.MostPopular, items("stale"))))
	assert.Equal(t, VisibilityLoading, s.State().Visibility)

	fetcher.release(tmdb.MostPopular, tmdb.Succeeded(tmdb.MostPopular, items("stale")))
	fetcher.release(tmdb.TopRated, tmdb.Succeeded(tmdb.TopRated, nil))
	s.Wait()
	assert.Equal(t, ReasonNoResults, s.State().Reason)
}

func TestSynchronizerSubscribe(t *testing.T) {
	fetcher := newGatedFetcher()
	s := NewSynchronizer(fetcher, nil, zerolog.Nop())

	var (
		mu     sync.Mutex
		events []Visibility
	)
	cancel := s.Subscribe(func(state ListState) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, state.Visibility)
	})

	_, err := s.Refresh(context.Background(), tmdb.MostPopular)
	require.NoError(t, err)
	fetcher.release(tmdb.MostPopular, tmdb.Succeeded(tmdb.MostPopular, items("A")))
	s.Wait()

	mu.Lock()
	assert.Equal(t, []Visibility{VisibilityLoading, VisibilityContent}, events)
	mu.Unlock()

	cancel()
	_, err = s.Refresh(context.Background(), tmdb.MostPopular)
	require.NoError(t, err)
	fetcher.release(tmdb.MostPopular, tmdb.Succeeded(tmdb.MostPopular, items("B")))
	s.Wait()

	mu.Lock()
	assert.Len(t, events, 2)
	mu.Unlock()
}

func TestSynchronizerChangeSortOrder(t *testing.T) {
	fetcher := newGatedFetcher()
	policy := NewSortOrderPolicy()
	s := NewSynchronizer(fetcher, policy, zerolog.Nop())

	_, err := s.ChangeSortOrder(context.Background(), tmdb.TopRated)
	require.NoError(t, err)
	assert.Equal(t, tmdb.TopRated, policy.Current())
	assert.Equal(t, tmdb.TopRated, s.State().Order)

	fetcher.release(tmdb.TopRated, tmdb.Succeeded(tmdb.TopRated, items("A")))
	s.Wait()

	_, err = s.ChangeSortOrder(context.Background(), tmdb.SortOrder(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tmdb.ErrInvalidSortOrder))
	assert.Equal(t, tmdb.TopRated, policy.Current())
	assert.Equal(t, uint64(1), s.Generation())

	_, err = s.RefreshCurrent(context.Background())
	require.NoError(t, err)
	fetcher.release(tmdb.TopRated, tmdb.Succeeded(tmdb.TopRated, items("B")))
	s.Wait()

	fetcher.mu.Lock()
	assert.Equal(t, []tmdb.SortOrder{tmdb.TopRated, tmdb.TopRated}, fetcher.calls)
	fetcher.mu.Unlock()
}

func TestSynchronizerStateIsACopy(t *testing.T) {
	fetcher := newGatedFetcher()
	s := NewSynchronizer(fetcher, nil, zerolog.Nop())

	_, err := s.Refresh(context.Background(), tmdb.MostPopular)
	require.NoError(t, err)
	fetcher.release(tmdb.MostPopular, tmdb.Succeeded(tmdb.MostPopular, items("A")))
	s.Wait()

	state := s.State()
	state.Items[0].Title = "mutated"
	assert.Equal(t, "A", s.State().Items[0].Title)
}

// End-to-end scenarios through the real client and an HTTP test server

func newEndToEnd(t *testing.T, handler http.HandlerFunc, opts ...tmdb.Option) *Synchronizer {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := tmdb.NewClient(server.URL+"/3/discover/movie", "key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return NewSynchronizer(client, NewSortOrderPolicy(), zerolog.Nop())
}

func TestEndToEndContent(t *testing.T) {
	s := newEndToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_results":2,"results":[{"original_title":"X","vote_average":7.5},{"original_title":"Y"}]}`))
	})

	_, err := s.RefreshCurrent(context.Background())
	require.NoError(t, err)
	s.Wait()

	state := s.State()
	assert.Equal(t, VisibilityContent, state.Visibility)
	require.Len(t, state.Items, 2)
	assert.Equal(t, tmdb.CatalogItem{Title: "X", Rating: 7.5}, state.Items[0])
	assert.Nil(t, state.Items[0].ThumbnailPath)
	assert.Equal(t, tmdb.CatalogItem{Title: "Y"}, state.Items[1])
}

func TestEndToEndNoConnectivity(t *testing.T) {
	s := newEndToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without connectivity")
	}, tmdb.WithProber(tmdb.ProberFunc(func(ctx context.Context) bool { return false })))

	_, err := s.RefreshCurrent(context.Background())
	require.NoError(t, err)
	s.Wait()

	state := s.State()
	assert.Equal(t, VisibilityEmptyOrError, state.Visibility)
	assert.Equal(t, ReasonNoConnectivity, state.Reason)
	assert.Equal(t, MessageNoConnectivity, state.Reason.Message())
	assert.Empty(t, state.Items)
}

func TestEndToEndServerError(t *testing.T) {
	s := newEndToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := s.RefreshCurrent(context.Background())
	require.NoError(t, err)
	s.Wait()

	state := s.State()
	assert.Equal(t, VisibilityEmptyOrError, state.Visibility)
	assert.Equal(t, ReasonServerError, state.Reason)
	assert.Equal(t, MessageGeneral, state.Reason.Message())
	assert.Empty(t, state.Items)
}

func TestEndToEndSortSwitch(t *testing.T) {
	releasePopular := make(chan struct{})
	s := newEndToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("sort_by") {
		case "popularity.desc":
			<-releasePopular
			w.Write([]byte(`{"results":[{"original_title":"Popular"}]}`))
		case "vote_average.desc":
			w.Write([]byte(`{"results":[{"original_title":"Rated","vote_average":9.1}]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	ctx := context.Background()
	_, err := s.Refresh(ctx, tmdb.MostPopular)
	require.NoError(t, err)
	_, err = s.ChangeSortOrder(ctx, tmdb.TopRated)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.State().Visibility == VisibilityContent
	}, 2*time.Second, 5*time.Millisecond)

	close(releasePopular)
	s.Wait()

	state := s.State()
	assert.Equal(t, tmdb.TopRated, state.Order)
	assert.Equal(t, []tmdb.CatalogItem{{Title: "Rated", Rating: 9.1}}, state.Items)
}
