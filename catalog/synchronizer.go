package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/discoverr/tmdb"
)

// Fetcher runs a single fetch for a sort order
type Fetcher interface {
	Fetch(ctx context.Context, order tmdb.SortOrder) tmdb.Outcome
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, order tmdb.SortOrder) tmdb.Outcome

// Fetch calls f(ctx, order)
func (f FetcherFunc) Fetch(ctx context.Context, order tmdb.SortOrder) tmdb.Outcome {
	return f(ctx, order)
}

// Synchronizer keeps a ListState in line with the most recently started fetch.
//
// Every Refresh clears the list, switches to loading and starts a fetch
// tagged with a new generation. An outcome is applied only if its generation
// is still the current one, so a refresh supersedes any fetch started before
// it regardless of which finishes first.
type Synchronizer struct {
	fetcher Fetcher
	policy  *SortOrderPolicy
	logger  zerolog.Logger

	// notifyMu orders state changes together with their notifications
	notifyMu    sync.Mutex
	mu          sync.RWMutex
	state       ListState
	generation  uint64
	subscribers map[int]func(ListState)
	nextID      int

	wg sync.WaitGroup
}

// NewSynchronizer creates a Synchronizer. A nil policy is replaced by a fresh
// SortOrderPolicy.
func NewSynchronizer(fetcher Fetcher, policy *SortOrderPolicy, logger zerolog.Logger) *Synchronizer {
	if policy == nil {
		policy = NewSortOrderPolicy()
	}

	return &Synchronizer{
		fetcher: fetcher,
		policy:  policy,
		logger:  logger,
		state: ListState{
			Items:      []tmdb.CatalogItem{},
			Visibility: VisibilityLoading,
			Order:      policy.Current(),
		},
		subscribers: make(map[int]func(ListState)),
	}
}

// Policy returns the sort order policy driving RefreshCurrent
func (s *Synchronizer) Policy() *SortOrderPolicy {
	return s.policy
}

// State returns a copy of the current list state
func (s *Synchronizer) State() ListState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Generation returns the generation of the most recent refresh
func (s *Synchronizer) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Subscribe registers fn to receive every state change, in order. fn must
// not call Refresh synchronously. The returned function removes the
// subscription.
func (s *Synchronizer) Subscribe(fn func(ListState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Refresh clears the list, marks it as loading and starts fetching order in
// the background. It returns the generation assigned to this refresh.
func (s *Synchronizer) Refresh(ctx context.Context, order tmdb.SortOrder) (uint64, error) {
	if !order.Valid() {
		return 0, fmt.Errorf("%w: %d", tmdb.ErrInvalidSortOrder, int(order))
	}

	s.notifyMu.Lock()
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.state = ListState{
		Items:      []tmdb.CatalogItem{},
		Visibility: VisibilityLoading,
		Order:      order,
		Generation: generation,
	}
	snapshot, subscribers := s.snapshotLocked()
	s.mu.Unlock()
	notify(subscribers, snapshot)
	s.notifyMu.Unlock()

	s.logger.Debug().
		Uint64("generation", generation).
		Str("sort", order.String()).
		Msg("Refreshing movie list")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.apply(generation, s.fetcher.Fetch(ctx, order))
	}()

	return generation, nil
}

// RefreshCurrent refreshes using the policy's current sort order
func (s *Synchronizer) RefreshCurrent(ctx context.Context) (uint64, error) {
	return s.Refresh(ctx, s.policy.Current())
}

// ChangeSortOrder makes order current and refreshes the list with it
func (s *Synchronizer) ChangeSortOrder(ctx context.Context, order tmdb.SortOrder) (uint64, error) {
	if _, err := s.policy.Set(order); err != nil {
		return 0, err
	}
	return s.Refresh(ctx, order)
}

// Wait blocks until every fetch started by Refresh has been applied or discarded
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

// apply reconciles an outcome with the list state. Outcomes from superseded
// generations are dropped and apply reports false.
func (s *Synchronizer) apply(generation uint64, outcome tmdb.Outcome) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if generation != s.generation {
		current := s.generation
		s.mu.Unlock()
		s.logger.Debug().
			Uint64("generation", generation).
			Uint64("current", current).
			Msg("Discarding superseded fetch outcome")
		return false
	}

	next := ListState{
		Items:      []tmdb.CatalogItem{},
		Order:      s.state.Order,
		Generation: generation,
	}

	switch {
	case !outcome.OK():
		next.Visibility = VisibilityEmptyOrError
		next.Reason = reasonFor(outcome.Reason)
	case len(outcome.Items) == 0:
		next.Visibility = VisibilityEmptyOrError
		next.Reason = ReasonNoResults
	default:
		next.Items = append(next.Items, outcome.Items...)
		next.Visibility = VisibilityContent
	}

	s.state = next
	snapshot, subscribers := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().
		Uint64("generation", generation).
		Stringer("visibility", next.Visibility).
		Stringer("reason", next.Reason).
		Int("count", len(next.Items)).
		Msg("Applied fetch outcome")

	notify(subscribers, snapshot)
	return true
}

// snapshotLocked must be called with mu held
func (s *Synchronizer) snapshotLocked() (ListState, []func(ListState)) {
	subscribers := make([]func(ListState), 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	return s.state.clone(), subscribers
}

func notify(subscribers []func(ListState), state ListState) {
	for _, fn := range subscribers {
		fn(state)
	}
}
