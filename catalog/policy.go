package catalog

import (
	"fmt"
	"sync"

	"github.com/s0up4200/discoverr/tmdb"
)

// SortOrderPolicy holds the currently selected sort order
type SortOrderPolicy struct {
	mu      sync.RWMutex
	current tmdb.SortOrder
}

// NewSortOrderPolicy creates a policy starting at MostPopular
func NewSortOrderPolicy() *SortOrderPolicy {
	return &SortOrderPolicy{current: tmdb.MostPopular}
}

// Current returns the active sort order
func (p *SortOrderPolicy) Current() tmdb.SortOrder {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Set makes order the active sort order. Values outside the supported
// sort orders are rejected and leave the policy unchanged.
func (p *SortOrderPolicy) Set(order tmdb.SortOrder) (tmdb.SortOrder, error) {
	if !order.Valid() {
		return p.Current(), fmt.Errorf("%w: %d", tmdb.ErrInvalidSortOrder, int(order))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = order
	return order, nil
}

// SetChoice parses a user facing choice and makes it the active sort order
func (p *SortOrderPolicy) SetChoice(choice string) (tmdb.SortOrder, error) {
	order, err := tmdb.ParseSortOrder(choice)
	if err != nil {
		return p.Current(), err
	}
	return p.Set(order)
}
