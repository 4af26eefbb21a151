package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/RhyVis/uni-remote/internal/slogger"
)

// Fetcher retrieves the full entry list from the uni server.
type Fetcher interface {
	// ListAll returns every catalog entry in server order.
	ListAll(ctx context.Context) ([]Entry, error)
}

// Store owns the single in-memory copy of the fetched catalog.
//
// Refresh is the only mutator. Overlapping Refresh calls race and the last
// fetch to resolve wins; callers that want to avoid wasted work trigger
// Refresh once up front.
type Store struct {
	fetcher Fetcher

	mu      sync.RWMutex
	entries []Entry
}

// NewStore creates an empty store backed by the given fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{fetcher: fetcher}
}

// Refresh fetches the catalog and replaces the held entries with the
// response, all or nothing. On failure the previous entries stay in place
// and the error is logged; nothing propagates to the caller, who simply
// observes that no new data arrived.
func (s *Store) Refresh(ctx context.Context) {
	entries, err := s.fetcher.ListAll(ctx)
	if err != nil {
		slogger.L(ctx).Error("catalog refresh failed, keeping previous entries", "error", err)
		return
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	slogger.L(ctx).Debug("catalog refreshed", "entries", len(entries))
}

// Entries returns a copy of the current entry list in server order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports how many entries the store currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get retrieves an entry by id.
// Returns ErrEntryNotFound if not found.
func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}
