package memory

import (
	"context"
	"sort"
	"sync"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/storage"
)

// TradeJournalStore is an in-memory implementation of storage.TradeJournalStore.
type TradeJournalStore struct {
	mu      sync.RWMutex
	entries []*domain.TradeJournalEntry
}

// NewTradeJournalStore creates a new in-memory trade journal store.
func NewTradeJournalStore() *TradeJournalStore {
	return &TradeJournalStore{}
}

// InsertBulk appends the trades observed during one KOL's run.
func (s *TradeJournalStore) InsertBulk(_ context.Context, entries []*domain.TradeJournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if e == nil || e.KOLID == "" || e.Signature == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		copy := *e
		s.entries = append(s.entries, &copy)
	}
	return nil
}

// GetByKOLID retrieves all journal entries for a KOL, ordered by timestamp ASC.
func (s *TradeJournalStore) GetByKOLID(_ context.Context, kolID string) ([]*domain.TradeJournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeJournalEntry
	for _, e := range s.entries {
		if e.KOLID == kolID {
			copy := *e
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].Signature < result[j].Signature
	})

	return result, nil
}

var _ storage.TradeJournalStore = (*TradeJournalStore)(nil)
