package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PNLSnapshot // keyed by kol_id|month
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{data: make(map[string]*domain.PNLSnapshot)}
}

// snapshotKey generates a unique key for a snapshot.
func snapshotKey(kolID, month string) string {
	return fmt.Sprintf("%s|%s", kolID, month)
}

// Upsert writes a snapshot, overwriting any existing row for the same key.
func (s *SnapshotStore) Upsert(_ context.Context, snap *domain.PNLSnapshot) error {
	if snap == nil || snap.KOLID == "" || snap.Month == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *snap
	s.data[snapshotKey(snap.KOLID, snap.Month)] = &copy
	return nil
}

// GetByKOLMonth retrieves one snapshot. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByKOLMonth(_ context.Context, kolID, month string) (*domain.PNLSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[snapshotKey(kolID, month)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *snap
	return &copy, nil
}

// GetByMonth retrieves all snapshots for a month, ordered by PnlNative DESC.
func (s *SnapshotStore) GetByMonth(_ context.Context, month string) ([]*domain.PNLSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PNLSnapshot
	for _, snap := range s.data {
		if snap.Month == month {
			copy := *snap
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].PnlNative != result[j].PnlNative {
			return result[i].PnlNative > result[j].PnlNative
		}
		return result[i].KOLID < result[j].KOLID
	})

	return result, nil
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)
