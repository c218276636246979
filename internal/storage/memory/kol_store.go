package memory

import (
	"context"
	"sort"
	"sync"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/storage"
)

// KOLStore is an in-memory implementation of storage.KOLStore.
type KOLStore struct {
	mu   sync.RWMutex
	data map[string]*domain.KOL // keyed by KOL ID
}

// NewKOLStore creates a new in-memory KOL store.
func NewKOLStore() *KOLStore {
	return &KOLStore{data: make(map[string]*domain.KOL)}
}

// Insert adds or replaces a KOL. Used for seeding tests and -use-memory mode.
func (s *KOLStore) Insert(_ context.Context, k *domain.KOL) error {
	if k == nil || k.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *k
	s.data[k.ID] = &copy
	return nil
}

// GetByID retrieves a KOL by its ID. Returns ErrNotFound if not exists.
func (s *KOLStore) GetByID(_ context.Context, kolID string) (*domain.KOL, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, ok := s.data[kolID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *k
	return &copy, nil
}

// ListWithWallet retrieves all KOLs that have a wallet address set,
// ordered by creation time ASC.
func (s *KOLStore) ListWithWallet(_ context.Context) ([]*domain.KOL, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.KOL
	for _, k := range s.data {
		if !k.HasWallet() {
			continue
		}
		copy := *k
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

var _ storage.KOLStore = (*KOLStore)(nil)
