package postgres

import (
	"context"
	"fmt"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/storage"
)

// KOLStore implements storage.KOLStore using PostgreSQL.
type KOLStore struct {
	pool *Pool
}

// NewKOLStore creates a new KOLStore.
func NewKOLStore(pool *Pool) *KOLStore {
	return &KOLStore{pool: pool}
}

// Compile-time interface check.
var _ storage.KOLStore = (*KOLStore)(nil)

// Insert adds a new KOL. Used for seeding and tests.
func (s *KOLStore) Insert(ctx context.Context, k *domain.KOL) error {
	query := `
		INSERT INTO kols (id, name, wallet_address, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, k.ID, k.Name, k.WalletAddress, k.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert kol: %w", err)
	}
	return nil
}

// GetByID retrieves a KOL by its ID. Returns ErrNotFound if not exists.
func (s *KOLStore) GetByID(ctx context.Context, kolID string) (*domain.KOL, error) {
	query := `
		SELECT id, name, wallet_address, created_at
		FROM kols
		WHERE id = $1
	`

	var k domain.KOL
	err := s.pool.QueryRow(ctx, query, kolID).Scan(&k.ID, &k.Name, &k.WalletAddress, &k.CreatedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get kol by id: %w", err)
	}
	return &k, nil
}

// ListWithWallet retrieves all KOLs that have a wallet address set,
// ordered by creation time ASC.
func (s *KOLStore) ListWithWallet(ctx context.Context) ([]*domain.KOL, error) {
	query := `
		SELECT id, name, wallet_address, created_at
		FROM kols
		WHERE wallet_address <> ''
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list kols with wallet: %w", err)
	}
	defer rows.Close()

	var kols []*domain.KOL
	for rows.Next() {
		var k domain.KOL
		if err := rows.Scan(&k.ID, &k.Name, &k.WalletAddress, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan kol row: %w", err)
		}
		kols = append(kols, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kol rows: %w", err)
	}

	return kols, nil
}
