package storage

import (
	"context"

	"rotten-trenches/internal/domain"
)

// KOLStore provides read access to tracked KOLs.
type KOLStore interface {
	// GetByID retrieves a KOL by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, kolID string) (*domain.KOL, error)

	// ListWithWallet retrieves all KOLs that have a wallet address set,
	// ordered by creation time ASC.
	ListWithWallet(ctx context.Context) ([]*domain.KOL, error)
}

// SnapshotStore provides access to monthly PNL snapshots.
type SnapshotStore interface {
	// Upsert writes a snapshot, overwriting any existing row for the same
	// (kol_id, month) key. Safe to call repeatedly within a month.
	Upsert(ctx context.Context, s *domain.PNLSnapshot) error

	// GetByKOLMonth retrieves one snapshot. Returns ErrNotFound if not exists.
	GetByKOLMonth(ctx context.Context, kolID, month string) (*domain.PNLSnapshot, error)

	// GetByMonth retrieves all snapshots for a month, ordered by PnlNative DESC.
	GetByMonth(ctx context.Context, month string) ([]*domain.PNLSnapshot, error)
}

// TradeJournalStore records classified trades for offline analytics.
type TradeJournalStore interface {
	// InsertBulk appends the trades observed during one KOL's run.
	InsertBulk(ctx context.Context, entries []*domain.TradeJournalEntry) error

	// GetByKOLID retrieves all journal entries for a KOL, ordered by
	// timestamp ASC.
	GetByKOLID(ctx context.Context, kolID string) ([]*domain.TradeJournalEntry, error)
}
