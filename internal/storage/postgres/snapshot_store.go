package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Upsert writes a snapshot, overwriting any existing row for the same
// (kol_id, month) key.
func (s *SnapshotStore) Upsert(ctx context.Context, snap *domain.PNLSnapshot) error {
	if snap == nil || snap.KOLID == "" || snap.Month == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO pnl_snapshots (
			kol_id, month, pnl_native, pnl_usd, win_count, loss_count, total_trades, win_rate, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (kol_id, month) DO UPDATE SET
			pnl_native = EXCLUDED.pnl_native,
			pnl_usd = EXCLUDED.pnl_usd,
			win_count = EXCLUDED.win_count,
			loss_count = EXCLUDED.loss_count,
			total_trades = EXCLUDED.total_trades,
			win_rate = EXCLUDED.win_rate,
			fetched_at = EXCLUDED.fetched_at
	`

	_, err := s.pool.Exec(ctx, query,
		snap.KOLID,
		snap.Month,
		snap.PnlNative,
		snap.PnlUsd,
		snap.WinCount,
		snap.LossCount,
		snap.TotalTrades,
		snap.WinRate,
		snap.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pnl snapshot: %w", err)
	}
	return nil
}

// GetByKOLMonth retrieves one snapshot. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByKOLMonth(ctx context.Context, kolID, month string) (*domain.PNLSnapshot, error) {
	query := `
		SELECT kol_id, month, pnl_native, pnl_usd, win_count, loss_count, total_trades, win_rate, fetched_at
		FROM pnl_snapshots
		WHERE kol_id = $1 AND month = $2
	`

	var snap domain.PNLSnapshot
	err := s.pool.QueryRow(ctx, query, kolID, month).Scan(
		&snap.KOLID,
		&snap.Month,
		&snap.PnlNative,
		&snap.PnlUsd,
		&snap.WinCount,
		&snap.LossCount,
		&snap.TotalTrades,
		&snap.WinRate,
		&snap.FetchedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot by kol and month: %w", err)
	}
	return &snap, nil
}

// GetByMonth retrieves all snapshots for a month, ordered by PnlNative DESC.
func (s *SnapshotStore) GetByMonth(ctx context.Context, month string) ([]*domain.PNLSnapshot, error) {
	query := `
		SELECT kol_id, month, pnl_native, pnl_usd, win_count, loss_count, total_trades, win_rate, fetched_at
		FROM pnl_snapshots
		WHERE month = $1
		ORDER BY pnl_native DESC, kol_id ASC
	`

	rows, err := s.pool.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by month: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// scanSnapshots scans multiple rows into a slice of PNLSnapshot.
func scanSnapshots(rows pgx.Rows) ([]*domain.PNLSnapshot, error) {
	var snaps []*domain.PNLSnapshot

	for rows.Next() {
		var snap domain.PNLSnapshot
		err := rows.Scan(
			&snap.KOLID,
			&snap.Month,
			&snap.PnlNative,
			&snap.PnlUsd,
			&snap.WinCount,
			&snap.LossCount,
			&snap.TotalTrades,
			&snap.WinRate,
			&snap.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snaps, nil
}
