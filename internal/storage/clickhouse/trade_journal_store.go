package clickhouse

import (
	"context"
	"fmt"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/storage"
)

// TradeJournalStore implements storage.TradeJournalStore using ClickHouse.
// The journal is analytics data: append-heavy, queried offline.
type TradeJournalStore struct {
	conn *Conn
}

// NewTradeJournalStore creates a new TradeJournalStore.
func NewTradeJournalStore(conn *Conn) *TradeJournalStore {
	return &TradeJournalStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeJournalStore = (*TradeJournalStore)(nil)

// InsertBulk appends the trades observed during one KOL's run.
func (s *TradeJournalStore) InsertBulk(ctx context.Context, entries []*domain.TradeJournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_journal (
			kol_id, wallet, signature, timestamp, direction, token_mint, token_amount, native_amount, realized_pnl
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare trade journal batch: %w", err)
	}

	for _, e := range entries {
		if e == nil || e.KOLID == "" || e.Signature == "" {
			return storage.ErrInvalidInput
		}
		err := batch.Append(
			e.KOLID,
			e.Wallet,
			e.Signature,
			e.Timestamp,
			string(e.Direction),
			e.TokenMint,
			e.TokenAmount,
			e.NativeAmount,
			e.RealizedPnl,
		)
		if err != nil {
			return fmt.Errorf("append trade journal entry: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send trade journal batch: %w", err)
	}
	return nil
}

// GetByKOLID retrieves all journal entries for a KOL, ordered by timestamp ASC.
func (s *TradeJournalStore) GetByKOLID(ctx context.Context, kolID string) ([]*domain.TradeJournalEntry, error) {
	query := `
		SELECT kol_id, wallet, signature, timestamp, direction, token_mint, token_amount, native_amount, realized_pnl
		FROM trade_journal
		WHERE kol_id = ?
		ORDER BY timestamp ASC, signature ASC
	`

	rows, err := s.conn.Query(ctx, query, kolID)
	if err != nil {
		return nil, fmt.Errorf("get trade journal by kol id: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TradeJournalEntry
	for rows.Next() {
		var e domain.TradeJournalEntry
		var direction string
		err := rows.Scan(
			&e.KOLID,
			&e.Wallet,
			&e.Signature,
			&e.Timestamp,
			&direction,
			&e.TokenMint,
			&e.TokenAmount,
			&e.NativeAmount,
			&e.RealizedPnl,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade journal row: %w", err)
		}
		e.Direction = domain.TradeDirection(direction)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade journal rows: %w", err)
	}

	return entries, nil
}
