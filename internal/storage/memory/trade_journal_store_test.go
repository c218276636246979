package memory

import (
	"context"
	"errors"
	"testing"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/storage"
)

func TestTradeJournalStore_InsertBulkAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewTradeJournalStore()

	entries := []*domain.TradeJournalEntry{
		{KOLID: "kol-1", Signature: "sig-2", Timestamp: 200, Direction: domain.TradeSell, RealizedPnl: 1.0},
		{KOLID: "kol-1", Signature: "sig-1", Timestamp: 100, Direction: domain.TradeBuy},
		{KOLID: "kol-2", Signature: "sig-3", Timestamp: 50, Direction: domain.TradeBuy},
	}
	if err := store.InsertBulk(ctx, entries); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.GetByKOLID(ctx, "kol-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for kol-1, got %d", len(got))
	}
	if got[0].Signature != "sig-1" || got[1].Signature != "sig-2" {
		t.Errorf("expected timestamp-ascending order, got %s, %s", got[0].Signature, got[1].Signature)
	}
}

func TestTradeJournalStore_InsertBulk_EmptyIsNoop(t *testing.T) {
	store := NewTradeJournalStore()

	if err := store.InsertBulk(context.Background(), nil); err != nil {
		t.Errorf("expected nil for empty batch, got %v", err)
	}
}

func TestTradeJournalStore_InsertBulk_Invalid(t *testing.T) {
	store := NewTradeJournalStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.TradeJournalEntry{
		{KOLID: "kol-1", Signature: "sig-1", Timestamp: 100},
		{KOLID: "", Signature: "sig-2", Timestamp: 200},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Validation happens before any append, so a bad batch writes nothing.
	got, _ := store.GetByKOLID(ctx, "kol-1")
	if len(got) != 0 {
		t.Errorf("expected no partial write, got %d entries", len(got))
	}
}

func TestTradeJournalStore_UnknownKOL(t *testing.T) {
	store := NewTradeJournalStore()

	got, err := store.GetByKOLID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
