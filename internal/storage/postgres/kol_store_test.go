package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/storage"
	"rotten-trenches/internal/storage/postgres"
)

func TestKOLStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewKOLStore(pool)

	kol := &domain.KOL{
		ID:            "kol-1",
		Name:          "Trencher",
		WalletAddress: "wallet-1",
		CreatedAt:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, kol))

	got, err := store.GetByID(ctx, "kol-1")
	require.NoError(t, err)
	require.Equal(t, "Trencher", got.Name)
	require.Equal(t, "wallet-1", got.WalletAddress)
	require.True(t, got.CreatedAt.Equal(kol.CreatedAt))
}

func TestKOLStore_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewKOLStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	require.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestKOLStore_ListWithWallet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewKOLStore(pool)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	seed := []*domain.KOL{
		{ID: "c", Name: "Third", WalletAddress: "w3", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "a", Name: "First", WalletAddress: "w1", CreatedAt: base},
		{ID: "b", Name: "NoWallet", WalletAddress: "", CreatedAt: base.Add(time.Hour)},
	}
	for _, k := range seed {
		require.NoError(t, store.Insert(ctx, k))
	}

	got, err := store.ListWithWallet(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, "c", got[1].ID)
}
