package pnl

import (
	"math"
	"testing"

	"rotten-trenches/internal/domain"
)

const mintX = "MintXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
const mintY = "MintYYYYYYYYYYYYYYYYYYYYYYYYYYYY"

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func buy(mint string, native, qty float64, ts int64) domain.ClassifiedTrade {
	return domain.ClassifiedTrade{
		Direction: domain.TradeBuy, TokenMint: mint,
		NativeAmount: native, TokenAmount: qty, Timestamp: ts,
	}
}

func sell(mint string, native, qty float64, ts int64) domain.ClassifiedTrade {
	return domain.ClassifiedTrade{
		Direction: domain.TradeSell, TokenMint: mint,
		NativeAmount: native, TokenAmount: qty, Timestamp: ts,
	}
}

func TestFold_EmptyInput(t *testing.T) {
	totals := NewAccumulator().Fold(nil)

	if totals.TotalTrades != 0 {
		t.Errorf("expected 0 trades, got %d", totals.TotalTrades)
	}
	if totals.WinRate != 0 {
		t.Errorf("expected win rate 0 with zero trades, got %f", totals.WinRate)
	}
}

func TestFold_BuyThenSellAll(t *testing.T) {
	// Buy 10 of X for 2.0, sell all 10 for 3.0.
	totals := NewAccumulator().Fold([]domain.ClassifiedTrade{
		buy(mintX, 2.0, 10, 100),
		sell(mintX, 3.0, 10, 200),
	})

	if !almostEqual(totals.PnlNative, 1.0) {
		t.Errorf("expected pnl 1.0, got %f", totals.PnlNative)
	}
	if totals.WinCount != 1 || totals.LossCount != 0 {
		t.Errorf("expected 1 win 0 losses, got %d/%d", totals.WinCount, totals.LossCount)
	}
	// The buy leg counts toward TotalTrades, so the win rate denominator
	// includes it.
	if totals.TotalTrades != 2 {
		t.Errorf("expected 2 total trades, got %d", totals.TotalTrades)
	}
	if !almostEqual(totals.WinRate, 50.0) {
		t.Errorf("expected win rate 50.0, got %f", totals.WinRate)
	}
}

func TestFold_PartialSellLoss(t *testing.T) {
	// Buy 10 for 5.0, sell 4 for 1.0: basis 2.0, realized -1.0 → loss.
	acc := NewAccumulator()
	totals := acc.Fold([]domain.ClassifiedTrade{
		buy(mintX, 5.0, 10, 100),
		sell(mintX, 1.0, 4, 200),
	})

	if !almostEqual(totals.PnlNative, -1.0) {
		t.Errorf("expected pnl -1.0, got %f", totals.PnlNative)
	}
	if totals.LossCount != 1 {
		t.Errorf("expected 1 loss, got %d", totals.LossCount)
	}

	pos, ok := acc.OpenPositions()[mintX]
	if !ok {
		t.Fatal("expected open position after partial sell")
	}
	if !almostEqual(pos.TokenAmount, 6) || !almostEqual(pos.TotalCostNative, 3.0) {
		t.Errorf("expected qty 6 cost 3.0, got %+v", pos)
	}
}

func TestFold_SortsByTimestamp(t *testing.T) {
	// Most-recent-first input, as the ingestion API returns it. Folding
	// must reverse to chronological order or the sell would find no basis.
	totals := NewAccumulator().Fold([]domain.ClassifiedTrade{
		sell(mintX, 3.0, 10, 200),
		buy(mintX, 2.0, 10, 100),
	})

	if !almostEqual(totals.PnlNative, 1.0) {
		t.Errorf("expected pnl 1.0 after chronological fold, got %f", totals.PnlNative)
	}
}

func TestFold_NoCostBasisSellIsWin(t *testing.T) {
	totals := NewAccumulator().Fold([]domain.ClassifiedTrade{
		sell(mintX, 4.2, 10, 100),
	})

	if !almostEqual(totals.PnlNative, 4.2) {
		t.Errorf("expected full proceeds as profit, got %f", totals.PnlNative)
	}
	if totals.WinCount != 1 || totals.LossCount != 0 {
		t.Errorf("expected win, got %d/%d", totals.WinCount, totals.LossCount)
	}
}

func TestFold_ZeroPnlSellIsLoss(t *testing.T) {
	// Break-even sell falls on the loss side of the pnl > 0 check.
	totals := NewAccumulator().Fold([]domain.ClassifiedTrade{
		buy(mintX, 2.0, 10, 100),
		sell(mintX, 2.0, 10, 200),
	})

	if !almostEqual(totals.PnlNative, 0) {
		t.Errorf("expected pnl 0, got %f", totals.PnlNative)
	}
	if totals.WinCount != 0 || totals.LossCount != 1 {
		t.Errorf("expected break-even counted as loss, got %d/%d", totals.WinCount, totals.LossCount)
	}
}

func TestFold_MultiMintIsolation(t *testing.T) {
	acc := NewAccumulator()
	totals := acc.Fold([]domain.ClassifiedTrade{
		buy(mintX, 2.0, 10, 100),
		buy(mintY, 10.0, 5, 150),
		sell(mintX, 3.0, 10, 200),
	})

	if !almostEqual(totals.PnlNative, 1.0) {
		t.Errorf("trades on X must not touch Y's basis: pnl %f", totals.PnlNative)
	}

	pos, ok := acc.OpenPositions()[mintY]
	if !ok {
		t.Fatal("expected Y still open")
	}
	if !almostEqual(pos.TotalCostNative, 10.0) || !almostEqual(pos.TokenAmount, 5) {
		t.Errorf("Y position changed: %+v", pos)
	}
}

func TestFold_Deterministic(t *testing.T) {
	// Folding identical input twice produces identical totals — the basis
	// for the idempotent monthly snapshot upsert.
	trades := []domain.ClassifiedTrade{
		buy(mintX, 2.0, 10, 100),
		sell(mintX, 1.5, 5, 200),
		buy(mintY, 1.0, 3, 250),
		sell(mintX, 2.5, 5, 300),
	}

	first := NewAccumulator().Fold(trades)
	second := NewAccumulator().Fold(trades)

	if first != second {
		t.Errorf("expected identical totals, got %+v vs %+v", first, second)
	}
}

func TestFold_InputNotMutated(t *testing.T) {
	trades := []domain.ClassifiedTrade{
		sell(mintX, 3.0, 10, 200),
		buy(mintX, 2.0, 10, 100),
	}

	NewAccumulator().Fold(trades)

	if trades[0].Timestamp != 200 || trades[1].Timestamp != 100 {
		t.Error("Fold must not reorder the caller's slice")
	}
}

func TestSells_ReportsRealizedOutcomes(t *testing.T) {
	acc := NewAccumulator()
	acc.Fold([]domain.ClassifiedTrade{
		buy(mintX, 2.0, 10, 100),
		sell(mintX, 3.0, 10, 200),
	})

	sells := acc.Sells()
	if len(sells) != 1 {
		t.Fatalf("expected 1 sell outcome, got %d", len(sells))
	}
	if !almostEqual(sells[0].RealizedPnl, 1.0) {
		t.Errorf("expected realized 1.0, got %f", sells[0].RealizedPnl)
	}
}
