// Package pnl folds classified trades into per-wallet realized PNL totals.
package pnl

import (
	"sort"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/ledger"
)

// Totals are the aggregated results of one wallet's processing pass.
type Totals struct {
	PnlNative   float64
	WinCount    int
	LossCount   int
	TotalTrades int
	WinRate     float64 // percentage, 0 when TotalTrades is 0
}

// SellOutcome describes one realized sell, reported to the caller for
// journaling.
type SellOutcome struct {
	Trade       domain.ClassifiedTrade
	RealizedPnl float64
}

// Accumulator folds trades through a position ledger into running totals.
// One accumulator serves exactly one wallet for one run.
type Accumulator struct {
	ledger *ledger.Ledger
	totals Totals
	sells  []SellOutcome
}

// NewAccumulator creates an accumulator over a fresh ledger.
func NewAccumulator() *Accumulator {
	return &Accumulator{ledger: ledger.New()}
}

// Fold processes trades in ascending timestamp order and returns the final
// totals. The input slice is not modified; trades are copied and sorted
// before folding because average cost basis is order-dependent and upstream
// APIs return most-recent-first.
//
// Every classified trade, buys included, increments TotalTrades. A sell with
// zero realized PnL counts as a loss.
func (a *Accumulator) Fold(trades []domain.ClassifiedTrade) Totals {
	ordered := make([]domain.ClassifiedTrade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	for _, t := range ordered {
		a.apply(t)
	}

	a.totals.WinRate = 0
	if a.totals.TotalTrades > 0 {
		a.totals.WinRate = float64(a.totals.WinCount) / float64(a.totals.TotalTrades) * 100
	}

	return a.totals
}

// apply folds a single trade.
func (a *Accumulator) apply(t domain.ClassifiedTrade) {
	switch t.Direction {
	case domain.TradeBuy:
		a.ledger.ApplyBuy(t.TokenMint, t.NativeAmount, t.TokenAmount)
		a.totals.TotalTrades++
	case domain.TradeSell:
		realized := a.ledger.ApplySell(t.TokenMint, t.NativeAmount, t.TokenAmount)
		a.totals.PnlNative += realized
		a.totals.TotalTrades++
		if realized > 0 {
			a.totals.WinCount++
		} else {
			a.totals.LossCount++
		}
		a.sells = append(a.sells, SellOutcome{Trade: t, RealizedPnl: realized})
	}
}

// Sells returns the realized sell outcomes in fold order.
func (a *Accumulator) Sells() []SellOutcome {
	return a.sells
}

// OpenPositions returns the positions still held after folding.
func (a *Accumulator) OpenPositions() map[string]domain.Position {
	return a.ledger.Positions()
}
