// Package ledger tracks per-mint average-cost-basis positions for a single
// wallet over one processing pass.
package ledger

import "rotten-trenches/internal/domain"

// Ledger holds the open positions of one wallet, keyed by token mint.
// A Ledger is used strictly sequentially within one wallet's pass and is
// never shared between wallets or reused across job runs.
type Ledger struct {
	positions map[string]domain.Position
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{positions: make(map[string]domain.Position)}
}

// ApplyBuy folds a buy into the position for mint, creating it on first buy.
func (l *Ledger) ApplyBuy(mint string, nativeCost, tokenQty float64) {
	pos := l.positions[mint]
	pos.TotalCostNative += nativeCost
	pos.TokenAmount += tokenQty
	l.positions[mint] = pos
}

// ApplySell folds a sell into the position for mint and returns the realized
// PnL in SOL.
//
// With no recorded position (or an empty one) the full proceeds count as
// profit: no cost basis is known, so the sell cannot be marked down. The
// quantity sold is clamped to the held quantity so a position never goes
// negative; when the position drains to zero it is removed and any residual
// cost is dropped rather than carried forward as negative cost.
func (l *Ledger) ApplySell(mint string, nativeProceeds, tokenQty float64) float64 {
	pos, ok := l.positions[mint]
	if !ok || pos.TokenAmount <= 0 {
		return nativeProceeds
	}

	soldQty := tokenQty
	if soldQty > pos.TokenAmount {
		soldQty = pos.TokenAmount
	}

	costBasis := pos.AvgCost() * soldQty
	realized := nativeProceeds - costBasis

	pos.TotalCostNative -= costBasis
	pos.TokenAmount -= tokenQty
	if pos.TokenAmount <= 0 {
		delete(l.positions, mint)
		return realized
	}
	if pos.TotalCostNative < 0 {
		pos.TotalCostNative = 0
	}
	l.positions[mint] = pos

	return realized
}

// Position returns the current position for mint and whether one is open.
func (l *Ledger) Position(mint string) (domain.Position, bool) {
	pos, ok := l.positions[mint]
	return pos, ok
}

// Positions returns a copy of all open positions keyed by mint.
func (l *Ledger) Positions() map[string]domain.Position {
	out := make(map[string]domain.Position, len(l.positions))
	for mint, pos := range l.positions {
		out[mint] = pos
	}
	return out
}

// Len returns the number of open positions.
func (l *Ledger) Len() int {
	return len(l.positions)
}
