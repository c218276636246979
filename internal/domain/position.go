package domain

// Position is the running average-cost-basis state for one token mint held
// by one wallet. Both fields are always >= 0; a position whose quantity
// drains to zero is removed from the ledger rather than kept at zero.
type Position struct {
	TotalCostNative float64 // cumulative SOL cost of the held quantity
	TokenAmount     float64 // held quantity, whole token units
}

// AvgCost returns the average SOL cost per token, or 0 for an empty position.
func (p Position) AvgCost() float64 {
	if p.TokenAmount <= 0 {
		return 0
	}
	return p.TotalCostNative / p.TokenAmount
}
