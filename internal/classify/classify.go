// Package classify turns raw enhanced transactions into buy/sell trades
// from the point of view of a single tracked wallet.
package classify

import "rotten-trenches/internal/domain"

// Classify inspects one transaction and returns the trade it represents for
// wallet, or nil if the transaction is not a qualifying trade.
//
// Rules:
//   - Only SWAP-typed transactions qualify.
//   - Native legs are summed over transfers touching the wallet.
//   - The traded token is the non-wSOL transfer with the largest amount
//     moving to (buy candidate) or from (sell candidate) the wallet. When a
//     multi-hop swap touches several mints this is a heuristic pick.
//   - BUY is checked before SELL; a transaction is never both.
func Classify(tx *domain.EnhancedTransaction, wallet string) *domain.ClassifiedTrade {
	if tx == nil || tx.Type != domain.TransactionTypeSwap {
		return nil
	}

	var nativeSpent, nativeReceived float64
	for _, nt := range tx.NativeTransfers {
		amount := float64(nt.Amount) / domain.LamportsPerSol
		if amount <= 0 {
			continue
		}
		if nt.FromUserAccount == wallet {
			nativeSpent += amount
		}
		if nt.ToUserAccount == wallet {
			nativeReceived += amount
		}
	}

	boughtMint, boughtAmount := largestTransfer(tx.TokenTransfers, wallet, inbound)
	soldMint, soldAmount := largestTransfer(tx.TokenTransfers, wallet, outbound)

	if nativeSpent > 0 && boughtMint != "" {
		return &domain.ClassifiedTrade{
			Direction:    domain.TradeBuy,
			NativeAmount: nativeSpent,
			TokenMint:    boughtMint,
			TokenAmount:  boughtAmount,
			Timestamp:    tx.Timestamp,
			Signature:    tx.Signature,
		}
	}

	if nativeReceived > 0 && soldMint != "" {
		return &domain.ClassifiedTrade{
			Direction:    domain.TradeSell,
			NativeAmount: nativeReceived,
			TokenMint:    soldMint,
			TokenAmount:  soldAmount,
			Timestamp:    tx.Timestamp,
			Signature:    tx.Signature,
		}
	}

	return nil
}

type transferSide int

const (
	inbound transferSide = iota
	outbound
)

// largestTransfer finds the non-wSOL token transfer with the largest amount
// on the given side of the wallet. Returns ("", 0) if none exists.
func largestTransfer(transfers []domain.TokenTransfer, wallet string, side transferSide) (string, float64) {
	var mint string
	var amount float64

	for _, tt := range transfers {
		if tt.Mint == "" || tt.Mint == domain.WrappedSolMint || tt.TokenAmount <= 0 {
			continue
		}
		switch side {
		case inbound:
			if tt.ToUserAccount != wallet {
				continue
			}
		case outbound:
			if tt.FromUserAccount != wallet {
				continue
			}
		}
		if tt.TokenAmount > amount {
			mint = tt.Mint
			amount = tt.TokenAmount
		}
	}

	return mint, amount
}
