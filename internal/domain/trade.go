package domain

// TradeDirection tells whether the tracked wallet bought or sold a token.
type TradeDirection string

const (
	TradeBuy  TradeDirection = "BUY"
	TradeSell TradeDirection = "SELL"
)

// ClassifiedTrade is the outcome of classifying one SWAP transaction from
// the tracked wallet's point of view. NativeAmount is in whole SOL units:
// SOL spent for a BUY, SOL received for a SELL.
type ClassifiedTrade struct {
	Direction    TradeDirection
	NativeAmount float64
	TokenMint    string
	TokenAmount  float64
	Timestamp    int64
	Signature    string
}

// TradeJournalEntry is a classified trade annotated with the KOL it belongs
// to, recorded for offline analytics.
type TradeJournalEntry struct {
	KOLID        string
	Wallet       string
	Signature    string
	Timestamp    int64
	Direction    TradeDirection
	TokenMint    string
	TokenAmount  float64
	NativeAmount float64
	RealizedPnl  float64 // 0 for buys
}
