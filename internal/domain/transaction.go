package domain

// TransactionTypeSwap is the only enhanced-transaction type the PNL job
// processes. Everything else (transfers, NFT events, ...) is ignored.
const TransactionTypeSwap = "SWAP"

// LamportsPerSol converts lamports to whole SOL units.
const LamportsPerSol = 1_000_000_000.0

// WrappedSolMint is the wSOL mint address. Token transfers of this mint are
// excluded when picking the traded token, since they mirror the native leg.
const WrappedSolMint = "So11111111111111111111111111111111111111112"

// EnhancedTransaction is a single parsed transaction as returned by the
// Helius Enhanced Transactions API.
type EnhancedTransaction struct {
	Signature       string           `json:"signature"`
	Timestamp       int64            `json:"timestamp"`
	Type            string           `json:"type"`
	Source          string           `json:"source"`
	Fee             int64            `json:"fee"`
	FeePayer        string           `json:"feePayer"`
	NativeTransfers []NativeTransfer `json:"nativeTransfers"`
	TokenTransfers  []TokenTransfer  `json:"tokenTransfers"`
}

// NativeTransfer is a SOL transfer between accounts. Amount is in lamports.
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"`
}

// TokenTransfer is an SPL token transfer. TokenAmount is decimal-adjusted
// to whole token units by the API.
type TokenTransfer struct {
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
}
