package domain

import "time"

// KOL is a tracked influencer whose wallet activity feeds the PNL job.
type KOL struct {
	ID            string
	Name          string
	WalletAddress string
	CreatedAt     time.Time
}

// HasWallet reports whether the KOL can be processed by the PNL job.
func (k *KOL) HasWallet() bool {
	return k.WalletAddress != ""
}
