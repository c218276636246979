// Package solana provides small helpers for validating Solana addresses.
package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ValidateWalletAddress checks that addr is a plausible user wallet: a
// base58 string decoding to exactly 32 bytes that form a valid ed25519
// point. Program-derived addresses are intentionally off-curve, so this
// also filters out PDAs that can never sign swaps themselves.
func ValidateWalletAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("empty address")
	}

	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("decode base58: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}

	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("off-curve public key: %w", err)
	}

	return nil
}
