package domain

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	cases := map[time.Time]string{
		time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC):  "2026-09",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC):    "2026-01",
		time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC): "2025-12",
	}
	for in, want := range cases {
		if got := MonthKey(in); got != want {
			t.Errorf("MonthKey(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestMonthKey_NormalizesToUTC(t *testing.T) {
	// 2026-10-01 01:00 +0300 is still 2026-09 in UTC.
	loc := time.FixedZone("EET", 3*60*60)
	in := time.Date(2026, 10, 1, 1, 0, 0, 0, loc)

	if got := MonthKey(in); got != "2026-09" {
		t.Errorf("MonthKey(%v) = %s, want 2026-09", in, got)
	}
}

func TestPosition_AvgCost(t *testing.T) {
	p := Position{TotalCostNative: 6.0, TokenAmount: 20}
	if got := p.AvgCost(); got != 0.3 {
		t.Errorf("expected avg cost 0.3, got %f", got)
	}

	empty := Position{}
	if got := empty.AvgCost(); got != 0 {
		t.Errorf("expected 0 for empty position, got %f", got)
	}
}

func TestKOL_HasWallet(t *testing.T) {
	withWallet := &KOL{ID: "a", WalletAddress: "w"}
	if !withWallet.HasWallet() {
		t.Error("expected HasWallet true")
	}
	without := &KOL{ID: "b"}
	if without.HasWallet() {
		t.Error("expected HasWallet false")
	}
}
