package domain

import "time"

// MonthKey formats t as the YYYY-MM snapshot key.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// PNLSnapshot is the persisted monthly aggregate for one KOL. Exactly one
// row exists per (KOLID, Month); re-running the job within the same month
// overwrites the previous snapshot.
type PNLSnapshot struct {
	KOLID       string
	Month       string // YYYY-MM
	PnlNative   float64
	PnlUsd      float64
	WinCount    int
	LossCount   int
	TotalTrades int
	WinRate     float64 // percentage, 0 when TotalTrades is 0
	FetchedAt   time.Time
}
