// Package job runs the monthly PNL snapshot batch over all tracked KOLs.
// Flow per KOL: fetch swap history → classify → fold through the position
// ledger → upsert the monthly snapshot.
package job

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rotten-trenches/internal/classify"
	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/observability"
	"rotten-trenches/internal/pnl"
	"rotten-trenches/internal/price"
	"rotten-trenches/internal/solana"
	"rotten-trenches/internal/storage"
)

// defaultInterKOLDelay spaces out Helius calls between entities. Courtesy
// rate limiting, not a correctness requirement.
const defaultInterKOLDelay = 2 * time.Second

// ErrMissingOptions is returned by New when a required dependency is absent.
var ErrMissingOptions = errors.New("missing required job options")

// TransactionSource fetches a wallet's recent swap transactions.
type TransactionSource interface {
	FetchSwapTransactions(ctx context.Context, wallet string) ([]domain.EnhancedTransaction, error)
}

// PriceSource fetches the current SOL/USD spot price.
type PriceSource interface {
	SolUsd(ctx context.Context) (float64, error)
}

// Runner executes one full PNL job pass over all tracked KOLs.
type Runner struct {
	kols      storage.KOLStore
	snapshots storage.SnapshotStore
	journal   storage.TradeJournalStore // optional
	txSource  TransactionSource
	prices    PriceSource
	delay     time.Duration
	now       func() time.Time
	logger    *log.Logger
}

// Options for creating a Runner.
type Options struct {
	KOLStore          storage.KOLStore
	SnapshotStore     storage.SnapshotStore
	TradeJournalStore storage.TradeJournalStore // optional, nil disables journaling
	TransactionSource TransactionSource
	PriceSource       PriceSource

	// InterKOLDelay overrides the default delay between entities.
	InterKOLDelay time.Duration
	// Now overrides the clock, used by tests. Defaults to time.Now.
	Now func() time.Time

	Logger *log.Logger
}

// New creates a Runner. Returns ErrMissingOptions if a required dependency
// is absent, so a misconfigured invocation fails before any processing.
func New(opts Options) (*Runner, error) {
	if opts.KOLStore == nil || opts.SnapshotStore == nil || opts.TransactionSource == nil || opts.PriceSource == nil {
		return nil, ErrMissingOptions
	}

	delay := opts.InterKOLDelay
	if delay <= 0 {
		delay = defaultInterKOLDelay
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		kols:      opts.KOLStore,
		snapshots: opts.SnapshotStore,
		journal:   opts.TradeJournalStore,
		txSource:  opts.TransactionSource,
		prices:    opts.PriceSource,
		delay:     delay,
		now:       now,
		logger:    logger,
	}, nil
}

// KOLResult is the per-entity summary returned to the job's caller.
type KOLResult struct {
	KOLName   string  `json:"kolName"`
	PnlNative float64 `json:"pnlNative"`
	Trades    int     `json:"trades"`
	WinRate   float64 `json:"winRate"`
}

// SkippedKOL names an entity that failed and why. Callers reading only
// Results see the original contract; Skipped makes failures visible.
type SkippedKOL struct {
	KOLName string `json:"kolName"`
	Reason  string `json:"reason"`
}

// RunResult is the summary of one job invocation.
type RunResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Results []KOLResult  `json:"results"`
	Skipped []SkippedKOL `json:"skipped,omitempty"`
}

// Run executes the job: one spot-price fetch, then a strictly sequential
// pass over all KOLs with a known wallet. Per-entity failures are logged
// and skipped; they never abort the batch.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	start := r.now()

	spotPrice := r.fetchSpotPrice(ctx)

	kols, err := r.kols.ListWithWallet(ctx)
	if err != nil {
		observability.RecordJobRun("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("list kols: %w", err)
	}
	r.logger.Printf("[job] processing %d kols (spot price %.2f USD)", len(kols), spotPrice)

	result := &RunResult{Success: true}

	for i, kol := range kols {
		if i > 0 {
			if err := sleepCtx(ctx, r.delay); err != nil {
				return nil, err
			}
		}

		kolResult, err := r.processKOL(ctx, kol, spotPrice)
		if err != nil {
			r.logger.Printf("[job] kol %s (%s): %v", kol.ID, kol.Name, err)
			result.Skipped = append(result.Skipped, SkippedKOL{KOLName: kol.Name, Reason: err.Error()})
			observability.RecordKOLSkipped(skipReason(err))
			continue
		}

		result.Results = append(result.Results, *kolResult)
		observability.RecordKOLProcessed()
	}

	result.Message = fmt.Sprintf("processed %d of %d kols", len(result.Results), len(kols))
	r.logger.Printf("[job] completed in %v: %s", time.Since(start), result.Message)

	observability.RecordJobRun("success", time.Since(start).Seconds())
	observability.DefaultMetrics.LastSuccessfulJob.Set(float64(r.now().Unix()))

	return result, nil
}

// processKOL runs the classify → fold → snapshot pass for one entity.
func (r *Runner) processKOL(ctx context.Context, kol *domain.KOL, spotPrice float64) (*KOLResult, error) {
	if err := solana.ValidateWalletAddress(kol.WalletAddress); err != nil {
		return nil, fmt.Errorf("invalid wallet: %w", err)
	}

	fetchStart := time.Now()
	txns, err := r.txSource.FetchSwapTransactions(ctx, kol.WalletAddress)
	observability.RecordHeliusLatency(time.Since(fetchStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	trades := make([]domain.ClassifiedTrade, 0, len(txns))
	for i := range txns {
		if trade := classify.Classify(&txns[i], kol.WalletAddress); trade != nil {
			trades = append(trades, *trade)
			observability.RecordTradeClassified(string(trade.Direction))
		}
	}

	acc := pnl.NewAccumulator()
	totals := acc.Fold(trades)

	now := r.now()
	snapshot := &domain.PNLSnapshot{
		KOLID:       kol.ID,
		Month:       domain.MonthKey(now),
		PnlNative:   totals.PnlNative,
		PnlUsd:      totals.PnlNative * spotPrice,
		WinCount:    totals.WinCount,
		LossCount:   totals.LossCount,
		TotalTrades: totals.TotalTrades,
		WinRate:     totals.WinRate,
		FetchedAt:   now,
	}

	// Write failures are logged but never abort the batch; the computed
	// result is still reported to the caller.
	if err := r.snapshots.Upsert(ctx, snapshot); err != nil {
		r.logger.Printf("[job] kol %s: snapshot write failed: %v", kol.ID, err)
	} else {
		observability.RecordSnapshotWritten()
	}

	r.writeJournal(ctx, kol, trades, acc.Sells())

	return &KOLResult{
		KOLName:   kol.Name,
		PnlNative: totals.PnlNative,
		Trades:    totals.TotalTrades,
		WinRate:   totals.WinRate,
	}, nil
}

// writeJournal records the run's classified trades for offline analytics.
// Best effort: failures are logged only.
func (r *Runner) writeJournal(ctx context.Context, kol *domain.KOL, trades []domain.ClassifiedTrade, sells []pnl.SellOutcome) {
	if r.journal == nil || len(trades) == 0 {
		return
	}

	realized := make(map[string]float64, len(sells))
	for _, s := range sells {
		realized[s.Trade.Signature] = s.RealizedPnl
	}

	entries := make([]*domain.TradeJournalEntry, 0, len(trades))
	for _, t := range trades {
		entries = append(entries, &domain.TradeJournalEntry{
			KOLID:        kol.ID,
			Wallet:       kol.WalletAddress,
			Signature:    t.Signature,
			Timestamp:    t.Timestamp,
			Direction:    t.Direction,
			TokenMint:    t.TokenMint,
			TokenAmount:  t.TokenAmount,
			NativeAmount: t.NativeAmount,
			RealizedPnl:  realized[t.Signature],
		})
	}

	if err := r.journal.InsertBulk(ctx, entries); err != nil {
		r.logger.Printf("[job] kol %s: trade journal write failed: %v", kol.ID, err)
	}
}

// fetchSpotPrice fetches SOL/USD once per run, degrading to the fallback
// price on any failure. Only the USD figure is affected.
func (r *Runner) fetchSpotPrice(ctx context.Context) float64 {
	spot, err := r.prices.SolUsd(ctx)
	if err != nil {
		r.logger.Printf("[job] price fetch failed, using fallback %.2f: %v", price.FallbackSolUsd, err)
		observability.RecordPriceFallback()
		return price.FallbackSolUsd
	}
	return spot
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// skipReason maps an error to a coarse metrics label.
func skipReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
