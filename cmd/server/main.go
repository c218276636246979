// Package main provides the long-running PNL service:
// - Trigger endpoint: POST /jobs/pnl runs the monthly snapshot job on demand
// - Optional scheduler: periodic job runs (-job-interval)
// - Admin: POST /kols registers a tracked KOL and triggers a run
// - Observability: /health, /status, /metrics
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rotten-trenches/internal/domain"
	"rotten-trenches/internal/helius"
	"rotten-trenches/internal/job"
	"rotten-trenches/internal/observability"
	"rotten-trenches/internal/price"
	"rotten-trenches/internal/solana"
	"rotten-trenches/internal/storage"
	chstore "rotten-trenches/internal/storage/clickhouse"
	"rotten-trenches/internal/storage/memory"
	"rotten-trenches/internal/storage/migrations"
	pgstore "rotten-trenches/internal/storage/postgres"
)

// Server holds the service's components and run state.
type Server struct {
	runner *job.Runner
	kols   kolInserter
	logger *log.Logger

	mu         sync.Mutex
	jobRunning bool
	lastRun    time.Time
	lastResult *job.RunResult
	jobRuns    int
	startedAt  time.Time
}

// kolInserter is the subset of the KOL store the admin endpoint needs.
type kolInserter interface {
	Insert(ctx context.Context, k *domain.KOL) error
}

func main() {
	// Load .env file if exists
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Parse flags (env vars as defaults)
	heliusKey := flag.String("helius-api-key", os.Getenv("HELIUS_API_KEY"), "Helius API key")
	heliusURL := flag.String("helius-url", os.Getenv("HELIUS_URL"), "Helius API base URL (default production)")
	priceURL := flag.String("price-url", os.Getenv("PRICE_URL"), "Spot price API URL (default CoinGecko)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional, enables trade journal)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	listenAddr := flag.String("listen-addr", ":8080", "HTTP listen address")
	jobInterval := flag.Duration("job-interval", 0, "Periodic job interval (0 disables the scheduler)")
	interKOLDelay := flag.Duration("inter-kol-delay", 2*time.Second, "Delay between KOLs within a job run")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Missing API key is a configuration error: fatal before any processing.
	if *heliusKey == "" {
		logger.Fatal("--helius-api-key is required (or HELIUS_API_KEY)")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	runner, err := job.New(job.Options{
		KOLStore:          stores.kolStore,
		SnapshotStore:     stores.snapshotStore,
		TradeJournalStore: stores.journalStore,
		TransactionSource: helius.NewClient(*heliusKey, *heliusURL),
		PriceSource:       price.NewClient(*priceURL),
		InterKOLDelay:     *interKOLDelay,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatalf("Failed to create job runner: %v", err)
	}

	server := &Server{
		runner:    runner,
		kols:      stores.kolInserter,
		logger:    logger,
		startedAt: time.Now(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if *jobInterval > 0 {
		go server.runScheduler(ctx, *jobInterval)
	}

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.routes(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// serverStores bundles the storage implementations the server wires up.
type serverStores struct {
	kolStore      storage.KOLStore
	kolInserter   kolInserter
	snapshotStore storage.SnapshotStore
	journalStore  storage.TradeJournalStore // nil when no ClickHouse DSN
}

// createStores creates all required stores and applies migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*serverStores, func(), error) {
	if useMemory {
		kolStore := memory.NewKOLStore()
		return &serverStores{
			kolStore:      kolStore,
			kolInserter:   kolStore,
			snapshotStore: memory.NewSnapshotStore(),
			journalStore:  memory.NewTradeJournalStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	kolStore := pgstore.NewKOLStore(pool)
	stores := &serverStores{
		kolStore:      kolStore,
		kolInserter:   kolStore,
		snapshotStore: pgstore.NewSnapshotStore(pool),
	}
	cleanup := func() { pool.Close() }

	// Trade journal is optional analytics; skip when no DSN is configured.
	if clickhouseDSN != "" {
		chConn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
			chConn.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		stores.journalStore = chstore.NewTradeJournalStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	}

	return stores, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/jobs/pnl", s.handleRunJob)
	mux.HandleFunc("/kols", s.handleAddKOL)

	return mux
}

// runScheduler triggers the job periodically.
func (s *Server) runScheduler(ctx context.Context, interval time.Duration) {
	s.logger.Printf("Starting job scheduler (interval: %v)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.runJob(ctx); err != nil {
				s.logger.Printf("Scheduled job error: %v", err)
			}
		}
	}
}

// runJob executes one job pass, rejecting concurrent runs.
func (s *Server) runJob(ctx context.Context) (*job.RunResult, error) {
	s.mu.Lock()
	if s.jobRunning {
		s.mu.Unlock()
		return nil, errJobRunning
	}
	s.jobRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.jobRunning = false
		s.lastRun = time.Now()
		s.jobRuns++
		s.mu.Unlock()
	}()

	result, err := s.runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()

	return result, nil
}

var errJobRunning = fmt.Errorf("job already running")

// handleRunJob triggers a job run. No request body is required.
func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := s.runJob(r.Context())
	if err == errJobRunning {
		http.Error(w, "job already running", http.StatusConflict)
		return
	}
	if err != nil {
		s.logger.Printf("Job error: %v", err)
		writeJSON(w, http.StatusInternalServerError, &job.RunResult{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// addKOLRequest is the JSON body for POST /kols.
type addKOLRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	WalletAddress string `json:"walletAddress"`
}

// handleAddKOL registers a tracked KOL after validating its wallet.
func (s *Server) handleAddKOL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req addKOLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.ID == "" || req.Name == "" {
		http.Error(w, "id and name are required", http.StatusBadRequest)
		return
	}
	if err := solana.ValidateWalletAddress(req.WalletAddress); err != nil {
		http.Error(w, fmt.Sprintf("invalid wallet address: %v", err), http.StatusBadRequest)
		return
	}

	kol := &domain.KOL{
		ID:            req.ID,
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
		CreatedAt:     time.Now(),
	}
	if err := s.kols.Insert(r.Context(), kol); err != nil {
		s.logger.Printf("Insert KOL error: %v", err)
		http.Error(w, "failed to store kol", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": kol.ID})
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status     string         `json:"status"`
	Uptime     string         `json:"uptime"`
	JobRunning bool           `json:"job_running"`
	JobRuns    int            `json:"job_runs"`
	LastRun    time.Time      `json:"last_run,omitempty"`
	LastResult *job.RunResult `json:"last_result,omitempty"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:     "running",
		Uptime:     time.Since(s.startedAt).String(),
		JobRunning: s.jobRunning,
		JobRuns:    s.jobRuns,
		LastRun:    s.lastRun,
		LastResult: s.lastResult,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
