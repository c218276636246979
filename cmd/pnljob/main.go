// Package main provides a one-shot PNL job runner for cron or manual use.
// It runs the full batch once and prints the summary JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rotten-trenches/internal/helius"
	"rotten-trenches/internal/job"
	"rotten-trenches/internal/price"
	"rotten-trenches/internal/storage/migrations"
	pgstore "rotten-trenches/internal/storage/postgres"
)

func main() {
	godotenv.Load()

	heliusKey := flag.String("helius-api-key", os.Getenv("HELIUS_API_KEY"), "Helius API key")
	heliusURL := flag.String("helius-url", os.Getenv("HELIUS_URL"), "Helius API base URL (default production)")
	priceURL := flag.String("price-url", os.Getenv("PRICE_URL"), "Spot price API URL (default CoinGecko)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	interKOLDelay := flag.Duration("inter-kol-delay", 2*time.Second, "Delay between KOLs within the run")
	timeout := flag.Duration("timeout", 15*time.Minute, "Overall run timeout")

	flag.Parse()

	logger := log.New(os.Stderr, "[pnljob] ", log.LstdFlags)

	if *heliusKey == "" {
		logger.Fatal("--helius-api-key is required (or HELIUS_API_KEY)")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (or POSTGRES_DSN)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	runner, err := job.New(job.Options{
		KOLStore:          pgstore.NewKOLStore(pool),
		SnapshotStore:     pgstore.NewSnapshotStore(pool),
		TransactionSource: helius.NewClient(*heliusKey, *heliusURL),
		PriceSource:       price.NewClient(*priceURL),
		InterKOLDelay:     *interKOLDelay,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatalf("Failed to create job runner: %v", err)
	}

	result, err := runner.Run(ctx)
	if err != nil {
		logger.Fatalf("Job failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Fatalf("Failed to encode result: %v", err)
	}
}
