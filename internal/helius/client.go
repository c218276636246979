// Package helius fetches enhanced transaction history from the Helius API.
package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rotten-trenches/internal/domain"
)

// DefaultBaseURL is the production Helius API endpoint.
const DefaultBaseURL = "https://api.helius.xyz"

// lookbackLimit is the fixed per-wallet transaction window. The PNL job
// recomputes positions from scratch each run, so only the most recent
// transactions are fetched regardless of their age.
const lookbackLimit = 100

// Client communicates with the Helius Enhanced Transactions API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Helius client. baseURL falls back to DefaultBaseURL
// when empty.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchSwapTransactions retrieves the most recent SWAP transactions for a
// wallet, capped at the lookback window. Malformed records are dropped
// individually rather than failing the whole response.
func (c *Client) FetchSwapTransactions(ctx context.Context, wallet string) ([]domain.EnhancedTransaction, error) {
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions", c.baseURL, wallet)

	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("type", domain.TransactionTypeSwap)
	params.Set("limit", fmt.Sprintf("%d", lookbackLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("helius returned status %d: %s", resp.StatusCode, string(body))
	}

	var txns []domain.EnhancedTransaction
	if err := json.NewDecoder(resp.Body).Decode(&txns); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return sanitize(txns), nil
}

// sanitize drops individual records that cannot be classified safely:
// missing signature, non-positive timestamp. Transfer slices may be nil;
// the classifier treats those as empty.
func sanitize(txns []domain.EnhancedTransaction) []domain.EnhancedTransaction {
	out := txns[:0]
	for _, tx := range txns {
		if tx.Signature == "" || tx.Timestamp <= 0 {
			continue
		}
		out = append(out, tx)
	}
	return out
}
