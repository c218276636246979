// Package price fetches the SOL/USD spot price used to convert native PNL
// figures to USD.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FallbackSolUsd is substituted when the price API is unreachable. The USD
// figure degrades; the native figure is unaffected.
const FallbackSolUsd = 150.0

const defaultEndpoint = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"

// Client fetches the current SOL price in USD.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a price client. endpoint falls back to the public
// CoinGecko simple-price API when empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SolUsd returns the current SOL/USD price.
func (c *Client) SolUsd(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price api returned status %d", resp.StatusCode)
	}

	var result struct {
		Solana struct {
			Usd float64 `json:"usd"`
		} `json:"solana"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}

	if result.Solana.Usd <= 0 {
		return 0, fmt.Errorf("price api returned non-positive price %f", result.Solana.Usd)
	}

	return result.Solana.Usd, nil
}
