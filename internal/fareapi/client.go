// Package fareapi is the client for the operator-run fare aggregation
// backend. Unlike the geocode adapters it does return errors: the aggregator
// needs to know the call failed so it can fall back to the local heuristic
// for every provider.
package fareapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
)

// Quote is one provider's raw backend entry. Either field may be nil when
// the backend returned null, omitted it, or sent a non-numeric value.
type Quote struct {
	PriceUSD *float64
	ETAMin   *float64
}

// Client posts estimation requests to the fare backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a fare backend client. An empty baseURL leaves the
// client unconfigured; Estimates then must not be called (see Configured).
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Configured reports whether a backend base URL was supplied.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type estimatesRequest struct {
	Pickup    estimate.Coordinate `json:"pickup"`
	Dropoff   estimate.Coordinate `json:"dropoff"`
	Providers []string            `json:"providers"`
}

type estimatesResponse struct {
	Prices map[string]json.RawMessage `json:"prices"`
}

type rawQuote struct {
	PriceUSD *float64 `json:"priceUsd"`
	ETAMin   *float64 `json:"etaMin"`
}

// Estimates fetches backend quotes for the requested providers. Any
// call-level failure (network, non-success status, unparseable body) is an
// error; a provider entry that cannot be decoded is returned as an empty
// Quote rather than failing the call.
func (c *Client) Estimates(ctx context.Context, q estimate.RouteQuery) (map[estimate.ProviderID]Quote, error) {
	providers := make([]string, len(q.Providers))
	for i, id := range q.Providers {
		providers[i] = string(id)
	}

	body, err := json.Marshal(estimatesRequest{
		Pickup:    *q.Pickup,
		Dropoff:   *q.Dropoff,
		Providers: providers,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal estimates request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/estimates", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build estimates request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call fare backend: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fare backend returned status %d", resp.StatusCode)
	}

	var parsed estimatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode fare backend response: %w", err)
	}

	quotes := make(map[estimate.ProviderID]Quote, len(parsed.Prices))
	for id, raw := range parsed.Prices {
		var rq rawQuote
		if err := json.Unmarshal(raw, &rq); err != nil {
			c.logger.Debug("fare backend entry malformed",
				zap.String("provider", id),
				zap.Error(err),
			)
			quotes[estimate.ProviderID(id)] = Quote{}
			continue
		}
		quotes[estimate.ProviderID(id)] = Quote{PriceUSD: rq.PriceUSD, ETAMin: rq.ETAMin}
	}
	return quotes, nil
}
