// Package eurostat implements the harmonized price-index data provider.
// Data is sourced from the Eurostat dissemination API (prc_hicp_manr,
// monthly HICP rate of change). No API key required.
package eurostat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seenimoa/europulse/internal/provider"
	"github.com/seenimoa/europulse/internal/store"
)

const providerName = "eurostat"

// DefaultBaseURL is the production Eurostat HICP dataset endpoint.
const DefaultBaseURL = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data/prc_hicp_manr"

// Provider is the Eurostat data provider.
type Provider struct {
	provider.BaseProvider
	client  *http.Client
	baseURL string
	cache   store.Store
}

// New creates a Eurostat provider and registers all fetchers.
func New(baseURL string, timeout time.Duration, cache store.Store) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if cache == nil {
		cache = store.Nop{}
	}

	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Eurostat dissemination API — monthly harmonized price-index rates (free, no API key)",
			"https://ec.europa.eu/eurostat",
		),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		cache:   cache,
	}

	p.RegisterFetcher(newHICPFetcher(p))

	return p
}

// Ping verifies connectivity to the Eurostat API.
func (p *Provider) Ping(ctx context.Context) error {
	url := p.baseURL + "?geo=DE&coicop=CP00&unit=RCH_M"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("eurostat ping: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("eurostat ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("eurostat ping: HTTP %d", resp.StatusCode)
	}
	return nil
}

// fetchJSON fetches JSON from the given URL and decodes into dst.
func (p *Provider) fetchJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body[:min(len(body), 200)]))
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

// hicpResponse wraps the Eurostat JSON-stat style response (simplified
// to the two structures the dashboard consumes: the time-dimension
// index and the flat value map).
type hicpResponse struct {
	Dimension struct {
		Time struct {
			Category struct {
				Index map[string]int `json:"index"`
			} `json:"category"`
		} `json:"time"`
	} `json:"dimension"`
	Value map[string]*float64 `json:"value"`
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
