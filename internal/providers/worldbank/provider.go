// Package worldbank implements the national-accounts data provider.
// Data is sourced from the World Bank Open Data API v2. No API key
// required.
package worldbank

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

const providerName = "worldbank"

// DefaultBaseURL is the production World Bank country endpoint.
const DefaultBaseURL = "https://api.worldbank.org/v2/country"

// Provider is the World Bank data provider.
type Provider struct {
	provider.BaseProvider
	client  *http.Client
	baseURL string
	cache   store.Store
}

// New creates a World Bank provider and registers all fetchers.
// Raw series are persisted in cache under composite keys so later
// sessions skip the network entirely while entries stay fresh.
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
			"World Bank Open Data — annual national-accounts indicators (free, no API key)",
			"https://data.worldbank.org",
		),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		cache:   cache,
	}

	p.RegisterFetcher(newSeriesFetcher(p))
	p.RegisterFetcher(newAvailableIndicatorsFetcher(p))

	return p
}

// Ping verifies connectivity to the World Bank API.
func (p *Provider) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/DE/indicator/NY.GDP.MKTP.CD?format=json&per_page=1", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("worldbank ping: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("worldbank ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("worldbank ping: HTTP %d", resp.StatusCode)
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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
