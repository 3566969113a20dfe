package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/seenimoa/europulse/internal/provider"
	"github.com/seenimoa/europulse/internal/store"
	"github.com/seenimoa/europulse/pkg/models"
)

// ---------------------------------------------------------------------------
// IndicatorSeries — full annual series for one (country, indicator) pair.
// Endpoint: GET {base}/{country}/indicator/{code}?format=json
// Payload: two-element array; element 1 holds the observations.
// ---------------------------------------------------------------------------

type seriesFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newSeriesFetcher(p *Provider) *seriesFetcher {
	return &seriesFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelIndicatorSeries,
			"World Bank annual indicator series (GDP, growth, inflation, population, unemployment)",
			[]string{provider.ParamCountry, provider.ParamIndicator},
			nil,
		),
		p: p,
	}
}

// wbObservation is one row of the World Bank payload. Fields the
// dashboard does not consume (indicator/country descriptors) are
// ignored by the decoder.
type wbObservation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

func (f *seriesFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	country := params[provider.ParamCountry]
	indicator := params[provider.ParamIndicator]

	memKey := provider.CacheKey(provider.ModelIndicatorSeries, params)
	if cached, ok := f.CacheGet(memKey); ok {
		return cached.(*provider.FetchResult), nil
	}

	// Persistent cache: a hit inside the TTL is trusted verbatim.
	storeKey := store.Key(models.SourceWorldBank, country, indicator, "latest")
	if raw, ok := f.p.cache.Get(ctx, storeKey); ok {
		var series models.IndicatorSeries
		if err := json.Unmarshal(raw, &series); err == nil {
			result := &provider.FetchResult{Data: series, FetchedAt: time.Now(), Cached: true}
			f.CacheSet(memKey, result)
			return result, nil
		}
		// Unreadable entry: treat as a miss and refetch.
	}

	url := fmt.Sprintf("%s/%s/indicator/%s?format=json&per_page=200", f.p.baseURL, country, indicator)

	var payload []json.RawMessage
	if err := f.p.fetchJSON(ctx, url, &payload); err != nil {
		return nil, &provider.RetrievalError{
			Source: providerName, Country: country, Indicator: indicator, Err: err,
		}
	}
	if len(payload) < 2 {
		return nil, &provider.RetrievalError{
			Source: providerName, Country: country, Indicator: indicator,
			Err: fmt.Errorf("unexpected payload shape: %d elements", len(payload)),
		}
	}

	var rows []wbObservation
	if err := json.Unmarshal(payload[1], &rows); err != nil {
		return nil, &provider.RetrievalError{
			Source: providerName, Country: country, Indicator: indicator,
			Err: fmt.Errorf("decode observations: %w", err),
		}
	}

	// Points without a year are unusable for selection; drop them.
	series := make(models.IndicatorSeries, 0, len(rows))
	for _, row := range rows {
		if row.Date == "" {
			continue
		}
		series = append(series, models.IndicatorPoint{Year: row.Date, Value: row.Value})
	}

	if raw, err := json.Marshal(series); err == nil {
		f.p.cache.Set(ctx, storeKey, raw)
	}

	result := &provider.FetchResult{Data: series, FetchedAt: time.Now()}
	f.CacheSet(memKey, result)
	return result, nil
}

// ---------------------------------------------------------------------------
// AvailableIndicators — the World Bank indicator codes the dashboard
// knows how to display.
// ---------------------------------------------------------------------------

type availableIndicatorsFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newAvailableIndicatorsFetcher(p *Provider) *availableIndicatorsFetcher {
	return &availableIndicatorsFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelAvailableIndicators,
			"World Bank indicator codes tracked by the dashboard",
			nil,
			nil,
		),
		p: p,
	}
}

func (f *availableIndicatorsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	known := make([]models.IndicatorSpec, 0, len(models.DefaultIndicators))
	for _, spec := range models.DefaultIndicators {
		if spec.Source == models.SourceWorldBank {
			known = append(known, spec)
		}
	}
	return &provider.FetchResult{Data: known, FetchedAt: time.Now()}, nil
}
