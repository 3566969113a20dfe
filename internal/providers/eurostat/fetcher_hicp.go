package eurostat

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/seenimoa/europulse/internal/provider"
	"github.com/seenimoa/europulse/internal/store"
	"github.com/seenimoa/europulse/pkg/models"
	"github.com/seenimoa/europulse/pkg/utils"
)

// hicpIndicatorCode is the dataset code used for persistent cache keys.
const hicpIndicatorCode = "prc_hicp_manr"

// ---------------------------------------------------------------------------
// MonthlyRate — one selected HICP monthly rate for a country, either the
// latest observation or the latest month within a requested year.
// Endpoint: GET {base}?geo={code}&coicop=CP00&unit=RCH_M
// Payload: JSON-stat with a period→position index and a position→value map.
// ---------------------------------------------------------------------------

type hicpFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newHICPFetcher(p *Provider) *hicpFetcher {
	return &hicpFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelMonthlyRate,
			"Eurostat monthly harmonized price-index rate of change (CP00, all items)",
			[]string{provider.ParamCountry},
			[]string{provider.ParamYear},
		),
		p: p,
	}
}

func (f *hicpFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	country := params[provider.ParamCountry]
	year := params[provider.ParamYear]

	memKey := provider.CacheKey(provider.ModelMonthlyRate, params)
	if cached, ok := f.CacheGet(memKey); ok {
		return cached.(*provider.FetchResult), nil
	}

	yearKey := year
	if yearKey == "" {
		yearKey = "latest"
	}
	storeKey := store.Key(models.SourceEurostat, country, hicpIndicatorCode, yearKey)
	if raw, ok := f.p.cache.Get(ctx, storeKey); ok {
		var sel models.SelectedIndicator
		if err := json.Unmarshal(raw, &sel); err == nil {
			result := &provider.FetchResult{Data: sel, FetchedAt: time.Now(), Cached: true}
			f.CacheSet(memKey, result)
			return result, nil
		}
		// Unreadable entry: treat as a miss and refetch.
	}

	url := fmt.Sprintf("%s?geo=%s&coicop=CP00&unit=RCH_M", f.p.baseURL, country)

	var payload hicpResponse
	if err := f.p.fetchJSON(ctx, url, &payload); err != nil {
		return nil, &provider.RetrievalError{
			Source: providerName, Country: country, Indicator: hicpIndicatorCode, Err: err,
		}
	}

	sel, err := selectMonthlyRate(&payload, year)
	if err != nil {
		return nil, &provider.RetrievalError{
			Source: providerName, Country: country, Indicator: hicpIndicatorCode, Err: err,
		}
	}

	if raw, err := json.Marshal(sel); err == nil {
		f.p.cache.Set(ctx, storeKey, raw)
	}

	result := &provider.FetchResult{Data: sel, FetchedAt: time.Now()}
	f.CacheSet(memKey, result)
	return result, nil
}

// selectMonthlyRate picks the chronologically latest period from the
// response, restricted to year when year is non-empty, and resolves its
// value through the position map. Period keys are compared as parsed
// dates, never as strings. A year with no monthly periods yields a null
// observation echoing the year back, matching annual selection.
func selectMonthlyRate(payload *hicpResponse, year string) (models.SelectedIndicator, error) {
	index := payload.Dimension.Time.Category.Index
	if len(index) == 0 {
		return models.SelectedIndicator{}, fmt.Errorf("empty time dimension")
	}

	periods := make([]string, 0, len(index))
	for period := range index {
		periods = append(periods, period)
	}

	best := utils.LatestMonthPeriod(periods, year)
	if best == "" {
		if year != "" {
			return models.SelectedIndicator{Value: nil, Date: year}, nil
		}
		return models.SelectedIndicator{}, fmt.Errorf("no parseable periods in time dimension")
	}

	value := payload.Value[strconv.Itoa(index[best])]
	return models.SelectedIndicator{Value: value, Date: best}, nil
}
