// Package dashboard orchestrates fetch and selection across the
// configured countries and indicators, producing the snapshot the API
// serves.
package dashboard

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/europulse/internal/logging"
	"github.com/seenimoa/europulse/internal/provider"
	"github.com/seenimoa/europulse/internal/series"
	"github.com/seenimoa/europulse/pkg/models"
)

// Reference pair for deriving the selectable year range: the first
// configured country's GDP series is assumed to cover every year any
// other indicator covers.
const refIndicatorKey = "gdp"

// Aggregator fans fetches out across countries and indicators and
// folds the results into per-country metrics.
type Aggregator struct {
	registry    *provider.Registry
	countries   []models.CountryConfig
	indicators  []models.IndicatorSpec
	concurrency int
	yearLimit   int
	log         *logrus.Entry

	yearsOnce sync.Once
	years     []string
}

// NewAggregator creates an aggregator over the given registry and
// configuration. concurrency bounds the number of in-flight fetches;
// yearLimit caps the derived year options.
func NewAggregator(reg *provider.Registry, countries []models.CountryConfig, indicators []models.IndicatorSpec, concurrency, yearLimit int) *Aggregator {
	if len(countries) == 0 {
		countries = models.DefaultCountries
	}
	if len(indicators) == 0 {
		indicators = models.DefaultIndicators
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	if yearLimit <= 0 {
		yearLimit = 12
	}
	return &Aggregator{
		registry:    reg,
		countries:   countries,
		indicators:  indicators,
		concurrency: concurrency,
		yearLimit:   yearLimit,
		log:         logging.Component("dashboard"),
	}
}

// Countries returns the configured country set.
func (a *Aggregator) Countries() []models.CountryConfig { return a.countries }

// Indicators returns the configured indicator set.
func (a *Aggregator) Indicators() []models.IndicatorSpec { return a.indicators }

// IndicatorSpec returns the spec for an indicator key.
func (a *Aggregator) IndicatorSpec(key string) (models.IndicatorSpec, bool) {
	for _, spec := range a.indicators {
		if spec.Key == key {
			return spec, true
		}
	}
	return models.IndicatorSpec{}, false
}

// Aggregate fetches and selects every (country, indicator) pair for the
// given year ("" means latest). Results follow input country order
// regardless of completion order. A failed fetch nulls that indicator;
// a country whose fetches all failed carries an error. Only when every
// country failed does the pass itself fail, with a LoadError.
func (a *Aggregator) Aggregate(ctx context.Context, year string) ([]models.CountryMetrics, error) {
	metrics := make([]models.CountryMetrics, len(a.countries))
	failures := make([][]error, len(a.countries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for ci, country := range a.countries {
		metrics[ci] = models.CountryMetrics{
			Name:       country.Name,
			Indicators: make(map[string]models.SelectedIndicator, len(a.indicators)),
		}
		for _, spec := range a.indicators {
			ci, country, spec := ci, country, spec
			g.Go(func() error {
				sel, err := a.fetchOne(gctx, country, spec, year)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					a.log.WithError(err).WithFields(logrus.Fields{
						"country":   country.Name,
						"indicator": spec.Key,
					}).Warn("indicator fetch failed")
					failures[ci] = append(failures[ci], err)
					metrics[ci].Indicators[spec.Key] = models.SelectedIndicator{}
					return nil
				}
				metrics[ci].Indicators[spec.Key] = sel
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	failedCountries := 0
	var allErrs []error
	for ci := range a.countries {
		if len(failures[ci]) == len(a.indicators) {
			metrics[ci].Error = failures[ci][0].Error()
			failedCountries++
		}
		allErrs = append(allErrs, failures[ci]...)
	}
	if failedCountries == len(a.countries) {
		return nil, &LoadError{Year: year, Errs: allErrs}
	}

	return metrics, nil
}

// fetchOne retrieves and selects a single indicator for one country.
func (a *Aggregator) fetchOne(ctx context.Context, country models.CountryConfig, spec models.IndicatorSpec, year string) (models.SelectedIndicator, error) {
	switch spec.Source {
	case models.SourceEurostat:
		result, err := a.registry.Fetch(ctx, provider.ModelMonthlyRate, provider.QueryParams{
			provider.ParamCountry: country.EurostatCode,
			provider.ParamYear:    year,
		})
		if err != nil {
			return models.SelectedIndicator{}, err
		}
		sel, ok := result.Data.(models.SelectedIndicator)
		if !ok {
			return models.SelectedIndicator{}, &provider.RetrievalError{
				Source: spec.Source, Country: country.EurostatCode, Indicator: spec.Code,
				Err: errUnexpectedData,
			}
		}
		return sel, nil

	default:
		result, err := a.registry.Fetch(ctx, provider.ModelIndicatorSeries, provider.QueryParams{
			provider.ParamCountry:   country.WorldBankCode,
			provider.ParamIndicator: spec.Code,
		})
		if err != nil {
			return models.SelectedIndicator{}, err
		}
		s, ok := result.Data.(models.IndicatorSeries)
		if !ok {
			return models.SelectedIndicator{}, &provider.RetrievalError{
				Source: spec.Source, Country: country.WorldBankCode, Indicator: spec.Code,
				Err: errUnexpectedData,
			}
		}
		return series.Select(s, year), nil
	}
}

// YearOptions derives the selectable year range from the reference
// country's reference series: distinct years, newest first, capped.
// The derivation runs once per process; later calls reuse the result.
func (a *Aggregator) YearOptions(ctx context.Context) []string {
	a.yearsOnce.Do(func() {
		if len(a.countries) == 0 {
			return
		}
		spec, ok := a.IndicatorSpec(refIndicatorKey)
		if !ok || spec.Source != models.SourceWorldBank {
			for _, cand := range a.indicators {
				if cand.Source == models.SourceWorldBank {
					spec = cand
					ok = true
					break
				}
			}
		}
		if !ok {
			return
		}

		result, err := a.registry.Fetch(ctx, provider.ModelIndicatorSeries, provider.QueryParams{
			provider.ParamCountry:   a.countries[0].WorldBankCode,
			provider.ParamIndicator: spec.Code,
		})
		if err != nil {
			a.log.WithError(err).Warn("year range derivation failed")
			return
		}
		if s, okData := result.Data.(models.IndicatorSeries); okData {
			a.years = series.Years(s, a.yearLimit)
		}
	})

	out := make([]string, len(a.years))
	copy(out, a.years)
	return out
}

// Summarize computes cross-country summary statistics: per-indicator
// averages over non-null values (nil when every country is null) and
// the most recent reference-series observation date. Monthly indicators
// update on their own cadence and do not move LastUpdated.
func (a *Aggregator) Summarize(metrics []models.CountryMetrics) models.SummaryMetrics {
	summary := models.SummaryMetrics{
		Averages: make(map[string]*float64, len(a.indicators)),
	}

	for _, spec := range a.indicators {
		var sum float64
		var n int
		for i := range metrics {
			sel := metrics[i].Indicator(spec.Key)
			if sel.Value != nil {
				sum += *sel.Value
				n++
			}
		}
		if n > 0 {
			summary.Averages[spec.Key] = models.Float(sum / float64(n))
		} else {
			summary.Averages[spec.Key] = nil
		}
	}

	// Reference dates are plain years, so string order is date order.
	for i := range metrics {
		if d := metrics[i].Indicator(refIndicatorKey).Date; d > summary.LastUpdated {
			summary.LastUpdated = d
		}
	}
	return summary
}
