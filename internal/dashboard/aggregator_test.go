package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/seenimoa/europulse/internal/provider"
	"github.com/seenimoa/europulse/pkg/models"
)

// fakeFetcher delegates to a function, bypassing caching and rate
// limiting so tests control every call.
type fakeFetcher struct {
	provider.BaseFetcher
	fn func(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	return f.fn(ctx, params)
}

type fakeProvider struct {
	provider.BaseProvider
}

func newFakeProvider(name string, fetchers map[provider.ModelType]func(context.Context, provider.QueryParams) (*provider.FetchResult, error)) *fakeProvider {
	p := &fakeProvider{BaseProvider: provider.NewBaseProvider(name, "test provider", "")}
	for model, fn := range fetchers {
		p.RegisterFetcher(&fakeFetcher{
			BaseFetcher: provider.NewBaseFetcher(model, "test", nil, nil),
			fn:          fn,
		})
	}
	return p
}

var (
	testCountries = []models.CountryConfig{
		{Name: "Germany", WorldBankCode: "DE", EurostatCode: "DE"},
		{Name: "France", WorldBankCode: "FR", EurostatCode: "FR"},
	}
	testIndicators = []models.IndicatorSpec{
		{Key: "gdp", Code: "NY.GDP.MKTP.CD", Source: models.SourceWorldBank, Format: models.FormatCompact},
		{Key: "hicp", Code: "prc_hicp_manr", Source: models.SourceEurostat, Format: models.FormatPercent},
	}
)

func newTestRegistry(t *testing.T,
	seriesFn func(context.Context, provider.QueryParams) (*provider.FetchResult, error),
	rateFn func(context.Context, provider.QueryParams) (*provider.FetchResult, error),
) *provider.Registry {
	t.Helper()
	reg := provider.NewRegistry()
	if err := reg.Register(newFakeProvider("worldbank", map[provider.ModelType]func(context.Context, provider.QueryParams) (*provider.FetchResult, error){
		provider.ModelIndicatorSeries: seriesFn,
	})); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(newFakeProvider("eurostat", map[provider.ModelType]func(context.Context, provider.QueryParams) (*provider.FetchResult, error){
		provider.ModelMonthlyRate: rateFn,
	})); err != nil {
		t.Fatal(err)
	}
	return reg
}

func okSeries(values map[string]models.IndicatorSeries) func(context.Context, provider.QueryParams) (*provider.FetchResult, error) {
	return func(_ context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
		return &provider.FetchResult{Data: values[params[provider.ParamCountry]]}, nil
	}
}

func okRate(values map[string]models.SelectedIndicator) func(context.Context, provider.QueryParams) (*provider.FetchResult, error) {
	return func(_ context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
		return &provider.FetchResult{Data: values[params[provider.ParamCountry]]}, nil
	}
}

func TestAggregateOrderAndSelection(t *testing.T) {
	reg := newTestRegistry(t,
		okSeries(map[string]models.IndicatorSeries{
			"DE": {
				{Year: "2022", Value: models.Float(4.0e12)},
				{Year: "2023", Value: models.Float(4.5e12)},
			},
			"FR": {
				{Year: "2023", Value: nil},
				{Year: "2022", Value: models.Float(2.8e12)},
			},
		}),
		okRate(map[string]models.SelectedIndicator{
			"DE": {Value: models.Float(3.1), Date: "2024-01"},
			"FR": {Value: models.Float(3.4), Date: "2024-01"},
		}),
	)

	agg := NewAggregator(reg, testCountries, testIndicators, 4, 12)
	metrics, err := agg.Aggregate(context.Background(), "")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(metrics) != 2 || metrics[0].Name != "Germany" || metrics[1].Name != "France" {
		t.Fatalf("metrics order = %+v, want input order Germany, France", metrics)
	}

	de := metrics[0].Indicator("gdp")
	if de.Date != "2023" || de.Value == nil || *de.Value != 4.5e12 {
		t.Errorf("Germany gdp = %+v, want 4.5e12 @ 2023", de)
	}
	// France's 2023 is null, so the latest non-null (2022) wins.
	fr := metrics[1].Indicator("gdp")
	if fr.Date != "2022" || fr.Value == nil || *fr.Value != 2.8e12 {
		t.Errorf("France gdp = %+v, want 2.8e12 @ 2022", fr)
	}
	if hicp := metrics[0].Indicator("hicp"); hicp.Value == nil || *hicp.Value != 3.1 {
		t.Errorf("Germany hicp = %+v, want 3.1", hicp)
	}

	// Every configured indicator key must be present for every country.
	for _, cm := range metrics {
		for _, spec := range testIndicators {
			if _, ok := cm.Indicators[spec.Key]; !ok {
				t.Errorf("%s missing indicator key %q", cm.Name, spec.Key)
			}
		}
	}
}

func TestAggregatePartialCountryFailure(t *testing.T) {
	boom := errors.New("connection refused")
	reg := newTestRegistry(t,
		func(_ context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
			if params[provider.ParamCountry] == "FR" {
				return nil, &provider.RetrievalError{Source: "worldbank", Country: "FR", Err: boom}
			}
			return &provider.FetchResult{Data: models.IndicatorSeries{
				{Year: "2023", Value: models.Float(1)},
			}}, nil
		},
		func(_ context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
			if params[provider.ParamCountry] == "FR" {
				return nil, &provider.RetrievalError{Source: "eurostat", Country: "FR", Err: boom}
			}
			return &provider.FetchResult{Data: models.SelectedIndicator{Value: models.Float(2.5), Date: "2024-01"}}, nil
		},
	)

	agg := NewAggregator(reg, testCountries, testIndicators, 4, 12)
	metrics, err := agg.Aggregate(context.Background(), "")
	if err != nil {
		t.Fatalf("Aggregate: %v, want partial success", err)
	}

	if metrics[0].Error != "" {
		t.Errorf("Germany carries error %q, want none", metrics[0].Error)
	}
	if metrics[1].Error == "" {
		t.Error("France should carry an error after all its fetches failed")
	}
	if sel := metrics[1].Indicator("gdp"); sel.Value != nil {
		t.Errorf("failed country gdp = %+v, want null", sel)
	}
}

func TestAggregateAllCountriesFail(t *testing.T) {
	fail := func(_ context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
		return nil, &provider.RetrievalError{
			Source: "worldbank", Country: params[provider.ParamCountry],
			Err: errors.New("503"),
		}
	}
	reg := newTestRegistry(t, fail, fail)

	agg := NewAggregator(reg, testCountries, testIndicators, 4, 12)
	_, err := agg.Aggregate(context.Background(), "2023")
	if err == nil {
		t.Fatal("expected LoadError when every country fails")
	}
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("error type = %T, want *LoadError", err)
	}
	if lerr.Year != "2023" {
		t.Errorf("LoadError.Year = %q, want 2023", lerr.Year)
	}
}

func TestYearOptionsDerivedOnce(t *testing.T) {
	var seriesFetches int32
	reg := newTestRegistry(t,
		func(_ context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
			atomic.AddInt32(&seriesFetches, 1)
			return &provider.FetchResult{Data: models.IndicatorSeries{
				{Year: "2021", Value: models.Float(1)},
				{Year: "2023", Value: models.Float(2)},
				{Year: "2022", Value: nil},
			}}, nil
		},
		okRate(nil),
	)

	agg := NewAggregator(reg, testCountries, testIndicators, 4, 2)

	first := agg.YearOptions(context.Background())
	second := agg.YearOptions(context.Background())

	want := []string{"2023", "2022"}
	if len(first) != 2 || first[0] != want[0] || first[1] != want[1] {
		t.Errorf("YearOptions = %v, want %v", first, want)
	}
	if len(second) != 2 {
		t.Errorf("second YearOptions = %v", second)
	}
	if got := atomic.LoadInt32(&seriesFetches); got != 1 {
		t.Errorf("reference series fetched %d times, want 1", got)
	}
}

func TestSummarize(t *testing.T) {
	agg := NewAggregator(provider.NewRegistry(), testCountries, testIndicators, 4, 12)

	metrics := []models.CountryMetrics{
		{
			Name: "Germany",
			Indicators: map[string]models.SelectedIndicator{
				"gdp":  {Value: models.Float(4), Date: "2023"},
				"hicp": {Value: models.Float(3.0), Date: "2024-02"},
			},
		},
		{
			Name: "France",
			Indicators: map[string]models.SelectedIndicator{
				"gdp":  {Value: models.Float(2), Date: "2023"},
				"hicp": {Value: nil, Date: "2024-01"},
			},
		},
		{
			Name: "Italy",
			Indicators: map[string]models.SelectedIndicator{
				"gdp":  {Value: nil, Date: "2023"},
				"hicp": {Value: nil, Date: ""},
			},
		},
	}

	summary := agg.Summarize(metrics)

	// gdp average over non-null values only: (4+2)/2.
	if avg := summary.Averages["gdp"]; avg == nil || *avg != 3 {
		t.Errorf("gdp average = %v, want 3", avg)
	}
	// hicp has one non-null value.
	if avg := summary.Averages["hicp"]; avg == nil || *avg != 3.0 {
		t.Errorf("hicp average = %v, want 3.0", avg)
	}
	// Monthly hicp dates (2024-02) must not move LastUpdated; only the
	// gdp series drives it.
	if summary.LastUpdated != "2023" {
		t.Errorf("LastUpdated = %q, want 2023", summary.LastUpdated)
	}
}

func TestSummarizeLastUpdatedIgnoresMonthlyDates(t *testing.T) {
	agg := NewAggregator(provider.NewRegistry(), testCountries, testIndicators, 4, 12)

	metrics := []models.CountryMetrics{
		{Name: "Germany", Indicators: map[string]models.SelectedIndicator{
			"gdp":  {Value: models.Float(4), Date: "2022"},
			"hicp": {Value: models.Float(2.4), Date: "2024-12"},
		}},
		{Name: "France", Indicators: map[string]models.SelectedIndicator{
			"gdp":  {Value: models.Float(2), Date: "2023"},
			"hicp": {Value: models.Float(1.9), Date: "2024-11"},
		}},
	}

	summary := agg.Summarize(metrics)
	if summary.LastUpdated != "2023" {
		t.Errorf("LastUpdated = %q, want gdp max 2023", summary.LastUpdated)
	}
}

func TestSummarizeAllNull(t *testing.T) {
	agg := NewAggregator(provider.NewRegistry(), testCountries, testIndicators, 4, 12)

	metrics := []models.CountryMetrics{
		{Name: "Germany", Indicators: map[string]models.SelectedIndicator{
			"gdp": {}, "hicp": {},
		}},
	}

	summary := agg.Summarize(metrics)
	if avg, ok := summary.Averages["gdp"]; !ok || avg != nil {
		t.Errorf("gdp average = %v (present=%v), want explicit nil entry", avg, ok)
	}
	if summary.LastUpdated != "" {
		t.Errorf("LastUpdated = %q, want empty", summary.LastUpdated)
	}
}
