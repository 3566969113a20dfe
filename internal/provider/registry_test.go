package provider

import (
	"context"
	"errors"
	"testing"
)

type staticFetcher struct {
	BaseFetcher
	result *FetchResult
	err    error
}

func (f *staticFetcher) Fetch(ctx context.Context, params QueryParams) (*FetchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type staticProvider struct {
	BaseProvider
}

func newStaticProvider(name string, model ModelType, required []string, result *FetchResult, err error) *staticProvider {
	p := &staticProvider{BaseProvider: NewBaseProvider(name, "test", "")}
	p.RegisterFetcher(&staticFetcher{
		BaseFetcher: NewBaseFetcher(model, "test", required, nil),
		result:      result,
		err:         err,
	})
	return p
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	p := newStaticProvider("worldbank", ModelIndicatorSeries, nil, &FetchResult{}, nil)

	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := reg.Get("worldbank")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Info().Name != "worldbank" {
		t.Errorf("Info().Name = %q", got.Info().Name)
	}

	if _, err := reg.Get("missing"); err == nil {
		t.Error("Get(missing) should fail")
	}
	var nf *ErrProviderNotFound
	if _, err := reg.Get("missing"); !errors.As(err, &nf) {
		t.Errorf("error type = %T, want *ErrProviderNotFound", err)
	}
}

func TestDefaultProviderAssignment(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(newStaticProvider("worldbank", ModelIndicatorSeries, nil, &FetchResult{}, nil)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(newStaticProvider("eurostat", ModelMonthlyRate, nil, &FetchResult{}, nil)); err != nil {
		t.Fatal(err)
	}

	name, ok := reg.DefaultProvider(ModelIndicatorSeries)
	if !ok || name != "worldbank" {
		t.Errorf("DefaultProvider(IndicatorSeries) = %q/%v", name, ok)
	}
	name, ok = reg.DefaultProvider(ModelMonthlyRate)
	if !ok || name != "eurostat" {
		t.Errorf("DefaultProvider(MonthlyRate) = %q/%v", name, ok)
	}
}

func TestSetDefaultRejectsUnsupported(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(newStaticProvider("worldbank", ModelIndicatorSeries, nil, &FetchResult{}, nil)); err != nil {
		t.Fatal(err)
	}

	if err := reg.SetDefault(ModelMonthlyRate, "worldbank"); err == nil {
		t.Error("SetDefault should reject a provider without the model")
	}
	if err := reg.SetDefault(ModelIndicatorSeries, "worldbank"); err != nil {
		t.Errorf("SetDefault: %v", err)
	}
}

func TestFetchRoutesAndStamps(t *testing.T) {
	reg := NewRegistry()
	data := "payload"
	if err := reg.Register(newStaticProvider("worldbank", ModelIndicatorSeries, nil, &FetchResult{Data: data}, nil)); err != nil {
		t.Fatal(err)
	}

	result, err := reg.Fetch(context.Background(), ModelIndicatorSeries, QueryParams{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Provider != "worldbank" || result.Model != ModelIndicatorSeries {
		t.Errorf("result stamps = %q/%q", result.Provider, result.Model)
	}
	if result.FetchedAt.IsZero() {
		t.Error("FetchedAt should be stamped")
	}
	if result.Data != data {
		t.Errorf("Data = %v", result.Data)
	}
}

func TestFetchDoesNotMutateFetcherResult(t *testing.T) {
	reg := NewRegistry()
	shared := &FetchResult{Data: "payload", Cached: true}
	if err := reg.Register(newStaticProvider("worldbank", ModelIndicatorSeries, nil, shared, nil)); err != nil {
		t.Fatal(err)
	}

	result, err := reg.Fetch(context.Background(), ModelIndicatorSeries, QueryParams{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result == shared {
		t.Fatal("Fetch returned the fetcher's own pointer; cached results must be copied before stamping")
	}
	if shared.Provider != "" || shared.Model != "" || !shared.FetchedAt.IsZero() {
		t.Errorf("fetcher's result was mutated: %+v", shared)
	}
	if result.Provider != "worldbank" || result.Model != ModelIndicatorSeries {
		t.Errorf("copy stamps = %q/%q", result.Provider, result.Model)
	}
	if !result.Cached {
		t.Error("copy should preserve the Cached flag")
	}
}

func TestFetchValidatesRequiredParams(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(newStaticProvider("worldbank", ModelIndicatorSeries, []string{ParamCountry}, &FetchResult{}, nil)); err != nil {
		t.Fatal(err)
	}

	_, err := reg.Fetch(context.Background(), ModelIndicatorSeries, QueryParams{})
	var missing *ErrMissingParam
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *ErrMissingParam", err)
	}
	if missing.Param != ParamCountry {
		t.Errorf("Param = %q, want country", missing.Param)
	}
}

func TestFetchPreservesFetcherErrorType(t *testing.T) {
	reg := NewRegistry()
	rerr := &RetrievalError{Source: "worldbank", Country: "DE", Indicator: "X", Err: errors.New("down")}
	if err := reg.Register(newStaticProvider("worldbank", ModelIndicatorSeries, nil, nil, rerr)); err != nil {
		t.Fatal(err)
	}

	_, err := reg.Fetch(context.Background(), ModelIndicatorSeries, QueryParams{})
	var got *RetrievalError
	if !errors.As(err, &got) {
		t.Fatalf("error type = %T, want *RetrievalError passed through", err)
	}
}

func TestFetchUnknownModel(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Fetch(context.Background(), ModelIndicatorSeries, QueryParams{})
	if err == nil {
		t.Error("Fetch with no providers should fail")
	}
}

func TestProviderOverrideParam(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(newStaticProvider("primary", ModelIndicatorSeries, nil, &FetchResult{Data: "a"}, nil)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(newStaticProvider("secondary", ModelIndicatorSeries, nil, &FetchResult{Data: "b"}, nil)); err != nil {
		t.Fatal(err)
	}

	result, err := reg.Fetch(context.Background(), ModelIndicatorSeries, QueryParams{ParamProvider: "secondary"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Provider != "secondary" || result.Data != "b" {
		t.Errorf("result = %+v, want secondary/b", result)
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey(ModelIndicatorSeries, QueryParams{
		ParamCountry: "DE", ParamIndicator: "X", ParamProvider: "worldbank",
	})
	b := CacheKey(ModelIndicatorSeries, QueryParams{
		ParamIndicator: "X", ParamCountry: "DE",
	})
	if a != b {
		t.Errorf("CacheKey order-sensitive or provider-sensitive: %q vs %q", a, b)
	}
}
