// Package models defines the shared data structures exchanged between
// providers, the dashboard aggregator, and the API layer.
package models

// IndicatorPoint is a single observation in an indicator time series.
// Value is nil when the source reported no figure for that year.
type IndicatorPoint struct {
	Year  string   `json:"year"`
	Value *float64 `json:"value"`
}

// IndicatorSeries is the full observation set for one (country, indicator)
// pair. Order is fetch order; it is not guaranteed chronological and may
// contain gaps or null values.
type IndicatorSeries []IndicatorPoint

// SelectedIndicator is the single observation chosen from a series for a
// given (or default) year. Date is the empty string when no reference
// period applies.
type SelectedIndicator struct {
	Value *float64 `json:"value"`
	Date  string   `json:"date"`
}

// CountryConfig identifies one tracked country across both data sources.
type CountryConfig struct {
	Name          string `json:"name"           mapstructure:"name"`
	WorldBankCode string `json:"world_bank_code" mapstructure:"world_bank_code"`
	EurostatCode  string `json:"eurostat_code"   mapstructure:"eurostat_code"`
}

// CountryMetrics holds the selected observation for every tracked
// indicator of one country. The map always carries one entry per
// configured indicator key, even when the value is null. An Error is
// recorded when the country's fetches failed and no metrics exist.
type CountryMetrics struct {
	Name       string                       `json:"name"`
	Indicators map[string]SelectedIndicator `json:"indicators"`
	Error      string                       `json:"error,omitempty"`
}

// Indicator returns the selected observation for key, or a null
// observation when the key is unknown.
func (cm *CountryMetrics) Indicator(key string) SelectedIndicator {
	if cm.Indicators == nil {
		return SelectedIndicator{}
	}
	return cm.Indicators[key]
}

// SummaryMetrics aggregates the country set: per-indicator averages over
// non-null values and the most recent observation date seen.
type SummaryMetrics struct {
	Averages    map[string]*float64 `json:"averages"`
	LastUpdated string              `json:"last_updated,omitempty"`
}

// RankingItem is one row of a ranked list. Value is already formatted
// per the indicator's display rules.
type RankingItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FormatKind selects the display rule for an indicator's values.
type FormatKind string

const (
	// FormatCompact renders large magnitudes in compact notation (4.2T).
	FormatCompact FormatKind = "compact"
	// FormatPercent renders rate-like values with one decimal and a % sign.
	FormatPercent FormatKind = "percent"
)

// IndicatorSpec describes one tracked indicator: where it comes from and
// how its values are displayed.
type IndicatorSpec struct {
	Key    string     `json:"key"    mapstructure:"key"`    // e.g. "gdp"
	Code   string     `json:"code"   mapstructure:"code"`   // source indicator code
	Source string     `json:"source" mapstructure:"source"` // "worldbank" or "eurostat"
	Name   string     `json:"name"   mapstructure:"name"`
	Format FormatKind `json:"format" mapstructure:"format"`
}

// Data source names used in cache keys and provider routing.
const (
	SourceWorldBank = "worldbank"
	SourceEurostat  = "eurostat"
)

// DefaultIndicators is the indicator set tracked out of the box,
// mirroring the dashboard's coverage: GDP, GDP growth, CPI inflation,
// population and unemployment from the national-accounts source, plus
// monthly HICP from the price-index source.
var DefaultIndicators = []IndicatorSpec{
	{Key: "gdp", Code: "NY.GDP.MKTP.CD", Source: SourceWorldBank, Name: "GDP (current US$)", Format: FormatCompact},
	{Key: "growth", Code: "NY.GDP.MKTP.KD.ZG", Source: SourceWorldBank, Name: "GDP Growth (annual %)", Format: FormatPercent},
	{Key: "inflation", Code: "FP.CPI.TOTL.ZG", Source: SourceWorldBank, Name: "CPI Inflation (annual %)", Format: FormatPercent},
	{Key: "population", Code: "SP.POP.TOTL", Source: SourceWorldBank, Name: "Population", Format: FormatCompact},
	{Key: "unemployment", Code: "SL.UEM.TOTL.ZS", Source: SourceWorldBank, Name: "Unemployment (% of labour force)", Format: FormatPercent},
	{Key: "hicp", Code: "prc_hicp_manr", Source: SourceEurostat, Name: "HICP (monthly %)", Format: FormatPercent},
}

// DefaultCountries is the country set tracked out of the box.
var DefaultCountries = []CountryConfig{
	{Name: "Germany", WorldBankCode: "DE", EurostatCode: "DE"},
	{Name: "France", WorldBankCode: "FR", EurostatCode: "FR"},
	{Name: "Italy", WorldBankCode: "IT", EurostatCode: "IT"},
	{Name: "Spain", WorldBankCode: "ES", EurostatCode: "ES"},
	{Name: "Netherlands", WorldBankCode: "NL", EurostatCode: "NL"},
}

// Float returns a pointer to v. Convenience for building test fixtures
// and literals with optional values.
func Float(v float64) *float64 { return &v }
