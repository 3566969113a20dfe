package provider

// ModelType represents a standard data model type. Each ModelType maps
// to a specific data structure in pkg/models/.
type ModelType string

const (
	// ModelIndicatorSeries is the full annual observation series for one
	// (country, indicator) pair.
	ModelIndicatorSeries ModelType = "IndicatorSeries"

	// ModelMonthlyRate is a single latest-or-matching-month observation
	// extracted from a monthly dataset.
	ModelMonthlyRate ModelType = "MonthlyRate"

	// ModelAvailableIndicators lists the indicator codes a provider knows.
	ModelAvailableIndicators ModelType = "AvailableIndicators"
)
