package models

import "testing"

func TestDefaultIndicatorsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, spec := range DefaultIndicators {
		if spec.Key == "" || spec.Code == "" || spec.Name == "" {
			t.Errorf("incomplete spec: %+v", spec)
		}
		if seen[spec.Key] {
			t.Errorf("duplicate indicator key %q", spec.Key)
		}
		seen[spec.Key] = true
		if spec.Source != SourceWorldBank && spec.Source != SourceEurostat {
			t.Errorf("spec %q has unknown source %q", spec.Key, spec.Source)
		}
		if spec.Format != FormatCompact && spec.Format != FormatPercent {
			t.Errorf("spec %q has unknown format %q", spec.Key, spec.Format)
		}
	}
	if !seen["gdp"] || !seen["hicp"] {
		t.Error("default set must cover gdp and hicp")
	}
}

func TestDefaultCountriesWellFormed(t *testing.T) {
	for _, c := range DefaultCountries {
		if c.Name == "" || c.WorldBankCode == "" || c.EurostatCode == "" {
			t.Errorf("incomplete country: %+v", c)
		}
	}
}

func TestCountryMetricsIndicator(t *testing.T) {
	cm := CountryMetrics{
		Name: "Germany",
		Indicators: map[string]SelectedIndicator{
			"gdp": {Value: Float(4.5e12), Date: "2023"},
		},
	}

	if got := cm.Indicator("gdp"); got.Value == nil || *got.Value != 4.5e12 {
		t.Errorf("Indicator(gdp) = %+v", got)
	}
	if got := cm.Indicator("unknown"); got.Value != nil || got.Date != "" {
		t.Errorf("Indicator(unknown) = %+v, want zero value", got)
	}

	var empty CountryMetrics
	if got := empty.Indicator("gdp"); got.Value != nil {
		t.Errorf("nil-map Indicator = %+v, want zero value", got)
	}
}
