// Package providers initializes and registers all concrete data
// providers into a registry.
package providers

import (
	"time"

	"github.com/seenimoa/europulse/internal/config"
	"github.com/seenimoa/europulse/internal/provider"
	"github.com/seenimoa/europulse/internal/providers/eurostat"
	"github.com/seenimoa/europulse/internal/providers/worldbank"
	"github.com/seenimoa/europulse/internal/store"
)

// NewRegistry creates a registry with all available providers wired to
// the shared persistent cache. Both sources are free and keyless, so
// registration never depends on the environment.
func NewRegistry(cfg *config.Config, cache store.Store) (*provider.Registry, error) {
	reg := provider.NewRegistry()

	timeout := time.Duration(cfg.Sources.TimeoutSec) * time.Second

	// --- World Bank: annual national-accounts series ---
	wb := worldbank.New(cfg.Sources.WorldBankURL, timeout, cache)
	if err := reg.Register(wb); err != nil {
		return nil, err
	}

	// --- Eurostat: monthly harmonized price-index rates ---
	es := eurostat.New(cfg.Sources.EurostatURL, timeout, cache)
	if err := reg.Register(es); err != nil {
		return nil, err
	}

	return reg, nil
}
