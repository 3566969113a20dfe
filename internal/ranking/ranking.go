// Package ranking builds ranked country lists from aggregated metrics.
// Pure and deterministic; formatting follows each indicator's display
// rule.
package ranking

import (
	"sort"

	"github.com/seenimoa/europulse/pkg/models"
	"github.com/seenimoa/europulse/pkg/utils"
)

// Rank sorts countries descending by the given indicator and formats
// each value per spec.Format. Countries whose value for the indicator
// is null are excluded, as are countries whose metrics failed to load.
func Rank(metrics []models.CountryMetrics, spec models.IndicatorSpec) []models.RankingItem {
	type entry struct {
		name  string
		value float64
	}

	entries := make([]entry, 0, len(metrics))
	for i := range metrics {
		cm := &metrics[i]
		if cm.Error != "" {
			continue
		}
		sel := cm.Indicator(spec.Key)
		if sel.Value == nil {
			continue
		}
		entries = append(entries, entry{name: cm.Name, value: *sel.Value})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value > entries[j].value
	})

	items := make([]models.RankingItem, len(entries))
	for i, e := range entries {
		items[i] = models.RankingItem{Name: e.name, Value: Format(e.value, spec.Format)}
	}
	return items
}

// Format renders a value per the indicator's display rule.
func Format(v float64, kind models.FormatKind) string {
	switch kind {
	case models.FormatPercent:
		return utils.FormatPercent(v)
	default:
		return utils.FormatCompact(v)
	}
}
