// Package series implements pure selection logic over fetched
// indicator series. It has no I/O; fetching lives in the provider
// packages.
package series

import (
	"sort"

	"github.com/seenimoa/europulse/pkg/models"
	"github.com/seenimoa/europulse/pkg/utils"
)

// Select picks the single applicable observation from a series.
//
// With a target year, the entry for that exact year is returned even
// when its value is null; a year with no entry echoes the year back
// with a null value so callers can still label the column. Without a
// target year, the most recent non-null observation wins.
//
// The input is never mutated; observation order from the source is not
// trusted and the series is re-sorted by numeric year, newest first.
// Same-year duplicates keep their source order.
func Select(s models.IndicatorSeries, targetYear string) models.SelectedIndicator {
	if len(s) == 0 {
		return models.SelectedIndicator{}
	}

	sorted := make(models.IndicatorSeries, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utils.ParseYear(sorted[i].Year) > utils.ParseYear(sorted[j].Year)
	})

	if targetYear != "" {
		for _, p := range sorted {
			if p.Year == targetYear {
				return models.SelectedIndicator{Value: p.Value, Date: p.Year}
			}
		}
		return models.SelectedIndicator{Value: nil, Date: targetYear}
	}

	for _, p := range sorted {
		if p.Value != nil {
			return models.SelectedIndicator{Value: p.Value, Date: p.Year}
		}
	}
	return models.SelectedIndicator{}
}

// Years extracts the distinct years present in a series, sorted
// descending, capped at limit (0 means no cap). Used to derive the
// selectable year range from a reference series.
func Years(s models.IndicatorSeries, limit int) []string {
	seen := make(map[string]struct{}, len(s))
	years := make([]string, 0, len(s))
	for _, p := range s {
		if p.Year == "" {
			continue
		}
		if _, ok := seen[p.Year]; ok {
			continue
		}
		seen[p.Year] = struct{}{}
		years = append(years, p.Year)
	}
	sort.Slice(years, func(i, j int) bool {
		return utils.ParseYear(years[i]) > utils.ParseYear(years[j])
	})
	if limit > 0 && len(years) > limit {
		years = years[:limit]
	}
	return years
}
