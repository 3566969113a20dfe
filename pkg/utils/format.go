// Package utils provides common utility functions for EuroPulse.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatCompact formats a number in compact notation, e.g.
// 4213000000000 → "4.21T", 83200000 → "83.2M". Mirrors the display
// rule for large magnitudes such as GDP and population.
func FormatCompact(value float64) string {
	negative := value < 0
	v := math.Abs(value)

	var s string
	switch {
	case v >= 1e12:
		s = trimZeros(fmt.Sprintf("%.2f", v/1e12)) + "T"
	case v >= 1e9:
		s = trimZeros(fmt.Sprintf("%.2f", v/1e9)) + "B"
	case v >= 1e6:
		s = trimZeros(fmt.Sprintf("%.2f", v/1e6)) + "M"
	case v >= 1e3:
		s = trimZeros(fmt.Sprintf("%.2f", v/1e3)) + "K"
	default:
		s = trimZeros(fmt.Sprintf("%.2f", v))
	}

	if negative {
		return "-" + s
	}
	return s
}

// FormatPercent formats a rate-like value with one decimal and a
// trailing percent sign, e.g. 2.348 → "2.3%".
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// trimZeros drops a trailing ".00" / ".x0" produced by fixed-precision
// formatting, so 4.20 → 4.2 and 5.00 → 5.
func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
