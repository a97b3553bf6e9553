package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// NotApplicable is rendered for a percentage that cannot be computed.
const NotApplicable = "N/A"

// FormatCurrency renders v as dollars with two decimals. NaN renders "$NaN".
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$NaN"
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPercent renders v as a percentage with two decimals. NaN renders "N/A".
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotApplicable
	}
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}
