package exporter

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// formatAmount formats a money value with exactly 2 decimal places,
// so 13.4 appears as 13.40.
func formatAmount(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatList joins values with "; " so lists survive inside one cell.
func formatList(values []string) string {
	return strings.Join(values, "; ")
}
