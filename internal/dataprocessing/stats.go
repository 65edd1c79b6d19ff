package dataprocessing

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"cellsense/pkg/contracts/domain"
)

// ColumnStatistics computes sum, mean, min, max and sample standard
// deviation for every numeric column. Statistics that are undefined for a
// column, such as the mean of no values, are reported as 0.
func ColumnStatistics(t *Table) []domain.ColumnStats {
	numeric := t.NumericColumns()
	out := make([]domain.ColumnStats, 0, len(numeric))
	for _, col := range numeric {
		out = append(out, columnStats(t, col))
	}
	return out
}

func columnStats(t *Table, col int) domain.ColumnStats {
	stats := domain.ColumnStats{Column: t.Columns[col].Name}

	var values []float64
	sum := decimal.Zero
	for _, row := range t.Rows {
		if v, ok := row[col].Number(); ok {
			values = append(values, v)
			sum = sum.Add(decimal.NewFromFloat(v))
		}
	}
	stats.Sum = sum.InexactFloat64()
	if len(values) == 0 {
		return stats
	}

	n := float64(len(values))
	stats.Mean = stats.Sum / n
	stats.Min, stats.Max = values[0], values[0]
	for _, v := range values[1:] {
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
	}

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - stats.Mean
			sq += d * d
		}
		stats.Std = math.Sqrt(sq / (n - 1))
	}
	return stats
}

// CategorizedExpenses sums the first numeric column per value of the first
// column whose name mentions "category", ordered by category name.
func CategorizedExpenses(t *Table) []domain.CategoryAmount {
	out := []domain.CategoryAmount{}

	catCol := -1
	for i, col := range t.Columns {
		if strings.Contains(strings.ToLower(col.Name), "category") {
			catCol = i
			break
		}
	}
	numeric := t.NumericColumns()
	if catCol < 0 || len(numeric) == 0 {
		return out
	}
	amountCol := numeric[0]

	sums := make(map[string]decimal.Decimal)
	for _, row := range t.Rows {
		if row[catCol].IsEmpty() {
			continue
		}
		name := row[catCol].String()
		sum := sums[name]
		if v, ok := row[amountCol].Number(); ok {
			sum = sum.Add(decimal.NewFromFloat(v))
		}
		sums[name] = sum
	}

	names := make([]string, 0, len(sums))
	for n := range sums {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		out = append(out, domain.CategoryAmount{Category: n, Amount: sums[n].InexactFloat64()})
	}
	return out
}
