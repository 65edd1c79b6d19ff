package dataprocessing

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cellsense/pkg/contracts/domain"
)

const monthLayout = "2006-01"

// MonthlyTrend sums the first numeric column per calendar month. The result
// is empty when the table has no usable date column or no numeric column.
func MonthlyTrend(t *Table) []domain.MonthValue {
	out := []domain.MonthValue{}

	dates, ok := findDateColumn(t)
	if !ok {
		return out
	}
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return out
	}
	valueCol := numeric[0]

	buckets := make(map[string]decimal.Decimal)
	for r, row := range t.Rows {
		d := dates[r]
		if d.IsZero() {
			continue
		}
		key := d.Format(monthLayout)
		sum := buckets[key]
		if v, ok := row[valueCol].Number(); ok {
			sum = sum.Add(decimal.NewFromFloat(v))
		}
		buckets[key] = sum
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		out = append(out, domain.MonthValue{Month: m, Value: buckets[m].InexactFloat64()})
	}
	return out
}

// findDateColumn returns the per-row dates of the trend date column. A
// date-kind column is preferred; otherwise the first column named like a
// date whose every present value parses is used.
func findDateColumn(t *Table) ([]time.Time, bool) {
	for i := range t.Columns {
		if t.ColumnKind(i) == KindDate {
			return columnDates(t, i)
		}
	}
	for i, col := range t.Columns {
		if !strings.Contains(strings.ToLower(col.Name), "date") {
			continue
		}
		if dates, ok := columnDates(t, i); ok {
			return dates, true
		}
	}
	return nil, false
}

func columnDates(t *Table, col int) ([]time.Time, bool) {
	dates := make([]time.Time, len(t.Rows))
	for r, row := range t.Rows {
		if row[col].IsEmpty() {
			continue
		}
		d, ok := CoerceDate(row[col])
		if !ok {
			return nil, false
		}
		dates[r] = d
	}
	return dates, true
}
