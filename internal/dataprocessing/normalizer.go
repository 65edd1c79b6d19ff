package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// numericNameHints marks columns whose cells are coerced to numbers.
var numericNameHints = []string{"amount", "value", "total", "price", "sum", "income", "expense", "cost"}

// NormalizeStats reports what the normalizer changed.
type NormalizeStats struct {
	HeaderlessFallback bool
	PromotedHeader     bool
	DroppedRows        int
	DroppedColumns     int
	CoercedColumns     []string
	SkippedCells       int
}

// Normalize turns a raw cell grid, as read from the first worksheet, into a
// Table with unique headers and numeric coercion applied.
func Normalize(grid [][]Cell) *Table {
	t, _ := NormalizeWithStats(grid)
	return t
}

// NormalizeWithStats is Normalize that also reports what was changed.
func NormalizeWithStats(grid [][]Cell) (*Table, NormalizeStats) {
	var stats NormalizeStats
	grid = padGrid(grid)

	names, rows := withHeaderRow(grid)
	names, rows, dr, dc := dropEmpty(names, rows)
	if len(rows) == 0 {
		stats.HeaderlessFallback = true
		names, rows = withoutHeaderRow(grid)
		names, rows, dr, dc = dropEmpty(names, rows)
	}
	stats.DroppedRows, stats.DroppedColumns = dr, dc

	if len(rows) > 0 && lacksRealHeader(names) {
		if promoted, ok := promoteHeader(rows[0]); ok {
			names = promoted
			rows = rows[1:]
			stats.PromotedHeader = true
		}
	}

	names = DedupeNames(names)

	t := &Table{Columns: make([]Column, len(names)), Rows: rows}
	if t.Rows == nil {
		t.Rows = [][]Cell{}
	}
	for i, n := range names {
		t.Columns[i] = Column{Name: n}
	}

	for i, col := range t.Columns {
		if !hasNumericHint(col.Name) {
			continue
		}
		t.Columns[i].Declared = KindNumber
		stats.CoercedColumns = append(stats.CoercedColumns, col.Name)
		for _, row := range t.Rows {
			if row[i].IsEmpty() {
				continue
			}
			if v, ok := CoerceNumber(row[i]); ok {
				row[i] = NumberCell(v)
			} else {
				row[i] = EmptyCell()
				stats.SkippedCells++
			}
		}
	}

	return t, stats
}

// DedupeNames makes header names unique. Blank names become "Column" and
// repeats of a name are suffixed " (2)", " (3)" and so on.
func DedupeNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	used := make(map[string]bool, len(names))
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			n = "Column"
		}
		seen[n]++
		name := n
		for c := seen[n]; c > 1 || used[name]; c++ {
			if c < 2 {
				c = 2
			}
			name = fmt.Sprintf("%s (%d)", n, c)
			seen[n] = c
			if !used[name] {
				break
			}
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func padGrid(grid [][]Cell) [][]Cell {
	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}
	out := make([][]Cell, len(grid))
	for i, row := range grid {
		if len(row) == width {
			out[i] = append([]Cell(nil), row...)
			continue
		}
		padded := make([]Cell, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// withHeaderRow reads the first non-blank row as header names.
func withHeaderRow(grid [][]Cell) ([]string, [][]Cell) {
	for h, row := range grid {
		if rowIsEmpty(row) {
			continue
		}
		names := make([]string, len(row))
		for j, c := range row {
			names[j] = headerName(c, j)
		}
		return names, copyRows(grid[h+1:])
	}
	return []string{}, nil
}

func withoutHeaderRow(grid [][]Cell) ([]string, [][]Cell) {
	width := 0
	if len(grid) > 0 {
		width = len(grid[0])
	}
	names := make([]string, width)
	for j := range names {
		names[j] = strconv.Itoa(j)
	}
	return names, copyRows(grid)
}

func headerName(c Cell, pos int) string {
	switch c.Kind() {
	case KindEmpty:
		return fmt.Sprintf("Unnamed: %d", pos)
	case KindNumber:
		if v, _ := c.Number(); v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
	}
	if s := strings.TrimSpace(c.String()); s != "" {
		return s
	}
	return fmt.Sprintf("Unnamed: %d", pos)
}

func copyRows(rows [][]Cell) [][]Cell {
	out := make([][]Cell, len(rows))
	for i, row := range rows {
		out[i] = append([]Cell(nil), row...)
	}
	return out
}

// dropEmpty removes rows and columns that hold no value at all.
func dropEmpty(names []string, rows [][]Cell) ([]string, [][]Cell, int, int) {
	kept := rows[:0:0]
	for _, row := range rows {
		if !rowIsEmpty(row) {
			kept = append(kept, row)
		}
	}
	droppedRows := len(rows) - len(kept)

	var keepCols []int
	for j := range names {
		for _, row := range kept {
			if !row[j].IsEmpty() {
				keepCols = append(keepCols, j)
				break
			}
		}
	}
	droppedCols := len(names) - len(keepCols)
	if droppedCols == 0 {
		return names, kept, droppedRows, 0
	}

	outNames := make([]string, len(keepCols))
	for i, j := range keepCols {
		outNames[i] = names[j]
	}
	for r, row := range kept {
		cells := make([]Cell, len(keepCols))
		for i, j := range keepCols {
			cells[i] = row[j]
		}
		kept[r] = cells
	}
	return outNames, kept, droppedRows, droppedCols
}

func rowIsEmpty(row []Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// lacksRealHeader reports whether every name is a positional index or an
// "Unnamed" placeholder.
func lacksRealHeader(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names {
		if strings.HasPrefix(n, "Unnamed") {
			continue
		}
		if v, err := strconv.Atoi(n); err == nil && v >= 0 {
			continue
		}
		return false
	}
	return true
}

// promoteHeader turns a data row into header names. A row without any
// non-blank string is data and is not promoted.
func promoteHeader(row []Cell) ([]string, bool) {
	hasText := false
	for _, c := range row {
		if c.Kind() == KindText && strings.TrimSpace(c.String()) != "" {
			hasText = true
			break
		}
	}
	if !hasText {
		return nil, false
	}

	names := make([]string, len(row))
	for i, c := range row {
		n := strings.TrimSpace(c.String())
		if n == "" {
			n = fmt.Sprintf("Column %d", i+1)
		}
		names[i] = n
	}
	return names, true
}

func hasNumericHint(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range numericNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
