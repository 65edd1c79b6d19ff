package dataprocessing

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnreadableSpreadsheet is returned when the bytes are not a workbook.
	ErrUnreadableSpreadsheet = errors.New("spreadsheet could not be read")
	// ErrUnsupportedFileType is returned for files that are not .xlsx or .xls.
	ErrUnsupportedFileType = errors.New("only Excel files (.xlsx, .xls) are supported")
)

// SupportedExtensions lists the accepted workbook extensions.
var SupportedExtensions = []string{".xlsx", ".xls"}

// IsSupportedFile reports whether filename has a workbook extension.
func IsSupportedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadTable reads the first worksheet of a workbook and normalizes it.
func LoadTable(data []byte, filename string) (*Table, error) {
	grid, err := ReadGrid(data, filename)
	if err != nil {
		return nil, err
	}
	return Normalize(grid), nil
}

// LoadTableWithStats is LoadTable that also reports what normalization did.
func LoadTableWithStats(data []byte, filename string) (*Table, NormalizeStats, error) {
	grid, err := ReadGrid(data, filename)
	if err != nil {
		return nil, NormalizeStats{}, err
	}
	table, stats := NormalizeWithStats(grid)
	return table, stats, nil
}

// ReadGrid reads the first worksheet into a raw cell grid. The format is
// chosen by file extension.
func ReadGrid(data []byte, filename string) ([][]Cell, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFileType)
	}
}

func readXLSX(data []byte) ([][]Cell, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w: %v", ErrUnreadableSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %w", ErrUnreadableSpreadsheet)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w: %v", sheet, ErrUnreadableSpreadsheet, err)
	}

	dates := dateStyleCache{file: f, styles: make(map[int]bool)}
	grid := make([][]Cell, len(rows))
	for r, row := range rows {
		cells := make([]Cell, len(row))
		for c, raw := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", r, c, err)
			}
			cells[c] = xlsxCell(f, sheet, name, raw, &dates)
		}
		grid[r] = cells
	}
	return grid, nil
}

// xlsxCell converts a raw cell value using the cell type and number format.
func xlsxCell(f *excelize.File, sheet, name, raw string, dates *dateStyleCache) Cell {
	if raw == "" {
		return EmptyCell()
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return TextCell(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return TextCell(raw)
	case excelize.CellTypeDate:
		if t, ok := ParseDate(raw); ok {
			return DateCell(t)
		}
		return TextCell(raw)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return TextCell(raw)
	}
	if dates.isDate(sheet, name) {
		if t, err := excelize.ExcelDateToTime(v, false); err == nil {
			return DateCell(t.UTC())
		}
	}
	return NumberCell(v)
}

// dateStyleCache remembers which cell styles carry a date number format.
type dateStyleCache struct {
	file   *excelize.File
	styles map[int]bool
}

func (d *dateStyleCache) isDate(sheet, cell string) bool {
	idx, err := d.file.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := d.styles[idx]; ok {
		return v
	}
	style, err := d.file.GetStyle(idx)
	isDate := err == nil && style != nil && isDateFormat(style)
	d.styles[idx] = isDate
	return isDate
}

func isDateFormat(style *excelize.Style) bool {
	switch style.NumFmt {
	case 14, 15, 16, 17, 22, 27, 30, 36, 50, 57:
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	format := strings.ToLower(*style.CustomNumFmt)
	if i := strings.Index(format, ";"); i >= 0 {
		format = format[:i]
	}
	// Strip quoted literals and bracketed colors before looking for date tokens.
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range format {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '[' && !inQuote:
			inBracket = true
		case r == ']' && !inQuote:
			inBracket = false
		case !inQuote && !inBracket:
			b.WriteRune(r)
		}
	}
	stripped := b.String()
	return strings.Contains(stripped, "d") || strings.Contains(stripped, "yy")
}

// readXLS reads a legacy BIFF workbook. The reader needs a file on disk.
func readXLS(data []byte) ([][]Cell, error) {
	tmp, err := os.CreateTemp("", "cellsense-*.xls")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w: %v", ErrUnreadableSpreadsheet, err)
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets: %w", ErrUnreadableSpreadsheet)
	}

	var grid [][]Cell
	for _, row := range sheet.GetRows() {
		cols := row.GetCols()
		cells := make([]Cell, len(cols))
		for c, col := range cols {
			cells[c] = textToCell(col.GetString())
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// textToCell infers a cell from a rendered string: plain numbers become
// numbers, ISO dates become dates, anything else stays text.
func textToCell(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return EmptyCell()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return NumberCell(v)
	}
	for _, layout := range []string{time.DateOnly, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateCell(t)
		}
	}
	return TextCell(s)
}
