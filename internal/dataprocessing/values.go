package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseAmount converts a loosely formatted amount such as "$1,234.50" or
// "(75.00)" to a float. Currency symbols, spaces and thousands separators are
// ignored; parentheses mark a negative value.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) || r == ',' {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	if negative {
		val = -math.Abs(val)
	}
	return val, true
}

// CoerceNumber returns the numeric value of a cell. Text is parsed with
// ParseAmount; dates and empty cells never coerce.
func CoerceNumber(c Cell) (float64, bool) {
	switch c.kind {
	case KindNumber:
		return c.num, true
	case KindText:
		return ParseAmount(c.text)
	default:
		return 0, false
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1/2/06 15:04",
	"1/2/06",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2006",
	"2006-01",
}

// ParseDate tries the known layouts in order. Slash dates are read month first.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceDate returns the date value of a cell, parsing text when needed.
func CoerceDate(c Cell) (time.Time, bool) {
	switch c.kind {
	case KindDate:
		return c.date, true
	case KindText:
		return ParseDate(c.text)
	default:
		return time.Time{}, false
	}
}
