package dataprocessing

import (
	"sort"
	"strings"
)

// DefaultValueSampleSize is how many distinct values of a text column are scanned.
const DefaultValueSampleSize = 100

// BuiltinKeywords is the financial vocabulary detected in every analysis.
var BuiltinKeywords = []string{
	"income", "salary", "bonus", "dividend", "interest",
	"revenue", "profit", "credit", "debit", "expense",
	"spending", "payment", "cost", "rent", "utilities",
	"insurance", "premium", "tax", "loan", "emi",
	"mortgage", "debt", "liability", "asset", "investment",
	"mutual fund", "stock", "equity", "bond", "fixed deposit",
	"deposit", "savings", "pension", "retirement", "gold",
	"real estate", "property", "crypto", "portfolio", "sip",
	"budget", "balance", "withdrawal", "transfer", "fee",
}

// KeywordDetector reports which vocabulary terms occur in a table's headers
// or sampled text values.
type KeywordDetector struct {
	vocabulary []string
	sampleSize int
}

// NewKeywordDetector combines the built-in vocabulary with custom keywords.
// Custom keywords are trimmed and lower-cased; blanks are ignored.
func NewKeywordDetector(custom []string, sampleSize int) *KeywordDetector {
	if sampleSize <= 0 {
		sampleSize = DefaultValueSampleSize
	}
	seen := make(map[string]bool, len(BuiltinKeywords)+len(custom))
	vocab := make([]string, 0, len(BuiltinKeywords)+len(custom))
	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		vocab = append(vocab, kw)
	}
	for _, kw := range BuiltinKeywords {
		add(kw)
	}
	for _, kw := range custom {
		add(kw)
	}
	return &KeywordDetector{vocabulary: vocab, sampleSize: sampleSize}
}

// Detect returns the sorted set of terms found.
func (d *KeywordDetector) Detect(t *Table) []string {
	found := make(map[string]bool)
	scan := func(s string) {
		for _, kw := range d.vocabulary {
			if !found[kw] && strings.Contains(s, kw) {
				found[kw] = true
			}
		}
	}

	for i, col := range t.Columns {
		scan(strings.ToLower(col.Name))
		if t.ColumnKind(i) != KindText {
			continue
		}
		for _, v := range d.sampleValues(t, i) {
			scan(v)
		}
	}

	out := make([]string, 0, len(found))
	for kw := range found {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// sampleValues returns up to sampleSize distinct, lower-cased values of a
// column in encounter order.
func (d *KeywordDetector) sampleValues(t *Table, col int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		if len(out) >= d.sampleSize {
			break
		}
		if row[col].IsEmpty() {
			continue
		}
		v := row[col].String()
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, strings.ToLower(v))
	}
	return out
}
