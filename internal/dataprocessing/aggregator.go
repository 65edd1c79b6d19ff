package dataprocessing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"cellsense/pkg/contracts/domain"
)

var (
	exactIncomeTypes  = map[string]bool{"income": true, "credit": true, "revenue": true, "earning": true}
	exactExpenseTypes = map[string]bool{"expense": true, "debit": true, "spending": true, "payment": true, "cost": true}

	incomePattern  = regexp.MustCompile(`income|credit|revenue|earning`)
	expensePattern = regexp.MustCompile(`expense|debit|spending|payment|cost`)
)

// totals is the outcome of one aggregation strategy.
type totals struct {
	income   decimal.Decimal
	expenses decimal.Decimal
}

func (t totals) found() bool {
	return !t.income.IsZero() || !t.expenses.IsZero()
}

// aggregationStrategy computes totals or reports that its inputs are missing.
type aggregationStrategy struct {
	name string
	run  func(t *Table, roles Roles) (totals, bool)
}

// aggregationStrategies are tried in order until one yields a nonzero total.
var aggregationStrategies = []aggregationStrategy{
	{name: "amount_type_exact", run: amountTypeExact},
	{name: "amount_type_pattern", run: amountTypePattern},
	{name: "separate_columns", run: separateColumns},
	{name: "numeric_inference", run: numericInference},
}

// Summarize computes income, expenses, net balance and category counts.
// It returns the summary and the name of the strategy that produced the
// totals, or "" when none did.
func Summarize(t *Table, roles Roles) (domain.FinancialSummary, string) {
	summary := domain.FinancialSummary{Categories: []domain.CategoryCount{}}
	if t.NumRows() == 0 {
		return summary, ""
	}

	var (
		result totals
		used   string
	)
	for _, s := range aggregationStrategies {
		res, ok := s.run(t, roles)
		if ok && res.found() {
			result, used = res, s.name
			break
		}
	}

	summary.TotalIncome = result.income.InexactFloat64()
	summary.TotalExpenses = result.expenses.InexactFloat64()
	summary.NetBalance = summary.TotalIncome - summary.TotalExpenses
	if col, ok := roles.Column(RoleCategory); ok {
		summary.Categories = countCategories(t, col)
	}
	return summary, used
}

func amountTypeExact(t *Table, roles Roles) (totals, bool) {
	amount, okA := roles.Column(RoleAmount)
	kind, okT := roles.Column(RoleType)
	if !okA || !okT {
		return totals{}, false
	}
	return sumByType(t, amount, kind, func(v string) (bool, bool) {
		return exactIncomeTypes[v], exactExpenseTypes[v]
	}), true
}

func amountTypePattern(t *Table, roles Roles) (totals, bool) {
	amount, okA := roles.Column(RoleAmount)
	kind, okT := roles.Column(RoleType)
	if !okA || !okT {
		return totals{}, false
	}
	return sumByType(t, amount, kind, matchTypePattern), true
}

func separateColumns(t *Table, roles Roles) (totals, bool) {
	income, okI := roles.Column(RoleIncome)
	expense, okE := roles.Column(RoleExpense)
	if !okI && !okE {
		return totals{}, false
	}
	var res totals
	if okI && t.ColumnKind(income) == KindNumber {
		res.income = sumColumn(t, income)
	}
	if okE && t.ColumnKind(expense) == KindNumber {
		res.expenses = sumColumn(t, expense)
	}
	return res, true
}

func numericInference(t *Table, roles Roles) (totals, bool) {
	kind, okT := roles.Column(RoleType)
	numeric := t.NumericColumns()
	if !okT || len(numeric) == 0 {
		return totals{}, false
	}
	return sumByType(t, numeric[0], kind, matchTypePattern), true
}

func matchTypePattern(v string) (bool, bool) {
	return incomePattern.MatchString(v), expensePattern.MatchString(v)
}

// sumByType adds each row's amount to income or expenses according to its
// normalized type label. Expenses are accumulated as magnitudes.
func sumByType(t *Table, amountCol, typeCol int, classify func(string) (bool, bool)) totals {
	var res totals
	for _, row := range t.Rows {
		if row[typeCol].IsEmpty() {
			continue
		}
		v, ok := CoerceNumber(row[amountCol])
		if !ok {
			continue
		}
		isIncome, isExpense := classify(strings.ToLower(strings.TrimSpace(row[typeCol].String())))
		d := decimal.NewFromFloat(v)
		if isIncome {
			res.income = res.income.Add(d)
		}
		if isExpense {
			res.expenses = res.expenses.Add(d.Abs())
		}
	}
	return res
}

// sumColumn adds the numeric cells of a column as stored, signs included.
func sumColumn(t *Table, col int) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range t.Rows {
		v, ok := row[col].Number()
		if !ok {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum
}

// countCategories counts the distinct values of a column, most frequent
// first. Ties keep first-seen order.
func countCategories(t *Table, col int) []domain.CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, row := range t.Rows {
		if row[col].IsEmpty() {
			continue
		}
		name := row[col].String()
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}

	out := make([]domain.CategoryCount, len(order))
	for i, name := range order {
		out[i] = domain.CategoryCount{Name: name, Count: counts[name]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
