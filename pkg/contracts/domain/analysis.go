package domain

// AnalysisResult is the full analysis of one uploaded table. Slices are
// never nil so they serialize as empty arrays.
type AnalysisResult struct {
	TotalRows           int              `json:"total_rows"`
	Columns             []string         `json:"columns"`
	NumericColumns      []ColumnStats    `json:"numeric_columns"`
	DetectedKeywords    []string         `json:"detected_keywords"`
	FinancialSummary    FinancialSummary `json:"financial_summary"`
	Trends              Trends           `json:"trends"`
	CategorizedExpenses []CategoryAmount `json:"categorized_expenses"`
}

// ColumnStats holds descriptive statistics of a numeric column.
// Std is the sample standard deviation.
type ColumnStats struct {
	Column string  `json:"column"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Std    float64 `json:"std"`
}

// FinancialSummary totals income and expenses. NetBalance always equals
// TotalIncome - TotalExpenses.
type FinancialSummary struct {
	TotalIncome   float64         `json:"total_income"`
	TotalExpenses float64         `json:"total_expenses"`
	NetBalance    float64         `json:"net_balance"`
	Categories    []CategoryCount `json:"categories"`
}

// CategoryCount is the number of rows carrying a category value.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Trends groups time series derived from the table.
type Trends struct {
	ByMonth []MonthValue `json:"by_month"`
}

// MonthValue is the summed value of one calendar month ("2024-03").
type MonthValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// CategoryAmount is the summed amount of one category.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Answer is a reply from the question assistant.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source"`
}
