package dataprocessing

import "strings"

// Role is the financial meaning inferred for a column.
type Role int

const (
	RoleUnclassified Role = iota
	RoleIncome
	RoleExpense
	RoleAmount
	RoleType
	RoleCategory
)

func (r Role) String() string {
	switch r {
	case RoleIncome:
		return "income"
	case RoleExpense:
		return "expense"
	case RoleAmount:
		return "amount"
	case RoleType:
		return "type"
	case RoleCategory:
		return "category"
	default:
		return "unclassified"
	}
}

type roleRule struct {
	role     Role
	keywords []string
}

// roleRules is evaluated top to bottom for each column name. Date columns
// are found by MonthlyTrend from cell types and names.
var roleRules = []roleRule{
	{RoleIncome, []string{"income", "revenue", "credit", "earning", "salary", "bonus", "dividend", "interest", "profit"}},
	{RoleExpense, []string{"expense", "cost", "debit", "spending", "payment", "emi", "loan", "liability", "loss", "premium"}},
	{RoleAmount, []string{"amount", "value", "total", "price", "sum"}},
	{RoleType, []string{"type", "transaction_type", "category_type", "transaction"}},
	{RoleCategory, []string{"category", "description", "name", "asset", "fund"}},
}

// Roles maps each assigned role to a column index.
type Roles struct {
	columns map[Role]int
}

// Column returns the index of the column holding role.
func (r Roles) Column(role Role) (int, bool) {
	i, ok := r.columns[role]
	return i, ok
}

// ClassifyColumns assigns roles from column names. Each column is tested
// against the rules in order and gets the first role whose keywords it
// contains; if an earlier column already holds that role the column stays
// unclassified.
func ClassifyColumns(names []string) Roles {
	roles := Roles{columns: make(map[Role]int)}
	for i, name := range names {
		role := matchRole(strings.ToLower(name))
		if role == RoleUnclassified {
			continue
		}
		if _, taken := roles.columns[role]; !taken {
			roles.columns[role] = i
		}
	}
	return roles
}

func matchRole(lower string) Role {
	for _, rule := range roleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.role
			}
		}
	}
	return RoleUnclassified
}
