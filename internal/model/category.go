package model

import "strings"

// CategoryOther is the fallback label applied at commit time when no
// category could be determined. It is never applied earlier; an unset
// category is what drives the clarification dialog.
const CategoryOther = "other"

// ExpenseCategories is the fixed enumeration of expense categories.
// Order matters: clarification prompts list them in this order and the
// conversation state machine matches replies against them in this order.
var ExpenseCategories = []string{
	"groceries",
	"dining",
	"transport",
	"utilities",
	"housing",
	"health",
	"entertainment",
	"shopping",
	"education",
	"subscriptions",
	"travel",
	CategoryOther,
}

// IncomeSources is the fixed enumeration of income source labels.
var IncomeSources = []string{
	"salary",
	"freelance",
	"business",
	"investments",
	"gift",
	CategoryOther,
}

// MatchCategory resolves a free-text reply against the expense category
// enumeration using a case-insensitive substring match in either
// direction ("Groceries please" matches "groceries", "sub" matches
// "subscriptions"). Returns the canonical label and whether a match was
// found.
func MatchCategory(reply string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(reply))
	if needle == "" {
		return "", false
	}
	for _, cat := range ExpenseCategories {
		if strings.Contains(needle, cat) || strings.Contains(cat, needle) {
			return cat, true
		}
	}
	return "", false
}

// ValidCategory reports whether name is a member of the expense
// category enumeration.
func ValidCategory(name string) bool {
	for _, cat := range ExpenseCategories {
		if strings.EqualFold(cat, name) {
			return true
		}
	}
	return false
}
