package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntentTag discriminates the classifier's output union.
type IntentTag string

// Intent tag constants.
const (
	IntentExpense   IntentTag = "expense"
	IntentIncome    IntentTag = "income"
	IntentBudget    IntentTag = "budget"
	IntentGoal      IntentTag = "goal"
	IntentAnalytics IntentTag = "analytics"
	IntentAdvice    IntentTag = "advice"
	IntentNone      IntentTag = "none"
)

// AnalyticsSubtype narrows an analytics intent.
type AnalyticsSubtype string

// Analytics subtype constants.
const (
	AnalyticsBalance   AnalyticsSubtype = "balance"
	AnalyticsSpending  AnalyticsSubtype = "spending"
	AnalyticsBreakdown AnalyticsSubtype = "breakdown"
)

// AdviceSubtype narrows an advice intent.
type AdviceSubtype string

// Advice subtype constants.
const (
	AdviceAffordability AdviceSubtype = "affordability"
	AdviceSavings       AdviceSubtype = "savings"
	AdviceGeneral       AdviceSubtype = "general"
)

// ExtractedExpense is one expense pulled out of an utterance. Amount is
// nil when the model could not find one; validation downstream decides
// whether that makes the intent incomplete.
type ExtractedExpense struct {
	Amount      *decimal.Decimal
	Name        string
	Description string
	Category    string
	Merchant    string
	Confidence  float64
}

// ExtractedIncome is an income event pulled out of an utterance.
type ExtractedIncome struct {
	Amount     *decimal.Decimal
	Source     string
	Confidence float64
}

// BudgetRequest carries the payload of a budget intent.
type BudgetRequest struct {
	Amount   *decimal.Decimal
	Category string
	Period   string
}

// GoalRequest carries the payload of a goal intent.
type GoalRequest struct {
	Target   *decimal.Decimal
	Name     string
	Deadline *time.Time
}

// AdviceRequest carries the payload of an advice intent. Amount is the
// purchase or target figure when the user named one.
type AdviceRequest struct {
	Amount  *decimal.Decimal
	Subject string
}

// Intent is the discriminated result of classifying one utterance.
// Exactly the fields implied by Tag are populated; everything else is
// zero. A Tag of IntentNone carries no payload.
type Intent struct {
	Tag              IntentTag
	Expenses         []ExtractedExpense
	Income           *ExtractedIncome
	Budget           *BudgetRequest
	Goal             *GoalRequest
	AnalyticsSubtype AnalyticsSubtype
	AdviceSubtype    AdviceSubtype
	Advice           *AdviceRequest
}

// None is the empty intent returned whenever nothing financial could be
// extracted, including on malformed provider output.
func None() Intent {
	return Intent{Tag: IntentNone}
}
