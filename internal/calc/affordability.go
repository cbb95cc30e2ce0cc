// Package calc contains the pure financial calculators: affordability
// verdicts and savings-timeline projections. No I/O, no provider calls.
package calc

import (
	"github.com/shopspring/decimal"
)

// Verdict is the affordability outcome.
type Verdict string

// Affordability verdicts.
const (
	VerdictNotAffordable      Verdict = "NOT_AFFORDABLE"
	VerdictRisky              Verdict = "RISKY"
	VerdictExpensiveForIncome Verdict = "EXPENSIVE_FOR_INCOME"
	VerdictAffordable         Verdict = "AFFORDABLE"
)

// Risk grades a verdict.
type Risk string

// Risk levels.
const (
	RiskHigh   Risk = "high"
	RiskMedium Risk = "medium"
	RiskLow    Risk = "low"
)

// AffordabilityInput is everything the verdict depends on.
type AffordabilityInput struct {
	Balance         decimal.Decimal
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	Purchase        decimal.Decimal
}

// AffordabilityResult is the verdict plus its supporting figures.
// EmergencyFund is informational only; it never changes the verdict.
type AffordabilityResult struct {
	Verdict       Verdict
	Risk          Risk
	Shortfall     decimal.Decimal
	SafeLimit     decimal.Decimal
	EmergencyFund decimal.Decimal
}

var (
	three = decimal.NewFromInt(3)
	six   = decimal.NewFromInt(6)
	half  = decimal.NewFromFloat(0.5)
)

// Affordability evaluates the rules in a fixed priority order; the
// first matching rule decides. Reordering them changes verdicts, so the
// order is part of the contract:
//  1. non-positive balance
//  2. purchase exceeds balance
//  3. purchase dips into the three-month expense reserve
//  4. purchase is over half a month's income
//  5. affordable
func Affordability(in AffordabilityInput) AffordabilityResult {
	result := AffordabilityResult{
		SafeLimit:     in.Balance.Sub(in.MonthlyExpenses.Mul(three)),
		EmergencyFund: in.MonthlyExpenses.Mul(six),
	}

	switch {
	case in.Balance.LessThanOrEqual(decimal.Zero):
		result.Verdict = VerdictNotAffordable
		result.Risk = RiskHigh

	case in.Purchase.GreaterThan(in.Balance):
		result.Verdict = VerdictNotAffordable
		result.Risk = RiskHigh
		result.Shortfall = in.Purchase.Sub(in.Balance)

	case in.Purchase.GreaterThan(result.SafeLimit):
		result.Verdict = VerdictRisky
		result.Risk = RiskMedium

	case in.Purchase.GreaterThan(in.MonthlyIncome.Mul(half)):
		result.Verdict = VerdictExpensiveForIncome
		result.Risk = RiskMedium

	default:
		result.Verdict = VerdictAffordable
		result.Risk = RiskLow
	}

	return result
}
