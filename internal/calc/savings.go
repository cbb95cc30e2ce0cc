package calc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SavingsInput describes a savings target against the current position.
type SavingsInput struct {
	Balance         decimal.Decimal
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	Target          decimal.Decimal
}

// SavingsProjection is the months-to-target at one contribution rate.
type SavingsProjection struct {
	Label        string
	Rate         decimal.Decimal
	Contribution decimal.Decimal
	Months       int64
}

// SavingsResult is the full timeline projection. When Feasible is
// false the surplus is zero or negative and Deficit carries the gap;
// when AffordableNow is true the balance already covers the target.
type SavingsResult struct {
	Projections    []SavingsProjection
	MonthlySurplus decimal.Decimal
	Shortfall      decimal.Decimal
	Deficit        decimal.Decimal
	Feasible       bool
	AffordableNow  bool
}

var savingsRates = []struct {
	label string
	rate  decimal.Decimal
}{
	{"all surplus", decimal.NewFromInt(1)},
	{"70% of surplus", decimal.NewFromFloat(0.7)},
	{"50% of surplus", decimal.NewFromFloat(0.5)},
}

// SavingsTimeline projects months-to-target at the three fixed
// contribution rates plus a variant that first builds a six-month
// emergency fund on top of the target.
func SavingsTimeline(in SavingsInput) SavingsResult {
	surplus := in.MonthlyIncome.Sub(in.MonthlyExpenses)
	result := SavingsResult{MonthlySurplus: surplus}

	if surplus.LessThanOrEqual(decimal.Zero) {
		result.Deficit = surplus.Neg()
		return result
	}
	result.Feasible = true

	result.Shortfall = in.Target.Sub(in.Balance)
	if result.Shortfall.LessThanOrEqual(decimal.Zero) {
		result.AffordableNow = true
		return result
	}

	for _, r := range savingsRates {
		contribution := surplus.Mul(r.rate)
		result.Projections = append(result.Projections, SavingsProjection{
			Label:        r.label,
			Rate:         r.rate,
			Contribution: contribution,
			Months:       monthsToTarget(result.Shortfall, contribution),
		})
	}

	// Emergency-fund variant: the effective goal grows by six months
	// of expenses, saved at the full surplus.
	withFund := in.Target.Add(in.MonthlyExpenses.Mul(six)).Sub(in.Balance)
	if withFund.IsPositive() {
		result.Projections = append(result.Projections, SavingsProjection{
			Label:        "with emergency fund",
			Rate:         decimal.NewFromInt(1),
			Contribution: surplus,
			Months:       monthsToTarget(withFund, surplus),
		})
	}

	return result
}

// monthsToTarget computes ceil(shortfall / contribution).
func monthsToTarget(shortfall, contribution decimal.Decimal) int64 {
	return shortfall.Div(contribution).Ceil().IntPart()
}

// FormatDuration renders a month count as whole years plus remaining
// months, with correct singulars: 14 months is "1 year, 2 months" and
// exactly 1 month is "1 month".
func FormatDuration(months int64) string {
	if months <= 0 {
		return "now"
	}

	years := months / 12
	rem := months % 12

	switch {
	case years == 0:
		return plural(rem, "month")
	case rem == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + ", " + plural(rem, "month")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
