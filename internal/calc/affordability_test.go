package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAffordability(t *testing.T) {
	tests := []struct {
		name        string
		balance     string
		income      string
		expenses    string
		purchase    string
		wantVerdict Verdict
		wantRisk    Risk
	}{
		{
			// Rule 1 wins even though the purchase is tiny.
			name:    "negative balance",
			balance: "-100", income: "5000", expenses: "500", purchase: "500",
			wantVerdict: VerdictNotAffordable, wantRisk: RiskHigh,
		},
		{
			name:    "zero balance",
			balance: "0", income: "5000", expenses: "500", purchase: "1",
			wantVerdict: VerdictNotAffordable, wantRisk: RiskHigh,
		},
		{
			name:    "purchase exceeds balance",
			balance: "1000", income: "5000", expenses: "100", purchase: "1500",
			wantVerdict: VerdictNotAffordable, wantRisk: RiskHigh,
		},
		{
			name:    "dips into three month reserve",
			balance: "3000", income: "10000", expenses: "900", purchase: "500",
			wantVerdict: VerdictRisky, wantRisk: RiskMedium,
		},
		{
			name:    "over half a month's income",
			balance: "10000", income: "2000", expenses: "500", purchase: "1500",
			wantVerdict: VerdictExpensiveForIncome, wantRisk: RiskMedium,
		},
		{
			name:    "comfortably affordable",
			balance: "10000", income: "5000", expenses: "1000", purchase: "200",
			wantVerdict: VerdictAffordable, wantRisk: RiskLow,
		},
		{
			// Exactly at the safe limit is not over it, so rule 3
			// doesn't fire.
			name:    "exactly at safe limit",
			balance: "4000", income: "10000", expenses: "1000", purchase: "1000",
			wantVerdict: VerdictAffordable, wantRisk: RiskLow,
		},
		{
			name:    "zero income purchase above half",
			balance: "10000", income: "0", expenses: "100", purchase: "50",
			wantVerdict: VerdictExpensiveForIncome, wantRisk: RiskMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Affordability(AffordabilityInput{
				Balance:         d(tt.balance),
				MonthlyIncome:   d(tt.income),
				MonthlyExpenses: d(tt.expenses),
				Purchase:        d(tt.purchase),
			})
			assert.Equal(t, tt.wantVerdict, got.Verdict)
			assert.Equal(t, tt.wantRisk, got.Risk)
		})
	}
}

func TestAffordabilityShortfall(t *testing.T) {
	got := Affordability(AffordabilityInput{
		Balance:         d("1000"),
		MonthlyIncome:   d("5000"),
		MonthlyExpenses: d("100"),
		Purchase:        d("1500"),
	})
	assert.True(t, got.Shortfall.Equal(d("500")), "shortfall %s", got.Shortfall)
}

func TestAffordabilitySupportingFigures(t *testing.T) {
	got := Affordability(AffordabilityInput{
		Balance:         d("10000"),
		MonthlyIncome:   d("5000"),
		MonthlyExpenses: d("1200"),
		Purchase:        d("100"),
	})
	assert.True(t, got.SafeLimit.Equal(d("6400")), "safe limit %s", got.SafeLimit)
	assert.True(t, got.EmergencyFund.Equal(d("7200")), "emergency fund %s", got.EmergencyFund)
}
