package assistant

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/anomaly"
	"github.com/fernwell/ledgerchat/internal/calc"
	"github.com/fernwell/ledgerchat/internal/model"
)

// money renders an amount with two decimal places. The assistant is
// currency-agnostic; the CLI layer may add a symbol.
func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func expenseCommittedText(entry *model.FinancialEntry, alerts []anomaly.Alert) string {
	text := fmt.Sprintf("Recorded %s for %s (%s).", money(entry.Amount), entry.Description, entry.Category)
	return appendAlerts(text, alerts)
}

func expensesCommittedText(entries []model.FinancialEntry) string {
	if len(entries) == 1 {
		return fmt.Sprintf("Recorded %s for %s (%s).", money(entries[0].Amount), entries[0].Description, entries[0].Category)
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s for %s", money(e.Amount), e.Description)
	}
	return fmt.Sprintf("Recorded %d expenses: %s.", len(entries), strings.Join(parts, ", "))
}

func expensesCommittedWithAlertsText(entries []model.FinancialEntry, alerts []anomaly.Alert) string {
	if len(entries) == 0 {
		return "I didn't find a complete expense in that."
	}
	return appendAlerts(expensesCommittedText(entries), alerts)
}

func appendAlerts(text string, alerts []anomaly.Alert) string {
	for _, alert := range alerts {
		text += " ⚠ " + alert.Message
	}
	return text
}

func saveFailedText(committed []model.FinancialEntry) string {
	if len(committed) == 0 {
		return "I couldn't save that expense just now. Please try again."
	}
	return fmt.Sprintf("I saved %d of your expenses but one failed. Please re-enter the missing one.", len(committed))
}

func incomeCommittedText(entry *model.FinancialEntry) string {
	return fmt.Sprintf("Noted %s income from %s.", money(entry.Amount), entry.Category)
}

func budgetSetText(b *model.Budget) string {
	return fmt.Sprintf("Budget set: %s %s for %s.", money(b.Amount), b.Period, b.Category)
}

func goalSetText(g *model.Goal) string {
	text := fmt.Sprintf("Goal saved: %s, target %s.", g.Name, money(g.Target))
	if g.Deadline != nil {
		text += " Deadline " + g.Deadline.Format("2 January 2006") + "."
	}
	return text
}

func balanceText(s *model.AggregateSnapshot) string {
	return fmt.Sprintf("Your balance is %s (income %s, expenses %s).",
		money(s.Balance), money(s.TotalIncome), money(s.TotalExpenses))
}

func breakdownText(totals []CategoryTotal) string {
	if len(totals) == 0 {
		return "No expenses recorded yet, so there's nothing to break down."
	}
	var sb strings.Builder
	sb.WriteString("Spending by category:")
	for _, t := range totals {
		sb.WriteString(fmt.Sprintf("\n  %s: %s", t.Category, money(t.Total)))
	}
	return sb.String()
}

func affordabilityText(subject string, result calc.AffordabilityResult) string {
	if subject == "" {
		subject = "that purchase"
	}

	switch result.Verdict {
	case calc.VerdictNotAffordable:
		text := fmt.Sprintf("I'd hold off on %s, it's not affordable right now.", subject)
		if result.Shortfall.IsPositive() {
			text += fmt.Sprintf(" You're short %s.", money(result.Shortfall))
		}
		return text
	case calc.VerdictRisky:
		return fmt.Sprintf("Buying %s would dip into your three-month reserve (safe limit %s). Risky.",
			subject, money(result.SafeLimit))
	case calc.VerdictExpensiveForIncome:
		return fmt.Sprintf("You can cover %s, but it's over half a month's income. Consider waiting.", subject)
	default:
		return fmt.Sprintf("Go for it, %s fits comfortably within your balance and income.", subject)
	}
}

func savingsText(target decimal.Decimal, result calc.SavingsResult) string {
	if !result.Feasible {
		return fmt.Sprintf("Your expenses exceed your income by %s a month, so the target of %s isn't reachable without cutting spending first.",
			money(result.Deficit), money(target))
	}
	if result.AffordableNow {
		return fmt.Sprintf("Good news: your balance already covers the %s target.", money(target))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To reach %s you need %s more. Saving options:", money(target), money(result.Shortfall)))
	for _, p := range result.Projections {
		sb.WriteString(fmt.Sprintf("\n  %s (%s/month): %s", p.Label, money(p.Contribution), calc.FormatDuration(p.Months)))
	}
	return sb.String()
}

func fallbackAdviceText(s *model.AggregateSnapshot, income, expenses decimal.Decimal) string {
	surplus := income.Sub(expenses)
	if surplus.IsPositive() {
		return fmt.Sprintf("You have roughly %s left over each month. A solid rule: put half toward savings and keep an emergency fund of %s (six months of expenses).",
			money(surplus), money(expenses.Mul(decimal.NewFromInt(6))))
	}
	return fmt.Sprintf("Your spending (%s/month) is at or above your income (%s/month). Start by trimming the largest expense category, then revisit.",
		money(expenses), money(income))
}
