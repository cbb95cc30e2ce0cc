package assistant

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/calc"
	"github.com/fernwell/ledgerchat/internal/llm"
	"github.com/fernwell/ledgerchat/internal/model"
	"github.com/fernwell/ledgerchat/internal/service"
)

// CategoryTotal is one slice of the spending breakdown.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

func (a *Assistant) handleAnalytics(ctx context.Context, userID string, subtype model.AnalyticsSubtype) Reply {
	snapshot, err := a.storage.AggregateSnapshot(ctx, userID)
	if err != nil {
		a.logger.Error("failed to compute aggregate snapshot", "user", userID, "error", err)
		return Reply{Text: technicalDifficulties, Action: ActionError}
	}

	switch subtype {
	case model.AnalyticsBreakdown:
		totals, err := a.categoryBreakdown(ctx, userID)
		if err != nil {
			a.logger.Error("failed to compute breakdown", "user", userID, "error", err)
			return Reply{Text: technicalDifficulties, Action: ActionError}
		}
		return Reply{Text: breakdownText(totals), Action: ActionAnalytics, Data: totals}

	case model.AnalyticsSpending:
		return Reply{
			Text:   "You've spent " + money(snapshot.TotalExpenses) + " in total.",
			Action: ActionAnalytics,
			Data:   snapshot,
		}

	default: // balance
		return Reply{
			Text:   balanceText(snapshot),
			Action: ActionAnalytics,
			Data:   snapshot,
		}
	}
}

func (a *Assistant) handleAdvice(ctx context.Context, userID string, classified model.Intent) Reply {
	switch classified.AdviceSubtype {
	case model.AdviceAffordability:
		if classified.Advice == nil || classified.Advice.Amount == nil {
			return Reply{
				Text:   "What's the price of the purchase you're considering?",
				Action: ActionClarify,
			}
		}
		subject := ""
		if classified.Advice != nil {
			subject = classified.Advice.Subject
		}
		return a.Affordability(ctx, userID, *classified.Advice.Amount, subject)

	case model.AdviceSavings:
		var target *decimal.Decimal
		if classified.Advice != nil {
			target = classified.Advice.Amount
		}
		return a.SavingsPlan(ctx, userID, target)

	default:
		snapshot, err := a.storage.AggregateSnapshot(ctx, userID)
		if err != nil {
			a.logger.Error("failed to compute aggregate snapshot", "user", userID, "error", err)
			return Reply{Text: technicalDifficulties, Action: ActionError}
		}
		income, expenses := a.monthlyFigures(ctx, userID)
		return a.generalAdvice(ctx, snapshot, income, expenses)
	}
}

// Affordability evaluates one hypothetical purchase for a user.
func (a *Assistant) Affordability(ctx context.Context, userID string, purchase decimal.Decimal, subject string) Reply {
	snapshot, err := a.storage.AggregateSnapshot(ctx, userID)
	if err != nil {
		a.logger.Error("failed to compute aggregate snapshot", "user", userID, "error", err)
		return Reply{Text: technicalDifficulties, Action: ActionError}
	}
	income, expenses := a.monthlyFigures(ctx, userID)

	result := calc.Affordability(calc.AffordabilityInput{
		Balance:         snapshot.Balance,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		Purchase:        purchase,
	})
	return Reply{
		Text:   affordabilityText(subject, result),
		Action: ActionAdvice,
		Data:   result,
	}
}

// SavingsPlan projects the savings timeline toward a target. A nil
// target falls back to the user's first stored goal.
func (a *Assistant) SavingsPlan(ctx context.Context, userID string, target *decimal.Decimal) Reply {
	snapshot, err := a.storage.AggregateSnapshot(ctx, userID)
	if err != nil {
		a.logger.Error("failed to compute aggregate snapshot", "user", userID, "error", err)
		return Reply{Text: technicalDifficulties, Action: ActionError}
	}

	if target == nil {
		target = a.goalTarget(ctx, userID)
	}
	if target == nil {
		return Reply{
			Text:   "What amount are you saving toward? Set a goal first, or tell me the target.",
			Action: ActionClarify,
		}
	}

	income, expenses := a.monthlyFigures(ctx, userID)
	result := calc.SavingsTimeline(calc.SavingsInput{
		Balance:         snapshot.Balance,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		Target:          *target,
	})
	return Reply{
		Text:   savingsText(*target, result),
		Action: ActionAdvice,
		Data:   result,
	}
}

// monthlyFigures estimates monthly income and expenses. Recurring
// income sources win when registered; otherwise both sides fall back
// to the last thirty days of entries.
func (a *Assistant) monthlyFigures(ctx context.Context, userID string) (income, expenses decimal.Decimal) {
	since := a.now().AddDate(0, 0, -30)

	sources, err := a.storage.GetIncomeSources(ctx, userID)
	if err == nil && len(sources) > 0 {
		for _, s := range sources {
			income = income.Add(s.Amount)
		}
	} else {
		income = a.sumSince(ctx, userID, model.KindIncome, since)
	}

	expenses = a.sumSince(ctx, userID, model.KindExpense, since)
	return income, expenses
}

func (a *Assistant) sumSince(ctx context.Context, userID string, kind model.EntryKind, since time.Time) decimal.Decimal {
	entries, err := a.storage.GetEntries(ctx, userID, service.EntryFilter{Kind: kind, StartDate: &since})
	if err != nil {
		a.logger.Warn("failed to sum recent entries", "user", userID, "kind", kind, "error", err)
		return decimal.Zero
	}
	var total decimal.Decimal
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// goalTarget is the target of the user's first stored goal, if any.
func (a *Assistant) goalTarget(ctx context.Context, userID string) *decimal.Decimal {
	goals, err := a.storage.GetGoals(ctx, userID)
	if err != nil || len(goals) == 0 {
		return nil
	}
	return &goals[0].Target
}

func (a *Assistant) categoryBreakdown(ctx context.Context, userID string) ([]CategoryTotal, error) {
	entries, err := a.storage.GetEntries(ctx, userID, service.EntryFilter{Kind: model.KindExpense})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, e := range entries {
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Category < totals[j].Category
		}
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals, nil
}

// generalAdvice asks the deep-analysis route for tailored guidance,
// grounded in the user's actual figures. A provider failure degrades
// to a rule-of-thumb answer built from the same figures.
func (a *Assistant) generalAdvice(ctx context.Context, snapshot *model.AggregateSnapshot, income, expenses decimal.Decimal) Reply {
	var sb strings.Builder
	sb.WriteString("Current balance: " + money(snapshot.Balance) + ".\n")
	sb.WriteString("Monthly income: " + money(income) + ".\n")
	sb.WriteString("Monthly expenses: " + money(expenses) + ".\n")

	resp, err := a.gateway.Complete(ctx, llm.TaskAnalysis, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "You are a personal finance advisor. Give three short, concrete suggestions based on the figures provided. Plain text, no markdown."},
			{Role: llm.RoleUser, Content: sb.String()},
		},
	})
	if err != nil || resp.Content == "" {
		return Reply{Text: fallbackAdviceText(snapshot, income, expenses), Action: ActionAdvice, Data: snapshot}
	}
	return Reply{Text: resp.Content, Action: ActionAdvice, Data: snapshot}
}
