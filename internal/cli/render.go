package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fernwell/ledgerchat/internal/assistant"
	"github.com/fernwell/ledgerchat/internal/model"
)

// RenderReply styles one assistant reply for the chat loop. The action
// tag picks the color; alert lines inside the text keep their marker.
func RenderReply(reply assistant.Reply) string {
	switch reply.Action {
	case assistant.ActionError, assistant.ActionSaveFailed:
		return FormatError(reply.Text)
	case assistant.ActionClarify:
		return FormatInfo(reply.Text)
	case assistant.ActionExpenseAdded, assistant.ActionIncomeAdded,
		assistant.ActionBudgetSet, assistant.ActionGoalSet:
		return FormatSuccess(reply.Text)
	case assistant.ActionAnalytics, assistant.ActionAdvice:
		return InfoStyle.Render(ChartIcon + " " + reply.Text)
	default:
		return reply.Text
	}
}

// RenderImportSummary renders the outcome of a statement import.
func RenderImportSummary(summary *model.ImportSummary) string {
	var sb strings.Builder

	sb.WriteString(BoldStyle.Render(fmt.Sprintf("Processed %d rows: %d imported, %d skipped.",
		summary.Processed, summary.Imported, summary.Skipped)))

	sb.WriteString(fmt.Sprintf("\nExpenses %s, income %s.",
		summary.Totals.Expenses.StringFixed(2), summary.Totals.Income.StringFixed(2)))

	if len(summary.Totals.PerCategory) > 0 {
		categories := make([]string, 0, len(summary.Totals.PerCategory))
		for c := range summary.Totals.PerCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		sb.WriteString("\n\nBy category:")
		for _, c := range categories {
			sb.WriteString(fmt.Sprintf("\n  %-14s %s", c, summary.Totals.PerCategory[c].StringFixed(2)))
		}
	}

	content := sb.String()
	if len(summary.Errors) > 0 {
		lines := make([]string, 0, len(summary.Errors))
		for _, e := range summary.Errors {
			lines = append(lines, fmt.Sprintf("line %d: %s", e.Line, e.Reason))
		}
		content += "\n\n" + WarningStyle.Render("Skipped rows:\n  "+strings.Join(lines, "\n  "))
	}

	return RenderBox("Statement import", content)
}
