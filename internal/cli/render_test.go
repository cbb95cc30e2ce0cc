package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fernwell/ledgerchat/internal/assistant"
	"github.com/fernwell/ledgerchat/internal/model"
)

func TestRenderReplyByAction(t *testing.T) {
	tests := []struct {
		name   string
		action string
	}{
		{name: "error", action: assistant.ActionError},
		{name: "clarify", action: assistant.ActionClarify},
		{name: "expense", action: assistant.ActionExpenseAdded},
		{name: "analytics", action: assistant.ActionAnalytics},
		{name: "chat", action: assistant.ActionChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderReply(assistant.Reply{Text: "the message", Action: tt.action})
			assert.Contains(t, out, "the message")
		})
	}
}

func TestRenderImportSummary(t *testing.T) {
	summary := &model.ImportSummary{
		Processed: 5,
		Imported:  3,
		Skipped:   2,
		Totals: model.ImportTotals{
			Expenses: decimal.RequireFromString("47.50"),
			Income:   decimal.RequireFromString("1200"),
			PerCategory: map[string]decimal.Decimal{
				"dining":    decimal.RequireFromString("27.50"),
				"transport": decimal.RequireFromString("20"),
			},
		},
		Errors: []model.RowError{
			{Line: 4, Reason: "row has no transaction name"},
			{Line: 7, Reason: "status failed"},
		},
	}

	out := RenderImportSummary(summary)

	assert.Contains(t, out, "Processed 5 rows: 3 imported, 2 skipped.")
	assert.Contains(t, out, "Expenses 47.50, income 1200.00.")
	assert.Contains(t, out, "dining")
	assert.Contains(t, out, "transport")
	assert.Contains(t, out, "line 4: row has no transaction name")
	assert.Contains(t, out, "line 7: status failed")
}

func TestRenderImportSummaryNoErrors(t *testing.T) {
	summary := &model.ImportSummary{Processed: 1, Imported: 1}

	out := RenderImportSummary(summary)

	assert.Contains(t, out, "Processed 1 rows: 1 imported, 0 skipped.")
	assert.NotContains(t, out, "Skipped rows")
}
