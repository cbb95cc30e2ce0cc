package intent

import (
	"fmt"
	"strings"

	"github.com/fernwell/ledgerchat/internal/model"
)

// DefaultHistoryTurns is how many prior turns are rendered into the
// extraction prompt for context.
const DefaultHistoryTurns = 5

var systemPrompt = `You are a financial intent extractor for a personal finance assistant.
You MUST respond with ONLY a valid JSON object. Do not include any explanatory text,
markdown formatting, or commentary before or after the JSON. Start your response
directly with { and end with }.

Classify the user's latest message into exactly one intent:
- "expense": the user reports money ALREADY SPENT. May contain several expenses;
  return each one as a separate array element in order of mention.
- "income": the user reports money ALREADY RECEIVED.
- "budget": the user wants to set or change a spending cap.
- "goal": the user wants to set a savings goal.
- "analytics": the user asks about their balance, spending, or category breakdown.
- "advice": the user asks whether they can afford something, how long saving will
  take, or for general financial guidance.
- "none": anything else. Statements of FUTURE intent ("I need to buy X",
  "I'm planning to get Y") are NOT expenses; classify them as "none".

Only extract fields the user actually stated. Never invent an amount. Omit any
field you are not sure about.

Expense categories: ` + strings.Join(model.ExpenseCategories, ", ") + `.
Income sources: ` + strings.Join(model.IncomeSources, ", ") + `. Map a stated
income origin onto the closest source label.`

// buildPayloadSchema returns the JSON schema the extraction payload
// must satisfy. It is both sent to the provider as a tool schema and
// used locally to validate the response.
func buildPayloadSchema(categories []string) map[string]any {
	amountProp := map[string]any{"type": "number", "exclusiveMinimum": 0}
	expenseProps := map[string]any{
		"amount":      amountProp,
		"name":        map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"category":    map[string]any{"type": "string", "enum": categories},
		"merchant":    map[string]any{"type": "string"},
		"confidence":  map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"intent"},
		"properties": map[string]any{
			"intent": map[string]any{
				"type": "string",
				"enum": []string{"expense", "income", "budget", "goal", "analytics", "advice", "none"},
			},
			"expenses": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           expenseProps,
				},
			},
			"income": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"amount":     amountProp,
					"source":     map[string]any{"type": "string"},
					"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
				},
			},
			"budget": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"amount":   amountProp,
					"category": map[string]any{"type": "string"},
					"period":   map[string]any{"type": "string", "enum": []string{"weekly", "monthly"}},
				},
			},
			"goal": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"target":   amountProp,
					"name":     map[string]any{"type": "string"},
					"deadline": map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
				},
			},
			"subtype": map[string]any{
				"type": "string",
				"enum": []string{"balance", "spending", "breakdown", "affordability", "savings", "general"},
			},
			"amount":  amountProp,
			"subject": map[string]any{"type": "string"},
		},
	}
}

// renderTranscript flattens recent turns into a plain transcript block.
// Turns arrive newest-first from storage and are rendered oldest-first.
func renderTranscript(turns []model.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Recent conversation:\n")
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]
		fmt.Fprintf(&b, "User: %s\n", t.UserText)
		if t.ResponseText != "" {
			fmt.Fprintf(&b, "Assistant: %s\n", t.ResponseText)
		}
	}
	return b.String()
}
