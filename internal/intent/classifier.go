// Package intent turns free-text utterances into discriminated
// financial intents using the inference gateway. Malformed provider
// output degrades to the none intent; it never surfaces as an error.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/llm"
	"github.com/fernwell/ledgerchat/internal/model"
)

// Gateway is the slice of the inference gateway the classifier needs.
type Gateway interface {
	Complete(ctx context.Context, task string, req llm.Request) (*llm.Response, error)
}

// Classifier extracts financial intents from utterances.
type Classifier struct {
	gateway      Gateway
	logger       *slog.Logger
	schema       *jsonschema.Schema
	schemaMap    map[string]any
	historyTurns int
}

// NewClassifier creates a classifier over the given gateway.
func NewClassifier(gateway Gateway, logger *slog.Logger) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schemaMap := buildPayloadSchema(model.ExpenseCategories)
	schema, err := llm.CompileSchema(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("failed to compile extraction schema: %w", err)
	}
	return &Classifier{
		gateway:      gateway,
		logger:       logger,
		schema:       schema,
		schemaMap:    schemaMap,
		historyTurns: DefaultHistoryTurns,
	}, nil
}

// Classify extracts the intent of one utterance, with up to
// DefaultHistoryTurns prior turns as context. A gateway failure is
// returned as an error; an unparsable or schema-violating payload is
// not, it degrades to the none intent.
func (c *Classifier) Classify(ctx context.Context, utterance string, history []model.ConversationTurn) (model.Intent, error) {
	if len(history) > c.historyTurns {
		history = history[:c.historyTurns]
	}

	userContent := utterance
	if transcript := renderTranscript(history); transcript != "" {
		userContent = transcript + "\nLatest message: " + utterance
	}

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: userContent},
		},
		Tools: []llm.ToolSchema{{
			Name:        "record_financial_intent",
			Description: "Record the classified financial intent of the user's message.",
			Parameters:  c.schemaMap,
		}},
	}

	resp, err := c.gateway.Complete(ctx, llm.TaskExtract, req)
	if err != nil {
		return model.None(), err
	}

	raw, ok := c.rawPayload(resp)
	if !ok {
		c.logger.Debug("no JSON payload in extraction response")
		return model.None(), nil
	}

	if err := llm.ValidateAgainst(c.schema, []byte(raw)); err != nil {
		c.logger.Debug("extraction payload failed schema validation", "error", err)
		return model.None(), nil
	}

	intent, ok := c.decode(raw)
	if !ok {
		return model.None(), nil
	}
	return intent, nil
}

// rawPayload prefers a tool call's arguments, falling back to JSON
// embedded in the text content.
func (c *Classifier) rawPayload(resp *llm.Response) (string, bool) {
	if resp.ToolCall != nil && resp.ToolCall.Arguments != "" {
		return resp.ToolCall.Arguments, true
	}
	return llm.ExtractJSONObject(resp.Content)
}

// payload mirrors the extraction schema. Amounts decode through
// json.Number so decimal precision survives.
type payload struct {
	Intent   string `json:"intent"`
	Expenses []struct {
		Amount      json.Number `json:"amount"`
		Name        string      `json:"name"`
		Description string      `json:"description"`
		Category    string      `json:"category"`
		Merchant    string      `json:"merchant"`
		Confidence  float64     `json:"confidence"`
	} `json:"expenses"`
	Income *struct {
		Amount     json.Number `json:"amount"`
		Source     string      `json:"source"`
		Confidence float64     `json:"confidence"`
	} `json:"income"`
	Budget *struct {
		Amount   json.Number `json:"amount"`
		Category string      `json:"category"`
		Period   string      `json:"period"`
	} `json:"budget"`
	Goal *struct {
		Target   json.Number `json:"target"`
		Name     string      `json:"name"`
		Deadline string      `json:"deadline"`
	} `json:"goal"`
	Subtype string      `json:"subtype"`
	Amount  json.Number `json:"amount"`
	Subject string      `json:"subject"`
}

func (c *Classifier) decode(raw string) (model.Intent, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var p payload
	if err := dec.Decode(&p); err != nil {
		c.logger.Debug("failed to decode extraction payload", "error", err)
		return model.None(), false
	}

	switch model.IntentTag(p.Intent) {
	case model.IntentExpense:
		return c.decodeExpenses(p)
	case model.IntentIncome:
		return c.decodeIncome(p)
	case model.IntentBudget:
		return c.decodeBudget(p)
	case model.IntentGoal:
		return c.decodeGoal(p)
	case model.IntentAnalytics:
		return model.Intent{Tag: model.IntentAnalytics, AnalyticsSubtype: analyticsSubtype(p.Subtype)}, true
	case model.IntentAdvice:
		return c.decodeAdvice(p)
	case model.IntentNone:
		return model.None(), true
	default:
		c.logger.Debug("unknown intent tag in payload", "tag", p.Intent)
		return model.None(), false
	}
}

func (c *Classifier) decodeExpenses(p payload) (model.Intent, bool) {
	if len(p.Expenses) == 0 {
		return model.None(), false
	}
	expenses := make([]model.ExtractedExpense, 0, len(p.Expenses))
	for _, e := range p.Expenses {
		ex := model.ExtractedExpense{
			Name:        strings.TrimSpace(e.Name),
			Description: strings.TrimSpace(e.Description),
			Merchant:    strings.TrimSpace(e.Merchant),
			Confidence:  e.Confidence,
		}
		ex.Amount = parseAmount(e.Amount)
		// A category outside the enumeration is treated as unset so
		// the clarification dialog can resolve it.
		if cat, ok := model.MatchCategory(e.Category); ok && e.Category != "" {
			ex.Category = cat
		}
		expenses = append(expenses, ex)
	}
	return model.Intent{Tag: model.IntentExpense, Expenses: expenses}, true
}

func (c *Classifier) decodeIncome(p payload) (model.Intent, bool) {
	if p.Income == nil {
		return model.None(), false
	}
	income := &model.ExtractedIncome{
		Source:     strings.TrimSpace(p.Income.Source),
		Confidence: p.Income.Confidence,
	}
	income.Amount = parseAmount(p.Income.Amount)
	return model.Intent{Tag: model.IntentIncome, Income: income}, true
}

func (c *Classifier) decodeBudget(p payload) (model.Intent, bool) {
	if p.Budget == nil {
		return model.None(), false
	}
	budget := &model.BudgetRequest{
		Category: strings.ToLower(strings.TrimSpace(p.Budget.Category)),
		Period:   p.Budget.Period,
	}
	budget.Amount = parseAmount(p.Budget.Amount)
	return model.Intent{Tag: model.IntentBudget, Budget: budget}, true
}

func (c *Classifier) decodeGoal(p payload) (model.Intent, bool) {
	if p.Goal == nil {
		return model.None(), false
	}
	goal := &model.GoalRequest{Name: strings.TrimSpace(p.Goal.Name)}
	goal.Target = parseAmount(p.Goal.Target)
	if p.Goal.Deadline != "" {
		if t, err := time.Parse("2006-01-02", p.Goal.Deadline); err == nil {
			goal.Deadline = &t
		}
	}
	return model.Intent{Tag: model.IntentGoal, Goal: goal}, true
}

func (c *Classifier) decodeAdvice(p payload) (model.Intent, bool) {
	intent := model.Intent{
		Tag:           model.IntentAdvice,
		AdviceSubtype: adviceSubtype(p.Subtype),
		Advice:        &model.AdviceRequest{Subject: strings.TrimSpace(p.Subject)},
	}
	intent.Advice.Amount = parseAmount(p.Amount)
	return intent, true
}

func parseAmount(n json.Number) *decimal.Decimal {
	if n == "" {
		return nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil || !d.IsPositive() {
		return nil
	}
	return &d
}

func analyticsSubtype(s string) model.AnalyticsSubtype {
	switch model.AnalyticsSubtype(s) {
	case model.AnalyticsBalance, model.AnalyticsSpending, model.AnalyticsBreakdown:
		return model.AnalyticsSubtype(s)
	default:
		return model.AnalyticsBalance
	}
}

func adviceSubtype(s string) model.AdviceSubtype {
	switch model.AdviceSubtype(s) {
	case model.AdviceAffordability, model.AdviceSavings, model.AdviceGeneral:
		return model.AdviceSubtype(s)
	default:
		return model.AdviceGeneral
	}
}
