package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwell/ledgerchat/internal/llm"
	"github.com/fernwell/ledgerchat/internal/model"
)

type stubGateway struct {
	lastReq llm.Request
	resp    *llm.Response
	err     error
}

func (s *stubGateway) Complete(_ context.Context, _ string, req llm.Request) (*llm.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func classify(t *testing.T, gw *stubGateway, utterance string, history []model.ConversationTurn) (model.Intent, error) {
	t.Helper()
	c, err := NewClassifier(gw, nil)
	require.NoError(t, err)
	return c.Classify(context.Background(), utterance, history)
}

func TestClassifyMultipleExpenses(t *testing.T) {
	gw := &stubGateway{resp: &llm.Response{
		Content: `{"intent":"expense","expenses":[
			{"amount":12.50,"name":"lunch","category":"dining","confidence":0.95},
			{"amount":40,"name":"fuel","category":"transport","confidence":0.9}
		]}`,
	}}

	intent, err := classify(t, gw, "spent 12.50 on lunch and 40 on fuel", nil)

	require.NoError(t, err)
	require.Equal(t, model.IntentExpense, intent.Tag)
	require.Len(t, intent.Expenses, 2)
	assert.Equal(t, "12.5", intent.Expenses[0].Amount.String())
	assert.Equal(t, "dining", intent.Expenses[0].Category)
	assert.Equal(t, "fuel", intent.Expenses[1].Name)
	assert.Equal(t, "transport", intent.Expenses[1].Category)
}

func TestClassifyToolCallPreferred(t *testing.T) {
	gw := &stubGateway{resp: &llm.Response{
		Content: "not json at all",
		ToolCall: &llm.ToolCall{
			Name:      "record_financial_intent",
			Arguments: `{"intent":"income","income":{"amount":3000,"source":"salary"}}`,
		},
	}}

	intent, err := classify(t, gw, "got paid 3000 today", nil)

	require.NoError(t, err)
	require.Equal(t, model.IntentIncome, intent.Tag)
	require.NotNil(t, intent.Income.Amount)
	assert.Equal(t, "3000", intent.Income.Amount.String())
	assert.Equal(t, "salary", intent.Income.Source)
}

func TestClassifyMalformedDegradesToNone(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no json", "sorry, I can't help with that"},
		{"invalid json", `{"intent":"expense","expenses":[`},
		{"schema violation", `{"intent":"expense","bogus_field":true}`},
		{"unknown tag", `{"intent":"teleport"}`},
		{"empty expenses", `{"intent":"expense","expenses":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &stubGateway{resp: &llm.Response{Content: tt.content}}
			intent, err := classify(t, gw, "whatever", nil)

			require.NoError(t, err, "malformed output must not surface as an error")
			assert.Equal(t, model.IntentNone, intent.Tag)
		})
	}
}

func TestClassifyGatewayErrorPropagates(t *testing.T) {
	gwErr := errors.New("both providers down")
	gw := &stubGateway{err: gwErr}

	intent, err := classify(t, gw, "coffee 4.50", nil)

	require.ErrorIs(t, err, gwErr)
	assert.Equal(t, model.IntentNone, intent.Tag)
}

func TestClassifyCategoryCanonicalized(t *testing.T) {
	gw := &stubGateway{resp: &llm.Response{
		ToolCall: &llm.ToolCall{
			Arguments: `{"intent":"expense","expenses":[{"amount":25,"name":"thing","category":"groceries"}]}`,
		},
	}}

	intent, err := classify(t, gw, "25 on groceries", nil)

	require.NoError(t, err)
	require.Len(t, intent.Expenses, 1)
	assert.Equal(t, "groceries", intent.Expenses[0].Category)
}

func TestClassifyNegativeAmountDropped(t *testing.T) {
	gw := &stubGateway{resp: &llm.Response{
		ToolCall: &llm.ToolCall{
			Arguments: `{"intent":"goal","goal":{"target":-50,"name":"junk"}}`,
		},
	}}

	intent, err := classify(t, gw, "save -50", nil)

	require.NoError(t, err)
	require.Equal(t, model.IntentGoal, intent.Tag)
	assert.Nil(t, intent.Goal.Target, "non-positive amounts are treated as absent")
}

func TestClassifyAdviceDefaultsToGeneral(t *testing.T) {
	gw := &stubGateway{resp: &llm.Response{
		Content: `{"intent":"advice","subject":"a laptop","amount":1200}`,
	}}

	intent, err := classify(t, gw, "should I buy a laptop for 1200?", nil)

	require.NoError(t, err)
	require.Equal(t, model.IntentAdvice, intent.Tag)
	assert.Equal(t, model.AdviceGeneral, intent.AdviceSubtype)
	require.NotNil(t, intent.Advice.Amount)
	assert.Equal(t, "1200", intent.Advice.Amount.String())
}

func TestClassifyHistoryRendered(t *testing.T) {
	gw := &stubGateway{resp: &llm.Response{Content: `{"intent":"none"}`}}

	history := []model.ConversationTurn{
		{UserText: "newest", ResponseText: "ok"},
		{UserText: "oldest", ResponseText: "hello"},
	}
	_, err := classify(t, gw, "and this one", history)

	require.NoError(t, err)
	require.Len(t, gw.lastReq.Messages, 2)
	user := gw.lastReq.Messages[1].Content
	assert.Contains(t, user, "Recent conversation:")
	assert.Contains(t, user, "Latest message: and this one")
	assert.Less(t, strings.Index(user, "oldest"), strings.Index(user, "newest"),
		"transcript must read oldest to newest")
}

func TestClassifyPromptListsVocabulary(t *testing.T) {
	gw := &stubGateway{resp: &llm.Response{Content: `{"intent":"none"}`}}

	_, err := classify(t, gw, "hello", nil)

	require.NoError(t, err)
	require.Len(t, gw.lastReq.Messages, 2)
	system := gw.lastReq.Messages[0].Content
	for _, category := range model.ExpenseCategories {
		assert.Contains(t, system, category)
	}
	for _, source := range model.IncomeSources {
		assert.Contains(t, system, source)
	}
}
