// Package assistant orchestrates the conversational core: it
// classifies utterances, drives the clarification state machine,
// commits entries, annotates them with anomaly alerts, and answers
// analytics and advice questions. Every public operation returns a
// textual response plus an action tag, never a raw failure.
package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fernwell/ledgerchat/internal/anomaly"
	"github.com/fernwell/ledgerchat/internal/conversation"
	"github.com/fernwell/ledgerchat/internal/intent"
	"github.com/fernwell/ledgerchat/internal/llm"
	"github.com/fernwell/ledgerchat/internal/model"
	"github.com/fernwell/ledgerchat/internal/service"
	"github.com/fernwell/ledgerchat/internal/statement"
)

// Action tags returned with every reply.
const (
	ActionExpenseAdded = "expense_added"
	ActionIncomeAdded  = "income_added"
	ActionClarify      = "clarify"
	ActionBudgetSet    = "budget_set"
	ActionGoalSet      = "goal_set"
	ActionAnalytics    = "analytics"
	ActionAdvice       = "advice"
	ActionChat         = "chat"
	ActionError        = "error"
	ActionSaveFailed   = "save_failed"
)

const technicalDifficulties = "I'm having technical difficulties right now. Your message wasn't lost, please try again in a moment."

// Reply is the assistant's answer to one utterance.
type Reply struct {
	Data   any
	Text   string
	Action string
	Alerts []anomaly.Alert
}

// Classifier is the slice of the intent classifier the assistant needs.
type Classifier interface {
	Classify(ctx context.Context, utterance string, history []model.ConversationTurn) (model.Intent, error)
}

// Assistant is the single entry point for conversational requests.
type Assistant struct {
	storage    service.Storage
	classifier Classifier
	gateway    intent.Gateway
	pending    *conversation.PendingStore
	detector   *anomaly.Detector
	pipeline   *statement.Pipeline
	logger     *slog.Logger
	now        func() time.Time
}

// Config wires an Assistant.
type Config struct {
	Storage    service.Storage
	Classifier Classifier
	Gateway    intent.Gateway
	Pending    *conversation.PendingStore
	Logger     *slog.Logger
	// PendingTTL is only used when Pending is nil.
	PendingTTL time.Duration
}

// New creates an assistant.
func New(cfg Config) *Assistant {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pending := cfg.Pending
	if pending == nil {
		pending = conversation.NewPendingStore(cfg.PendingTTL)
	}
	return &Assistant{
		storage:    cfg.Storage,
		classifier: cfg.Classifier,
		gateway:    cfg.Gateway,
		pending:    pending,
		detector:   anomaly.NewDetector(cfg.Storage),
		pipeline:   statement.NewPipeline(cfg.Storage, nil, logger),
		logger:     logger,
		now:        time.Now,
	}
}

// Chat handles one utterance for one user. Processing is serialized
// per user: a second message from the same user waits until the first
// finishes, so the pending operation can't race.
func (a *Assistant) Chat(ctx context.Context, userID, utterance string) Reply {
	release := a.pending.Acquire(userID)
	defer release()

	var reply Reply
	if p := a.pending.Get(userID); p != nil {
		// An outstanding question owns the turn: the utterance is an
		// answer to it, not a fresh classification.
		reply = a.continuePending(ctx, p, utterance)
	} else {
		reply = a.classifyAndHandle(ctx, userID, utterance)
	}

	a.recordTurn(ctx, userID, utterance, reply)
	return reply
}

// ImportStatement ingests an uploaded statement for a user.
func (a *Assistant) ImportStatement(ctx context.Context, userID string, data []byte, filename string) (*model.ImportSummary, error) {
	return a.pipeline.Import(ctx, userID, data, filename)
}

// Pipeline exposes the ingestion pipeline for progress wiring.
func (a *Assistant) Pipeline() *statement.Pipeline {
	return a.pipeline
}

// continuePending feeds the utterance to the slot-filling machine.
func (a *Assistant) continuePending(ctx context.Context, p *model.PendingOperation, utterance string) Reply {
	question := conversation.Advance(p, utterance, a.now())
	if question != "" {
		a.pending.Put(p)
		return Reply{Text: question, Action: ActionClarify}
	}

	entry := p.ToEntry(a.now())
	if err := a.storage.SaveEntry(ctx, &entry); err != nil {
		// The pending operation survives a failed save so the user
		// can retry without re-entering everything.
		a.logger.Error("failed to commit pending entry", "user", p.UserID, "error", err)
		return Reply{
			Text:   "I couldn't save that expense just now. Nothing was lost, say anything to try again.",
			Action: ActionSaveFailed,
		}
	}
	a.pending.Clear(p.UserID)

	alerts := a.detector.Check(ctx, &entry)
	return Reply{
		Text:   expenseCommittedText(&entry, alerts),
		Action: ActionExpenseAdded,
		Data:   entry,
		Alerts: alerts,
	}
}

// classifyAndHandle runs extraction on a fresh utterance.
func (a *Assistant) classifyAndHandle(ctx context.Context, userID, utterance string) Reply {
	history, err := a.storage.RecentTurns(ctx, userID, intent.DefaultHistoryTurns)
	if err != nil {
		a.logger.Warn("could not load conversation history", "user", userID, "error", err)
	}

	classified, err := a.classifier.Classify(ctx, utterance, history)
	if err != nil {
		a.logger.Error("classification failed", "user", userID, "error", err)
		return Reply{Text: technicalDifficulties, Action: ActionError}
	}

	switch classified.Tag {
	case model.IntentExpense:
		return a.handleExpenses(ctx, userID, classified.Expenses)
	case model.IntentIncome:
		return a.handleIncome(ctx, userID, classified.Income)
	case model.IntentBudget:
		return a.handleBudget(ctx, userID, classified.Budget)
	case model.IntentGoal:
		return a.handleGoal(ctx, userID, classified.Goal)
	case model.IntentAnalytics:
		return a.handleAnalytics(ctx, userID, classified.AnalyticsSubtype)
	case model.IntentAdvice:
		return a.handleAdvice(ctx, userID, classified)
	default:
		return a.smallTalk(ctx, utterance)
	}
}

// handleExpenses commits every complete expense and turns the first
// incomplete one into the pending operation. There is never more than
// one pending operation per user, so later incomplete expenses in the
// same utterance are dropped with a note.
func (a *Assistant) handleExpenses(ctx context.Context, userID string, expenses []model.ExtractedExpense) Reply {
	var (
		committed []model.FinancialEntry
		alerts    []anomaly.Alert
		pendingOp *model.PendingOperation
	)

	for _, ex := range expenses {
		op := model.NewPendingOperation(userID, ex, a.now())
		if !op.Complete() {
			if pendingOp == nil {
				pendingOp = op
			}
			continue
		}

		entry := op.ToEntry(a.now())
		if err := a.storage.SaveEntry(ctx, &entry); err != nil {
			a.logger.Error("failed to save expense", "user", userID, "error", err)
			return Reply{
				Text:   saveFailedText(committed),
				Action: ActionSaveFailed,
				Data:   committed,
			}
		}
		committed = append(committed, entry)
		alerts = append(alerts, a.detector.Check(ctx, &entry)...)
	}

	if pendingOp != nil {
		a.pending.Put(pendingOp)
		question := conversation.Question(pendingOp)
		if len(committed) > 0 {
			question = expensesCommittedText(committed) + " One more needs details: " + question
		}
		return Reply{Text: question, Action: ActionClarify, Data: committed, Alerts: alerts}
	}

	return Reply{
		Text:   expensesCommittedWithAlertsText(committed, alerts),
		Action: ActionExpenseAdded,
		Data:   committed,
		Alerts: alerts,
	}
}

func (a *Assistant) handleIncome(ctx context.Context, userID string, income *model.ExtractedIncome) Reply {
	if income == nil || income.Amount == nil {
		return Reply{Text: "How much did you receive?", Action: ActionClarify}
	}

	source := income.Source
	if source == "" {
		source = model.CategoryOther
	}

	entry := model.FinancialEntry{
		UserID:      userID,
		Kind:        model.KindIncome,
		Amount:      *income.Amount,
		Category:    source,
		Description: source + " income",
		Provenance:  model.ProvenanceChat,
	}
	entry.Normalize(a.now())

	if err := a.storage.SaveEntry(ctx, &entry); err != nil {
		a.logger.Error("failed to save income", "user", userID, "error", err)
		return Reply{
			Text:   "I couldn't save that income entry. Please try again.",
			Action: ActionSaveFailed,
		}
	}

	alerts := a.detector.Check(ctx, &entry)
	return Reply{
		Text:   incomeCommittedText(&entry),
		Action: ActionIncomeAdded,
		Data:   entry,
		Alerts: alerts,
	}
}

func (a *Assistant) handleBudget(ctx context.Context, userID string, req *model.BudgetRequest) Reply {
	if req == nil || req.Amount == nil || req.Category == "" {
		return Reply{
			Text:   "Tell me the category and the monthly amount, for example: set a 400 budget for groceries.",
			Action: ActionClarify,
		}
	}

	period := req.Period
	if period == "" {
		period = "monthly"
	}
	budget := model.Budget{
		UserID:   userID,
		Category: req.Category,
		Period:   period,
		Amount:   *req.Amount,
	}
	if err := a.storage.SaveBudget(ctx, &budget); err != nil {
		a.logger.Error("failed to save budget", "user", userID, "error", err)
		return Reply{Text: "I couldn't save that budget. Please try again.", Action: ActionSaveFailed}
	}

	return Reply{
		Text:   budgetSetText(&budget),
		Action: ActionBudgetSet,
		Data:   budget,
	}
}

func (a *Assistant) handleGoal(ctx context.Context, userID string, req *model.GoalRequest) Reply {
	if req == nil || req.Target == nil {
		return Reply{
			Text:   "What amount are you aiming for? For example: save 5000 for a vacation.",
			Action: ActionClarify,
		}
	}

	name := req.Name
	if name == "" {
		name = "savings goal"
	}
	goal := model.Goal{
		UserID:   userID,
		Name:     name,
		Target:   *req.Target,
		Deadline: req.Deadline,
	}
	if err := a.storage.SaveGoal(ctx, &goal); err != nil {
		a.logger.Error("failed to save goal", "user", userID, "error", err)
		return Reply{Text: "I couldn't save that goal. Please try again.", Action: ActionSaveFailed}
	}

	return Reply{
		Text:   goalSetText(&goal),
		Action: ActionGoalSet,
		Data:   goal,
	}
}

// smallTalk handles the none intent with a quick conversational reply.
// Provider trouble degrades to canned text; the turn never fails.
func (a *Assistant) smallTalk(ctx context.Context, utterance string) Reply {
	resp, err := a.gateway.Complete(ctx, llm.TaskQuick, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "You are a friendly personal finance assistant. Answer briefly. If the message has nothing to do with personal finance, gently steer back to it."},
			{Role: llm.RoleUser, Content: utterance},
		},
	})
	if err != nil || resp.Content == "" {
		return Reply{
			Text:   "I track expenses, income, budgets and goals. Tell me about something you bought, or ask about your spending.",
			Action: ActionChat,
		}
	}
	return Reply{Text: resp.Content, Action: ActionChat}
}

// recordTurn appends the exchange to the append-only history.
// History is best effort; a failure here never changes the reply.
func (a *Assistant) recordTurn(ctx context.Context, userID, utterance string, reply Reply) {
	turn := &model.ConversationTurn{
		UserID:       userID,
		UserText:     utterance,
		ResponseText: reply.Text,
		Intent:       actionIntent(reply.Action),
	}
	if reply.Data != nil {
		if payload, err := json.Marshal(reply.Data); err == nil {
			turn.Payload = string(payload)
		}
	}
	if err := a.storage.AppendTurn(ctx, turn); err != nil {
		a.logger.Warn("failed to record turn", "user", userID, "error", err)
	}
}

func actionIntent(action string) model.IntentTag {
	switch action {
	case ActionExpenseAdded, ActionClarify:
		return model.IntentExpense
	case ActionIncomeAdded:
		return model.IntentIncome
	case ActionBudgetSet:
		return model.IntentBudget
	case ActionGoalSet:
		return model.IntentGoal
	case ActionAnalytics:
		return model.IntentAnalytics
	case ActionAdvice:
		return model.IntentAdvice
	default:
		return model.IntentNone
	}
}
