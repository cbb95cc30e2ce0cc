// Package conversation implements the per-user slot-filling state
// machine and the pending operation store behind it.
package conversation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/model"
)

// State names the slot-filling machine's position for one user.
type State string

// Machine states. Idle means no pending operation exists; Complete
// means the pending operation just filled its last slot and must be
// committed and cleared in the same step.
const (
	StateIdle                State = "idle"
	StateAwaitingAmount      State = "awaiting_amount"
	StateAwaitingDescription State = "awaiting_description"
	StateAwaitingCategory    State = "awaiting_category"
	StateComplete            State = "complete"
)

// StateOf derives the machine state from a pending operation.
func StateOf(p *model.PendingOperation) State {
	if p == nil {
		return StateIdle
	}
	switch p.NextMissing() {
	case model.FieldAmount:
		return StateAwaitingAmount
	case model.FieldDescription:
		return StateAwaitingDescription
	case model.FieldCategory:
		return StateAwaitingCategory
	default:
		return StateComplete
	}
}

// Question returns the clarifying question for the first missing field
// of a pending operation. It always targets exactly one field.
func Question(p *model.PendingOperation) string {
	switch p.NextMissing() {
	case model.FieldAmount:
		return "How much did you spend?"
	case model.FieldDescription:
		return "What was this expense for?"
	case model.FieldCategory:
		return fmt.Sprintf("Which category fits best? (%s)", strings.Join(model.ExpenseCategories, ", "))
	default:
		return ""
	}
}

// Amounts like "12", "12.50", "1,299.99", "12,50".
var amountTokenRe = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// Advance consumes one reply for the pending operation's first missing
// field. When the reply cannot fill the slot the state is unchanged and
// the same question is re-asked. Returns the next question, or "" when
// the operation became complete.
func Advance(p *model.PendingOperation, reply string, now time.Time) string {
	reply = strings.TrimSpace(reply)

	switch StateOf(p) {
	case StateAwaitingAmount:
		amount, ok := parseFirstAmount(reply)
		if !ok {
			return "I couldn't find an amount in that. " + Question(p)
		}
		p.Amount = &amount

	case StateAwaitingDescription:
		if reply == "" {
			return Question(p)
		}
		p.Description = reply
		if p.Name == "" {
			p.Name = reply
		}

	case StateAwaitingCategory:
		cat, ok := model.MatchCategory(reply)
		if !ok {
			return "That doesn't match a category I know. " + Question(p)
		}
		p.Category = cat

	default:
		return ""
	}

	p.UpdatedAt = now
	p.RecomputeMissing()
	if p.Complete() {
		return ""
	}
	return Question(p)
}

// parseFirstAmount extracts the first numeric token from a reply. A
// comma between digit groups is treated as a thousands separator when
// followed by three digits and a decimal comma otherwise.
func parseFirstAmount(reply string) (decimal.Decimal, bool) {
	token := amountTokenRe.FindString(reply)
	if token == "" {
		return decimal.Decimal{}, false
	}

	normalized := normalizeAmountToken(token)
	amount, err := decimal.NewFromString(normalized)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func normalizeAmountToken(token string) string {
	if !strings.Contains(token, ",") {
		return token
	}
	if strings.Contains(token, ".") {
		// Both present: commas are separators.
		return strings.ReplaceAll(token, ",", "")
	}
	parts := strings.Split(token, ",")
	last := parts[len(parts)-1]
	if len(parts) == 2 && len(last) != 3 {
		// "12,50" style decimal comma.
		return parts[0] + "." + last
	}
	return strings.Join(parts, "")
}
