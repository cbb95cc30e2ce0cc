// Package anomaly flags statistically or temporally unusual expenses.
// Detection runs strictly after a successful commit and is advisory:
// alerts annotate the response, they never block or reverse anything.
package anomaly

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/model"
	"github.com/fernwell/ledgerchat/internal/service"
)

// AlertKind discriminates detector alerts.
type AlertKind string

// Alert kinds.
const (
	AlertUnusualAmount AlertKind = "unusual_amount"
	AlertLateNight     AlertKind = "late_night"
)

// Alert is one advisory annotation for a committed expense.
type Alert struct {
	Kind    AlertKind
	Message string
}

// Detector evaluates committed expenses against the user's history.
type Detector struct {
	storage service.Storage
}

// NewDetector creates a detector over the persistence collaborator.
func NewDetector(storage service.Storage) *Detector {
	return &Detector{storage: storage}
}

// Check runs both checks for a just-committed entry and returns every
// alert that fired. Storage trouble degrades to no amount alert rather
// than failing the response; the commit already happened.
func (d *Detector) Check(ctx context.Context, entry *model.FinancialEntry) []Alert {
	var alerts []Alert

	if entry.Kind == model.KindExpense {
		if alert := d.checkAmount(ctx, entry); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	if alert := checkTime(entry); alert != nil {
		alerts = append(alerts, *alert)
	}

	return alerts
}

// checkAmount compares the amount against twice the mean of the user's
// prior expenses in the same category. No prior history means no
// baseline and no alert.
func (d *Detector) checkAmount(ctx context.Context, entry *model.FinancialEntry) *Alert {
	history, err := d.storage.GetEntriesByCategory(ctx, entry.UserID, entry.Category)
	if err != nil {
		return nil
	}

	sum := decimal.Zero
	count := 0
	for i := range history {
		if history[i].ID == entry.ID || history[i].Kind != model.KindExpense {
			continue
		}
		sum = sum.Add(history[i].Amount)
		count++
	}
	if count == 0 {
		return nil
	}

	mean := sum.Div(decimal.NewFromInt(int64(count)))
	if entry.Amount.GreaterThan(mean.Mul(decimal.NewFromInt(2))) {
		return &Alert{
			Kind: AlertUnusualAmount,
			Message: fmt.Sprintf("This %s expense of %s is more than double your usual %s in this category.",
				entry.Category, entry.Amount.StringFixed(2), mean.StringFixed(2)),
		}
	}
	return nil
}

// checkTime flags entries logged in the small hours. The hour>23 arm
// is unreachable but kept so the bounds read as a symmetric window.
func checkTime(entry *model.FinancialEntry) *Alert {
	hour := entry.OccurredAt.Hour()
	if hour < 6 || hour > 23 {
		return &Alert{
			Kind:    AlertLateNight,
			Message: "Logged late at night. Double-check the details if this was entered in a hurry.",
		}
	}
	return nil
}
