package statement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/model"
	"github.com/fernwell/ledgerchat/internal/service"
)

// Pipeline ingests a parsed statement row by row. Every row's
// persistence attempt is isolated; errors are collected, not raised.
type Pipeline struct {
	storage     service.Storage
	categorizer *Categorizer
	logger      *slog.Logger
	now         func() time.Time
	// Progress, when set, is called once per processed row.
	Progress func()
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(storage service.Storage, categorizer *Categorizer, logger *slog.Logger) *Pipeline {
	if categorizer == nil {
		categorizer = NewCategorizer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		storage:     storage,
		categorizer: categorizer,
		logger:      logger,
		now:         time.Now,
	}
}

// Import parses the statement and classifies and persists each row.
// The summary accounts for every row: processed = imported + skipped.
func (p *Pipeline) Import(ctx context.Context, userID string, data []byte, filename string) (*model.ImportSummary, error) {
	parsed, err := Parse(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	summary := &model.ImportSummary{
		Processed: len(parsed.Rows) + parsed.Skipped,
		Skipped:   parsed.Skipped,
		Errors:    parsed.Errors,
		Totals: model.ImportTotals{
			Expenses:    decimal.Zero,
			Income:      decimal.Zero,
			PerCategory: make(map[string]decimal.Decimal),
		},
	}

	for i := range parsed.Rows {
		row := &parsed.Rows[i]
		if p.Progress != nil {
			p.Progress()
		}

		if row.Status == model.RowStatusFailed {
			summary.Skipped++
			continue
		}

		entry := p.classify(userID, row)
		if err := p.storage.SaveEntry(ctx, entry); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, model.RowError{
				Line:   row.Line,
				Reason: fmt.Sprintf("failed to save %q: %v", row.Name, err),
			})
			p.logger.Warn("statement row not saved", "line", row.Line, "name", row.Name, "error", err)
			continue
		}

		summary.Imported++
		p.tally(summary, entry)
	}

	p.logger.Info("statement import finished",
		"file", filename,
		"processed", summary.Processed,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"errors", len(summary.Errors))

	return summary, nil
}

// classify applies the sign heuristic and the keyword table to one
// surviving row. An explicit negative marker means expense; its
// absence means income. Statement formats that write debits without a
// minus sign will misclassify here; that limitation is accepted.
func (p *Pipeline) classify(userID string, row *model.RawRow) *model.FinancialEntry {
	entry := &model.FinancialEntry{
		UserID:      userID,
		Amount:      row.Amount,
		Description: row.Name,
		Merchant:    row.Name,
		OccurredAt:  row.Date,
		Provenance:  model.ProvenanceImport,
	}

	if row.Negative {
		entry.Kind = model.KindExpense
		entry.Category = p.categorizer.Categorize(row.Name)
	} else {
		entry.Kind = model.KindIncome
		entry.Category = model.CategoryOther
	}

	entry.Normalize(p.now())
	return entry
}

func (p *Pipeline) tally(summary *model.ImportSummary, entry *model.FinancialEntry) {
	if entry.Kind == model.KindExpense {
		summary.Totals.Expenses = summary.Totals.Expenses.Add(entry.Amount)
		current := summary.Totals.PerCategory[entry.Category]
		summary.Totals.PerCategory[entry.Category] = current.Add(entry.Amount)
	} else {
		summary.Totals.Income = summary.Totals.Income.Add(entry.Amount)
	}
}
