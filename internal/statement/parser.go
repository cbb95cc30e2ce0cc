// Package statement parses uploaded bank statements into raw
// transaction rows and classifies them into financial entries. One
// row's failure never aborts the batch.
package statement

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fernwell/ledgerchat/internal/common"
	"github.com/fernwell/ledgerchat/internal/model"
)

// MinColumns is the fewest columns a tabular row may carry and still be
// usable: name, bank and amount. Shorter rows are skipped.
const MinColumns = 3

// ParseResult is the raw outcome of parsing one statement file.
type ParseResult struct {
	Rows    []model.RawRow
	Errors  []model.RowError
	Skipped int
}

// Parse dispatches on the file extension and returns raw rows.
// PDF statements are deliberately rejected: there is no text
// extraction here, and silently importing zero rows would look like an
// empty statement.
func Parse(ctx context.Context, data []byte, filename string) (*ParseResult, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(bytes.NewReader(data))
	case ".xlsx":
		return parseXLSX(bytes.NewReader(data))
	case ".ofx", ".qfx":
		return parseOFX(ctx, bytes.NewReader(data))
	case ".pdf":
		return nil, common.NewUserError(
			"PDF statements aren't supported yet. Export a CSV, XLSX or OFX statement instead.",
			fmt.Errorf("%w: pdf", common.ErrUnsupportedFormat))
	default:
		return nil, common.NewUserError(
			fmt.Sprintf("Unrecognized statement format %q. Supported formats: CSV, XLSX, OFX/QFX.", filepath.Ext(filename)),
			fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filename))
	}
}

// normalizeStatus maps a statement's status word onto the row status
// enum. Unknown strings are treated as completed; only explicit
// failure words cause a skip.
func normalizeStatus(s string) model.RowStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "completed", "complete", "success", "successful", "posted", "cleared":
		return model.RowStatusCompleted
	case "failed", "failure", "declined", "error", "rejected", "cancelled", "canceled":
		return model.RowStatusFailed
	default:
		return model.RowStatusUnknown
	}
}
