package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/fernwell/ledgerchat/internal/model"
)

// parseCSV reads a comma-separated statement. Quoting and per-row
// field counts are relaxed; a malformed row is recorded and skipped,
// never fatal for the file.
func parseCSV(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ParseResult{}
	line := 0

	for {
		cols, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, model.RowError{
				Line:   line,
				Reason: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}
		if line == 1 && isHeaderRow(cols) {
			continue
		}

		row, err := parseRow(cols, line)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, model.RowError{Line: line, Reason: err.Error()})
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
