package statement

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fernwell/ledgerchat/internal/model"
)

// parseXLSX reads the first sheet of a spreadsheet statement. Row
// semantics match the CSV path exactly.
func parseXLSX(r io.Reader) (*ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	result := &ParseResult{}
	for i, cols := range rows {
		line := i + 1
		if i == 0 && isHeaderRow(cols) {
			continue
		}
		if len(cols) == 0 {
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
