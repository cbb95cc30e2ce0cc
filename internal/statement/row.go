package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/model"
)

// Column layout of a tabular statement row. Date and status are
// optional; name, bank and amount are not.
const (
	colName = iota
	colBank
	colAmount
	colDate
	colStatus
)

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseRow converts one tabular row into a RawRow. Returns an error
// for rows that are too short or carry an unparsable amount; callers
// record it and move on.
func parseRow(cols []string, line int) (model.RawRow, error) {
	if len(cols) < MinColumns {
		return model.RawRow{}, fmt.Errorf("row has %d columns, need at least %d", len(cols), MinColumns)
	}

	row := model.RawRow{
		Name: strings.TrimSpace(cols[colName]),
		Bank: strings.TrimSpace(cols[colBank]),
		Line: line,
	}
	if row.Name == "" {
		return model.RawRow{}, fmt.Errorf("row has no transaction name")
	}

	amount, negative, err := parseAmount(cols[colAmount])
	if err != nil {
		return model.RawRow{}, err
	}
	row.Amount = amount
	row.Negative = negative

	if len(cols) > colDate {
		row.Date = parseDate(cols[colDate])
	}

	row.Status = model.RowStatusCompleted
	if len(cols) > colStatus {
		row.Status = normalizeStatus(cols[colStatus])
	}

	return row, nil
}

// parseAmount reads a statement amount, detecting the explicit
// negative markers banks use for debits: a leading minus, a unicode
// minus, or accounting parentheses. The returned amount is always
// positive; the marker travels separately.
func parseAmount(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	// Strip currency symbols and spacing.
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ' ', ' ':
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.ReplaceAll(s, ",", "")

	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("unparsable amount %q", s)
	}
	if amount.IsNegative() {
		negative = true
		amount = amount.Neg()
	}

	return amount, negative, nil
}

// parseDate tries the known statement layouts; a zero time means the
// import falls back to the import timestamp.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// isHeaderRow detects a leading header row so it isn't counted as a
// malformed transaction.
func isHeaderRow(cols []string) bool {
	if len(cols) <= colAmount {
		return false
	}
	amount := strings.ToLower(strings.TrimSpace(cols[colAmount]))
	return amount == "amount" || amount == "value" || amount == "sum"
}
