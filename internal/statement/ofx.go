package statement

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/model"
)

// preprocessOFX fixes common formatting issues in OFX files before
// handing them to the parser: stray leading whitespace, mixed-case
// SEVERITY values, and SGML-style tags missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// parseOFX reads an OFX/QFX statement. Bank and credit card statement
// blocks both contribute rows; the debit direction comes from the OFX
// amount sign.
func parseOFX(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	result := &ParseResult{}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			appendOFXRows(result, stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			appendOFXRows(result, stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))
		}
	}

	slog.Debug("parsed OFX statement",
		"rows", len(result.Rows),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return result, nil
}

func appendOFXRows(result *ParseResult, list *ofxgo.TransactionList, account string) {
	if list == nil {
		return
	}

	for _, tx := range list.Transactions {
		name := ofxName(tx)
		if name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, model.RowError{
				Line:   len(result.Rows) + result.Skipped,
				Reason: "ofx transaction has no name or payee",
			})
			continue
		}

		// Amount embeds big.Rat; two decimal places is what OFX carries.
		amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, model.RowError{
				Line:   len(result.Rows) + result.Skipped,
				Reason: fmt.Sprintf("unparsable ofx amount %q", tx.TrnAmt.FloatString(2)),
			})
			continue
		}

		negative := amount.IsNegative()
		if negative {
			amount = amount.Neg()
		}

		result.Rows = append(result.Rows, model.RawRow{
			Name:     name,
			Bank:     account,
			Amount:   amount,
			Negative: negative,
			Date:     tx.DtPosted.Time,
			Status:   model.RowStatusCompleted,
			Line:     len(result.Rows) + result.Skipped + 1,
		})
	}
}

// ofxName prefers the payee record over the raw NAME field.
func ofxName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	return strings.TrimSpace(string(tx.Name))
}
