package parser

import (
	"fmt"
	"strings"

	"github.com/centsible/centsible-server/internal/models"
)

// NormalizeRow applies a column mapping to one data row, producing a uniform
// transaction. A nil transaction with a nil error means the row was skipped
// on purpose: rows missing a date or description are non-transaction lines
// (trailing summary rows), and rows where both debit and credit are zero are
// informational balance-only lines.
//
// rowNum is the 1-based line number in the original file (header included)
// and is only used for error messages.
func NormalizeRow(row, header []string, rowNum int, m ColumnMapping) (*models.Transaction, error) {
	dateStr := resolveCell(row, header, m.DateCol, m.DateHeader)
	desc := resolveCell(row, header, m.DescCol, m.DescHeader)
	if dateStr == "" || desc == "" {
		return nil, nil
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("Row %d: %v", rowNum, err)
	}

	txn := models.Transaction{
		Date:        date,
		Description: strings.TrimSpace(desc),
		Reference:   resolveCell(row, header, m.ReferenceCol, m.ReferenceHeader),
	}

	if m.DebitCol >= 0 && m.CreditCol >= 0 {
		debit, err := ParseAmount(cellAt(row, m.DebitCol))
		if err != nil {
			return nil, fmt.Errorf("Row %d: %v", rowNum, err)
		}
		credit, err := ParseAmount(cellAt(row, m.CreditCol))
		if err != nil {
			return nil, fmt.Errorf("Row %d: %v", rowNum, err)
		}
		switch {
		case !debit.IsZero():
			txn.Type = models.TypeDebit
			txn.Amount = debit.Abs()
		case !credit.IsZero():
			txn.Type = models.TypeCredit
			txn.Amount = credit.Abs()
		default:
			// Balance-only or informational line.
			return nil, nil
		}
	} else {
		amountStr := resolveCell(row, header, m.AmountCol, m.AmountHeader)
		amount, err := ParseAmount(amountStr)
		if err != nil {
			return nil, fmt.Errorf("Row %d: %v", rowNum, err)
		}
		if amount.IsNegative() {
			txn.Type = models.TypeDebit
		} else {
			txn.Type = models.TypeCredit
		}
		txn.Amount = amount.Abs()
	}

	if balStr := resolveCell(row, header, m.BalanceCol, m.BalanceHeader); balStr != "" {
		if bal, err := ParseAmount(balStr); err == nil {
			txn.Balance = &bal
		}
	}

	return &txn, nil
}

// resolveCell fetches a cell by header name when one is configured,
// otherwise by index. Out-of-range and unmatched lookups yield "".
func resolveCell(row, header []string, idx int, name string) string {
	if name != "" {
		for i, h := range header {
			if strings.Contains(strings.ToLower(h), name) {
				return cellAt(row, i)
			}
		}
		return ""
	}
	return cellAt(row, idx)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
