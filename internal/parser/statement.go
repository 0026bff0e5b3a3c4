package parser

import (
	"errors"

	"github.com/centsible/centsible-server/internal/models"
)

// ErrNoData is returned when a statement has no parseable data rows. This is
// the only structural failure; everything else degrades to row-level errors.
var ErrNoData = errors.New("file is empty or has no data rows")

// StatementResult is the outcome of parsing one uploaded statement.
type StatementResult struct {
	Bank         models.BankType      `json:"bank"`
	Transactions []models.Transaction `json:"transactions"`
	// Errors collects row-level failures as "Row <n>: <message>". A bad row
	// is excluded and parsing continues; no abort on first error.
	Errors []string `json:"errors"`
}

// ParseStatement runs the full decode → detect → normalize pipeline over raw
// CSV statement text. Transactions come back uncategorized; the caller runs
// them through the categorizer before showing them to the user.
func ParseStatement(text string) (*StatementResult, error) {
	rows := Decode(text)
	if len(rows) < 2 {
		return nil, ErrNoData
	}

	header, data := rows[0], rows[1:]
	bank := DetectBank(header, data[0])
	mapping := MappingFor(bank)

	result := &StatementResult{Bank: bank}
	for i, row := range data {
		// Line numbers are 1-based and include the header row.
		txn, err := NormalizeRow(row, header, i+2, mapping)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if txn == nil {
			continue
		}
		result.Transactions = append(result.Transactions, *txn)
	}
	return result, nil
}
