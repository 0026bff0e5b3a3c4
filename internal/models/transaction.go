package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType says which way money moved. Debit means money left the account.
type TransactionType string

const (
	TypeDebit  TransactionType = "debit"
	TypeCredit TransactionType = "credit"
)

// Transaction is the canonical unit of work downstream of statement decoding.
// Amount is always a non-negative magnitude; direction is carried only in Type.
type Transaction struct {
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Type        TransactionType  `json:"type"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Category    Category         `json:"category"`
}

// MonthKey returns the calendar month of the transaction as "YYYY-MM".
func (t Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// BankType identifies a supported bank statement layout.
type BankType string

const (
	BankAbsa     BankType = "absa"
	BankCapitec  BankType = "capitec"
	BankFNB      BankType = "fnb"
	BankNedbank  BankType = "nedbank"
	BankStandard BankType = "standardbank"
	BankGeneric  BankType = "generic"
)

// Summary is a derived aggregate over a set of transactions. Recomputed on
// demand, never stored.
type Summary struct {
	TotalDebits  decimal.Decimal              `json:"totalDebits"`
	TotalCredits decimal.Decimal              `json:"totalCredits"`
	Net          decimal.Decimal              `json:"net"`
	PerCategory  map[Category]decimal.Decimal `json:"perCategory"`
	DateFrom     time.Time                    `json:"dateFrom"`
	DateTo       time.Time                    `json:"dateTo"`
}

// ImportResult is the aggregate outcome of one persistence batch. Errors is
// bounded; a bad row never surfaces as a raw exception to the UI.
type ImportResult struct {
	Imported          int      `json:"imported"`
	Skipped           int      `json:"skipped"`
	Total             int      `json:"total"`
	Errors            []string `json:"errors"`
	ObligationsMarked int      `json:"obligationsMarked,omitempty"`
}
