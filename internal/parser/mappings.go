package parser

import "github.com/centsible/centsible-server/internal/models"

// ColumnMapping describes where each field lives in one bank's CSV layout.
// A column is addressed by index, or by header name when the bank's exports
// reorder columns between account types (Absa does this). An index of -1
// means the bank has no such column.
//
// Mappings are statically enumerated and never mutated.
type ColumnMapping struct {
	Bank models.BankType

	DateCol int
	DescCol int

	// Either separate debit/credit columns, or one signed amount column.
	DebitCol  int
	CreditCol int
	AmountCol int

	BalanceCol   int
	ReferenceCol int

	// Header-name lookups used instead of indexes when set.
	DateHeader      string
	DescHeader      string
	AmountHeader    string
	BalanceHeader   string
	ReferenceHeader string

	DateLayout string
}

var mappings = map[models.BankType]ColumnMapping{
	// Capitec: Date, Description, Money Out, Money In, Balance. dd/MM/yyyy.
	models.BankCapitec: {
		Bank:       models.BankCapitec,
		DateCol:    0,
		DescCol:    1,
		DebitCol:   2,
		CreditCol:  3,
		AmountCol:  -1,
		BalanceCol: 4, ReferenceCol: -1,
		DateLayout: "02/01/2006",
	},

	// FNB: Date, Amount (signed), Balance, Description. yyyy/MM/dd.
	models.BankFNB: {
		Bank:       models.BankFNB,
		DateCol:    0,
		DescCol:    3,
		DebitCol:   -1,
		CreditCol:  -1,
		AmountCol:  1,
		BalanceCol: 2, ReferenceCol: -1,
		DateLayout: "2006/01/02",
	},

	// Standard Bank: Date, Description, Debit, Credit, Balance. ISO dates.
	models.BankStandard: {
		Bank:       models.BankStandard,
		DateCol:    0,
		DescCol:    1,
		DebitCol:   2,
		CreditCol:  3,
		AmountCol:  -1,
		BalanceCol: 4, ReferenceCol: -1,
		DateLayout: "2006-01-02",
	},

	// Nedbank: Date, Description, Amount (signed), Balance. "15 Jan 2024".
	models.BankNedbank: {
		Bank:       models.BankNedbank,
		DateCol:    0,
		DescCol:    1,
		DebitCol:   -1,
		CreditCol:  -1,
		AmountCol:  2,
		BalanceCol: 3, ReferenceCol: -1,
		DateLayout: "02 Jan 2006",
	},

	// Absa exports reorder columns between account types, so fields are
	// resolved by header name rather than position.
	models.BankAbsa: {
		Bank:    models.BankAbsa,
		DateCol: -1, DescCol: -1, DebitCol: -1, CreditCol: -1,
		AmountCol: -1, BalanceCol: -1, ReferenceCol: -1,
		DateHeader:      "date",
		DescHeader:      "description",
		AmountHeader:    "amount",
		BalanceHeader:   "balance",
		ReferenceHeader: "reference",
		DateLayout:      "02/01/2006",
	},

	// Generic fallback: date, description, signed amount. Must tolerate a
	// signed single amount column since this is the guaranteed fallback.
	models.BankGeneric: {
		Bank:       models.BankGeneric,
		DateCol:    0,
		DescCol:    1,
		DebitCol:   -1,
		CreditCol:  -1,
		AmountCol:  2,
		BalanceCol: -1, ReferenceCol: -1,
		DateLayout: "2006-01-02",
	},
}

// MappingFor returns the column mapping for a bank, falling back to the
// generic mapping for anything unknown.
func MappingFor(bank models.BankType) ColumnMapping {
	if m, ok := mappings[bank]; ok {
		return m
	}
	return mappings[models.BankGeneric]
}
