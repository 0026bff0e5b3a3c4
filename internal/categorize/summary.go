package categorize

import (
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible-server/internal/models"
)

// Summarize computes the derived aggregate over a set of transactions:
// total debits, total credits, net, per-category debit totals, and the
// min/max date range. Internal transfers are excluded from the per-category
// spending totals but still count toward the debit/credit totals.
func Summarize(txns []models.Transaction) models.Summary {
	s := models.Summary{
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		PerCategory:  make(map[models.Category]decimal.Decimal),
	}

	for _, txn := range txns {
		if s.DateFrom.IsZero() || txn.Date.Before(s.DateFrom) {
			s.DateFrom = txn.Date
		}
		if txn.Date.After(s.DateTo) {
			s.DateTo = txn.Date
		}

		switch txn.Type {
		case models.TypeDebit:
			s.TotalDebits = s.TotalDebits.Add(txn.Amount)
			if !IsInternalTransfer(txn.Description) {
				s.PerCategory[txn.Category] = s.PerCategory[txn.Category].Add(txn.Amount)
			}
		case models.TypeCredit:
			s.TotalCredits = s.TotalCredits.Add(txn.Amount)
		}
	}

	s.Net = s.TotalCredits.Sub(s.TotalDebits)
	return s
}
