package writer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/centsible/centsible-server/internal/categorize"
	"github.com/centsible/centsible-server/internal/models"
)

// CSVWriter renders cleaned transactions back to CSV so users can pull a
// normalized export of a statement into a spreadsheet.
type CSVWriter struct {
	// IncludeSummary adds comment rows with the statement totals on top.
	IncludeSummary bool
}

var columns = []string{"Date", "Description", "Type", "Amount", "Balance", "Reference", "Category"}

// Write renders the transactions in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if w.IncludeSummary {
		s := categorize.Summarize(txns)
		cw.Write([]string{"# Total Debits", s.TotalDebits.StringFixed(2)})
		cw.Write([]string{"# Total Credits", s.TotalCredits.StringFixed(2)})
		cw.Write([]string{"# Net", s.Net.StringFixed(2)})
		if !s.DateFrom.IsZero() {
			cw.Write([]string{"# Period", s.DateFrom.Format("2006-01-02") + " to " + s.DateTo.Format("2006-01-02")})
		}
	}

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, txn := range txns {
		balance := ""
		if txn.Balance != nil {
			balance = txn.Balance.StringFixed(2)
		}
		row := []string{
			txn.Date.Format("2006-01-02"),
			txn.Description,
			string(txn.Type),
			txn.Amount.StringFixed(2),
			balance,
			txn.Reference,
			string(txn.Category),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	return nil
}
