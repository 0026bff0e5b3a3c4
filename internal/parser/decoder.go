package parser

import (
	"encoding/csv"
	"io"
	"strings"
)

// Decode splits raw delimited statement text into rows of trimmed string
// cells. Quoted fields containing the delimiter are handled, CRLF and LF line
// endings both work, and blank lines are dropped. No row/column validation
// happens here; malformed rows are passed through and rejected later.
// Decode never fails — unreadable lines are skipped.
func Decode(text string) [][]string {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A line the CSV reader cannot make sense of at all. Skip it
			// rather than aborting the whole statement.
			continue
		}

		empty := true
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
			if record[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, record)
	}
	return rows
}
