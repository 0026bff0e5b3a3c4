package extract

import (
	"encoding/json"
	"strings"

	"github.com/centsible/centsible-server/internal/categorize"
	"github.com/centsible/centsible-server/internal/models"
	"github.com/centsible/centsible-server/internal/parser"
)

// candidate is the expected shape of one extracted transaction. Everything
// here is untrusted model output.
type candidate struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Reference   string      `json:"reference"`
}

// ParseCandidates turns a raw model response into categorized candidate
// transactions. The response may be wrapped in code fences, surrounded by
// prose, or truncated mid-object; each repair step is tried in order and a
// total parse failure yields an empty list, never an error. Extraction is
// inherently imprecise, so losing candidates is acceptable; failing the
// import is not.
func ParseCandidates(raw string, table *categorize.Table, settings *categorize.Settings) []models.Transaction {
	objects := decodeArray(stripCodeFence(raw))
	if objects == nil {
		return nil
	}

	var txns []models.Transaction
	for _, obj := range objects {
		var c candidate
		if err := json.Unmarshal(obj, &c); err != nil {
			continue
		}
		txn, ok := normalizeCandidate(c)
		if !ok {
			continue
		}
		txn.Category = table.Categorize(txn.Description, settings)
		txns = append(txns, txn)
	}
	return txns
}

// decodeArray locates a complete top-level JSON array in s, or repairs a
// truncated one by trimming to the last complete object boundary and closing
// the array. Returns nil when no array can be recovered.
func decodeArray(s string) []json.RawMessage {
	start := strings.Index(s, "[")
	if start < 0 {
		return nil
	}

	if end := strings.LastIndex(s, "]"); end > start {
		var objects []json.RawMessage
		if err := json.Unmarshal([]byte(s[start:end+1]), &objects); err == nil {
			return objects
		}
	}

	// No complete array — trim to the last complete closing-object boundary
	// and close the array ourselves.
	last := strings.LastIndex(s, "}")
	if last < start {
		return nil
	}
	repaired := s[start:last+1] + "]"
	var objects []json.RawMessage
	if err := json.Unmarshal([]byte(repaired), &objects); err != nil {
		return nil
	}
	return objects
}

// normalizeCandidate validates one candidate and coerces it into the
// canonical transaction shape. Candidates missing a date, description, or
// numeric amount are discarded. Amount becomes its absolute value; direction
// defaults to debit when ambiguous.
func normalizeCandidate(c candidate) (models.Transaction, bool) {
	desc := strings.TrimSpace(c.Description)
	if c.Date == "" || desc == "" || c.Amount == "" {
		return models.Transaction{}, false
	}

	date, err := parser.ParseDate(c.Date)
	if err != nil {
		return models.Transaction{}, false
	}
	amount, err := parser.ParseAmount(c.Amount.String())
	if err != nil {
		return models.Transaction{}, false
	}

	txnType := models.TypeDebit
	if strings.EqualFold(strings.TrimSpace(c.Type), string(models.TypeCredit)) {
		txnType = models.TypeCredit
	}

	return models.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount.Abs(),
		Type:        txnType,
		Reference:   strings.TrimSpace(c.Reference),
	}, true
}

// stripCodeFence removes Markdown code-fence wrapping (``` or ```json) that
// models habitually add around JSON output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
