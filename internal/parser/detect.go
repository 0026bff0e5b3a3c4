package parser

import (
	"regexp"
	"strings"

	"github.com/centsible/centsible-server/internal/models"
)

// Date shape patterns used for bank detection. Header text varies by account
// and export version, but date formatting is stable per bank, so date shape
// is the cheap discriminator.
var (
	dayLeadingSlashPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	slashISOPattern        = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)
	dashISOPattern         = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	textMonthPattern       = regexp.MustCompile(`(?i)^\d{1,2} (?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{4}$`)
)

// detectRule pairs a predicate with the bank it selects. Rules are evaluated
// in order and the first match wins, so the decision order is testable on its
// own.
type detectRule struct {
	bank  models.BankType
	match func(header, firstRow []string) bool
}

var detectRules = []detectRule{
	{models.BankCapitec, func(header, firstRow []string) bool {
		return capitecHeaderHint(header) && dayLeadingSlashPattern.MatchString(firstCell(firstRow))
	}},
	{models.BankFNB, func(header, firstRow []string) bool {
		return slashISOPattern.MatchString(firstCell(firstRow))
	}},
	{models.BankStandard, func(header, firstRow []string) bool {
		return dashISOPattern.MatchString(firstCell(firstRow))
	}},
	{models.BankNedbank, func(header, firstRow []string) bool {
		return textMonthPattern.MatchString(firstCell(firstRow))
	}},
	{models.BankAbsa, func(header, firstRow []string) bool {
		return len(header) >= 5 && headerContains(header, "reference")
	}},
}

// DetectBank inspects the header row and the first data row and returns one
// bank identifier from the closed set. It never fails; generic is the
// guaranteed fallback.
func DetectBank(header, firstRow []string) models.BankType {
	for _, rule := range detectRules {
		if rule.match(header, firstRow) {
			return rule.bank
		}
	}
	return models.BankGeneric
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return strings.TrimSpace(row[0])
}

// capitecHeaderHint recognizes the Capitec export header vocabulary
// ("Money In"/"Money Out" columns) or its characteristic 5-column shape.
func capitecHeaderHint(header []string) bool {
	if headerContains(header, "money in") || headerContains(header, "money out") {
		return true
	}
	return len(header) == 5 && !headerContains(header, "reference")
}

func headerContains(header []string, needle string) bool {
	for _, h := range header {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
