// Package match scores candidate debit transactions against a user's active
// recurring obligations and proposes payment matches with a confidence tier.
package match

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible-server/internal/models"
)

// Config holds the matching heuristics. The defaults mirror long-standing
// business rules; they are tunable because the exact numbers are "tight vs
// loose" tiering, not load-bearing constants.
type Config struct {
	// AmountTolerance is the relative tolerance for an amount to count as
	// "close" to the obligation's nominal amount.
	AmountTolerance decimal.Decimal
	// ExactEpsilon is the absolute tolerance for an amount-only match.
	ExactEpsilon decimal.Decimal
}

// DefaultConfig returns the standard 5% tolerance and 1-cent exact match.
func DefaultConfig() Config {
	return Config{
		AmountTolerance: decimal.NewFromFloat(0.05),
		ExactEpsilon:    decimal.NewFromFloat(0.01),
	}
}

// MonthKey builds the claimed/paid set key for an obligation and a calendar
// month ("YYYY-MM").
func MonthKey(obligationID, month string) string {
	return obligationID + "|" + month
}

// FindMatches scores every (debit transaction, obligation) pair and returns
// proposed matches sorted by confidence tier, preserving discovery order
// within a tier. paidMonths holds MonthKey entries for obligations already
// paid in a given month (from persisted payment records); those pairs are
// skipped, and an obligation is claimed at most once per calendar month
// within a single run.
func FindMatches(txns []models.Transaction, obligations []models.Obligation, paidMonths map[string]bool, cfg Config) []models.ObligationMatch {
	claimed := make(map[string]bool)

	// Buckets per tier keep the global sort stable without re-sorting.
	var high, medium, low []models.ObligationMatch

	for _, txn := range txns {
		if txn.Type != models.TypeDebit {
			continue
		}
		month := txn.MonthKey()

		for _, ob := range obligations {
			if !ob.Active {
				continue
			}
			key := MonthKey(ob.ID, month)
			if paidMonths[key] || claimed[key] {
				continue
			}

			confidence, reason := score(txn, ob, cfg)
			if confidence == "" {
				continue
			}

			m := models.ObligationMatch{
				ObligationID:   ob.ID,
				ObligationName: ob.Name,
				ExpectedAmount: ob.Amount,
				ActualAmount:   txn.Amount,
				Transaction:    txn,
				Confidence:     confidence,
				MatchReason:    reason,
			}
			claimed[key] = true

			switch confidence {
			case models.ConfidenceHigh:
				high = append(high, m)
			case models.ConfidenceMedium:
				medium = append(medium, m)
			default:
				low = append(low, m)
			}
		}
	}

	out := make([]models.ObligationMatch, 0, len(high)+len(medium)+len(low))
	out = append(out, high...)
	out = append(out, medium...)
	out = append(out, low...)
	return out
}

// score evaluates the ordered rule list for one pair. First applicable rule
// wins; an empty confidence means no match is proposed.
func score(txn models.Transaction, ob models.Obligation, cfg Config) (models.Confidence, string) {
	desc := strings.ToLower(txn.Description)
	provider := strings.ToLower(strings.TrimSpace(ob.Provider))
	name := strings.ToLower(strings.TrimSpace(ob.Name))

	amountClose := withinTolerance(txn.Amount, ob.Amount, cfg.AmountTolerance)

	if provider != "" && strings.Contains(desc, provider) {
		if amountClose {
			return models.ConfidenceHigh, fmt.Sprintf("provider %q found in description with matching amount", ob.Provider)
		}
		return models.ConfidenceMedium, fmt.Sprintf("provider %q found in description", ob.Provider)
	}

	if len(name) > 3 && strings.Contains(desc, name) {
		if amountClose {
			return models.ConfidenceHigh, fmt.Sprintf("obligation name %q found in description with matching amount", ob.Name)
		}
		return models.ConfidenceMedium, fmt.Sprintf("obligation name %q found in description", ob.Name)
	}

	if txn.Amount.Sub(ob.Amount).Abs().LessThanOrEqual(cfg.ExactEpsilon) {
		return models.ConfidenceLow, fmt.Sprintf("amount %s matches expected amount exactly", txn.Amount.StringFixed(2))
	}

	return "", ""
}

// withinTolerance reports whether actual is within expected ± tolerance
// (a fraction of expected).
func withinTolerance(actual, expected, tolerance decimal.Decimal) bool {
	if expected.IsZero() {
		return actual.IsZero()
	}
	return actual.Sub(expected).Abs().LessThanOrEqual(expected.Mul(tolerance))
}
