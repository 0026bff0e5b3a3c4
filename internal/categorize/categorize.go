// Package categorize assigns spending categories to transaction descriptions
// using keyword rules, with per-user additions and removals layered over a
// static default table.
package categorize

import (
	"strings"

	"github.com/centsible/centsible-server/internal/models"
)

// Settings is a per-user override of the default keyword table: keywords the
// user added per category, and default keywords the user removed. Owned by
// the external settings store; read-only here.
type Settings struct {
	Added   map[models.Category][]string `json:"added"`
	Removed map[models.Category][]string `json:"removed"`
}

// Table is an immutable keyword rule table. The effective keyword set per
// category is computed per call as (defaults − removed) ∪ added; nothing is
// cached across users, since settings can change between imports.
type Table struct {
	order    []models.Category
	keywords map[models.Category][]string
}

// DefaultTable returns a table backed by the built-in keyword rules.
func DefaultTable() *Table {
	kw := make(map[models.Category][]string, len(defaultKeywords))
	for c, words := range defaultKeywords {
		kw[c] = append([]string(nil), words...)
	}
	return &Table{order: categoryOrder, keywords: kw}
}

// Categorize returns exactly one category for a description, defaulting to
// OTHER when nothing matches. The first category in the fixed iteration
// order with any effective-keyword substring hit wins; there is no scoring.
func (t *Table) Categorize(description string, s *Settings) models.Category {
	desc := strings.ToLower(description)
	for _, cat := range t.order {
		for _, kw := range t.Effective(cat, s) {
			if kw != "" && strings.Contains(desc, kw) {
				return cat
			}
		}
	}
	return models.CategoryOther
}

// Effective computes the keyword set for one category under the given user
// settings: default keywords minus removals, plus additions.
func (t *Table) Effective(cat models.Category, s *Settings) []string {
	defaults := t.keywords[cat]
	if s == nil {
		return defaults
	}

	removed := make(map[string]bool)
	for _, kw := range s.Removed[cat] {
		removed[strings.ToLower(kw)] = true
	}

	effective := make([]string, 0, len(defaults)+len(s.Added[cat]))
	for _, kw := range defaults {
		if !removed[kw] {
			effective = append(effective, kw)
		}
	}
	for _, kw := range s.Added[cat] {
		effective = append(effective, strings.ToLower(kw))
	}
	return effective
}

// Apply stamps a category onto every transaction in place.
func (t *Table) Apply(txns []models.Transaction, s *Settings) {
	for i := range txns {
		txns[i].Category = t.Categorize(txns[i].Description, s)
	}
}

// transferKeywords detect movements between the user's own accounts. These
// are excluded from spending totals by default.
var transferKeywords = []string{
	"internal transfer", "own account", "transfer to savings",
	"transfer from savings", "inter-account", "ibank transfer",
}

// IsInternalTransfer reports whether a description looks like a transfer
// between the user's own accounts.
func IsInternalTransfer(description string) bool {
	desc := strings.ToLower(description)
	for _, kw := range transferKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return out
}
