// Package importer orchestrates the statement ingestion pipeline:
// decode → normalize → categorize → match → dedupe-and-persist. It is the
// only package that touches the persistence boundary.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/centsible/centsible-server/internal/categorize"
	"github.com/centsible/centsible-server/internal/extract"
	"github.com/centsible/centsible-server/internal/match"
	"github.com/centsible/centsible-server/internal/models"
	"github.com/centsible/centsible-server/internal/parser"
)

const (
	// provenanceNote tags payments created from statement matching.
	provenanceNote = "auto-matched from bank statement import"

	// maxErrors bounds the error list handed back to the UI.
	maxErrors = 10
	// maxErrorLen bounds each individual message.
	maxErrorLen = 120
)

// ErrNoStore is returned when a persistence operation is requested but the
// server is running without a database (parse-only mode).
var ErrNoStore = errors.New("persistence is not configured")

// ErrNoOracle is returned for PDF/image uploads when no extraction service
// is configured.
var ErrNoOracle = errors.New("document extraction is not configured")

// Coordinator runs import sessions. Each session's working set is local to
// the call; the coordinator itself holds only immutable collaborators and is
// safe for concurrent use.
type Coordinator struct {
	store    Store
	settings SettingsStore
	oracle   extract.Oracle
	table    *categorize.Table
	matchCfg match.Config
	log      *logrus.Logger
}

// New builds a coordinator. store, settings, and oracle may each be nil;
// the corresponding operations then degrade (no matching, parse-only mode,
// CSV-only uploads).
func New(store Store, settings SettingsStore, oracle extract.Oracle, table *categorize.Table, log *logrus.Logger) *Coordinator {
	if table == nil {
		table = categorize.DefaultTable()
	}
	if log == nil {
		log = logrus.New()
	}
	return &Coordinator{
		store:    store,
		settings: settings,
		oracle:   oracle,
		table:    table,
		matchCfg: match.DefaultConfig(),
		log:      log,
	}
}

// Preview is the candidate set surfaced to the user for selection and
// editing before anything is persisted.
type Preview struct {
	Bank         models.BankType          `json:"bank,omitempty"`
	Transactions []models.Transaction     `json:"transactions"`
	Summary      models.Summary           `json:"summary"`
	Matches      []models.ObligationMatch `json:"matches,omitempty"`
	Errors       []string                 `json:"errors,omitempty"`
}

// Preview runs the parse/extract half of the pipeline on an uploaded file.
// CSV is parsed locally; PDF and image uploads are delegated to the
// extraction oracle. An oracle transport failure is returned to the caller
// (the user can re-trigger the upload); a malformed oracle response degrades
// to fewer or zero candidates instead.
func (c *Coordinator) Preview(ctx context.Context, owner string, data []byte, mediaType string) (*Preview, error) {
	settings := c.keywordSettings(ctx, owner)
	pv := &Preview{}

	switch {
	case isCSV(mediaType):
		result, err := parser.ParseStatement(string(data))
		if err != nil {
			return nil, err
		}
		c.table.Apply(result.Transactions, settings)
		pv.Bank = result.Bank
		pv.Transactions = result.Transactions
		pv.Errors = result.Errors

	case mediaType == "application/pdf" || strings.HasPrefix(mediaType, "image/"):
		if c.oracle == nil {
			return nil, ErrNoOracle
		}
		raw, err := c.oracle.Extract(ctx, data, mediaType)
		if err != nil {
			return nil, fmt.Errorf("document extraction: %w", err)
		}
		pv.Transactions = extract.ParseCandidates(raw, c.table, settings)

	default:
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}

	pv.Summary = categorize.Summarize(pv.Transactions)
	pv.Matches = c.proposeMatches(ctx, owner, pv.Transactions)

	c.log.WithFields(logrus.Fields{
		"owner":     owner,
		"mediaType": mediaType,
		"bank":      pv.Bank,
		"txns":      len(pv.Transactions),
		"matches":   len(pv.Matches),
		"rowErrors": len(pv.Errors),
	}).Info("statement preview built")

	return pv, nil
}

// ImportTransactions persists a user-confirmed transaction subset. The loop
// is a fold over rows: duplicates count as skipped, per-row failures go into
// the bounded error list, and the batch always runs to the end. Partial
// success is the expected outcome under failure; nothing is rolled back.
func (c *Coordinator) ImportTransactions(ctx context.Context, owner string, txns []models.Transaction) models.ImportResult {
	result := models.ImportResult{Total: len(txns), Errors: []string{}}
	if c.store == nil {
		result.Errors = append(result.Errors, ErrNoStore.Error())
		return result
	}

	for _, txn := range txns {
		// Guard against corrupted or stale client-side values.
		txn.Category = models.ParseCategory(string(txn.Category))
		txn.Amount = txn.Amount.Abs()

		exists, err := c.store.FindExisting(ctx, owner, txn.Date, txn.Amount, txn.Description)
		if err != nil {
			appendError(&result.Errors, friendlyError(err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		if txn.Type == models.TypeDebit {
			err = c.store.InsertExpense(ctx, owner, txn)
		} else {
			err = c.store.InsertIncome(ctx, owner, txn)
		}
		if err != nil {
			appendError(&result.Errors, friendlyError(err))
			continue
		}
		result.Imported++
	}

	c.log.WithFields(logrus.Fields{
		"owner":    owner,
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   len(result.Errors),
	}).Info("transaction import finished")

	return result
}

// MarkObligations persists accepted obligation matches as payment records.
// The (obligation, month) uniqueness invariant is re-checked here: a second
// accepted match for the same pair is rejected at persistence time.
func (c *Coordinator) MarkObligations(ctx context.Context, owner string, matches []models.ObligationMatch) (int, []string) {
	errs := []string{}
	if c.store == nil {
		return 0, append(errs, ErrNoStore.Error())
	}

	paid := c.paidMonths(ctx, owner, monthsOf(matches))
	marked := 0

	for _, m := range matches {
		month := m.Transaction.MonthKey()
		key := match.MonthKey(m.ObligationID, month)
		if paid[key] {
			appendError(&errs, fmt.Sprintf("%s is already paid for %s", m.ObligationName, month))
			continue
		}

		p := models.Payment{
			ObligationID:   m.ObligationID,
			Month:          month,
			PaidAt:         m.Transaction.Date,
			ActualAmount:   m.ActualAmount,
			ExpectedAmount: m.ExpectedAmount,
			Note:           provenanceNote,
		}
		if diff := m.ActualAmount.Sub(m.ExpectedAmount); diff.Abs().GreaterThan(c.matchCfg.ExactEpsilon) {
			if diff.IsPositive() {
				p.AmountDelta = "increase"
			} else {
				p.AmountDelta = "decrease"
			}
		}

		if err := c.store.InsertPayment(ctx, owner, p); err != nil {
			appendError(&errs, friendlyError(err))
			continue
		}
		paid[key] = true
		marked++
	}
	return marked, errs
}

// ImportSelection persists both halves of a confirmed selection and merges
// the outcome into one result summary.
func (c *Coordinator) ImportSelection(ctx context.Context, owner string, txns []models.Transaction, matches []models.ObligationMatch) models.ImportResult {
	result := c.ImportTransactions(ctx, owner, txns)
	marked, errs := c.MarkObligations(ctx, owner, matches)
	result.ObligationsMarked = marked
	for _, e := range errs {
		appendError(&result.Errors, e)
	}
	return result
}

// proposeMatches scores debit candidates against active obligations,
// excluding months that already carry a payment. Any lookup failure degrades
// to "no matches proposed" — matching is assistive, never load-bearing.
func (c *Coordinator) proposeMatches(ctx context.Context, owner string, txns []models.Transaction) []models.ObligationMatch {
	if c.store == nil || len(txns) == 0 {
		return nil
	}
	obligations, err := c.store.ListActiveObligations(ctx, owner)
	if err != nil {
		c.log.WithError(err).Warn("could not list obligations; skipping matching")
		return nil
	}
	if len(obligations) == 0 {
		return nil
	}

	var months []string
	seen := make(map[string]bool)
	for _, txn := range txns {
		if txn.Type == models.TypeDebit && !seen[txn.MonthKey()] {
			seen[txn.MonthKey()] = true
			months = append(months, txn.MonthKey())
		}
	}

	return match.FindMatches(txns, obligations, c.paidMonths(ctx, owner, months), c.matchCfg)
}

// paidMonths builds the MonthKey set of already-persisted payments.
func (c *Coordinator) paidMonths(ctx context.Context, owner string, months []string) map[string]bool {
	paid := make(map[string]bool)
	payments, err := c.store.ListPaymentsForMonths(ctx, owner, months)
	if err != nil {
		c.log.WithError(err).Warn("could not list payments; treating months as unpaid")
		return paid
	}
	for _, p := range payments {
		paid[match.MonthKey(p.ObligationID, p.Month)] = true
	}
	return paid
}

func (c *Coordinator) keywordSettings(ctx context.Context, owner string) *categorize.Settings {
	if c.settings == nil {
		return nil
	}
	settings, err := c.settings.KeywordSettings(ctx, owner)
	if err != nil {
		c.log.WithError(err).Warn("could not load keyword settings; using defaults")
		return nil
	}
	return settings
}

func monthsOf(matches []models.ObligationMatch) []string {
	seen := make(map[string]bool)
	var months []string
	for _, m := range matches {
		month := m.Transaction.MonthKey()
		if !seen[month] {
			seen[month] = true
			months = append(months, month)
		}
	}
	return months
}

func isCSV(mediaType string) bool {
	return strings.HasPrefix(mediaType, "text/csv") || strings.HasPrefix(mediaType, "text/plain") ||
		mediaType == "application/vnd.ms-excel" // some browsers tag .csv uploads this way
}

// friendlyError maps known persistence failures onto short user-facing
// messages and truncates everything else.
func friendlyError(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "duplicate"):
		return "Duplicate entry was not imported again"
	case strings.Contains(lower, "invalid category"):
		return "Transaction had an invalid category"
	}
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen] + "…"
	}
	return msg
}

func appendError(errs *[]string, msg string) {
	if len(*errs) >= maxErrors {
		return
	}
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen] + "…"
	}
	*errs = append(*errs, msg)
}
