package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Obligation is a recurring monthly financial commitment (rent, subscription,
// debt installment) with a nominal amount and due day.
type Obligation struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Provider string          `json:"provider"`
	Amount   decimal.Decimal `json:"amount"`
	DueDay   int             `json:"dueDay"`
	Active   bool            `json:"active"`
}

// Payment records that an obligation was paid for a specific month, possibly
// at an amount different from the nominal expected amount.
type Payment struct {
	ID             string          `json:"id"`
	ObligationID   string          `json:"obligationId"`
	Month          string          `json:"month"` // YYYY-MM
	PaidAt         time.Time       `json:"paidAt"`
	ActualAmount   decimal.Decimal `json:"actualAmount"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	AmountDelta    string          `json:"amountDelta,omitempty"` // "increase" or "decrease" when amounts differ
	Note           string          `json:"note,omitempty"`
}

// Confidence is the qualitative strength of an automated
// obligation-to-transaction match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ObligationMatch links one debit transaction to one recurring obligation.
// Within one proposed match set a given (obligation, calendar month) pair
// appears at most once.
type ObligationMatch struct {
	ObligationID   string          `json:"obligationId"`
	ObligationName string          `json:"obligationName"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	ActualAmount   decimal.Decimal `json:"actualAmount"`
	Transaction    Transaction     `json:"transaction"`
	Confidence     Confidence      `json:"confidence"`
	MatchReason    string          `json:"matchReason"`
}
