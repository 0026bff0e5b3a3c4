package importer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible-server/internal/categorize"
	"github.com/centsible/centsible-server/internal/models"
)

// Store is the persistence boundary. The coordinator is the only component
// that touches it. Duplicate detection is by natural key
// (owner, date, amount, description), not by coordination, so no cross-row
// locking is required.
type Store interface {
	// FindExisting reports whether a ledger row with the same natural key
	// already exists for the owner.
	FindExisting(ctx context.Context, owner string, date time.Time, amount decimal.Decimal, description string) (bool, error)
	InsertExpense(ctx context.Context, owner string, txn models.Transaction) error
	InsertIncome(ctx context.Context, owner string, txn models.Transaction) error
	// InsertPayment persists one obligation payment. It must reject a second
	// payment for the same (obligation, month) pair.
	InsertPayment(ctx context.Context, owner string, p models.Payment) error
	ListActiveObligations(ctx context.Context, owner string) ([]models.Obligation, error)
	ListPaymentsForMonths(ctx context.Context, owner string, months []string) ([]models.Payment, error)
}

// SettingsStore hands out per-user categorization overrides. Owned
// externally; read-only here.
type SettingsStore interface {
	// KeywordSettings returns nil settings (not an error) for users without
	// overrides.
	KeywordSettings(ctx context.Context, owner string) (*categorize.Settings, error)
}
