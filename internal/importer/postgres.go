package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible-server/internal/categorize"
	"github.com/centsible/centsible-server/internal/models"
)

// PostgresStore implements Store and SettingsStore on a pgx pool. Amounts
// travel as text on the wire and live as numeric in the schema, so decimals
// never pass through float64.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) FindExisting(ctx context.Context, owner string, date time.Time, amount decimal.Decimal, description string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM expenses
			WHERE owner_id = $1 AND tx_date = $2 AND amount = $3::numeric AND description = $4
		) OR EXISTS (
			SELECT 1 FROM incomes
			WHERE owner_id = $1 AND tx_date = $2 AND amount = $3::numeric AND description = $4
		)`,
		owner, date, amount.StringFixed(2), description,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("duplicate check: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) InsertExpense(ctx context.Context, owner string, txn models.Transaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO expenses (id, owner_id, tx_date, description, amount, category, reference)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)`,
		uuid.NewString(), owner, txn.Date, txn.Description,
		txn.Amount.StringFixed(2), string(txn.Category), txn.Reference,
	)
	return err
}

func (s *PostgresStore) InsertIncome(ctx context.Context, owner string, txn models.Transaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO incomes (id, owner_id, tx_date, description, amount, reference)
		VALUES ($1, $2, $3, $4, $5::numeric, $6)`,
		uuid.NewString(), owner, txn.Date, txn.Description,
		txn.Amount.StringFixed(2), txn.Reference,
	)
	return err
}

func (s *PostgresStore) InsertPayment(ctx context.Context, owner string, p models.Payment) error {
	// A unique index on (obligation_id, month) backs the
	// one-payment-per-month invariant at the persistence layer.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO obligation_payments
			(id, obligation_id, owner_id, month, paid_at, actual_amount, expected_amount, amount_delta, note)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, $9)`,
		uuid.NewString(), p.ObligationID, owner, p.Month, p.PaidAt,
		p.ActualAmount.StringFixed(2), p.ExpectedAmount.StringFixed(2),
		p.AmountDelta, p.Note,
	)
	return err
}

func (s *PostgresStore) ListActiveObligations(ctx context.Context, owner string) ([]models.Obligation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, provider, amount::text, due_day, active
		FROM obligations
		WHERE owner_id = $1 AND active`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("listing obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		var ob models.Obligation
		var amount string
		if err := rows.Scan(&ob.ID, &ob.Name, &ob.Provider, &amount, &ob.DueDay, &ob.Active); err != nil {
			return nil, err
		}
		if ob.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("obligation %s has bad amount %q", ob.ID, amount)
		}
		obligations = append(obligations, ob)
	}
	return obligations, rows.Err()
}

func (s *PostgresStore) ListPaymentsForMonths(ctx context.Context, owner string, months []string) ([]models.Payment, error) {
	if len(months) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, obligation_id, month, paid_at, actual_amount::text, expected_amount::text, amount_delta, note
		FROM obligation_payments
		WHERE owner_id = $1 AND month = ANY($2)`,
		owner, months,
	)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var actual, expected string
		if err := rows.Scan(&p.ID, &p.ObligationID, &p.Month, &p.PaidAt, &actual, &expected, &p.AmountDelta, &p.Note); err != nil {
			return nil, err
		}
		if p.ActualAmount, err = decimal.NewFromString(actual); err != nil {
			return nil, err
		}
		if p.ExpectedAmount, err = decimal.NewFromString(expected); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *PostgresStore) KeywordSettings(ctx context.Context, owner string) (*categorize.Settings, error) {
	var added, removed []byte
	err := s.pool.QueryRow(ctx, `
		SELECT added, removed FROM keyword_settings WHERE owner_id = $1`,
		owner,
	).Scan(&added, &removed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading keyword settings: %w", err)
	}

	var settings categorize.Settings
	if err := json.Unmarshal(added, &settings.Added); err != nil {
		return nil, fmt.Errorf("decoding added keywords: %w", err)
	}
	if err := json.Unmarshal(removed, &settings.Removed); err != nil {
		return nil, fmt.Errorf("decoding removed keywords: %w", err)
	}
	return &settings, nil
}
