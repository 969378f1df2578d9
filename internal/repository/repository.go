package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dripsave/savings-service/internal/models"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, username, password_hash, savings_cents, active,
	scheduled_deposit_cents, scheduled_frequency, linked_bank_token,
	created_at, updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	acct := &models.Account{}
	err := row.Scan(
		&acct.ID, &acct.Username, &acct.PasswordHash, &acct.SavingsCents,
		&acct.Active, &acct.ScheduledDepositCents, &acct.ScheduledFrequency,
		&acct.LinkedBankToken, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, acct *models.Account) error {
	query := `
		INSERT INTO savings.accounts (username, password_hash, created_at, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, acct.Username, acct.PasswordHash).
		Scan(&acct.ID, &acct.CreatedAt, &acct.UpdatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return models.ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindAccount retrieves an account by username
func (r *Repository) FindAccount(ctx context.Context, username string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM savings.accounts WHERE username = $1`, accountColumns)
	acct, err := scanAccount(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return acct, nil
}

// UpdateAccount applies mutate to the account inside a transaction holding a
// row lock, so the read-modify-write is atomic with respect to concurrent
// operations on the same account. If mutate returns an error the transaction
// is rolled back and the account is left unchanged.
func (r *Repository) UpdateAccount(ctx context.Context, username string, mutate func(*models.Account) error) (*models.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`SELECT %s FROM savings.accounts WHERE username = $1 FOR UPDATE`, accountColumns)
	acct, err := scanAccount(tx.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	if err := mutate(acct); err != nil {
		return nil, err
	}

	update := `
		UPDATE savings.accounts
		SET savings_cents = $1, active = $2, scheduled_deposit_cents = $3,
			scheduled_frequency = $4, linked_bank_token = $5, updated_at = CURRENT_TIMESTAMP
		WHERE username = $6
		RETURNING updated_at`
	err = tx.QueryRowContext(ctx, update,
		acct.SavingsCents, acct.Active, acct.ScheduledDepositCents,
		acct.ScheduledFrequency, acct.LinkedBankToken, username,
	).Scan(&acct.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return acct, nil
}
