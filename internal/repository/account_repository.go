package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialmedia/api/shared/models"
)

// AccountRepository reads and writes the account table.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account and fills in its generated ID.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO account (username, password) VALUES ($1, $2) RETURNING account_id`

	err := r.db.QueryRowContext(ctx, query, account.Username, account.Password).Scan(&account.AccountID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByCredentials matches username and password exactly.
func (r *AccountRepository) GetByCredentials(ctx context.Context, username, password string) (*models.Account, error) {
	query := `
		SELECT account_id, username, password
		FROM account
		WHERE username = $1 AND password = $2
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, username, password).Scan(
		&account.AccountID, &account.Username, &account.Password,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUnknownAccount
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
