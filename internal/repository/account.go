package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corebank/backoffice/internal/domain"
)

func (s *Store) AccountExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("AccountExists: %w", err)
	}
	return exists, nil
}

func (t *Tx) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO accounts (account_id, customer_id, status, open_date, close_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.CustomerID, account.Status,
		account.OpenDate, account.CloseDate, account.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("CreateAccount: %w", err)
	}
	return nil
}

func (t *Tx) UpdateAccountStatus(ctx context.Context, id string, status domain.AccountStatus, closeDate *time.Time) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE accounts SET status = $1, close_date = $2 WHERE account_id = $3`,
		status, closeDate, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateAccountStatus: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateAccountStatus: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateAccountStatus: account %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT account_id, customer_id, status, open_date, close_date, created_by
		FROM accounts WHERE account_id = $1`, id,
	).Scan(&a.ID, &a.CustomerID, &a.Status, &a.OpenDate, &a.CloseDate, &a.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetAccount: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return &a, nil
}
