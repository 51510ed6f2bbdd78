package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corebank/backoffice/internal/domain"
)

const fdColumns = `fd_id, customer_id, open_date, tenure_months, principal,
	rate_of_return, maturity_amount, maturity_date, status, close_date, created_by`

func (s *Store) GetFixedDeposit(ctx context.Context, id string) (*domain.FixedDeposit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fdColumns+` FROM fixed_deposits WHERE fd_id = $1`, id,
	)
	fd, err := scanFixedDeposit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetFixedDeposit: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetFixedDeposit: %w", err)
	}
	return fd, nil
}

func (t *Tx) FixedDepositForUpdate(ctx context.Context, id string) (*domain.FixedDeposit, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+fdColumns+` FROM fixed_deposits WHERE fd_id = $1 FOR UPDATE`, id,
	)
	fd, err := scanFixedDeposit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FixedDepositForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("FixedDepositForUpdate: %w", err)
	}
	return fd, nil
}

func (t *Tx) CreateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO fixed_deposits (
			fd_id, customer_id, open_date, tenure_months, principal,
			rate_of_return, maturity_amount, maturity_date, status, close_date, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		fd.ID, fd.CustomerID, fd.OpenDate, fd.TenureMonths, fd.Principal,
		fd.Rate, fd.MaturityAmount, fd.MaturityDate, fd.Status, fd.CloseDate, fd.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("CreateFixedDeposit: %w", err)
	}
	return nil
}

func (t *Tx) UpdateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE fixed_deposits
		SET maturity_amount = $1, status = $2, close_date = $3
		WHERE fd_id = $4`,
		fd.MaturityAmount, fd.Status, fd.CloseDate, fd.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateFixedDeposit: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateFixedDeposit: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateFixedDeposit: fd %s: %w", fd.ID, domain.ErrNotFound)
	}
	return nil
}

func (t *Tx) AppendFDTransaction(ctx context.Context, txn *domain.FDTransaction) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO fd_transactions (id, fd_id, amount, transaction_type, transaction_date, remark)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		txn.ID, txn.FDID, txn.Amount, txn.Type, txn.Date, txn.Remark,
	)
	if err != nil {
		return fmt.Errorf("AppendFDTransaction: %w", err)
	}
	return nil
}

func scanFixedDeposit(s scanner) (*domain.FixedDeposit, error) {
	var fd domain.FixedDeposit
	err := s.Scan(
		&fd.ID, &fd.CustomerID, &fd.OpenDate, &fd.TenureMonths, &fd.Principal,
		&fd.Rate, &fd.MaturityAmount, &fd.MaturityDate, &fd.Status, &fd.CloseDate, &fd.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &fd, nil
}
