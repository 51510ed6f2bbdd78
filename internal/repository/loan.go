package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/corebank/backoffice/internal/domain"
)

const loanColumns = `loan_id, customer_id, principal, tenure_years, interest_rate,
	emi, total_payable, due_amount, start_date, status`

func (s *Store) GetLoan(ctx context.Context, id string) (*domain.LoanAccount, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loan_accounts WHERE loan_id = $1`, id,
	)
	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetLoan: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetLoan: %w", err)
	}
	return loan, nil
}

func (s *Store) LoanTransactions(ctx context.Context, loanID string) ([]domain.LoanTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, loan_id, amount, transaction_type, transaction_date, penalty
		FROM loan_transactions WHERE loan_id = $1 ORDER BY transaction_date DESC`, loanID,
	)
	if err != nil {
		return nil, fmt.Errorf("LoanTransactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.LoanTransaction
	for rows.Next() {
		var t domain.LoanTransaction
		if err := rows.Scan(&t.ID, &t.LoanID, &t.Amount, &t.Type, &t.Date, &t.Penalty); err != nil {
			return nil, fmt.Errorf("LoanTransactions: scan: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LoanTransactions: rows: %w", err)
	}
	return txns, nil
}

func (t *Tx) LoanForUpdate(ctx context.Context, id string) (*domain.LoanAccount, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loan_accounts WHERE loan_id = $1 FOR UPDATE`, id,
	)
	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("LoanForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("LoanForUpdate: %w", err)
	}
	return loan, nil
}

func (t *Tx) CreateLoan(ctx context.Context, loan *domain.LoanAccount) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO loan_accounts (
			loan_id, customer_id, principal, tenure_years, interest_rate,
			emi, total_payable, due_amount, start_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		loan.ID, loan.CustomerID, loan.Principal, loan.TenureYears, loan.InterestRate,
		loan.EMI, loan.TotalPayable, loan.DueAmount, loan.StartDate, loan.Status,
	)
	if err != nil {
		return fmt.Errorf("CreateLoan: %w", err)
	}
	return nil
}

func (t *Tx) UpdateLoan(ctx context.Context, loan *domain.LoanAccount) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE loan_accounts
		SET emi = $1, total_payable = $2, due_amount = $3, status = $4
		WHERE loan_id = $5`,
		loan.EMI, loan.TotalPayable, loan.DueAmount, loan.Status, loan.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateLoan: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateLoan: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateLoan: loan %s: %w", loan.ID, domain.ErrNotFound)
	}
	return nil
}

func (t *Tx) AppendLoanTransaction(ctx context.Context, txn *domain.LoanTransaction) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO loan_transactions (id, loan_id, amount, transaction_type, transaction_date, penalty)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		txn.ID, txn.LoanID, txn.Amount, txn.Type, txn.Date, txn.Penalty,
	)
	if err != nil {
		return fmt.Errorf("AppendLoanTransaction: %w", err)
	}
	return nil
}

func (t *Tx) SumLoanPayments(ctx context.Context, loanID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM loan_transactions WHERE loan_id = $1`, loanID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("SumLoanPayments: %w", err)
	}
	return total, nil
}

func scanLoan(s scanner) (*domain.LoanAccount, error) {
	var l domain.LoanAccount
	err := s.Scan(
		&l.ID, &l.CustomerID, &l.Principal, &l.TenureYears, &l.InterestRate,
		&l.EMI, &l.TotalPayable, &l.DueAmount, &l.StartDate, &l.Status,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
