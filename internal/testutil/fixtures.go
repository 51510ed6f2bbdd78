package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/corebank/backoffice/internal/domain"
)

// InsertCustomer seeds a customer row; the directory component that normally
// owns customers is out of scope for this engine.
func InsertCustomer(t *testing.T, db *sql.DB, c domain.Customer) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO customers (customer_id, name, date_of_birth) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.DateOfBirth,
	)
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
}

// InsertLoan seeds a loan with its mirrored account row.
func InsertLoan(t *testing.T, db *sql.DB, loan domain.LoanAccount, createdBy int) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO accounts (account_id, customer_id, status, open_date, created_by)
		VALUES ($1, $2, $3, $4, $5)`,
		loan.ID, loan.CustomerID, loan.Status, loan.StartDate, createdBy,
	)
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}

	_, err = db.Exec(
		`INSERT INTO loan_accounts (
			loan_id, customer_id, principal, tenure_years, interest_rate,
			emi, total_payable, due_amount, start_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		loan.ID, loan.CustomerID, loan.Principal, loan.TenureYears, loan.InterestRate,
		loan.EMI, loan.TotalPayable, loan.DueAmount, loan.StartDate, loan.Status,
	)
	if err != nil {
		t.Fatalf("insert loan: %v", err)
	}
}

// InsertFixedDeposit seeds a fixed deposit with its mirrored account row.
func InsertFixedDeposit(t *testing.T, db *sql.DB, fd domain.FixedDeposit) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO accounts (account_id, customer_id, status, open_date, close_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		fd.ID, fd.CustomerID, fd.Status, fd.OpenDate, fd.CloseDate, fd.CreatedBy,
	)
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}

	_, err = db.Exec(
		`INSERT INTO fixed_deposits (
			fd_id, customer_id, open_date, tenure_months, principal,
			rate_of_return, maturity_amount, maturity_date, status, close_date, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		fd.ID, fd.CustomerID, fd.OpenDate, fd.TenureMonths, fd.Principal,
		fd.Rate, fd.MaturityAmount, fd.MaturityDate, fd.Status, fd.CloseDate, fd.CreatedBy,
	)
	if err != nil {
		t.Fatalf("insert fixed deposit: %v", err)
	}
}

// DOB returns a date of birth that makes a customer the given age today.
func DOB(age int) time.Time {
	return time.Now().UTC().AddDate(-age, 0, -1)
}
