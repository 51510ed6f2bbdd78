package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/backoffice/internal/domain"
)

// Store is the persistence boundary for both lifecycle services. Reads outside
// a transaction are plain lookups; every mutating operation runs inside InTx,
// whose callback either commits all of its writes or none of them.
type Store interface {
	GetLoan(ctx context.Context, id string) (*domain.LoanAccount, error)
	GetFixedDeposit(ctx context.Context, id string) (*domain.FixedDeposit, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	LoanTransactions(ctx context.Context, loanID string) ([]domain.LoanTransaction, error)
	AccountExists(ctx context.Context, id string) (bool, error)

	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the unit of work handed to an InTx callback. For-update reads hold the
// row lock until commit, serializing concurrent operations against the same
// account identifier.
type Tx interface {
	LoanForUpdate(ctx context.Context, id string) (*domain.LoanAccount, error)
	CreateLoan(ctx context.Context, loan *domain.LoanAccount) error
	UpdateLoan(ctx context.Context, loan *domain.LoanAccount) error
	AppendLoanTransaction(ctx context.Context, txn *domain.LoanTransaction) error
	SumLoanPayments(ctx context.Context, loanID string) (decimal.Decimal, error)

	FixedDepositForUpdate(ctx context.Context, id string) (*domain.FixedDeposit, error)
	CreateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error
	UpdateFixedDeposit(ctx context.Context, fd *domain.FixedDeposit) error
	AppendFDTransaction(ctx context.Context, txn *domain.FDTransaction) error

	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccountStatus(ctx context.Context, id string, status domain.AccountStatus, closeDate *time.Time) error
}
