package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanTransactionType string

const (
	LoanTransactionEMI       LoanTransactionType = "EMI"
	LoanTransactionPartEMI   LoanTransactionType = "Part EMI"
	LoanTransactionForeclose LoanTransactionType = "Foreclose"
)

// LoanAccount is the type-specific aggregate behind a loan. Interest rate, EMI
// and total payable are fixed at origination and never recomputed, except for
// the one-time annuity computation when a loan reaches first servicing with no
// EMI set.
type LoanAccount struct {
	ID           string
	CustomerID   string
	Principal    decimal.Decimal
	TenureYears  int
	InterestRate decimal.Decimal
	EMI          decimal.Decimal
	TotalPayable decimal.Decimal
	DueAmount    decimal.Decimal
	StartDate    time.Time
	Status       AccountStatus
}

// LoanTransaction is an append-only ledger row; rows are never updated or
// deleted and reconstruct the total paid against a loan.
type LoanTransaction struct {
	ID      uuid.UUID
	LoanID  string
	Amount  decimal.Decimal
	Type    LoanTransactionType
	Date    time.Time
	Penalty decimal.Decimal
}
