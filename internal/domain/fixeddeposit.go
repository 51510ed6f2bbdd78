package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FDTransactionType string

const (
	FDTransactionClosure             FDTransactionType = "FD Closure"
	FDTransactionPrematureWithdrawal FDTransactionType = "Premature Withdrawal"
)

// FixedDeposit is the type-specific aggregate behind a fixed deposit. Maturity
// date and maturity amount are computed once at creation; only maturity amount,
// status and close date change on premature withdrawal.
type FixedDeposit struct {
	ID             string
	CustomerID     string
	OpenDate       time.Time
	TenureMonths   int
	Principal      decimal.Decimal
	Rate           decimal.Decimal
	MaturityAmount decimal.Decimal
	MaturityDate   time.Time
	Status         AccountStatus
	CloseDate      *time.Time
	CreatedBy      int
}

// FDTransaction is an append-only ledger row for fixed-deposit settlements.
type FDTransaction struct {
	ID     uuid.UUID
	FDID   string
	Amount decimal.Decimal
	Type   FDTransactionType
	Date   time.Time
	Remark string
}
