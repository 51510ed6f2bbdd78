package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrCustomerNotFound = errors.New("customer not found")

	// Origination rules.
	ErrBelowMinimumPrincipal = errors.New("minimum loan amount is 10000")
	ErrSeniorLoanLimit       = errors.New("senior citizens cannot take loans above 100000")
	ErrEMIUnaffordable       = errors.New("emi exceeds 60% of monthly take-home")

	// Servicing rules.
	ErrInvalidAmount          = errors.New("payment amount must be greater than zero")
	ErrExceedsDueAmount       = errors.New("payment exceeds remaining due amount")
	ErrBelowMinimumPayment    = errors.New("part payment must be at least 500")
	ErrDueBelowEMI            = errors.New("remaining due is less than one emi, contact a manager")
	ErrMissingStartDate       = errors.New("loan start date is missing")
	ErrInsufficientSettlement = errors.New("payment amount is less than the updated due")
	ErrOutstandingDue         = errors.New("cannot close account with outstanding due")
	ErrAccountNotActive       = errors.New("account is not active")

	// Fixed-deposit rules.
	ErrBelowMinimumDeposit = errors.New("minimum deposit is 10000")
	ErrTenureTooShort      = errors.New("tenure must be more than 6 months")
	ErrOpenDateMissing     = errors.New("open date is required")
	ErrOpenDateInFuture    = errors.New("open date cannot be in the future")
	ErrInvalidCreatorID    = errors.New("invalid creator id")
	ErrNotMatured          = errors.New("fixed deposit has not matured yet")
	ErrAlreadyMatured      = errors.New("fixed deposit already matured, use maturity closure")

	// Infrastructure.
	ErrIDSpaceExhausted = errors.New("could not allocate a unique account id")
)
