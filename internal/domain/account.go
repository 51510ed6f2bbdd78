package domain

import "time"

type AccountStatus string

const (
	AccountStatusActive              AccountStatus = "Active"
	AccountStatusInactive            AccountStatus = "Inactive"
	AccountStatusClosed              AccountStatus = "Closed"
	AccountStatusPrematureWithdrawal AccountStatus = "Premature Withdrawal"
)

// Account is the generic ledger-account row. Every loan and fixed deposit owns
// exactly one, keyed by the same identifier, and its status must equal the
// owning aggregate's status after every committed operation.
type Account struct {
	ID         string
	CustomerID string
	Status     AccountStatus
	OpenDate   time.Time
	CloseDate  *time.Time
	CreatedBy  int
}
