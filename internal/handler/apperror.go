package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrCustomerNotFound = &AppError{http.StatusUnprocessableEntity, "CUSTOMER_NOT_FOUND", "Customer not found"}

	ErrBelowMinimumPrincipal = &AppError{http.StatusUnprocessableEntity, "BELOW_MINIMUM_LOAN", "Minimum loan amount is 10,000"}
	ErrSeniorLoanLimit       = &AppError{http.StatusUnprocessableEntity, "SENIOR_LOAN_LIMIT", "Senior citizens cannot take loans above 100,000"}
	ErrEMIUnaffordable       = &AppError{http.StatusUnprocessableEntity, "EMI_UNAFFORDABLE", "EMI exceeds 60% of monthly take-home"}

	ErrInvalidAmount          = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Payment amount must be greater than zero"}
	ErrExceedsDueAmount       = &AppError{http.StatusUnprocessableEntity, "EXCEEDS_DUE_AMOUNT", "Payment exceeds remaining due amount"}
	ErrBelowMinimumPayment    = &AppError{http.StatusUnprocessableEntity, "BELOW_MINIMUM_PAYMENT", "Part payment must be at least 500"}
	ErrDueBelowEMI            = &AppError{http.StatusUnprocessableEntity, "DUE_BELOW_EMI", "Remaining due is less than one EMI, contact a manager"}
	ErrMissingStartDate       = &AppError{http.StatusUnprocessableEntity, "MISSING_START_DATE", "Loan start date is missing"}
	ErrInsufficientSettlement = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_SETTLEMENT", "Payment amount is less than the updated due"}
	ErrOutstandingDue         = &AppError{http.StatusUnprocessableEntity, "OUTSTANDING_DUE", "Cannot close account with outstanding due"}
	ErrAccountNotActive       = &AppError{http.StatusConflict, "ACCOUNT_NOT_ACTIVE", "Account is not active"}

	ErrBelowMinimumDeposit = &AppError{http.StatusUnprocessableEntity, "BELOW_MINIMUM_DEPOSIT", "Minimum deposit is 10,000"}
	ErrTenureTooShort      = &AppError{http.StatusUnprocessableEntity, "TENURE_TOO_SHORT", "Tenure must be more than 6 months"}
	ErrOpenDateMissing     = &AppError{http.StatusBadRequest, "OPEN_DATE_MISSING", "Open date is required"}
	ErrOpenDateInFuture    = &AppError{http.StatusUnprocessableEntity, "OPEN_DATE_IN_FUTURE", "Open date cannot be in the future"}
	ErrInvalidCreatorID    = &AppError{http.StatusBadRequest, "INVALID_CREATOR_ID", "Creator id must be numeric"}
	ErrNotMatured          = &AppError{http.StatusConflict, "NOT_MATURED", "Fixed deposit has not matured yet"}
	ErrAlreadyMatured      = &AppError{http.StatusConflict, "ALREADY_MATURED", "Fixed deposit already matured, use maturity closure"}
)
