package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corebank/backoffice/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError maps business-rule rejections onto their HTTP shape.
// Anything unmapped is a store or infrastructure failure and becomes a 500.
func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrCustomerNotFound):
		appErr = ErrCustomerNotFound
	case errors.Is(err, domain.ErrBelowMinimumPrincipal):
		appErr = ErrBelowMinimumPrincipal
	case errors.Is(err, domain.ErrSeniorLoanLimit):
		appErr = ErrSeniorLoanLimit
	case errors.Is(err, domain.ErrEMIUnaffordable):
		appErr = ErrEMIUnaffordable
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrExceedsDueAmount):
		appErr = ErrExceedsDueAmount
	case errors.Is(err, domain.ErrBelowMinimumPayment):
		appErr = ErrBelowMinimumPayment
	case errors.Is(err, domain.ErrDueBelowEMI):
		appErr = ErrDueBelowEMI
	case errors.Is(err, domain.ErrMissingStartDate):
		appErr = ErrMissingStartDate
	case errors.Is(err, domain.ErrInsufficientSettlement):
		appErr = ErrInsufficientSettlement
	case errors.Is(err, domain.ErrOutstandingDue):
		appErr = ErrOutstandingDue
	case errors.Is(err, domain.ErrAccountNotActive):
		appErr = ErrAccountNotActive
	case errors.Is(err, domain.ErrBelowMinimumDeposit):
		appErr = ErrBelowMinimumDeposit
	case errors.Is(err, domain.ErrTenureTooShort):
		appErr = ErrTenureTooShort
	case errors.Is(err, domain.ErrOpenDateMissing):
		appErr = ErrOpenDateMissing
	case errors.Is(err, domain.ErrOpenDateInFuture):
		appErr = ErrOpenDateInFuture
	case errors.Is(err, domain.ErrInvalidCreatorID):
		appErr = ErrInvalidCreatorID
	case errors.Is(err, domain.ErrNotMatured):
		appErr = ErrNotMatured
	case errors.Is(err, domain.ErrAlreadyMatured):
		appErr = ErrAlreadyMatured
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, errDetail(err, appErr))
}

// errDetail surfaces the figure-carrying message for rejections whose exact
// amount matters to the caller, e.g. the updated due on a foreclosure attempt.
func errDetail(err error, appErr *AppError) any {
	switch appErr {
	case ErrInsufficientSettlement, ErrExceedsDueAmount, ErrOutstandingDue, ErrDueBelowEMI:
		return err.Error()
	default:
		return nil
	}
}
