package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/backoffice/internal/domain"
	"github.com/corebank/backoffice/internal/logging"
	"github.com/corebank/backoffice/internal/service"
)

type loanService interface {
	Originate(req service.OriginationRequest) (*domain.LoanAccount, error)
	OpenAccount(ctx context.Context, loan *domain.LoanAccount, createdBy int) error
	PayEMI(ctx context.Context, loanID string, amount decimal.Decimal) error
	MakeEMIPayment(ctx context.Context, loanID string) (*domain.LoanAccount, error)
	PayPartEMI(ctx context.Context, loanID string, amount decimal.Decimal) (*service.PartPaymentResult, error)
	Foreclose(ctx context.Context, loanID string, amount decimal.Decimal) error
	Close(ctx context.Context, loanID string) error
	GetLoan(ctx context.Context, loanID string) (*domain.LoanAccount, error)
	LoanTransactions(ctx context.Context, loanID string) ([]domain.LoanTransaction, error)
}

type customerReader interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
}

type LoanHandler struct {
	loans     loanService
	customers customerReader
	now       func() time.Time
}

func NewLoanHandler(loans loanService, customers customerReader) *LoanHandler {
	return &LoanHandler{loans: loans, customers: customers, now: time.Now}
}

type openLoanRequest struct {
	CustomerID      string          `json:"customer_id"`
	Principal       decimal.Decimal `json:"principal"`
	TenureYears     int             `json:"tenure_years"`
	MonthlyTakeHome decimal.Decimal `json:"monthly_take_home"`
	CreatedBy       int             `json:"created_by"`
}

func (r openLoanRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required"})
	}
	if !r.Principal.IsPositive() {
		errs = append(errs, FieldError{Field: "principal", Message: "must be greater than zero"})
	}
	if r.TenureYears <= 0 {
		errs = append(errs, FieldError{Field: "tenure_years", Message: "must be greater than zero"})
	}
	if !r.MonthlyTakeHome.IsPositive() {
		errs = append(errs, FieldError{Field: "monthly_take_home", Message: "must be greater than zero"})
	}
	return errs
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type loanDTO struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	Principal    decimal.Decimal `json:"principal"`
	TenureYears  int             `json:"tenure_years"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	EMI          decimal.Decimal `json:"emi"`
	TotalPayable decimal.Decimal `json:"total_payable"`
	DueAmount    decimal.Decimal `json:"due_amount"`
	StartDate    time.Time       `json:"start_date"`
	Status       string          `json:"status"`
}

func toLoanDTO(l *domain.LoanAccount) loanDTO {
	return loanDTO{
		ID:           l.ID,
		CustomerID:   l.CustomerID,
		Principal:    l.Principal,
		TenureYears:  l.TenureYears,
		InterestRate: l.InterestRate,
		EMI:          l.EMI,
		TotalPayable: l.TotalPayable,
		DueAmount:    l.DueAmount,
		StartDate:    l.StartDate,
		Status:       string(l.Status),
	}
}

// Open originates a loan for a customer and commits it with its mirrored
// account row.
func (h *LoanHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	customer, err := h.customers.GetCustomer(r.Context(), req.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondAppError(w, ErrCustomerNotFound, nil)
			return
		}
		RespondDomainError(w, err)
		return
	}

	loan, err := h.loans.Originate(service.OriginationRequest{
		CustomerID:      req.CustomerID,
		Principal:       req.Principal,
		TenureYears:     req.TenureYears,
		CustomerAge:     customer.AgeAt(h.now()),
		MonthlyTakeHome: req.MonthlyTakeHome,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	if err := h.loans.OpenAccount(r.Context(), loan, req.CreatedBy); err != nil {
		logging.FromContext(r.Context()).Error("failed to open loan account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toLoanDTO(loan))
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loans.GetLoan(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toLoanDTO(loan))
}

func (h *LoanHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.loans.LoanTransactions(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, txns)
}

func (h *LoanHandler) PayEMI(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.loans.PayEMI(r.Context(), r.PathValue("id"), req.Amount); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}

func (h *LoanHandler) MakeEMIPayment(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loans.MakeEMIPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toLoanDTO(loan))
}

func (h *LoanHandler) PayPartEMI(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	result, err := h.loans.PayPartEMI(r.Context(), r.PathValue("id"), req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]decimal.Decimal{
		"remaining_due": result.RemainingDue,
		"paid_amount":   result.PaidAmount,
	})
}

func (h *LoanHandler) Foreclose(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.loans.Foreclose(r.Context(), r.PathValue("id"), req.Amount); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}

func (h *LoanHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.loans.Close(r.Context(), r.PathValue("id")); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}
