package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/backoffice/internal/domain"
	"github.com/corebank/backoffice/internal/logging"
	"github.com/corebank/backoffice/internal/service"
)

type fixedDepositService interface {
	Create(ctx context.Context, req service.CreateFDRequest) (*domain.FixedDeposit, error)
	CloseAtMaturity(ctx context.Context, fdID, closedBy string) error
	PrematureWithdraw(ctx context.Context, fdID, withdrawnBy string) error
	GetFixedDeposit(ctx context.Context, fdID string) (*domain.FixedDeposit, error)
}

type FixedDepositHandler struct {
	deposits fixedDepositService
}

func NewFixedDepositHandler(deposits fixedDepositService) *FixedDepositHandler {
	return &FixedDepositHandler{deposits: deposits}
}

type createFDRequest struct {
	CustomerID   string          `json:"customer_id"`
	Amount       decimal.Decimal `json:"amount"`
	OpenDate     string          `json:"open_date"`
	TenureMonths int             `json:"tenure_months"`
	CreatedBy    string          `json:"created_by"`
}

func (r createFDRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required"})
	}
	if r.OpenDate == "" {
		errs = append(errs, FieldError{Field: "open_date", Message: "required"})
	} else if _, err := time.Parse("2006-01-02", r.OpenDate); err != nil {
		errs = append(errs, FieldError{Field: "open_date", Message: "must be YYYY-MM-DD"})
	}
	if r.CreatedBy == "" {
		errs = append(errs, FieldError{Field: "created_by", Message: "required"})
	}
	return errs
}

type actorRequest struct {
	ActorID string `json:"actor_id"`
}

type fixedDepositDTO struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	OpenDate       time.Time       `json:"open_date"`
	TenureMonths   int             `json:"tenure_months"`
	Principal      decimal.Decimal `json:"principal"`
	Rate           decimal.Decimal `json:"rate_of_return"`
	MaturityAmount decimal.Decimal `json:"maturity_amount"`
	MaturityDate   time.Time       `json:"maturity_date"`
	Status         string          `json:"status"`
	CloseDate      *time.Time      `json:"close_date,omitempty"`
}

func toFixedDepositDTO(fd *domain.FixedDeposit) fixedDepositDTO {
	return fixedDepositDTO{
		ID:             fd.ID,
		CustomerID:     fd.CustomerID,
		OpenDate:       fd.OpenDate,
		TenureMonths:   fd.TenureMonths,
		Principal:      fd.Principal,
		Rate:           fd.Rate,
		MaturityAmount: fd.MaturityAmount,
		MaturityDate:   fd.MaturityDate,
		Status:         string(fd.Status),
		CloseDate:      fd.CloseDate,
	}
}

func (h *FixedDepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	openDate, _ := time.Parse("2006-01-02", req.OpenDate)
	fd, err := h.deposits.Create(r.Context(), service.CreateFDRequest{
		CustomerID:   req.CustomerID,
		Amount:       req.Amount,
		OpenDate:     openDate,
		TenureMonths: req.TenureMonths,
		CreatedBy:    req.CreatedBy,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create fixed deposit", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toFixedDepositDTO(fd))
}

func (h *FixedDepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	fd, err := h.deposits.GetFixedDeposit(r.Context(), r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toFixedDepositDTO(fd))
}

func (h *FixedDepositHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req actorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.deposits.CloseAtMaturity(r.Context(), r.PathValue("id"), req.ActorID); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}

func (h *FixedDepositHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req actorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.deposits.PrematureWithdraw(r.Context(), r.PathValue("id"), req.ActorID); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}
