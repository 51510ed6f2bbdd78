package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/backoffice/internal/amort"
	"github.com/corebank/backoffice/internal/domain"
	"github.com/corebank/backoffice/internal/logging"
	"github.com/corebank/backoffice/internal/rate"
)

var (
	minDeposit      = decimal.NewFromInt(10_000)
	withdrawPenalty = decimal.NewFromInt(2)
)

type FixedDepositService struct {
	store Store
	now   func() time.Time
}

func NewFixedDepositService(store Store) *FixedDepositService {
	return &FixedDepositService{store: store, now: time.Now}
}

// WithClock overrides the time source. Tests pin it to a fixed instant.
func (s *FixedDepositService) WithClock(now func() time.Time) *FixedDepositService {
	s.now = now
	return s
}

type CreateFDRequest struct {
	CustomerID   string
	Amount       decimal.Decimal
	OpenDate     time.Time
	TenureMonths int
	CreatedBy    string
}

// Create validates the request, computes the rate of return and maturity value
// once, and commits the deposit together with its mirrored account row.
func (s *FixedDepositService) Create(ctx context.Context, req CreateFDRequest) (*domain.FixedDeposit, error) {
	today := dateOnly(s.now())

	if req.Amount.LessThan(minDeposit) {
		return nil, fmt.Errorf("Create: %w", domain.ErrBelowMinimumDeposit)
	}
	if req.TenureMonths <= 6 {
		return nil, fmt.Errorf("Create: %w", domain.ErrTenureTooShort)
	}
	if req.OpenDate.IsZero() {
		return nil, fmt.Errorf("Create: %w", domain.ErrOpenDateMissing)
	}
	if dateOnly(req.OpenDate).After(today) {
		return nil, fmt.Errorf("Create: %w", domain.ErrOpenDateInFuture)
	}

	customer, err := s.store.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Create: %w", domain.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("Create: %w", err)
	}

	createdBy, err := strconv.Atoi(req.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("Create: %q: %w", req.CreatedBy, domain.ErrInvalidCreatorID)
	}

	roi := rate.FixedDeposit(req.TenureMonths, customer.AgeAt(today))
	maturityAmount := amort.FDMaturity(req.Amount, roi, req.TenureMonths).Round(2)

	id, err := allocateAccountID(ctx, s.store, fdIDPrefix)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	openDate := dateOnly(req.OpenDate)
	fd := &domain.FixedDeposit{
		ID:             id,
		CustomerID:     req.CustomerID,
		OpenDate:       openDate,
		TenureMonths:   req.TenureMonths,
		Principal:      req.Amount,
		Rate:           roi,
		MaturityAmount: maturityAmount,
		MaturityDate:   openDate.AddDate(0, req.TenureMonths, 0),
		Status:         domain.AccountStatusActive,
		CreatedBy:      createdBy,
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		// The mirrored account row owns the identifier; it goes in first.
		if err := tx.CreateAccount(ctx, &domain.Account{
			ID:         fd.ID,
			CustomerID: fd.CustomerID,
			Status:     domain.AccountStatusActive,
			OpenDate:   fd.OpenDate,
			CreatedBy:  createdBy,
		}); err != nil {
			return err
		}
		return tx.CreateFixedDeposit(ctx, fd)
	})
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	logging.FromContext(ctx).Info("fixed deposit created",
		"fd_id", fd.ID,
		"customer_id", fd.CustomerID,
		"principal", fd.Principal,
		"rate", fd.Rate,
		"maturity_amount", fd.MaturityAmount,
		"maturity_date", fd.MaturityDate,
	)
	return fd, nil
}

// CloseAtMaturity closes a matured deposit at its stored maturity amount.
func (s *FixedDepositService) CloseAtMaturity(ctx context.Context, fdID, closedBy string) error {
	today := dateOnly(s.now())

	err := s.store.InTx(ctx, func(tx Tx) error {
		fd, err := tx.FixedDepositForUpdate(ctx, fdID)
		if err != nil {
			return err
		}
		if fd.Status != domain.AccountStatusActive {
			return fmt.Errorf("fd %s: %w", fdID, domain.ErrAccountNotActive)
		}
		if today.Before(dateOnly(fd.MaturityDate)) {
			return fmt.Errorf("matures on %s: %w", fd.MaturityDate.Format("2006-01-02"), domain.ErrNotMatured)
		}

		fd.Status = domain.AccountStatusClosed
		fd.CloseDate = &today
		if err := tx.UpdateFixedDeposit(ctx, fd); err != nil {
			return err
		}
		if err := tx.UpdateAccountStatus(ctx, fdID, domain.AccountStatusClosed, &today); err != nil {
			return err
		}
		return tx.AppendFDTransaction(ctx, &domain.FDTransaction{
			ID:     uuid.New(),
			FDID:   fdID,
			Amount: fd.MaturityAmount,
			Type:   domain.FDTransactionClosure,
			Date:   today,
			Remark: fmt.Sprintf("FD closed by %s on maturity", closedBy),
		})
	})
	if err != nil {
		return fmt.Errorf("CloseAtMaturity: %w", err)
	}

	logging.FromContext(ctx).Info("fixed deposit closed at maturity", "fd_id", fdID)
	return nil
}

// PrematureWithdraw terminates a deposit before maturity, recomputing the
// payout at the penalized rate over the fractional tenure.
func (s *FixedDepositService) PrematureWithdraw(ctx context.Context, fdID, withdrawnBy string) error {
	today := dateOnly(s.now())

	err := s.store.InTx(ctx, func(tx Tx) error {
		fd, err := tx.FixedDepositForUpdate(ctx, fdID)
		if err != nil {
			return err
		}
		if fd.Status != domain.AccountStatusActive {
			return fmt.Errorf("fd %s: %w", fdID, domain.ErrAccountNotActive)
		}
		if !today.Before(dateOnly(fd.MaturityDate)) {
			return fmt.Errorf("fd %s: %w", fdID, domain.ErrAlreadyMatured)
		}

		penalizedRate := fd.Rate.Sub(withdrawPenalty)
		if penalizedRate.IsNegative() {
			penalizedRate = decimal.Zero
		}
		payout := amort.PrematureMaturity(fd.Principal, penalizedRate, fd.TenureMonths).Round(2)

		fd.Status = domain.AccountStatusPrematureWithdrawal
		fd.CloseDate = &today
		fd.MaturityAmount = payout
		if err := tx.UpdateFixedDeposit(ctx, fd); err != nil {
			return err
		}
		if err := tx.UpdateAccountStatus(ctx, fdID, domain.AccountStatusPrematureWithdrawal, &today); err != nil {
			return err
		}
		return tx.AppendFDTransaction(ctx, &domain.FDTransaction{
			ID:     uuid.New(),
			FDID:   fdID,
			Amount: payout,
			Type:   domain.FDTransactionPrematureWithdrawal,
			Date:   today,
			Remark: fmt.Sprintf("FD closed before maturity by %s", withdrawnBy),
		})
	})
	if err != nil {
		return fmt.Errorf("PrematureWithdraw: %w", err)
	}

	logging.FromContext(ctx).Info("fixed deposit withdrawn prematurely", "fd_id", fdID)
	return nil
}

func (s *FixedDepositService) GetFixedDeposit(ctx context.Context, fdID string) (*domain.FixedDeposit, error) {
	fd, err := s.store.GetFixedDeposit(ctx, fdID)
	if err != nil {
		return nil, fmt.Errorf("GetFixedDeposit: %w", err)
	}
	return fd, nil
}
