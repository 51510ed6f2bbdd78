package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/backoffice/internal/amort"
	"github.com/corebank/backoffice/internal/domain"
	"github.com/corebank/backoffice/internal/logging"
	"github.com/corebank/backoffice/internal/rate"
)

var (
	minLoanPrincipal   = decimal.NewFromInt(10_000)
	seniorLoanCeiling  = decimal.NewFromInt(100_000)
	affordabilityShare = decimal.NewFromFloat(0.6)
	minPartPayment     = decimal.NewFromInt(500)
	daysInYear         = decimal.NewFromInt(365)
	hundred            = decimal.NewFromInt(100)
)

type LoanService struct {
	store Store
	now   func() time.Time
}

func NewLoanService(store Store) *LoanService {
	return &LoanService{store: store, now: time.Now}
}

// WithClock overrides the time source. Tests pin it to a fixed instant.
func (s *LoanService) WithClock(now func() time.Time) *LoanService {
	s.now = now
	return s
}

type OriginationRequest struct {
	CustomerID      string
	Principal       decimal.Decimal
	TenureYears     int
	CustomerAge     int
	MonthlyTakeHome decimal.Decimal
}

// Originate validates eligibility and affordability and returns a fully
// populated loan aggregate. Nothing is persisted; OpenAccount commits the
// result together with its mirrored account row.
func (s *LoanService) Originate(req OriginationRequest) (*domain.LoanAccount, error) {
	if req.Principal.LessThan(minLoanPrincipal) {
		return nil, fmt.Errorf("Originate: %w", domain.ErrBelowMinimumPrincipal)
	}
	if req.CustomerAge >= 60 && req.Principal.GreaterThan(seniorLoanCeiling) {
		return nil, fmt.Errorf("Originate: %w", domain.ErrSeniorLoanLimit)
	}

	interest := rate.Loan(req.Principal, req.TenureYears, req.CustomerAge)
	totalPayable, emi := amort.FlatSchedule(req.Principal, req.TenureYears, interest)

	if emi.GreaterThan(req.MonthlyTakeHome.Mul(affordabilityShare)) {
		return nil, fmt.Errorf("Originate: emi %s: %w", emi.StringFixed(2), domain.ErrEMIUnaffordable)
	}

	total := totalPayable.Round(2)
	return &domain.LoanAccount{
		CustomerID:   req.CustomerID,
		Principal:    req.Principal,
		TenureYears:  req.TenureYears,
		InterestRate: interest,
		EMI:          emi.Round(2),
		TotalPayable: total,
		DueAmount:    total,
		StartDate:    s.now().UTC(),
		Status:       domain.AccountStatusActive,
	}, nil
}

// OpenAccount allocates a loan identifier and commits the loan together with
// its mirrored account row.
func (s *LoanService) OpenAccount(ctx context.Context, loan *domain.LoanAccount, createdBy int) error {
	log := logging.FromContext(ctx)

	id, err := allocateAccountID(ctx, s.store, loanIDPrefix)
	if err != nil {
		return fmt.Errorf("OpenAccount: %w", err)
	}
	loan.ID = id

	err = s.store.InTx(ctx, func(tx Tx) error {
		// The mirrored account row owns the identifier; it goes in first.
		if err := tx.CreateAccount(ctx, &domain.Account{
			ID:         loan.ID,
			CustomerID: loan.CustomerID,
			Status:     domain.AccountStatusActive,
			OpenDate:   loan.StartDate,
			CreatedBy:  createdBy,
		}); err != nil {
			return err
		}
		return tx.CreateLoan(ctx, loan)
	})
	if err != nil {
		return fmt.Errorf("OpenAccount: %w", err)
	}

	log.Info("loan account opened",
		"loan_id", loan.ID,
		"customer_id", loan.CustomerID,
		"principal", loan.Principal,
		"interest_rate", loan.InterestRate,
		"emi", loan.EMI,
	)
	return nil
}

// PayEMI applies an explicit payment amount against the loan's due amount and
// moves the loan to Inactive once the due reaches zero.
func (s *LoanService) PayEMI(ctx context.Context, loanID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("PayEMI: %w", domain.ErrInvalidAmount)
	}

	now := s.now().UTC()
	err := s.store.InTx(ctx, func(tx Tx) error {
		loan, err := tx.LoanForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(loan.DueAmount) {
			return fmt.Errorf("remaining due is %s: %w", loan.DueAmount.StringFixed(2), domain.ErrExceedsDueAmount)
		}

		loan.DueAmount = loan.DueAmount.Sub(amount)
		if loan.DueAmount.IsNegative() {
			loan.DueAmount = decimal.Zero
		}
		if loan.DueAmount.IsZero() {
			loan.Status = domain.AccountStatusInactive
			if err := tx.UpdateAccountStatus(ctx, loanID, domain.AccountStatusInactive, nil); err != nil {
				return err
			}
		}
		if err := tx.UpdateLoan(ctx, loan); err != nil {
			return err
		}
		return tx.AppendLoanTransaction(ctx, &domain.LoanTransaction{
			ID:      uuid.New(),
			LoanID:  loanID,
			Amount:  amount,
			Type:    domain.LoanTransactionEMI,
			Date:    now,
			Penalty: decimal.Zero,
		})
	})
	if err != nil {
		return fmt.Errorf("PayEMI: %w", err)
	}

	logging.FromContext(ctx).Info("emi paid", "loan_id", loanID, "amount", amount)
	return nil
}

// MakeEMIPayment deducts one scheduled installment. A loan that reaches first
// servicing with no EMI set gets its installment computed here from the
// reducing-balance annuity formula; this is the only point after origination
// where EMI, total payable and due amount may be recomputed.
func (s *LoanService) MakeEMIPayment(ctx context.Context, loanID string) (*domain.LoanAccount, error) {
	now := s.now().UTC()

	var result *domain.LoanAccount
	err := s.store.InTx(ctx, func(tx Tx) error {
		loan, err := tx.LoanForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.AccountStatusActive {
			return fmt.Errorf("loan %s: %w", loanID, domain.ErrAccountNotActive)
		}

		if !loan.EMI.IsPositive() {
			months := loan.TenureYears * 12
			emi := amort.AnnuityEMI(loan.Principal, loan.InterestRate, months)
			loan.EMI = emi.Round(2)
			loan.TotalPayable = loan.EMI.Mul(decimal.NewFromInt(int64(months))).Round(2)
			loan.DueAmount = loan.TotalPayable
		}

		if loan.DueAmount.LessThan(loan.EMI) {
			return fmt.Errorf("remaining due %s is less than emi %s: %w",
				loan.DueAmount.StringFixed(2), loan.EMI.StringFixed(2), domain.ErrDueBelowEMI)
		}

		loan.DueAmount = loan.DueAmount.Sub(loan.EMI).Round(2)
		if loan.DueAmount.LessThanOrEqual(decimal.Zero) {
			loan.DueAmount = decimal.Zero
			loan.Status = domain.AccountStatusInactive
			if err := tx.UpdateAccountStatus(ctx, loanID, domain.AccountStatusInactive, nil); err != nil {
				return err
			}
		}
		if err := tx.UpdateLoan(ctx, loan); err != nil {
			return err
		}
		if err := tx.AppendLoanTransaction(ctx, &domain.LoanTransaction{
			ID:      uuid.New(),
			LoanID:  loanID,
			Amount:  loan.EMI,
			Type:    domain.LoanTransactionEMI,
			Date:    now,
			Penalty: decimal.Zero,
		}); err != nil {
			return err
		}
		result = loan
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("MakeEMIPayment: %w", err)
	}

	logging.FromContext(ctx).Info("scheduled emi deducted",
		"loan_id", loanID,
		"emi", result.EMI,
		"remaining_due", result.DueAmount,
	)
	return result, nil
}

type PartPaymentResult struct {
	RemainingDue decimal.Decimal
	PaidAmount   decimal.Decimal
}

// PayPartEMI applies an ad-hoc partial payment of at least the minimum amount.
// Driving the due to zero closes the loan rather than marking it Inactive.
func (s *LoanService) PayPartEMI(ctx context.Context, loanID string, amount decimal.Decimal) (*PartPaymentResult, error) {
	now := s.now().UTC()

	var result *PartPaymentResult
	err := s.store.InTx(ctx, func(tx Tx) error {
		loan, err := tx.LoanForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.AccountStatusActive {
			return fmt.Errorf("loan %s: %w", loanID, domain.ErrAccountNotActive)
		}
		if amount.LessThan(minPartPayment) {
			return fmt.Errorf("%w", domain.ErrBelowMinimumPayment)
		}
		if amount.GreaterThan(loan.DueAmount) {
			return fmt.Errorf("remaining due is %s: %w", loan.DueAmount.StringFixed(2), domain.ErrExceedsDueAmount)
		}

		loan.DueAmount = loan.DueAmount.Sub(amount)
		if loan.DueAmount.LessThanOrEqual(decimal.Zero) {
			loan.DueAmount = decimal.Zero
			loan.Status = domain.AccountStatusClosed
			if err := tx.UpdateAccountStatus(ctx, loanID, domain.AccountStatusClosed, nil); err != nil {
				return err
			}
		}
		if err := tx.UpdateLoan(ctx, loan); err != nil {
			return err
		}
		if err := tx.AppendLoanTransaction(ctx, &domain.LoanTransaction{
			ID:      uuid.New(),
			LoanID:  loanID,
			Amount:  amount,
			Type:    domain.LoanTransactionPartEMI,
			Date:    now,
			Penalty: decimal.Zero,
		}); err != nil {
			return err
		}
		result = &PartPaymentResult{RemainingDue: loan.DueAmount, PaidAmount: amount}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("PayPartEMI: %w", err)
	}

	logging.FromContext(ctx).Info("part payment applied",
		"loan_id", loanID,
		"amount", amount,
		"remaining_due", result.RemainingDue,
	)
	return result, nil
}

// Foreclose settles a loan early. The settlement figure is the principal plus
// interest accrued day-prorated from the start date, less everything already
// paid; the offered amount must cover it in full.
func (s *LoanService) Foreclose(ctx context.Context, loanID string, amount decimal.Decimal) error {
	now := s.now().UTC()

	err := s.store.InTx(ctx, func(tx Tx) error {
		loan, err := tx.LoanForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.AccountStatusActive {
			return fmt.Errorf("loan %s: %w", loanID, domain.ErrAccountNotActive)
		}
		if loan.StartDate.IsZero() {
			return fmt.Errorf("loan %s: %w", loanID, domain.ErrMissingStartDate)
		}

		totalPaid, err := tx.SumLoanPayments(ctx, loanID)
		if err != nil {
			return err
		}

		daysPassed := daysBetween(loan.StartDate, now)
		accrued := loan.Principal.
			Mul(loan.InterestRate).Div(hundred).
			Mul(decimal.NewFromInt(int64(daysPassed))).Div(daysInYear)
		updatedDue := loan.Principal.Add(accrued).Sub(totalPaid)

		if amount.LessThan(updatedDue) {
			return fmt.Errorf("updated due is %s: %w", updatedDue.StringFixed(2), domain.ErrInsufficientSettlement)
		}

		if err := tx.AppendLoanTransaction(ctx, &domain.LoanTransaction{
			ID:      uuid.New(),
			LoanID:  loanID,
			Amount:  updatedDue.Round(2),
			Type:    domain.LoanTransactionForeclose,
			Date:    now,
			Penalty: decimal.Zero,
		}); err != nil {
			return err
		}

		loan.DueAmount = decimal.Zero
		loan.Status = domain.AccountStatusClosed
		if err := tx.UpdateLoan(ctx, loan); err != nil {
			return err
		}
		return tx.UpdateAccountStatus(ctx, loanID, domain.AccountStatusClosed, nil)
	})
	if err != nil {
		return fmt.Errorf("Foreclose: %w", err)
	}

	logging.FromContext(ctx).Info("loan foreclosed", "loan_id", loanID)
	return nil
}

// Close manually closes a fully paid loan, mirroring the status onto the
// account row.
func (s *LoanService) Close(ctx context.Context, loanID string) error {
	err := s.store.InTx(ctx, func(tx Tx) error {
		loan, err := tx.LoanForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.DueAmount.IsPositive() {
			return fmt.Errorf("pending amount %s: %w", loan.DueAmount.StringFixed(2), domain.ErrOutstandingDue)
		}

		loan.Status = domain.AccountStatusClosed
		if err := tx.UpdateLoan(ctx, loan); err != nil {
			return err
		}
		return tx.UpdateAccountStatus(ctx, loanID, domain.AccountStatusClosed, nil)
	})
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}

	logging.FromContext(ctx).Info("loan closed", "loan_id", loanID)
	return nil
}

func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*domain.LoanAccount, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("GetLoan: %w", err)
	}
	return loan, nil
}

func (s *LoanService) LoanTransactions(ctx context.Context, loanID string) ([]domain.LoanTransaction, error) {
	txns, err := s.store.LoanTransactions(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("LoanTransactions: %w", err)
	}
	return txns, nil
}
