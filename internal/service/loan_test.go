package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/corebank/backoffice/internal/domain"
	"github.com/corebank/backoffice/internal/repository/memory"
	"github.com/corebank/backoffice/internal/service"
)

var fixedNow = time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newLoanService(t *testing.T) (*service.LoanService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := service.NewLoanService(store).WithClock(func() time.Time { return fixedNow })
	return svc, store
}

func seedLoan(store *memory.Store, loan domain.LoanAccount) {
	store.AddLoan(loan, domain.Account{
		ID:         loan.ID,
		CustomerID: loan.CustomerID,
		Status:     loan.Status,
		OpenDate:   loan.StartDate,
		CreatedBy:  1,
	})
}

func activeLoan(id string) domain.LoanAccount {
	return domain.LoanAccount{
		ID:           id,
		CustomerID:   "CUST1",
		Principal:    dec("600000"),
		TenureYears:  5,
		InterestRate: dec("9.5"),
		EMI:          dec("14750"),
		TotalPayable: dec("885000"),
		DueAmount:    dec("885000"),
		StartDate:    fixedNow.AddDate(0, 0, -30),
		Status:       domain.AccountStatusActive,
	}
}

func TestOriginate(t *testing.T) {
	tests := []struct {
		name    string
		req     service.OriginationRequest
		wantErr error
	}{
		{
			name: "below minimum principal",
			req: service.OriginationRequest{
				CustomerID: "CUST1", Principal: dec("9999"), TenureYears: 1,
				CustomerAge: 30, MonthlyTakeHome: dec("50000"),
			},
			wantErr: domain.ErrBelowMinimumPrincipal,
		},
		{
			name: "senior above ceiling",
			req: service.OriginationRequest{
				CustomerID: "CUST1", Principal: dec("150000"), TenureYears: 2,
				CustomerAge: 65, MonthlyTakeHome: dec("50000"),
			},
			wantErr: domain.ErrSeniorLoanLimit,
		},
		{
			name: "emi above sixty percent of take-home",
			req: service.OriginationRequest{
				CustomerID: "CUST1", Principal: dec("600000"), TenureYears: 5,
				CustomerAge: 30, MonthlyTakeHome: dec("24000"),
			},
			wantErr: domain.ErrEMIUnaffordable,
		},
		{
			name: "senior at ceiling is eligible",
			req: service.OriginationRequest{
				CustomerID: "CUST1", Principal: dec("100000"), TenureYears: 1,
				CustomerAge: 65, MonthlyTakeHome: dec("20000"),
			},
		},
	}

	svc, _ := newLoanService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, err := svc.Originate(tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, domain.AccountStatusActive, loan.Status)
		})
	}
}

func TestOriginateFlatSchedule(t *testing.T) {
	svc, _ := newLoanService(t)

	loan, err := svc.Originate(service.OriginationRequest{
		CustomerID:      "CUST1",
		Principal:       dec("600000"),
		TenureYears:     5,
		CustomerAge:     30,
		MonthlyTakeHome: dec("30000"),
	})
	require.NoError(t, err)

	require.True(t, loan.InterestRate.Equal(dec("9.5")), "rate %s", loan.InterestRate)
	require.True(t, loan.TotalPayable.Equal(dec("885000")), "total %s", loan.TotalPayable)
	require.True(t, loan.EMI.Equal(dec("14750")), "emi %s", loan.EMI)
	require.True(t, loan.DueAmount.Equal(loan.TotalPayable), "due %s", loan.DueAmount)
	require.Equal(t, fixedNow, loan.StartDate)
}

func TestOpenAccountMirrorsAccountRow(t *testing.T) {
	svc, store := newLoanService(t)

	loan, err := svc.Originate(service.OriginationRequest{
		CustomerID:      "CUST1",
		Principal:       dec("600000"),
		TenureYears:     5,
		CustomerAge:     30,
		MonthlyTakeHome: dec("30000"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.OpenAccount(context.Background(), loan, 7))

	require.Regexp(t, regexp.MustCompile(`^LN\d{5}$`), loan.ID)

	account, ok := store.Account(loan.ID)
	require.True(t, ok, "mirrored account row missing")
	require.Equal(t, domain.AccountStatusActive, account.Status)
	require.Equal(t, "CUST1", account.CustomerID)
	require.Equal(t, 7, account.CreatedBy)

	got, err := svc.GetLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	require.True(t, got.DueAmount.Equal(dec("885000")))
}

func TestPayEMI(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, activeLoan("LN10001"))

		require.ErrorIs(t, svc.PayEMI(ctx, "LN10001", decimal.Zero), domain.ErrInvalidAmount)
		require.ErrorIs(t, svc.PayEMI(ctx, "LN10001", dec("-5")), domain.ErrInvalidAmount)
	})

	t.Run("unknown loan", func(t *testing.T) {
		svc, _ := newLoanService(t)
		require.ErrorIs(t, svc.PayEMI(ctx, "LN99999", dec("100")), domain.ErrNotFound)
	})

	t.Run("rejects amount above due and leaves no trace", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, activeLoan("LN10001"))

		err := svc.PayEMI(ctx, "LN10001", dec("900000"))
		require.ErrorIs(t, err, domain.ErrExceedsDueAmount)
		require.Contains(t, err.Error(), "885000.00")

		loan, getErr := svc.GetLoan(ctx, "LN10001")
		require.NoError(t, getErr)
		require.True(t, loan.DueAmount.Equal(dec("885000")), "due mutated to %s", loan.DueAmount)

		txns, getErr := svc.LoanTransactions(ctx, "LN10001")
		require.NoError(t, getErr)
		require.Empty(t, txns)
	})

	t.Run("reduces due and records the payment", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, activeLoan("LN10001"))

		require.NoError(t, svc.PayEMI(ctx, "LN10001", dec("14750")))

		loan, err := svc.GetLoan(ctx, "LN10001")
		require.NoError(t, err)
		require.True(t, loan.DueAmount.Equal(dec("870250")), "due %s", loan.DueAmount)
		require.Equal(t, domain.AccountStatusActive, loan.Status)

		txns, err := svc.LoanTransactions(ctx, "LN10001")
		require.NoError(t, err)
		require.Len(t, txns, 1)
		require.Equal(t, domain.LoanTransactionEMI, txns[0].Type)
		require.True(t, txns[0].Amount.Equal(dec("14750")))
	})

	t.Run("final payment deactivates loan and account", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.DueAmount = dec("1000")
		seedLoan(store, loan)

		require.NoError(t, svc.PayEMI(ctx, "LN10001", dec("1000")))

		got, err := svc.GetLoan(ctx, "LN10001")
		require.NoError(t, err)
		require.True(t, got.DueAmount.IsZero())
		require.Equal(t, domain.AccountStatusInactive, got.Status)

		account, ok := store.Account("LN10001")
		require.True(t, ok)
		require.Equal(t, domain.AccountStatusInactive, account.Status)
	})
}

func TestMakeEMIPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts one installment", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, activeLoan("LN10001"))

		loan, err := svc.MakeEMIPayment(ctx, "LN10001")
		require.NoError(t, err)
		require.True(t, loan.DueAmount.Equal(dec("870250")), "due %s", loan.DueAmount)

		txns, err := svc.LoanTransactions(ctx, "LN10001")
		require.NoError(t, err)
		require.Len(t, txns, 1)
		require.True(t, txns[0].Amount.Equal(dec("14750")))
	})

	t.Run("computes annuity installment on first servicing", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.Principal = dec("100000")
		loan.TenureYears = 1
		loan.InterestRate = dec("12")
		loan.EMI = decimal.Zero
		loan.TotalPayable = decimal.Zero
		loan.DueAmount = decimal.Zero
		seedLoan(store, loan)

		got, err := svc.MakeEMIPayment(ctx, "LN10001")
		require.NoError(t, err)

		require.True(t, got.EMI.Equal(dec("8884.88")), "emi %s", got.EMI)
		require.True(t, got.TotalPayable.Equal(dec("106618.56")), "total %s", got.TotalPayable)
		require.True(t, got.DueAmount.Equal(dec("97733.68")), "due %s", got.DueAmount)
	})

	t.Run("rejects when due falls below installment", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.DueAmount = dec("100")
		seedLoan(store, loan)

		_, err := svc.MakeEMIPayment(ctx, "LN10001")
		require.ErrorIs(t, err, domain.ErrDueBelowEMI)
	})

	t.Run("rejects inactive loan", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.Status = domain.AccountStatusInactive
		seedLoan(store, loan)

		_, err := svc.MakeEMIPayment(ctx, "LN10001")
		require.ErrorIs(t, err, domain.ErrAccountNotActive)
	})

	t.Run("last installment deactivates loan and account", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.EMI = dec("500")
		loan.DueAmount = dec("500")
		seedLoan(store, loan)

		got, err := svc.MakeEMIPayment(ctx, "LN10001")
		require.NoError(t, err)
		require.True(t, got.DueAmount.IsZero())
		require.Equal(t, domain.AccountStatusInactive, got.Status)

		account, ok := store.Account("LN10001")
		require.True(t, ok)
		require.Equal(t, domain.AccountStatusInactive, account.Status)
	})
}

func TestPayPartEMI(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects below minimum", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, activeLoan("LN10001"))

		_, err := svc.PayPartEMI(ctx, "LN10001", dec("499"))
		require.ErrorIs(t, err, domain.ErrBelowMinimumPayment)
	})

	t.Run("rejects amount above due", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.DueAmount = dec("1000")
		seedLoan(store, loan)

		_, err := svc.PayPartEMI(ctx, "LN10001", dec("1500"))
		require.ErrorIs(t, err, domain.ErrExceedsDueAmount)
	})

	t.Run("rejects inactive loan", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.Status = domain.AccountStatusClosed
		seedLoan(store, loan)

		_, err := svc.PayPartEMI(ctx, "LN10001", dec("500"))
		require.ErrorIs(t, err, domain.ErrAccountNotActive)
	})

	t.Run("applies payment and reports remaining due", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.DueAmount = dec("1000")
		seedLoan(store, loan)

		result, err := svc.PayPartEMI(ctx, "LN10001", dec("600"))
		require.NoError(t, err)
		require.True(t, result.RemainingDue.Equal(dec("400")), "remaining %s", result.RemainingDue)
		require.True(t, result.PaidAmount.Equal(dec("600")))

		txns, err := svc.LoanTransactions(ctx, "LN10001")
		require.NoError(t, err)
		require.Len(t, txns, 1)
		require.Equal(t, domain.LoanTransactionPartEMI, txns[0].Type)
	})

	t.Run("paying off closes loan and account", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.DueAmount = dec("500")
		seedLoan(store, loan)

		result, err := svc.PayPartEMI(ctx, "LN10001", dec("500"))
		require.NoError(t, err)
		require.True(t, result.RemainingDue.IsZero())

		got, err := svc.GetLoan(ctx, "LN10001")
		require.NoError(t, err)
		require.Equal(t, domain.AccountStatusClosed, got.Status)

		account, ok := store.Account("LN10001")
		require.True(t, ok)
		require.Equal(t, domain.AccountStatusClosed, account.Status)
	})
}

func TestForeclose(t *testing.T) {
	ctx := context.Background()

	// 100,000 at 10% started 100 days before the pinned clock accrues
	// 100,000 * 0.10 * 100/365 = 2,739.73 of interest.
	newForecloseLoan := func() domain.LoanAccount {
		loan := activeLoan("LN10001")
		loan.Principal = dec("100000")
		loan.InterestRate = dec("10")
		loan.TotalPayable = dec("110000")
		loan.DueAmount = dec("110000")
		loan.EMI = dec("4583.33")
		loan.StartDate = fixedNow.AddDate(0, 0, -100)
		return loan
	}

	t.Run("rejects offer below settlement figure", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, newForecloseLoan())

		err := svc.Foreclose(ctx, "LN10001", dec("102000"))
		require.ErrorIs(t, err, domain.ErrInsufficientSettlement)
		require.Contains(t, err.Error(), "102739.73")

		loan, getErr := svc.GetLoan(ctx, "LN10001")
		require.NoError(t, getErr)
		require.Equal(t, domain.AccountStatusActive, loan.Status)
	})

	t.Run("settles and closes at the computed figure", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, newForecloseLoan())

		require.NoError(t, svc.Foreclose(ctx, "LN10001", dec("102739.73")))

		loan, err := svc.GetLoan(ctx, "LN10001")
		require.NoError(t, err)
		require.True(t, loan.DueAmount.IsZero())
		require.Equal(t, domain.AccountStatusClosed, loan.Status)

		account, ok := store.Account("LN10001")
		require.True(t, ok)
		require.Equal(t, domain.AccountStatusClosed, account.Status)

		txns, err := svc.LoanTransactions(ctx, "LN10001")
		require.NoError(t, err)
		require.Len(t, txns, 1)
		require.Equal(t, domain.LoanTransactionForeclose, txns[0].Type)
		require.True(t, txns[0].Amount.Equal(dec("102739.73")), "amount %s", txns[0].Amount)
	})

	t.Run("prior payments reduce the settlement figure", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, newForecloseLoan())

		require.NoError(t, svc.PayEMI(ctx, "LN10001", dec("5000")))
		require.NoError(t, svc.PayEMI(ctx, "LN10001", dec("5000")))

		err := svc.Foreclose(ctx, "LN10001", dec("92000"))
		require.ErrorIs(t, err, domain.ErrInsufficientSettlement)
		require.Contains(t, err.Error(), "92739.73")

		require.NoError(t, svc.Foreclose(ctx, "LN10001", dec("92739.73")))
	})

	t.Run("rejects inactive loan", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := newForecloseLoan()
		loan.Status = domain.AccountStatusClosed
		seedLoan(store, loan)

		require.ErrorIs(t, svc.Foreclose(ctx, "LN10001", dec("200000")), domain.ErrAccountNotActive)
	})

	t.Run("rejects loan without start date", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := newForecloseLoan()
		loan.StartDate = time.Time{}
		seedLoan(store, loan)

		require.ErrorIs(t, svc.Foreclose(ctx, "LN10001", dec("200000")), domain.ErrMissingStartDate)
	})
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects outstanding due", func(t *testing.T) {
		svc, store := newLoanService(t)
		seedLoan(store, activeLoan("LN10001"))

		err := svc.Close(ctx, "LN10001")
		require.ErrorIs(t, err, domain.ErrOutstandingDue)
		require.Contains(t, err.Error(), "885000.00")
	})

	t.Run("closes settled loan and account", func(t *testing.T) {
		svc, store := newLoanService(t)
		loan := activeLoan("LN10001")
		loan.DueAmount = decimal.Zero
		loan.Status = domain.AccountStatusInactive
		seedLoan(store, loan)

		require.NoError(t, svc.Close(ctx, "LN10001"))

		got, err := svc.GetLoan(ctx, "LN10001")
		require.NoError(t, err)
		require.Equal(t, domain.AccountStatusClosed, got.Status)

		account, ok := store.Account("LN10001")
		require.True(t, ok)
		require.Equal(t, domain.AccountStatusClosed, account.Status)
	})
}

// Payments recorded on the ledger plus the remaining due always reconstruct
// the total payable, regardless of how payments are mixed.
func TestLedgerReconciliation(t *testing.T) {
	ctx := context.Background()
	svc, store := newLoanService(t)
	seedLoan(store, activeLoan("LN10001"))

	_, err := svc.MakeEMIPayment(ctx, "LN10001")
	require.NoError(t, err)
	_, err = svc.MakeEMIPayment(ctx, "LN10001")
	require.NoError(t, err)
	_, err = svc.PayPartEMI(ctx, "LN10001", dec("10000"))
	require.NoError(t, err)
	require.NoError(t, svc.PayEMI(ctx, "LN10001", dec("5000")))

	loan, err := svc.GetLoan(ctx, "LN10001")
	require.NoError(t, err)
	txns, err := svc.LoanTransactions(ctx, "LN10001")
	require.NoError(t, err)
	require.Len(t, txns, 4)

	paid := decimal.Zero
	for _, txn := range txns {
		paid = paid.Add(txn.Amount)
	}
	require.True(t, paid.Add(loan.DueAmount).Equal(loan.TotalPayable),
		"paid %s + due %s != total %s", paid, loan.DueAmount, loan.TotalPayable)
}
