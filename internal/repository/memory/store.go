// Package memory holds an in-memory service.Store used by tests. Each InTx
// callback runs against a copy of the state; the copy replaces the live state
// only when the callback succeeds, so a failed operation leaves no partial
// mutation.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/backoffice/internal/domain"
	"github.com/corebank/backoffice/internal/service"
)

type state struct {
	customers map[string]domain.Customer
	accounts  map[string]domain.Account
	loans     map[string]domain.LoanAccount
	deposits  map[string]domain.FixedDeposit
	loanTxns  []domain.LoanTransaction
	fdTxns    []domain.FDTransaction
}

func newState() *state {
	return &state{
		customers: make(map[string]domain.Customer),
		accounts:  make(map[string]domain.Account),
		loans:     make(map[string]domain.LoanAccount),
		deposits:  make(map[string]domain.FixedDeposit),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	for k, v := range s.deposits {
		c.deposits[k] = v
	}
	c.loanTxns = append([]domain.LoanTransaction(nil), s.loanTxns...)
	c.fdTxns = append([]domain.FDTransaction(nil), s.fdTxns...)
	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// Seed helpers for tests; they bypass lifecycle validation on purpose.

func (s *Store) AddCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.customers[c.ID] = c
}

func (s *Store) AddLoan(loan domain.LoanAccount, account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.loans[loan.ID] = loan
	s.state.accounts[account.ID] = account
}

func (s *Store) AddFixedDeposit(fd domain.FixedDeposit, account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.deposits[fd.ID] = fd
	s.state.accounts[account.ID] = account
}

// Account returns the mirrored account row, for asserting the mirroring law.
func (s *Store) Account(id string) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.accounts[id]
	return a, ok
}

func (s *Store) FDTransactions(fdID string) []domain.FDTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txns []domain.FDTransaction
	for _, t := range s.state.fdTxns {
		if t.FDID == fdID {
			txns = append(txns, t)
		}
	}
	return txns
}

// service.Store implementation.

func (s *Store) GetLoan(_ context.Context, id string) (*domain.LoanAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.state.loans[id]
	if !ok {
		return nil, fmt.Errorf("GetLoan: %w", domain.ErrNotFound)
	}
	return &loan, nil
}

func (s *Store) GetFixedDeposit(_ context.Context, id string) (*domain.FixedDeposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fd, ok := s.state.deposits[id]
	if !ok {
		return nil, fmt.Errorf("GetFixedDeposit: %w", domain.ErrNotFound)
	}
	return &fd, nil
}

func (s *Store) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.customers[id]
	if !ok {
		return nil, fmt.Errorf("GetCustomer: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) LoanTransactions(_ context.Context, loanID string) ([]domain.LoanTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txns []domain.LoanTransaction
	for _, t := range s.state.loanTxns {
		if t.LoanID == loanID {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

func (s *Store) AccountExists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state.accounts[id]
	return ok, nil
}

func (s *Store) InTx(_ context.Context, fn func(tx service.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&memTx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

type memTx struct {
	state *state
}

func (t *memTx) LoanForUpdate(_ context.Context, id string) (*domain.LoanAccount, error) {
	loan, ok := t.state.loans[id]
	if !ok {
		return nil, fmt.Errorf("LoanForUpdate: %w", domain.ErrNotFound)
	}
	return &loan, nil
}

func (t *memTx) CreateLoan(_ context.Context, loan *domain.LoanAccount) error {
	if _, ok := t.state.loans[loan.ID]; ok {
		return fmt.Errorf("CreateLoan: duplicate id %s", loan.ID)
	}
	t.state.loans[loan.ID] = *loan
	return nil
}

func (t *memTx) UpdateLoan(_ context.Context, loan *domain.LoanAccount) error {
	if _, ok := t.state.loans[loan.ID]; !ok {
		return fmt.Errorf("UpdateLoan: %w", domain.ErrNotFound)
	}
	t.state.loans[loan.ID] = *loan
	return nil
}

func (t *memTx) AppendLoanTransaction(_ context.Context, txn *domain.LoanTransaction) error {
	t.state.loanTxns = append(t.state.loanTxns, *txn)
	return nil
}

func (t *memTx) SumLoanPayments(_ context.Context, loanID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, txn := range t.state.loanTxns {
		if txn.LoanID == loanID {
			total = total.Add(txn.Amount)
		}
	}
	return total, nil
}

func (t *memTx) FixedDepositForUpdate(_ context.Context, id string) (*domain.FixedDeposit, error) {
	fd, ok := t.state.deposits[id]
	if !ok {
		return nil, fmt.Errorf("FixedDepositForUpdate: %w", domain.ErrNotFound)
	}
	return &fd, nil
}

func (t *memTx) CreateFixedDeposit(_ context.Context, fd *domain.FixedDeposit) error {
	if _, ok := t.state.deposits[fd.ID]; ok {
		return fmt.Errorf("CreateFixedDeposit: duplicate id %s", fd.ID)
	}
	t.state.deposits[fd.ID] = *fd
	return nil
}

func (t *memTx) UpdateFixedDeposit(_ context.Context, fd *domain.FixedDeposit) error {
	if _, ok := t.state.deposits[fd.ID]; !ok {
		return fmt.Errorf("UpdateFixedDeposit: %w", domain.ErrNotFound)
	}
	t.state.deposits[fd.ID] = *fd
	return nil
}

func (t *memTx) AppendFDTransaction(_ context.Context, txn *domain.FDTransaction) error {
	t.state.fdTxns = append(t.state.fdTxns, *txn)
	return nil
}

func (t *memTx) CreateAccount(_ context.Context, account *domain.Account) error {
	if _, ok := t.state.accounts[account.ID]; ok {
		return fmt.Errorf("CreateAccount: duplicate id %s", account.ID)
	}
	t.state.accounts[account.ID] = *account
	return nil
}

func (t *memTx) UpdateAccountStatus(_ context.Context, id string, status domain.AccountStatus, closeDate *time.Time) error {
	a, ok := t.state.accounts[id]
	if !ok {
		return fmt.Errorf("UpdateAccountStatus: %w", domain.ErrNotFound)
	}
	a.Status = status
	a.CloseDate = closeDate
	t.state.accounts[id] = a
	return nil
}
