package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/corebank/backoffice/internal/service"
)

type scanner interface {
	Scan(dest ...any) error
}

// Store implements service.Store on top of database/sql. Mutations run inside
// InTx so that the aggregate update, the mirrored account row and the ledger
// append commit or roll back as one unit.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("InTx: begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("InTx: commit: %w", err)
	}
	return nil
}

// Tx is the unit of work handed to InTx callbacks.
type Tx struct {
	tx *sql.Tx
}
