package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/corebank/backoffice/internal/domain"
)

const (
	loanIDPrefix = "LN"
	fdIDPrefix   = "FD"

	maxIDAttempts = 10
)

// allocateAccountID draws prefix+5-digit identifiers until one is free in the
// store. Loan and FD ids share the identifier space with the excluded account
// types, so existence is checked against the generic account table.
func allocateAccountID(ctx context.Context, store Store, prefix string) (string, error) {
	for range maxIDAttempts {
		n, err := rand.Int(rand.Reader, big.NewInt(90_000))
		if err != nil {
			return "", fmt.Errorf("allocateAccountID: %w", err)
		}
		id := fmt.Sprintf("%s%d", prefix, 10_000+n.Int64())

		exists, err := store.AccountExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("allocateAccountID: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("allocateAccountID: %s after %d attempts: %w", prefix, maxIDAttempts, domain.ErrIDSpaceExhausted)
}
