package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corebank/backoffice/internal/domain"
)

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx,
		`SELECT customer_id, name, date_of_birth FROM customers WHERE customer_id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.DateOfBirth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetCustomer: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetCustomer: %w", err)
	}
	return &c, nil
}
