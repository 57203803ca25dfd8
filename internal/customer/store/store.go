package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/localpos/backend/internal/customer"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectCustomerColumns = `
	id, name, phone, email, address, credit_balance, credit_limit,
	loyalty_points, total_purchases, total_spent, status, created_at, updated_at
`

func scanCustomer(s scanner) (*customer.Customer, error) {
	var c customer.Customer

	var statusStr string

	var phone, email, address sql.NullString

	if err := s.Scan(
		&c.ID, &c.Name, &phone, &email, &address, &c.CreditBalance, &c.CreditLimit,
		&c.LoyaltyPoints, &c.TotalPurchases, &c.TotalSpent, &statusStr, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Status = customer.Status(statusStr)
	c.Phone = phone.String
	c.Email = email.String
	c.Address = address.String

	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (name, phone, email, address, credit_balance, credit_limit, loyalty_points, total_purchases, total_spent, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		c.Phone,
		c.Email,
		c.Address,
		c.CreditBalance,
		c.CreditLimit,
		c.LoyaltyPoints,
		c.TotalPurchases,
		c.TotalSpent,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating customer: %w", err)
	}

	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, address = $4, credit_limit = $5,
		    loyalty_points = $6, status = $7, updated_at = NOW()
		WHERE id = $8
	`

	_, err := s.db.ExecContext(ctx, query,
		c.Name,
		c.Phone,
		c.Email,
		c.Address,
		c.CreditLimit,
		c.LoyaltyPoints,
		c.Status,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}

	return nil
}

func (s *Store) ListCustomers(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Search != nil {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d)", argIdx, argIdx)

		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	query += " ORDER BY name ASC"

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}

		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)

		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []*customer.Customer

	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}

		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, nil
}
