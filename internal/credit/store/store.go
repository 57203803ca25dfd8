package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/credit"
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

const selectTransactionColumns = `
	id, customer_id, sale_id, transaction_type, amount, balance_before,
	balance_after, payment_method, notes, created_by, created_at
`

func scanTransaction(s scanner) (*credit.Transaction, error) {
	var t credit.Transaction

	var typeStr string

	var method, notes sql.NullString

	if err := s.Scan(
		&t.ID, &t.CustomerID, &t.SaleID, &typeStr, &t.Amount, &t.BalanceBefore,
		&t.BalanceAfter, &method, &notes, &t.CreatedBy, &t.CreatedAt,
	); err != nil {
		return nil, err
	}

	t.Type = credit.TransactionType(typeStr)
	t.PaymentMethod = method.String
	t.Notes = notes.String

	return &t, nil
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

type paymentTx struct {
	tx   *sql.Tx
	cust *customer.Customer
}

// BeginPayment opens a transaction and locks the customer row. Concurrent
// payments and credit sales against the same customer serialize here.
func (s *Store) BeginPayment(ctx context.Context, customerID uuid.UUID) (credit.PaymentTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning payment tx: %w", err)
	}

	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`

	cust, err := scanCustomer(dbTx.QueryRowContext(ctx, query, customerID))
	if err != nil {
		dbTx.Rollback()

		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("locking customer: %w", err)
	}

	return &paymentTx{tx: dbTx, cust: cust}, nil
}

func (p *paymentTx) Customer() *customer.Customer { return p.cust }
func (p *paymentTx) Commit() error                { return p.tx.Commit() }
func (p *paymentTx) Rollback() error              { return p.tx.Rollback() }

func (p *paymentTx) UpdateBalance(ctx context.Context, balance decimal.Decimal) error {
	query := `UPDATE customers SET credit_balance = $1, updated_at = NOW() WHERE id = $2`

	if _, err := p.tx.ExecContext(ctx, query, balance, p.cust.ID); err != nil {
		return fmt.Errorf("updating credit balance: %w", err)
	}

	return nil
}

func (p *paymentTx) CreateTransaction(ctx context.Context, t *credit.Transaction) error {
	query := `
		INSERT INTO credit_transactions (customer_id, sale_id, transaction_type, amount, balance_before, balance_after, payment_method, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := p.tx.QueryRowContext(ctx, query,
		t.CustomerID,
		t.SaleID,
		t.Type,
		t.Amount,
		t.BalanceBefore,
		t.BalanceAfter,
		t.PaymentMethod,
		t.Notes,
		t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating credit transaction: %w", err)
	}

	return nil
}

func (s *Store) ListCustomerTransactions(ctx context.Context, customerID uuid.UUID) ([]*credit.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM credit_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	return s.queryTransactions(ctx, query, customerID)
}

func (s *Store) ListTransactions(ctx context.Context, filter credit.ListFilter) ([]*credit.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM credit_transactions
		ORDER BY created_at DESC`

	var args []any

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}

		query += " LIMIT $1 OFFSET $2"

		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	return s.queryTransactions(ctx, query, args...)
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]*credit.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing credit transactions: %w", err)
	}
	defer rows.Close()

	var txns []*credit.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning credit transaction: %w", err)
		}

		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credit transaction rows: %w", err)
	}

	return txns, nil
}

func (s *Store) ListOutstanding(ctx context.Context) ([]*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + `
		FROM customers
		WHERE credit_balance > 0
		ORDER BY credit_balance DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing outstanding credit: %w", err)
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

func (s *Store) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	query := `SELECT COALESCE(SUM(credit_balance), 0) FROM customers WHERE credit_balance > 0`

	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("totaling outstanding credit: %w", err)
	}

	return total, nil
}
