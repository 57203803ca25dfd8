package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/localpos/backend/internal/dashboard"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) TodaySales(ctx context.Context, start, end time.Time) (dashboard.TodaySales, error) {
	var t dashboard.TodaySales

	query := `
		SELECT COALESCE(SUM(total_amount), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE payment_method = 'CASH'),
		       COUNT(*) FILTER (WHERE payment_status IN ('CREDIT', 'PARTIAL'))
		FROM sales
		WHERE created_at >= $1 AND created_at < $2
	`

	err := s.db.QueryRowContext(ctx, query, start, end).Scan(
		&t.TotalAmount, &t.BillsCount, &t.CashSales, &t.CreditSales,
	)
	if err != nil {
		return dashboard.TodaySales{}, fmt.Errorf("aggregating today's sales: %w", err)
	}

	return t, nil
}

func (s *Store) CreditOutstanding(ctx context.Context) (dashboard.CreditOutstanding, error) {
	var c dashboard.CreditOutstanding

	query := `
		SELECT COALESCE(SUM(credit_balance), 0), COUNT(*)
		FROM customers
		WHERE credit_balance > 0
	`

	if err := s.db.QueryRowContext(ctx, query).Scan(&c.TotalAmount, &c.CustomersCount); err != nil {
		return dashboard.CreditOutstanding{}, fmt.Errorf("aggregating outstanding credit: %w", err)
	}

	return c, nil
}

func (s *Store) InventoryCounts(ctx context.Context, expiringUntil time.Time) (dashboard.Inventory, error) {
	var inv dashboard.Inventory

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE stock_quantity < min_stock_level),
		       COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date >= NOW() AND expiry_date <= $1)
		FROM products
		WHERE status = 'ACTIVE'
	`

	err := s.db.QueryRowContext(ctx, query, expiringUntil).Scan(
		&inv.ActiveProducts, &inv.LowStockCount, &inv.ExpiringCount,
	)
	if err != nil {
		return dashboard.Inventory{}, fmt.Errorf("aggregating inventory counts: %w", err)
	}

	return inv, nil
}

func (s *Store) CustomerCounts(ctx context.Context, newSince time.Time) (dashboard.Customers, error) {
	var c dashboard.Customers

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at > $1)
		FROM customers
		WHERE status = 'ACTIVE'
	`

	if err := s.db.QueryRowContext(ctx, query, newSince).Scan(&c.Total, &c.NewThisWeek); err != nil {
		return dashboard.Customers{}, fmt.Errorf("aggregating customer counts: %w", err)
	}

	return c, nil
}
