package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/product"
)

// Snapshot is a read-only composition over current stored state; it
// introduces no invariants of its own.
type Snapshot struct {
	TodaySales        TodaySales
	CreditOutstanding CreditOutstanding
	Inventory         Inventory
	Customers         Customers
	Alerts            Alerts
}

type TodaySales struct {
	TotalAmount decimal.Decimal
	BillsCount  int64
	CashSales   int64
	CreditSales int64
}

type CreditOutstanding struct {
	TotalAmount    decimal.Decimal
	CustomersCount int64
}

type Inventory struct {
	ActiveProducts int64
	LowStockCount  int64
	ExpiringCount  int64
}

type Customers struct {
	Total       int64
	NewThisWeek int64
}

type Alerts struct {
	LowStock []*product.Product
	Expiring []*product.Product
}

//go:generate mockgen -source=dashboard.go -destination=repository_mock.go -package=dashboard
type Repository interface {
	TodaySales(ctx context.Context, start, end time.Time) (TodaySales, error)
	CreditOutstanding(ctx context.Context) (CreditOutstanding, error)
	InventoryCounts(ctx context.Context, expiringUntil time.Time) (Inventory, error)
	CustomerCounts(ctx context.Context, newSince time.Time) (Customers, error)
}

const expiryWindowDays = 7

// Service composes the aggregate counters with the product service's
// low-stock and expiring listings.
type Service struct {
	repo     Repository
	products *product.Service
}

func NewService(repo Repository, products *product.Service) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	today, err := s.repo.TodaySales(ctx, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("today sales: %w", err)
	}

	outstanding, err := s.repo.CreditOutstanding(ctx)
	if err != nil {
		return nil, fmt.Errorf("credit outstanding: %w", err)
	}

	inventory, err := s.repo.InventoryCounts(ctx, now.AddDate(0, 0, expiryWindowDays))
	if err != nil {
		return nil, fmt.Errorf("inventory counts: %w", err)
	}

	customers, err := s.repo.CustomerCounts(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("customer counts: %w", err)
	}

	lowStock, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("low stock alerts: %w", err)
	}

	expiring, err := s.products.ListExpiring(ctx, expiryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("expiring alerts: %w", err)
	}

	return &Snapshot{
		TodaySales:        today,
		CreditOutstanding: outstanding,
		Inventory:         inventory,
		Customers:         customers,
		Alerts:            Alerts{LowStock: lowStock, Expiring: expiring},
	}, nil
}
