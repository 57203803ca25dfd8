package product

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a product. Products are never
// hard-deleted; historical sale and movement rows keep referencing them.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementPurchase   MovementType = "PURCHASE"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

type Product struct {
	ID            uuid.UUID
	Name          string
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	StockQuantity int
	MinStockLevel int
	Barcode       *string
	ExpiryDate    *time.Time
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// LowStock reports whether stock has fallen below the minimum level.
// Derived at read time, never stored.
func (p *Product) LowStock() bool {
	return p.StockQuantity < p.MinStockLevel
}

// ExpiringSoon reports whether the product expires within the given number
// of days from now. Products without an expiry date never expire.
func (p *Product) ExpiringSoon(now time.Time, withinDays int) bool {
	if p.ExpiryDate == nil {
		return false
	}

	cutoff := now.AddDate(0, 0, withinDays)

	return !p.ExpiryDate.After(cutoff) && !p.ExpiryDate.Before(now)
}

// StockMovement is an append-only record of one change to a product's
// stock quantity with its before/after values.
type StockMovement struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	SaleID         *uuid.UUID
	MovementType   MovementType
	QuantityChange int
	StockBefore    int
	StockAfter     int
	Notes          string
	CreatedAt      time.Time
}

var (
	ErrNotFound         = errors.New("product not found")
	ErrDuplicateBarcode = errors.New("product with barcode already exists")
)

// Shortage describes one under-stocked sale line.
type Shortage struct {
	ProductID uuid.UUID
	Name      string
	Available int
	Requested int
}

// InsufficientStockError enumerates every short line found in one pass,
// not just the first.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	msgs := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		msgs[i] = fmt.Sprintf("insufficient stock for %s. Available: %d, Required: %d",
			s.Name, s.Available, s.Requested)
	}

	return strings.Join(msgs, "; ")
}

// Line is a requested (product, quantity) pair checked against stock.
type Line struct {
	Product  *Product
	Quantity int
}

// CheckAvailability validates every line against current stock. The
// returned error lists all shortages; quantities are never capped to what
// is available.
func CheckAvailability(lines []Line) error {
	var shortages []Shortage

	for _, l := range lines {
		if l.Product.StockQuantity < l.Quantity {
			shortages = append(shortages, Shortage{
				ProductID: l.Product.ID,
				Name:      l.Product.Name,
				Available: l.Product.StockQuantity,
				Requested: l.Quantity,
			})
		}
	}

	if len(shortages) > 0 {
		return &InsufficientStockError{Shortages: shortages}
	}

	return nil
}
