package sale

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/customer"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "CASH"
	MethodCard   PaymentMethod = "CARD"
	MethodUPI    PaymentMethod = "UPI"
	MethodCredit PaymentMethod = "CREDIT"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodUPI, MethodCredit:
		return true
	}

	return false
}

// PaymentStatus is a pure function of creditAmount and amountPaid,
// derived at commit time and stored with the sale.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "PAID"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusCredit  PaymentStatus = "CREDIT"
)

// DerivePaymentStatus implements: PAID when nothing is owed, PARTIAL when
// something was paid against an owed remainder, CREDIT when nothing was.
func DerivePaymentStatus(creditAmount, amountPaid decimal.Decimal) PaymentStatus {
	switch {
	case creditAmount.IsZero():
		return StatusPaid
	case amountPaid.GreaterThan(decimal.Zero):
		return StatusPartial
	default:
		return StatusCredit
	}
}

// Sale and its items are created in one commit and immutable thereafter.
// Invariants: TotalAmount = Subtotal - DiscountAmount + TaxAmount and
// CreditAmount = TotalAmount - AmountPaid, both exact at 2 decimals.
type Sale struct {
	ID             uuid.UUID
	BillNumber     string
	CustomerID     *uuid.UUID
	Customer       *customer.Customer // loaded view, nil for walk-in sales
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	AmountPaid     decimal.Decimal
	CreditAmount   decimal.Decimal
	PaymentMethod  PaymentMethod
	PaymentStatus  PaymentStatus
	Notes          string
	CreatedBy      uuid.UUID
	Items          []*Item
	CreatedAt      time.Time
}

// Item is an immutable snapshot of the product at commit time; later
// product edits do not touch it.
type Item struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // per unit
	LineTotal   decimal.Decimal
}

var (
	ErrNotFound       = errors.New("sale not found")
	ErrCreditRequired = errors.New("customer required for credit sales")

	// ErrBillNumberConflict marks a duplicate bill number detected by the
	// unique index. A generation artifact, absorbed by retry, never
	// surfaced to the caller.
	ErrBillNumberConflict = errors.New("bill number already taken")
)

// ValidationError collects every request violation found in one pass.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// FormatBillNumber renders BILL-<year>-<zero-padded sequence>.
func FormatBillNumber(year int, sequence int64) string {
	return fmt.Sprintf("BILL-%d-%06d", year, sequence)
}
