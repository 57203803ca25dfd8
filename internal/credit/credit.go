package credit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TypeCreditTaken TransactionType = "CREDIT_TAKEN"
	TypePaymentMade TransactionType = "PAYMENT_MADE"
)

// Transaction is an append-only ledger entry. For a given customer the
// BalanceAfter of entry N equals the BalanceBefore of entry N+1; the live
// credit balance always equals the latest entry's BalanceAfter.
type Transaction struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	SaleID        *uuid.UUID
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	PaymentMethod string
	Notes         string
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
}

var (
	ErrNoOutstandingCredit = errors.New("customer has no outstanding credit")
	ErrInvalidAmount       = errors.New("payment amount must be positive")
)

// OverPaymentError reports a payment larger than the outstanding balance.
// The engine never caps the payment to the balance.
type OverPaymentError struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

func (e *OverPaymentError) Error() string {
	return fmt.Sprintf("payment amount (%s) exceeds credit balance (%s)", e.Amount, e.Balance)
}
