package customer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a customer. Deactivation is a
// status transition; ledger rows keep referencing the customer.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Customer struct {
	ID             uuid.UUID
	Name           string
	Phone          string
	Email          string
	Address        string
	CreditBalance  decimal.Decimal
	CreditLimit    decimal.Decimal
	LoyaltyPoints  int
	TotalPurchases int
	TotalSpent     decimal.Decimal
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

var ErrNotFound = errors.New("customer not found")

// LimitExceededError reports a credit increase that would overdraw the
// customer's limit.
type LimitExceededError struct {
	Limit     decimal.Decimal
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded. Limit: %s, Current: %s, New credit: %s",
		e.Limit, e.Balance, e.Requested)
}

// WillExceedCreditLimit reports whether adding the given credit would push
// the balance over the limit.
func (c *Customer) WillExceedCreditLimit(additional decimal.Decimal) bool {
	return c.CreditBalance.Add(additional).GreaterThan(c.CreditLimit)
}

// CheckCreditLimit gates new credit only: an existing balance above a
// lowered limit stays valid, but further credit sales fail until the
// balance drops back under the limit.
func (c *Customer) CheckCreditLimit(proposed decimal.Decimal) error {
	if c.WillExceedCreditLimit(proposed) {
		return &LimitExceededError{
			Limit:     c.CreditLimit,
			Balance:   c.CreditBalance,
			Requested: proposed,
		}
	}

	return nil
}
