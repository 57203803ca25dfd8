package credit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/auth"
	"github.com/localpos/backend/internal/customer"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=credit
type Repository interface {
	// BeginPayment opens the unit of work for one payment and locks the
	// customer row so concurrent payments serialize on the balance.
	BeginPayment(ctx context.Context, customerID uuid.UUID) (PaymentTx, error)

	ListCustomerTransactions(ctx context.Context, customerID uuid.UUID) ([]*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	ListOutstanding(ctx context.Context) ([]*customer.Customer, error)
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
}

// PaymentTx scopes one payment commit. The balance mutation and its ledger
// entry become visible together or not at all.
type PaymentTx interface {
	Customer() *customer.Customer
	UpdateBalance(ctx context.Context, balance decimal.Decimal) error
	CreateTransaction(ctx context.Context, t *Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type PaymentParams struct {
	CustomerID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	Notes         string
}

type PaymentResult struct {
	Transaction *Transaction
	Customer    *customer.Customer
}

type ListFilter struct {
	Page     int
	PageSize int
}

// RecordPayment settles part or all of a customer's outstanding credit.
// The balance decrement and the PAYMENT_MADE entry commit as one unit;
// the ledger never desynchronizes from the live balance.
func (s *Service) RecordPayment(ctx context.Context, actor auth.Actor, params PaymentParams) (*PaymentResult, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	ptx, err := s.repo.BeginPayment(ctx, params.CustomerID)
	if err != nil {
		return nil, err
	}
	defer ptx.Rollback()

	cust := ptx.Customer()

	if cust.CreditBalance.IsZero() {
		return nil, ErrNoOutstandingCredit
	}

	if params.Amount.GreaterThan(cust.CreditBalance) {
		return nil, &OverPaymentError{Amount: params.Amount, Balance: cust.CreditBalance}
	}

	balanceBefore := cust.CreditBalance
	balanceAfter := balanceBefore.Sub(params.Amount)

	if err := ptx.UpdateBalance(ctx, balanceAfter); err != nil {
		return nil, fmt.Errorf("updating balance: %w", err)
	}

	txn := &Transaction{
		CustomerID:    cust.ID,
		Type:          TypePaymentMade,
		Amount:        params.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		PaymentMethod: params.PaymentMethod,
		Notes:         params.Notes,
		CreatedBy:     actor.ID,
	}
	if err := ptx.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("recording payment: %w", err)
	}

	if err := ptx.Commit(); err != nil {
		return nil, fmt.Errorf("committing payment: %w", err)
	}

	cust.CreditBalance = balanceAfter

	return &PaymentResult{Transaction: txn, Customer: cust}, nil
}

func (s *Service) ListCustomerTransactions(ctx context.Context, customerID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListCustomerTransactions(ctx, customerID)
}

func (s *Service) ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListOutstanding returns customers with a positive balance, largest first.
func (s *Service) ListOutstanding(ctx context.Context) ([]*customer.Customer, error) {
	return s.repo.ListOutstanding(ctx)
}

func (s *Service) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.TotalOutstanding(ctx)
}
