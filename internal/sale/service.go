package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/auth"
	"github.com/localpos/backend/internal/credit"
	"github.com/localpos/backend/internal/customer"
	"github.com/localpos/backend/internal/product"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	// Begin opens the unit of work for one sale commit.
	Begin(ctx context.Context) (Tx, error)

	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	GetSaleByBillNumber(ctx context.Context, billNumber string) (*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
}

// Tx scopes one sale commit. Lock methods take row locks so concurrent
// sales touching the same product or customer serialize their
// read-modify-write; Commit makes every mutation visible at once, and a
// rollback leaves zero trace.
type Tx interface {
	// LockProducts locks the given product rows in deterministic order and
	// returns them keyed by id. A missing id yields product.ErrNotFound.
	LockProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*product.Product, error)
	LockCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error)

	// NextBillSequence atomically increments and returns the per-year
	// counter, starting a fresh sequence on year rollover.
	NextBillSequence(ctx context.Context, year int) (int64, error)

	CreateSale(ctx context.Context, s *Sale) error
	ApplyStockDecrement(ctx context.Context, p *product.Product, quantity int, saleID uuid.UUID, notes string) error
	UpdateCustomer(ctx context.Context, c *customer.Customer) error
	CreateCreditTransaction(ctx context.Context, t *credit.Transaction) error

	Commit() error
	Rollback() error
}

type Service struct {
	repo    Repository
	taxRate decimal.Decimal
}

func NewService(repo Repository, taxRate decimal.Decimal) *Service {
	return &Service{repo: repo, taxRate: taxRate}
}

type ItemParams struct {
	ProductID uuid.UUID
	Quantity  int
	Discount  decimal.Decimal // per unit
}

type CreateParams struct {
	CustomerID    *uuid.UUID
	Items         []ItemParams
	PaymentMethod PaymentMethod
	AmountPaid    decimal.Decimal
	Notes         string
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// maxCommitAttempts bounds the retry on bill-number collisions. With the
// sequence row serializing issuance a collision only happens around year
// rollover, so one retry is normally enough.
const maxCommitAttempts = 3

// Create runs the whole sale as one atomic unit: availability check,
// pricing from stored unit prices, credit gate, bill numbering, sale and
// line snapshots, stock decrements, customer and ledger mutations. Any
// mid-sequence failure rolls the whole unit back.
func (s *Service) Create(ctx context.Context, actor auth.Actor, params CreateParams) (*Sale, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	var lastErr error

	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		sl, err := s.create(ctx, actor, params)
		if err != nil {
			if errors.Is(err, ErrBillNumberConflict) {
				lastErr = err
				continue
			}

			return nil, err
		}

		return sl, nil
	}

	return nil, fmt.Errorf("allocating bill number: %w", lastErr)
}

func validateParams(params CreateParams) error {
	var violations []string

	if len(params.Items) == 0 {
		violations = append(violations, "sale must contain at least one item")
	}

	for i, item := range params.Items {
		if item.Quantity < 1 {
			violations = append(violations, fmt.Sprintf("item %d: quantity must be at least 1", i))
		}

		if item.Discount.IsNegative() {
			violations = append(violations, fmt.Sprintf("item %d: discount must not be negative", i))
		}
	}

	if !params.PaymentMethod.Valid() {
		violations = append(violations, fmt.Sprintf("unknown payment method %q", params.PaymentMethod))
	}

	if params.AmountPaid.IsNegative() {
		violations = append(violations, "amount paid must not be negative")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	return nil
}

func (s *Service) create(ctx context.Context, actor auth.Actor, params CreateParams) (*Sale, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin sale: %w", err)
	}
	defer tx.Rollback()

	// Aggregate quantities per product in first-seen order; the same
	// product may appear on several lines.
	productIDs := make([]uuid.UUID, 0, len(params.Items))
	requested := make(map[uuid.UUID]int, len(params.Items))

	for _, item := range params.Items {
		if _, seen := requested[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}

		requested[item.ProductID] += item.Quantity
	}

	products, err := tx.LockProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]product.Line, 0, len(productIDs))
	for _, id := range productIDs {
		lines = append(lines, product.Line{Product: products[id], Quantity: requested[id]})
	}

	if err := product.CheckAvailability(lines); err != nil {
		return nil, err
	}

	// Price every line from the stored unit price; caller-supplied prices
	// are never trusted.
	subtotal := decimal.Zero
	totalDiscount := decimal.Zero
	items := make([]*Item, 0, len(params.Items))

	for _, ip := range params.Items {
		p := products[ip.ProductID]
		qty := decimal.NewFromInt(int64(ip.Quantity))

		itemTotal := p.Price.Mul(qty)
		itemDiscount := ip.Discount.Mul(qty)

		subtotal = subtotal.Add(itemTotal)
		totalDiscount = totalDiscount.Add(itemDiscount)

		items = append(items, &Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    ip.Quantity,
			UnitPrice:   p.Price,
			Discount:    ip.Discount,
			LineTotal:   itemTotal.Sub(itemDiscount),
		})
	}

	taxable := subtotal.Sub(totalDiscount)
	taxAmount := taxable.Mul(s.taxRate).Round(2)
	totalAmount := taxable.Add(taxAmount)
	creditAmount := totalAmount.Sub(params.AmountPaid)

	if creditAmount.IsNegative() {
		return nil, &ValidationError{Violations: []string{
			fmt.Sprintf("amount paid %s exceeds total amount %s", params.AmountPaid, totalAmount),
		}}
	}

	var cust *customer.Customer

	if params.CustomerID != nil {
		cust, err = tx.LockCustomer(ctx, *params.CustomerID)
		if err != nil {
			return nil, err
		}
	}

	if creditAmount.GreaterThan(decimal.Zero) {
		if cust == nil {
			return nil, ErrCreditRequired
		}

		if err := cust.CheckCreditLimit(creditAmount); err != nil {
			return nil, err
		}
	}

	now := time.Now()

	sequence, err := tx.NextBillSequence(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("next bill sequence: %w", err)
	}

	billNumber := FormatBillNumber(now.Year(), sequence)

	sl := &Sale{
		BillNumber:     billNumber,
		CustomerID:     params.CustomerID,
		Subtotal:       subtotal,
		DiscountAmount: totalDiscount,
		TaxAmount:      taxAmount,
		TotalAmount:    totalAmount,
		AmountPaid:     params.AmountPaid,
		CreditAmount:   creditAmount,
		PaymentMethod:  params.PaymentMethod,
		PaymentStatus:  DerivePaymentStatus(creditAmount, params.AmountPaid),
		Notes:          params.Notes,
		CreatedBy:      actor.ID,
		Items:          items,
	}
	if err := tx.CreateSale(ctx, sl); err != nil {
		return nil, err
	}

	for _, id := range productIDs {
		if err := tx.ApplyStockDecrement(ctx, products[id], requested[id], sl.ID, "Sale "+billNumber); err != nil {
			return nil, err
		}
	}

	if cust != nil {
		balanceBefore := cust.CreditBalance
		takingCredit := creditAmount.GreaterThan(decimal.Zero)

		if takingCredit {
			cust.CreditBalance = balanceBefore.Add(creditAmount)
		}

		cust.TotalPurchases++
		cust.TotalSpent = cust.TotalSpent.Add(params.AmountPaid)

		if err := tx.UpdateCustomer(ctx, cust); err != nil {
			return nil, err
		}

		if takingCredit {
			txn := &credit.Transaction{
				CustomerID:    cust.ID,
				SaleID:        &sl.ID,
				Type:          credit.TypeCreditTaken,
				Amount:        creditAmount,
				BalanceBefore: balanceBefore,
				BalanceAfter:  cust.CreditBalance,
				Notes:         "Credit from sale " + billNumber,
				CreatedBy:     actor.ID,
			}
			if err := tx.CreateCreditTransaction(ctx, txn); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale: %w", err)
	}

	sl.Customer = cust

	return sl, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) GetByBillNumber(ctx context.Context, billNumber string) (*Sale, error) {
	return s.repo.GetSaleByBillNumber(ctx, billNumber)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

// ListToday returns the current day's sales, newest first.
func (s *Service) ListToday(ctx context.Context) ([]*Sale, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	return s.repo.ListSales(ctx, ListFilter{StartDate: &start, EndDate: &end})
}
