package sale_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/localpos/backend/internal/auth"
	"github.com/localpos/backend/internal/credit"
	"github.com/localpos/backend/internal/customer"
	"github.com/localpos/backend/internal/product"
	"github.com/localpos/backend/internal/sale"
)

var taxRate = decimal.RequireFromString("0.05")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testActor() auth.Actor {
	return auth.Actor{ID: uuid.New(), Username: "cashier", Role: "STAFF"}
}

func testProduct(name, price string, stock int) *product.Product {
	return &product.Product{
		ID:            uuid.New(),
		Name:          name,
		Price:         dec(price),
		StockQuantity: stock,
		MinStockLevel: 2,
		Status:        product.StatusActive,
	}
}

func TestService_Create_CashSaleFullyPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Rice 1kg", "20", 10)
	year := time.Now().Year()

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
		Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
	tx.EXPECT().NextBillSequence(gomock.Any(), year).Return(int64(42), nil)
	tx.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
			sl.ID = uuid.New()
			sl.CreatedAt = time.Now()
			return nil
		})
	tx.EXPECT().
		ApplyStockDecrement(gomock.Any(), p, 3, gomock.Any(), "Sale "+sale.FormatBillNumber(year, 42)).
		Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 3}},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("63"),
	})
	require.NoError(t, err)

	assert.Equal(t, sale.FormatBillNumber(year, 42), got.BillNumber)
	assert.True(t, got.Subtotal.Equal(dec("60")))
	assert.True(t, got.DiscountAmount.IsZero())
	assert.True(t, got.TaxAmount.Equal(dec("3")))
	assert.True(t, got.TotalAmount.Equal(dec("63")))
	assert.True(t, got.CreditAmount.IsZero())
	assert.Equal(t, sale.StatusPaid, got.PaymentStatus)
	assert.Nil(t, got.Customer)

	require.Len(t, got.Items, 1)
	assert.Equal(t, p.ID, got.Items[0].ProductID)
	assert.Equal(t, "Rice 1kg", got.Items[0].ProductName)
	assert.True(t, got.Items[0].UnitPrice.Equal(dec("20")))
	assert.True(t, got.Items[0].LineTotal.Equal(dec("60")))
}

func TestService_Create_RepeatedProductAggregates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Sugar 1kg", "10", 10)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	// Two lines for the same product lock the row once and decrement the
	// combined quantity once.
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
		Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
	tx.EXPECT().NextBillSequence(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	tx.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
			sl.ID = uuid.New()
			return nil
		})
	tx.EXPECT().
		ApplyStockDecrement(gomock.Any(), p, 5, gomock.Any(), gomock.Any()).
		Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items: []sale.ItemParams{
			{ProductID: p.ID, Quantity: 2},
			{ProductID: p.ID, Quantity: 3},
		},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("52.5"),
	})
	require.NoError(t, err)

	assert.True(t, got.Subtotal.Equal(dec("50")))
	assert.True(t, got.TotalAmount.Equal(dec("52.5")))
	assert.Len(t, got.Items, 2)
}

func TestService_Create_InsufficientStockListsAllShortages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	p1 := testProduct("Milk 500ml", "25", 2)
	p2 := testProduct("Bread", "30", 0)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p1.ID, p2.ID}).
		Return(map[uuid.UUID]*product.Product{p1.ID: p1, p2.ID: p2}, nil)
	tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items: []sale.ItemParams{
			{ProductID: p1.ID, Quantity: 5},
			{ProductID: p2.ID, Quantity: 1},
		},
		PaymentMethod: sale.MethodCash,
	})
	assert.Nil(t, got)

	var stockErr *product.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 2)
	assert.Equal(t, p1.ID, stockErr.Shortages[0].ProductID)
	assert.Equal(t, 2, stockErr.Shortages[0].Available)
	assert.Equal(t, 5, stockErr.Shortages[0].Requested)
	assert.Equal(t, p2.ID, stockErr.Shortages[1].ProductID)
}

func TestService_Create_CreditLimitExceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Cooking Oil 5l", "150", 10)
	cust := &customer.Customer{
		ID:          uuid.New(),
		Name:        "Asha",
		CreditLimit: dec("100"),
	}

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
		Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
	tx.EXPECT().LockCustomer(gomock.Any(), cust.ID).Return(cust, nil)
	// No CreateSale, no stock decrement, no commit: the failed gate leaves
	// zero trace.
	tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		CustomerID:    &cust.ID,
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: sale.MethodCredit,
		AmountPaid:    decimal.Zero,
	})
	assert.Nil(t, got)

	var limitErr *customer.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.True(t, limitErr.Limit.Equal(dec("100")))
	assert.True(t, limitErr.Requested.Equal(dec("157.5")))
}

func TestService_Create_CreditRequiresCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Tea 250g", "40", 10)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
		Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
	tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("10"),
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, sale.ErrCreditRequired)
}

func TestService_Create_PartialPaymentExtendsCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	actor := testActor()
	p := testProduct("Flour 5kg", "100", 10)
	cust := &customer.Customer{
		ID:            uuid.New(),
		Name:          "Ravi",
		CreditBalance: dec("80"),
		CreditLimit:   dec("100"),
		TotalSpent:    dec("500"),
	}

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
		Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
	tx.EXPECT().LockCustomer(gomock.Any(), cust.ID).Return(cust, nil)
	tx.EXPECT().NextBillSequence(gomock.Any(), gomock.Any()).Return(int64(7), nil)
	tx.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
			sl.ID = uuid.New()
			return nil
		})
	tx.EXPECT().ApplyStockDecrement(gomock.Any(), p, 1, gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().
		UpdateCustomer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *customer.Customer) error {
			assert.True(t, c.CreditBalance.Equal(dec("95")))
			assert.Equal(t, 1, c.TotalPurchases)
			assert.True(t, c.TotalSpent.Equal(dec("590")))
			return nil
		})
	tx.EXPECT().
		CreateCreditTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txn *credit.Transaction) error {
			assert.Equal(t, credit.TypeCreditTaken, txn.Type)
			assert.True(t, txn.Amount.Equal(dec("15")))
			assert.True(t, txn.BalanceBefore.Equal(dec("80")))
			assert.True(t, txn.BalanceAfter.Equal(dec("95")))
			assert.Equal(t, actor.ID, txn.CreatedBy)
			require.NotNil(t, txn.SaleID)
			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	// Total 105, paid 90: the remaining 15 fits under the limit.
	got, err := svc.Create(context.Background(), actor, sale.CreateParams{
		CustomerID:    &cust.ID,
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("90"),
	})
	require.NoError(t, err)

	assert.True(t, got.CreditAmount.Equal(dec("15")))
	assert.Equal(t, sale.StatusPartial, got.PaymentStatus)
	require.NotNil(t, got.Customer)
	assert.True(t, got.Customer.CreditBalance.Equal(dec("95")))
}

func TestService_Create_CustomerPayingInFullSkipsLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Soap", "20", 10)
	cust := &customer.Customer{
		ID:            uuid.New(),
		Name:          "Meena",
		CreditBalance: dec("30"),
		CreditLimit:   dec("100"),
	}

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
		Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
	tx.EXPECT().LockCustomer(gomock.Any(), cust.ID).Return(cust, nil)
	tx.EXPECT().NextBillSequence(gomock.Any(), gomock.Any()).Return(int64(8), nil)
	tx.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
			sl.ID = uuid.New()
			return nil
		})
	tx.EXPECT().ApplyStockDecrement(gomock.Any(), p, 1, gomock.Any(), gomock.Any()).Return(nil)
	// Purchase counters still advance, but the balance and the ledger are
	// untouched for a fully paid sale.
	tx.EXPECT().
		UpdateCustomer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *customer.Customer) error {
			assert.True(t, c.CreditBalance.Equal(dec("30")))
			assert.Equal(t, 1, c.TotalPurchases)
			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		CustomerID:    &cust.ID,
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("21"),
	})
	require.NoError(t, err)
	assert.Equal(t, sale.StatusPaid, got.PaymentStatus)
}

func TestService_Create_DiscountAppliedBeforeTax(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Ghee 1l", "200", 10)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
		Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
	tx.EXPECT().NextBillSequence(gomock.Any(), gomock.Any()).Return(int64(9), nil)
	tx.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
			sl.ID = uuid.New()
			return nil
		})
	tx.EXPECT().ApplyStockDecrement(gomock.Any(), p, 2, gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	// 2 x 200 with 10 off per unit: subtotal 400, discount 20, tax on 380.
	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 2, Discount: dec("10")}},
		PaymentMethod: sale.MethodCard,
		AmountPaid:    dec("399"),
	})
	require.NoError(t, err)

	assert.True(t, got.Subtotal.Equal(dec("400")))
	assert.True(t, got.DiscountAmount.Equal(dec("20")))
	assert.True(t, got.TaxAmount.Equal(dec("19")))
	assert.True(t, got.TotalAmount.Equal(dec("399")))
	assert.True(t, got.Items[0].LineTotal.Equal(dec("380")))
}

func TestService_Create_Validation(t *testing.T) {
	type testCase struct {
		name           string
		params         sale.CreateParams
		wantViolations int
	}

	productID := uuid.New()

	tests := []testCase{
		{
			name: "NoItems",
			params: sale.CreateParams{
				PaymentMethod: sale.MethodCash,
			},
			wantViolations: 1,
		},
		{
			name: "BadQuantityAndDiscount",
			params: sale.CreateParams{
				Items: []sale.ItemParams{
					{ProductID: productID, Quantity: 0},
					{ProductID: productID, Quantity: 1, Discount: dec("-5")},
				},
				PaymentMethod: sale.MethodCash,
			},
			wantViolations: 2,
		},
		{
			name: "UnknownMethodAndNegativePaid",
			params: sale.CreateParams{
				Items:         []sale.ItemParams{{ProductID: productID, Quantity: 1}},
				PaymentMethod: "CHEQUE",
				AmountPaid:    dec("-1"),
			},
			wantViolations: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// Validation fails before any unit of work opens.
			repo := sale.NewMockRepository(ctrl)
			svc := sale.NewService(repo, taxRate)

			got, err := svc.Create(context.Background(), testActor(), tt.params)
			assert.Nil(t, got)

			var vErr *sale.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Len(t, vErr.Violations, tt.wantViolations)
		})
	}
}

func TestService_Create_OverpaidSaleRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Salt", "10", 10)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
		Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
	tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("100"),
	})
	assert.Nil(t, got)

	var vErr *sale.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestService_Create_UnknownProduct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	tx := sale.NewMockTx(ctrl)
	svc := sale.NewService(repo, taxRate)

	id := uuid.New()

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		LockProducts(gomock.Any(), []uuid.UUID{id}).
		Return(nil, product.ErrNotFound)
	tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items:         []sale.ItemParams{{ProductID: id, Quantity: 1}},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("10.5"),
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestService_Create_RetriesOnBillNumberConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Biscuits", "15", 10)

	expectAttempt := func(createErr error) *sale.MockTx {
		tx := sale.NewMockTx(ctrl)
		tx.EXPECT().
			LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
			Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
		tx.EXPECT().NextBillSequence(gomock.Any(), gomock.Any()).Return(int64(100), nil)
		tx.EXPECT().Rollback().Return(nil)

		if createErr != nil {
			tx.EXPECT().CreateSale(gomock.Any(), gomock.Any()).Return(createErr)
			return tx
		}

		tx.EXPECT().
			CreateSale(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
				sl.ID = uuid.New()
				return nil
			})
		tx.EXPECT().ApplyStockDecrement(gomock.Any(), p, 1, gomock.Any(), gomock.Any()).Return(nil)
		tx.EXPECT().Commit().Return(nil)

		return tx
	}

	first := expectAttempt(sale.ErrBillNumberConflict)
	second := expectAttempt(nil)

	gomock.InOrder(
		repo.EXPECT().Begin(gomock.Any()).Return(first, nil),
		repo.EXPECT().Begin(gomock.Any()).Return(second, nil),
	)

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("15.75"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
}

func TestService_Create_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	svc := sale.NewService(repo, taxRate)

	p := testProduct("Biscuits", "15", 10)

	for range 3 {
		tx := sale.NewMockTx(ctrl)
		tx.EXPECT().
			LockProducts(gomock.Any(), []uuid.UUID{p.ID}).
			Return(map[uuid.UUID]*product.Product{p.ID: p}, nil)
		tx.EXPECT().NextBillSequence(gomock.Any(), gomock.Any()).Return(int64(100), nil)
		tx.EXPECT().CreateSale(gomock.Any(), gomock.Any()).Return(sale.ErrBillNumberConflict)
		tx.EXPECT().Rollback().Return(nil)
		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	}

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items:         []sale.ItemParams{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: sale.MethodCash,
		AmountPaid:    dec("15.75"),
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, sale.ErrBillNumberConflict)
}

func TestService_Get(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *sale.MockRepository, id uuid.UUID)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *sale.MockRepository, id uuid.UUID) {
				m.EXPECT().GetSale(gomock.Any(), id).Return(&sale.Sale{ID: id}, nil)
			},
		},
		{
			name: "NotFound",
			setupMock: func(m *sale.MockRepository, id uuid.UUID) {
				m.EXPECT().GetSale(gomock.Any(), id).Return(nil, sale.ErrNotFound)
			},
			wantErr: sale.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := sale.NewMockRepository(ctrl)
			id := uuid.New()
			tt.setupMock(repo, id)

			svc := sale.NewService(repo, taxRate)
			got, err := svc.Get(context.Background(), id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, id, got.ID)
		})
	}
}

func TestService_ListToday(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	svc := sale.NewService(repo, taxRate)

	repo.EXPECT().
		ListSales(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
			require.NotNil(t, filter.StartDate)
			require.NotNil(t, filter.EndDate)
			assert.Equal(t, 0, filter.StartDate.Hour())
			assert.Equal(t, 24*time.Hour, filter.EndDate.Sub(*filter.StartDate))
			return []*sale.Sale{{ID: uuid.New()}}, nil
		})

	got, err := svc.ListToday(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_Create_BeginError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	svc := sale.NewService(repo, taxRate)

	repo.EXPECT().Begin(gomock.Any()).Return(nil, errors.New("db down"))

	got, err := svc.Create(context.Background(), testActor(), sale.CreateParams{
		Items:         []sale.ItemParams{{ProductID: uuid.New(), Quantity: 1}},
		PaymentMethod: sale.MethodCash,
	})
	assert.Nil(t, got)
	assert.Error(t, err)
}
