package credit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/localpos/backend/internal/auth"
	"github.com/localpos/backend/internal/credit"
	"github.com/localpos/backend/internal/customer"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testActor() auth.Actor {
	return auth.Actor{ID: uuid.New(), Username: "owner", Role: "ADMIN"}
}

func TestService_RecordPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := credit.NewMockRepository(ctrl)
	ptx := credit.NewMockPaymentTx(ctrl)
	svc := credit.NewService(repo)

	actor := testActor()
	cust := &customer.Customer{
		ID:            uuid.New(),
		Name:          "Ravi",
		CreditBalance: dec("95"),
		CreditLimit:   dec("100"),
	}

	repo.EXPECT().BeginPayment(gomock.Any(), cust.ID).Return(ptx, nil)
	ptx.EXPECT().Customer().Return(cust)
	ptx.EXPECT().
		UpdateBalance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, balance decimal.Decimal) error {
			assert.True(t, balance.Equal(dec("45")))
			return nil
		})
	ptx.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txn *credit.Transaction) error {
			txn.ID = uuid.New()
			assert.Equal(t, credit.TypePaymentMade, txn.Type)
			assert.True(t, txn.Amount.Equal(dec("50")))
			assert.True(t, txn.BalanceBefore.Equal(dec("95")))
			assert.True(t, txn.BalanceAfter.Equal(dec("45")))
			assert.Equal(t, "CASH", txn.PaymentMethod)
			assert.Equal(t, actor.ID, txn.CreatedBy)
			assert.Nil(t, txn.SaleID)
			return nil
		})
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil)

	got, err := svc.RecordPayment(context.Background(), actor, credit.PaymentParams{
		CustomerID:    cust.ID,
		Amount:        dec("50"),
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	assert.True(t, got.Customer.CreditBalance.Equal(dec("45")))
	assert.NotEmpty(t, got.Transaction.ID)
}

func TestService_RecordPayment_Overpayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := credit.NewMockRepository(ctrl)
	ptx := credit.NewMockPaymentTx(ctrl)
	svc := credit.NewService(repo)

	cust := &customer.Customer{
		ID:            uuid.New(),
		CreditBalance: dec("95"),
	}

	repo.EXPECT().BeginPayment(gomock.Any(), cust.ID).Return(ptx, nil)
	ptx.EXPECT().Customer().Return(cust)
	// The balance is never touched; the whole unit rolls back.
	ptx.EXPECT().Rollback().Return(nil)

	got, err := svc.RecordPayment(context.Background(), testActor(), credit.PaymentParams{
		CustomerID: cust.ID,
		Amount:     dec("200"),
	})
	assert.Nil(t, got)

	var overErr *credit.OverPaymentError
	require.ErrorAs(t, err, &overErr)
	assert.True(t, overErr.Amount.Equal(dec("200")))
	assert.True(t, overErr.Balance.Equal(dec("95")))
}

func TestService_RecordPayment_NoOutstandingCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := credit.NewMockRepository(ctrl)
	ptx := credit.NewMockPaymentTx(ctrl)
	svc := credit.NewService(repo)

	cust := &customer.Customer{ID: uuid.New()}

	repo.EXPECT().BeginPayment(gomock.Any(), cust.ID).Return(ptx, nil)
	ptx.EXPECT().Customer().Return(cust)
	ptx.EXPECT().Rollback().Return(nil)

	got, err := svc.RecordPayment(context.Background(), testActor(), credit.PaymentParams{
		CustomerID: cust.ID,
		Amount:     dec("10"),
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, credit.ErrNoOutstandingCredit)
}

func TestService_RecordPayment_InvalidAmount(t *testing.T) {
	type testCase struct {
		name   string
		amount string
	}

	tests := []testCase{
		{name: "Zero", amount: "0"},
		{name: "Negative", amount: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// Rejected before the unit of work opens.
			repo := credit.NewMockRepository(ctrl)
			svc := credit.NewService(repo)

			got, err := svc.RecordPayment(context.Background(), testActor(), credit.PaymentParams{
				CustomerID: uuid.New(),
				Amount:     dec(tt.amount),
			})
			assert.Nil(t, got)
			assert.ErrorIs(t, err, credit.ErrInvalidAmount)
		})
	}
}

func TestService_RecordPayment_UnknownCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := credit.NewMockRepository(ctrl)
	svc := credit.NewService(repo)

	id := uuid.New()
	repo.EXPECT().BeginPayment(gomock.Any(), id).Return(nil, customer.ErrNotFound)

	got, err := svc.RecordPayment(context.Background(), testActor(), credit.PaymentParams{
		CustomerID: id,
		Amount:     dec("10"),
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestService_RecordPayment_CommitError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := credit.NewMockRepository(ctrl)
	ptx := credit.NewMockPaymentTx(ctrl)
	svc := credit.NewService(repo)

	cust := &customer.Customer{
		ID:            uuid.New(),
		CreditBalance: dec("50"),
	}

	repo.EXPECT().BeginPayment(gomock.Any(), cust.ID).Return(ptx, nil)
	ptx.EXPECT().Customer().Return(cust)
	ptx.EXPECT().UpdateBalance(gomock.Any(), gomock.Any()).Return(nil)
	ptx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	ptx.EXPECT().Commit().Return(errors.New("serialization failure"))
	ptx.EXPECT().Rollback().Return(nil)

	got, err := svc.RecordPayment(context.Background(), testActor(), credit.PaymentParams{
		CustomerID: cust.ID,
		Amount:     dec("20"),
	})
	assert.Nil(t, got)
	assert.Error(t, err)
}

func TestService_TotalOutstanding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := credit.NewMockRepository(ctrl)
	svc := credit.NewService(repo)

	repo.EXPECT().TotalOutstanding(gomock.Any()).Return(dec("1234.50"), nil)

	got, err := svc.TotalOutstanding(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1234.50")))
}

func TestService_ListOutstanding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := credit.NewMockRepository(ctrl)
	svc := credit.NewService(repo)

	repo.EXPECT().ListOutstanding(gomock.Any()).Return([]*customer.Customer{
		{ID: uuid.New(), CreditBalance: dec("95")},
		{ID: uuid.New(), CreditBalance: dec("40")},
	}, nil)

	got, err := svc.ListOutstanding(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
