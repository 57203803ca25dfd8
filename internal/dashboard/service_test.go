package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/localpos/backend/internal/dashboard"
	"github.com/localpos/backend/internal/product"
)

func TestService_Snapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)
	productRepo := product.NewMockRepository(ctrl)
	svc := dashboard.NewService(repo, product.NewService(productRepo))

	lowStock := &product.Product{ID: uuid.New(), Name: "Milk 500ml", StockQuantity: 1, MinStockLevel: 5}
	expiring := &product.Product{ID: uuid.New(), Name: "Curd 200g"}

	repo.EXPECT().
		TodaySales(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(dashboard.TodaySales{
			TotalAmount: decimal.RequireFromString("1890.50"),
			BillsCount:  12,
			CashSales:   9,
			CreditSales: 3,
		}, nil)
	repo.EXPECT().
		CreditOutstanding(gomock.Any()).
		Return(dashboard.CreditOutstanding{
			TotalAmount:    decimal.RequireFromString("450"),
			CustomersCount: 4,
		}, nil)
	repo.EXPECT().
		InventoryCounts(gomock.Any(), gomock.Any()).
		Return(dashboard.Inventory{ActiveProducts: 80, LowStockCount: 1, ExpiringCount: 1}, nil)
	repo.EXPECT().
		CustomerCounts(gomock.Any(), gomock.Any()).
		Return(dashboard.Customers{Total: 25, NewThisWeek: 2}, nil)
	productRepo.EXPECT().ListLowStock(gomock.Any()).Return([]*product.Product{lowStock}, nil)
	productRepo.EXPECT().
		ListExpiring(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*product.Product{expiring}, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), snap.TodaySales.BillsCount)
	assert.True(t, snap.TodaySales.TotalAmount.Equal(decimal.RequireFromString("1890.50")))
	assert.Equal(t, int64(4), snap.CreditOutstanding.CustomersCount)
	assert.Equal(t, int64(80), snap.Inventory.ActiveProducts)
	assert.Equal(t, int64(2), snap.Customers.NewThisWeek)

	require.Len(t, snap.Alerts.LowStock, 1)
	assert.Equal(t, lowStock.ID, snap.Alerts.LowStock[0].ID)
	require.Len(t, snap.Alerts.Expiring, 1)
	assert.Equal(t, expiring.ID, snap.Alerts.Expiring[0].ID)
}

func TestService_Snapshot_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)
	productRepo := product.NewMockRepository(ctrl)
	svc := dashboard.NewService(repo, product.NewService(productRepo))

	repo.EXPECT().
		TodaySales(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(dashboard.TodaySales{}, errors.New("db error"))

	snap, err := svc.Snapshot(context.Background())
	assert.Nil(t, snap)
	assert.Error(t, err)
}
