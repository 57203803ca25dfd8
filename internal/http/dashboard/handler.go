package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/dashboard"
	"github.com/localpos/backend/internal/product"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.snapshot)
}

type alertProduct struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	StockQuantity int        `json:"stock_quantity"`
	MinStockLevel int        `json:"min_stock_level"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}

type snapshotResponse struct {
	TodaySales struct {
		TotalAmount decimal.Decimal `json:"total_amount"`
		BillsCount  int64           `json:"bills_count"`
		CashSales   int64           `json:"cash_sales"`
		CreditSales int64           `json:"credit_sales"`
	} `json:"today_sales"`

	CreditOutstanding struct {
		TotalAmount    decimal.Decimal `json:"total_amount"`
		CustomersCount int64           `json:"customers_count"`
	} `json:"credit_outstanding"`

	Inventory struct {
		ActiveProducts int64 `json:"active_products"`
		LowStockCount  int64 `json:"low_stock_count"`
		ExpiringCount  int64 `json:"expiring_count"`
	} `json:"inventory"`

	Customers struct {
		Total       int64 `json:"total"`
		NewThisWeek int64 `json:"new_this_week"`
	} `json:"customers"`

	Alerts struct {
		LowStock []alertProduct `json:"low_stock"`
		Expiring []alertProduct `json:"expiring"`
	} `json:"alerts"`
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var resp snapshotResponse

	resp.TodaySales.TotalAmount = snap.TodaySales.TotalAmount
	resp.TodaySales.BillsCount = snap.TodaySales.BillsCount
	resp.TodaySales.CashSales = snap.TodaySales.CashSales
	resp.TodaySales.CreditSales = snap.TodaySales.CreditSales

	resp.CreditOutstanding.TotalAmount = snap.CreditOutstanding.TotalAmount
	resp.CreditOutstanding.CustomersCount = snap.CreditOutstanding.CustomersCount

	resp.Inventory.ActiveProducts = snap.Inventory.ActiveProducts
	resp.Inventory.LowStockCount = snap.Inventory.LowStockCount
	resp.Inventory.ExpiringCount = snap.Inventory.ExpiringCount

	resp.Customers.Total = snap.Customers.Total
	resp.Customers.NewThisWeek = snap.Customers.NewThisWeek

	resp.Alerts.LowStock = toAlertProducts(snap.Alerts.LowStock)
	resp.Alerts.Expiring = toAlertProducts(snap.Alerts.Expiring)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toAlertProducts(products []*product.Product) []alertProduct {
	alerts := make([]alertProduct, len(products))
	for i, p := range products {
		alerts[i] = alertProduct{
			ID:            p.ID,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			MinStockLevel: p.MinStockLevel,
			ExpiryDate:    p.ExpiryDate,
		}
	}

	return alerts
}
