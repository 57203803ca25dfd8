package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/product"
)

type productResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Barcode       *string         `json:"barcode,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	Status        product.Status  `json:"status"`
	IsLowStock    bool            `json:"is_low_stock"`
	IsExpiring    bool            `json:"is_expiring_soon"`
	CreatedAt     time.Time       `json:"created_at"`
}

const expiryWindowDays = 7

func toResponse(p *product.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Barcode:       p.Barcode,
		ExpiryDate:    p.ExpiryDate,
		Status:        p.Status,
		IsLowStock:    p.LowStock(),
		IsExpiring:    p.ExpiringSoon(time.Now(), expiryWindowDays),
		CreatedAt:     p.CreatedAt,
	}
}

func toResponseList(products []*product.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	return resp
}

type movementResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	SaleID         *uuid.UUID `json:"sale_id,omitempty"`
	MovementType   string     `json:"movement_type"`
	QuantityChange int        `json:"quantity_change"`
	StockBefore    int        `json:"stock_before"`
	StockAfter     int        `json:"stock_after"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toMovementResponse(m *product.StockMovement) movementResponse {
	return movementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		SaleID:         m.SaleID,
		MovementType:   string(m.MovementType),
		QuantityChange: m.QuantityChange,
		StockBefore:    m.StockBefore,
		StockAfter:     m.StockAfter,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
	}
}

type adjustStockResponse struct {
	Product  productResponse  `json:"product"`
	Movement movementResponse `json:"movement"`
}
