package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/sale"
)

type itemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type customerView struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

type saleResponse struct {
	ID             uuid.UUID          `json:"id"`
	BillNumber     string             `json:"bill_number"`
	Customer       *customerView      `json:"customer,omitempty"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	AmountPaid     decimal.Decimal    `json:"amount_paid"`
	CreditAmount   decimal.Decimal    `json:"credit_amount"`
	PaymentMethod  sale.PaymentMethod `json:"payment_method"`
	PaymentStatus  sale.PaymentStatus `json:"payment_status"`
	Notes          string             `json:"notes,omitempty"`
	Items          []itemResponse     `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
}

func toResponse(sl *sale.Sale) saleResponse {
	resp := saleResponse{
		ID:             sl.ID,
		BillNumber:     sl.BillNumber,
		Subtotal:       sl.Subtotal,
		DiscountAmount: sl.DiscountAmount,
		TaxAmount:      sl.TaxAmount,
		TotalAmount:    sl.TotalAmount,
		AmountPaid:     sl.AmountPaid,
		CreditAmount:   sl.CreditAmount,
		PaymentMethod:  sl.PaymentMethod,
		PaymentStatus:  sl.PaymentStatus,
		Notes:          sl.Notes,
		Items:          make([]itemResponse, len(sl.Items)),
		CreatedAt:      sl.CreatedAt,
	}

	if sl.Customer != nil {
		resp.Customer = &customerView{
			ID:            sl.Customer.ID,
			Name:          sl.Customer.Name,
			Phone:         sl.Customer.Phone,
			Email:         sl.Customer.Email,
			CreditBalance: sl.Customer.CreditBalance,
		}
	}

	for i, item := range sl.Items {
		resp.Items[i] = itemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			LineTotal:   item.LineTotal,
		}
	}

	return resp
}

func toResponseList(sales []*sale.Sale) []saleResponse {
	resp := make([]saleResponse, len(sales))
	for i, sl := range sales {
		resp[i] = toResponse(sl)
	}

	return resp
}
