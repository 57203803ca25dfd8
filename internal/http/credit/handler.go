package credit

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/auth"
	"github.com/localpos/backend/internal/credit"
	"github.com/localpos/backend/internal/customer"
)

type Handler struct {
	svc *credit.Service
}

func NewHandler(svc *credit.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/payments", h.recordPayment)
	r.Get("/transactions", h.listTransactions)
	r.Get("/transactions/customer/{customerID}", h.listCustomerTransactions)
	r.Get("/outstanding", h.listOutstanding)
	r.Get("/outstanding/total", h.totalOutstanding)
}

type paymentRequest struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

type transactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	SaleID        *uuid.UUID      `json:"sale_id,omitempty"`
	Type          string          `json:"transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type customerResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	CreditBalance  decimal.Decimal `json:"credit_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	TotalPurchases int             `json:"total_purchases"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
}

type paymentResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Customer    customerResponse    `json:"customer"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.RecordPayment(r.Context(), actor, credit.PaymentParams{
		CustomerID:    req.CustomerID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		var overErr *credit.OverPaymentError

		switch {
		case errors.Is(err, credit.ErrNoOutstandingCredit),
			errors.Is(err, credit.ErrInvalidAmount),
			errors.As(err, &overErr):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, customer.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(paymentResponse{
		Transaction: toTransactionResponse(result.Transaction),
		Customer:    toCustomerResponse(result.Customer),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter := credit.ListFilter{Page: 1, PageSize: 20}

	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			filter.Page = n
		}
	}

	if s := r.URL.Query().Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			filter.PageSize = n
		}
	}

	txns, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toTransactionResponseList(txns))
}

func (h *Handler) listCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	txns, err := h.svc.ListCustomerTransactions(r.Context(), customerID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toTransactionResponseList(txns))
}

func (h *Handler) listOutstanding(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListOutstanding(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toCustomerResponse(c)
	}

	writeJSON(w, resp)
}

func (h *Handler) totalOutstanding(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.TotalOutstanding(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]decimal.Decimal{"total_outstanding": total})
}

func toTransactionResponse(t *credit.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		SaleID:        t.SaleID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		PaymentMethod: t.PaymentMethod,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
	}
}

func toTransactionResponseList(txns []*credit.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txns))
	for i, t := range txns {
		resp[i] = toTransactionResponse(t)
	}

	return resp
}

func toCustomerResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		CreditBalance:  c.CreditBalance,
		CreditLimit:    c.CreditLimit,
		TotalPurchases: c.TotalPurchases,
		TotalSpent:     c.TotalSpent,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
