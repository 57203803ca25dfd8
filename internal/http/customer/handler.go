package customer

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

	"github.com/localpos/backend/internal/customer"
)

type Handler struct {
	svc *customer.Service
}

func NewHandler(svc *customer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.deactivate)
}

type customerResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Address        string          `json:"address,omitempty"`
	CreditBalance  decimal.Decimal `json:"credit_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	LoyaltyPoints  int             `json:"loyalty_points"`
	TotalPurchases int             `json:"total_purchases"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	Status         customer.Status `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		CreditBalance:  c.CreditBalance,
		CreditLimit:    c.CreditLimit,
		LoyaltyPoints:  c.LoyaltyPoints,
		TotalPurchases: c.TotalPurchases,
		TotalSpent:     c.TotalSpent,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
	}
}

type createCustomerRequest struct {
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.CreditLimit.IsNegative() {
		http.Error(w, "name and a non-negative credit limit are required", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), customer.CreateParams{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, toResponse(c))
}

type updateCustomerRequest struct {
	Name        *string          `json:"name,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Email       *string          `json:"email,omitempty"`
	Address     *string          `json:"address,omitempty"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		http.Error(w, "credit limit must not be negative", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Update(r.Context(), id, customer.UpdateParams{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, toResponse(c))
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := customer.ListFilter{PageSize: 20}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(customer.Status(s))
	}

	if s := r.URL.Query().Get("search"); s != "" {
		filter.Search = new(s)
	}

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

	customers, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toResponse(c)
	}

	writeJSON(w, resp)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, customer.ErrNotFound) {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
