package sale

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
	"github.com/localpos/backend/internal/customer"
	"github.com/localpos/backend/internal/product"
	"github.com/localpos/backend/internal/sale"
)

type Handler struct {
	svc *sale.Service
}

func NewHandler(svc *sale.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/today", h.listToday)
	r.Get("/bill/{billNumber}", h.getByBillNumber)
	r.Get("/{id}", h.get)
}

type saleItemRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

type createSaleRequest struct {
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	Items         []saleItemRequest  `json:"items"`
	PaymentMethod sale.PaymentMethod `json:"payment_method"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	Notes         string             `json:"notes,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items := make([]sale.ItemParams, len(req.Items))
	for i, item := range req.Items {
		items[i] = sale.ItemParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		}
	}

	sl, err := h.svc.Create(r.Context(), actor, sale.CreateParams{
		CustomerID:    req.CustomerID,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    req.AmountPaid,
		Notes:         req.Notes,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(sl)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeCreateError(w http.ResponseWriter, err error) {
	var validationErr *sale.ValidationError

	var stockErr *product.InsufficientStockError

	var limitErr *customer.LimitExceededError

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &stockErr),
		errors.As(err, &limitErr),
		errors.Is(err, sale.ErrCreditRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, product.ErrNotFound), errors.Is(err, customer.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	sl, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, toResponse(sl))
}

func (h *Handler) getByBillNumber(w http.ResponseWriter, r *http.Request) {
	sl, err := h.svc.GetByBillNumber(r.Context(), chi.URLParam(r, "billNumber"))
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, toResponse(sl))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := sale.ListFilter{PageSize: 20}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			end := t.AddDate(0, 0, 1)
			filter.EndDate = new(end)
		}
	}

	filter.Page = pageParam(r, "page")

	if size := pageParam(r, "page_size"); size > 0 {
		filter.PageSize = size
	}

	sales, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponseList(sales))
}

func (h *Handler) listToday(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListToday(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponseList(sales))
}

func pageParam(r *http.Request, name string) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
