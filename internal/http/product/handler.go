package product

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

	"github.com/localpos/backend/internal/product"
)

type Handler struct {
	svc *product.Service
}

func NewHandler(svc *product.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/low-stock", h.listLowStock)
	r.Get("/expiring", h.listExpiring)
	r.Get("/barcode/{barcode}", h.getByBarcode)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.deactivate)
	r.Post("/{id}/adjust-stock", h.adjustStock)
	r.Get("/{id}/movements", h.listMovements)
}

type createProductRequest struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Barcode       *string         `json:"barcode,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Price.IsNegative() || req.StockQuantity < 0 {
		http.Error(w, "name, non-negative price and stock are required", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), product.CreateParams{
		Name:          req.Name,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Barcode:       req.Barcode,
		ExpiryDate:    req.ExpiryDate,
	})
	if err != nil {
		if errors.Is(err, product.ErrDuplicateBarcode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, toResponse(p))
}

func (h *Handler) getByBarcode(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetByBarcode(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, toResponse(p))
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	MinStockLevel *int             `json:"min_stock_level,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), id, product.UpdateParams{
		Name:          req.Name,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		MinStockLevel: req.MinStockLevel,
		Barcode:       req.Barcode,
		ExpiryDate:    req.ExpiryDate,
	})
	if err != nil {
		if errors.Is(err, product.ErrDuplicateBarcode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeError(w, err)

		return
	}

	writeJSON(w, toResponse(p))
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := product.ListFilter{PageSize: 20}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(product.Status(s))
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

	products, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponseList(products))
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListLowStock(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponseList(products))
}

func (h *Handler) listExpiring(w http.ResponseWriter, r *http.Request) {
	days := 7

	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			days = n
		}
	}

	products, err := h.svc.ListExpiring(r.Context(), days)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponseList(products))
}

type adjustStockRequest struct {
	Change int    `json:"change"`
	Notes  string `json:"notes,omitempty"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Change == 0 {
		http.Error(w, "change must not be zero", http.StatusBadRequest)
		return
	}

	p, movement, err := h.svc.AdjustStock(r.Context(), id, req.Change, req.Notes)
	if err != nil {
		var stockErr *product.InsufficientStockError
		if errors.As(err, &stockErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeError(w, err)

		return
	}

	writeJSON(w, adjustStockResponse{
		Product:  toResponse(p),
		Movement: toMovementResponse(movement),
	})
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	movements, err := h.svc.Movements(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]movementResponse, len(movements))
	for i, m := range movements {
		resp[i] = toMovementResponse(m)
	}

	writeJSON(w, resp)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, product.ErrNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
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
