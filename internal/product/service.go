package product

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=product
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	ListProducts(ctx context.Context, filter ListFilter) ([]*Product, error)
	ListLowStock(ctx context.Context) ([]*Product, error)
	ListExpiring(ctx context.Context, from, until time.Time) ([]*Product, error)

	AdjustStock(ctx context.Context, id uuid.UUID, change int, notes string) (*Product, *StockMovement, error)
	ListMovements(ctx context.Context, productID uuid.UUID) ([]*StockMovement, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name          string
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	StockQuantity int
	MinStockLevel int
	Barcode       *string
	ExpiryDate    *time.Time
}

type ListFilter struct {
	Status   *Status
	Search   *string
	Page     int
	PageSize int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	p := &Product{
		Name:          params.Name,
		Price:         params.Price,
		CostPrice:     params.CostPrice,
		StockQuantity: params.StockQuantity,
		MinStockLevel: params.MinStockLevel,
		Barcode:       params.Barcode,
		ExpiryDate:    params.ExpiryDate,
		Status:        StatusActive,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.GetProductByBarcode(ctx, barcode)
}

type UpdateParams struct {
	Name          *string
	Price         *decimal.Decimal
	CostPrice     *decimal.Decimal
	MinStockLevel *int
	Barcode       *string
	ExpiryDate    *time.Time
}

// Update edits descriptive fields only. Stock is mutated exclusively
// through sales and AdjustStock so the movement ledger stays complete.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		p.Name = *params.Name
	}

	if params.Price != nil {
		p.Price = *params.Price
	}

	if params.CostPrice != nil {
		p.CostPrice = *params.CostPrice
	}

	if params.MinStockLevel != nil {
		p.MinStockLevel = *params.MinStockLevel
	}

	if params.Barcode != nil {
		p.Barcode = params.Barcode
	}

	if params.ExpiryDate != nil {
		p.ExpiryDate = params.ExpiryDate
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Deactivate is a status transition, not a delete. Historical sales and
// movements keep referencing the product.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Status = StatusInactive
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *Service) ListLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) ListExpiring(ctx context.Context, withinDays int) ([]*Product, error) {
	now := time.Now()
	return s.repo.ListExpiring(ctx, now, now.AddDate(0, 0, withinDays))
}

// AdjustStock records a manual correction through the same ledger
// primitive sales use: the product row and its movement commit together.
func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, change int, notes string) (*Product, *StockMovement, error) {
	return s.repo.AdjustStock(ctx, id, change, notes)
}

func (s *Service) Movements(ctx context.Context, productID uuid.UUID) ([]*StockMovement, error) {
	return s.repo.ListMovements(ctx, productID)
}
