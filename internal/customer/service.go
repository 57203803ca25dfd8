package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=customer
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	ListCustomers(ctx context.Context, filter ListFilter) ([]*Customer, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	Phone       string
	Email       string
	Address     string
	CreditLimit decimal.Decimal
}

type UpdateParams struct {
	Name        *string
	Phone       *string
	Email       *string
	Address     *string
	CreditLimit *decimal.Decimal
}

type ListFilter struct {
	Status   *Status
	Search   *string
	Page     int
	PageSize int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	c := &Customer{
		Name:          params.Name,
		Phone:         params.Phone,
		Email:         params.Email,
		Address:       params.Address,
		CreditBalance: decimal.Zero,
		CreditLimit:   params.CreditLimit,
		TotalSpent:    decimal.Zero,
		Status:        StatusActive,
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// Update edits profile fields and the credit limit. Lowering the limit
// below an outstanding balance is allowed; the limit gates new credit only.
// The balance itself is mutated exclusively by the two ledgers.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = *params.Name
	}

	if params.Phone != nil {
		c.Phone = *params.Phone
	}

	if params.Email != nil {
		c.Email = *params.Email
	}

	if params.Address != nil {
		c.Address = *params.Address
	}

	if params.CreditLimit != nil {
		c.CreditLimit = *params.CreditLimit
	}

	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Status = StatusInactive
	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx, filter)
}
