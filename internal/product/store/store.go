package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/localpos/backend/internal/product"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectProductColumns = `
	id, name, price, cost_price, stock_quantity, min_stock_level,
	barcode, expiry_date, status, created_at, updated_at
`

func scanProduct(s scanner) (*product.Product, error) {
	var p product.Product

	var statusStr string

	var barcode sql.NullString

	var expiry sql.NullTime

	if err := s.Scan(
		&p.ID, &p.Name, &p.Price, &p.CostPrice, &p.StockQuantity, &p.MinStockLevel,
		&barcode, &expiry, &statusStr, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = product.Status(statusStr)

	if barcode.Valid {
		p.Barcode = &barcode.String
	}

	if expiry.Valid {
		p.ExpiryDate = &expiry.Time
	}

	return &p, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func (s *Store) CreateProduct(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (name, price, cost_price, stock_quantity, min_stock_level, barcode, expiry_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.Name,
		p.Price,
		p.CostPrice,
		p.StockQuantity,
		p.MinStockLevel,
		p.Barcode,
		p.ExpiryDate,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "products_barcode_key") {
			return product.ErrDuplicateBarcode
		}

		return fmt.Errorf("creating product: %w", err)
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := `SELECT ` + selectProductColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	query := `SELECT ` + selectProductColumns + ` FROM products WHERE barcode = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, barcode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("getting product by barcode: %w", err)
	}

	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $1, price = $2, cost_price = $3, min_stock_level = $4,
		    barcode = $5, expiry_date = $6, status = $7, updated_at = NOW()
		WHERE id = $8
	`

	_, err := s.db.ExecContext(ctx, query,
		p.Name,
		p.Price,
		p.CostPrice,
		p.MinStockLevel,
		p.Barcode,
		p.ExpiryDate,
		p.Status,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "products_barcode_key") {
			return product.ErrDuplicateBarcode
		}

		return fmt.Errorf("updating product: %w", err)
	}

	return nil
}

func (s *Store) ListProducts(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	query := `SELECT ` + selectProductColumns + ` FROM products WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Search != nil {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR barcode = $%d)", argIdx, argIdx+1)

		args = append(args, "%"+*filter.Search+"%", *filter.Search)
		argIdx += 2
	}

	query += " ORDER BY name ASC"

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}

		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)

		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	return s.queryProducts(ctx, query, args...)
}

func (s *Store) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE status = 'ACTIVE' AND stock_quantity < min_stock_level
		ORDER BY stock_quantity ASC`

	return s.queryProducts(ctx, query)
}

func (s *Store) ListExpiring(ctx context.Context, from, until time.Time) ([]*product.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE status = 'ACTIVE' AND expiry_date IS NOT NULL
		  AND expiry_date >= $1 AND expiry_date <= $2
		ORDER BY expiry_date ASC`

	return s.queryProducts(ctx, query, from, until)
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]*product.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// AdjustStock applies a manual stock correction: the product row is locked,
// the new quantity is computed from the locked value, and the product update
// commits together with its movement row.
func (s *Store) AdjustStock(ctx context.Context, id uuid.UUID, change int, notes string) (*product.Product, *product.StockMovement, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning adjustment: %w", err)
	}
	defer dbTx.Rollback()

	query := `SELECT ` + selectProductColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	p, err := scanProduct(dbTx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, product.ErrNotFound
		}

		return nil, nil, fmt.Errorf("locking product: %w", err)
	}

	stockBefore := p.StockQuantity
	stockAfter := stockBefore + change

	if stockAfter < 0 {
		return nil, nil, &product.InsufficientStockError{Shortages: []product.Shortage{{
			ProductID: p.ID,
			Name:      p.Name,
			Available: stockBefore,
			Requested: -change,
		}}}
	}

	if _, err := dbTx.ExecContext(ctx,
		`UPDATE products SET stock_quantity = $1, updated_at = NOW() WHERE id = $2`,
		stockAfter, p.ID,
	); err != nil {
		return nil, nil, fmt.Errorf("updating stock: %w", err)
	}

	movement := &product.StockMovement{
		ProductID:      p.ID,
		MovementType:   product.MovementAdjustment,
		QuantityChange: change,
		StockBefore:    stockBefore,
		StockAfter:     stockAfter,
		Notes:          notes,
	}

	movementQuery := `
		INSERT INTO stock_movements (product_id, sale_id, movement_type, quantity_change, stock_before, stock_after, notes, created_at)
		VALUES ($1, NULL, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	if err := dbTx.QueryRowContext(ctx, movementQuery,
		movement.ProductID,
		movement.MovementType,
		movement.QuantityChange,
		movement.StockBefore,
		movement.StockAfter,
		movement.Notes,
	).Scan(&movement.ID, &movement.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("recording stock movement: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing adjustment: %w", err)
	}

	p.StockQuantity = stockAfter

	return p, movement, nil
}

func (s *Store) ListMovements(ctx context.Context, productID uuid.UUID) ([]*product.StockMovement, error) {
	query := `
		SELECT id, product_id, sale_id, movement_type, quantity_change, stock_before, stock_after, notes, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing stock movements: %w", err)
	}
	defer rows.Close()

	var movements []*product.StockMovement

	for rows.Next() {
		var m product.StockMovement

		var typeStr string

		var notes sql.NullString

		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.SaleID, &typeStr, &m.QuantityChange,
			&m.StockBefore, &m.StockAfter, &notes, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning stock movement: %w", err)
		}

		m.MovementType = product.MovementType(typeStr)
		m.Notes = notes.String

		movements = append(movements, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movement rows: %w", err)
	}

	return movements, nil
}
