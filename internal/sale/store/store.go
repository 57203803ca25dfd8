package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/localpos/backend/internal/credit"
	"github.com/localpos/backend/internal/customer"
	"github.com/localpos/backend/internal/product"
	"github.com/localpos/backend/internal/sale"
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

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func (s *Store) Begin(ctx context.Context) (sale.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning sale tx: %w", err)
	}

	return &saleTx{tx: dbTx}, nil
}

type saleTx struct {
	tx *sql.Tx
}

func (t *saleTx) Commit() error   { return t.tx.Commit() }
func (t *saleTx) Rollback() error { return t.tx.Rollback() }

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

// LockProducts takes row locks one product at a time in byte order of the
// ids, so two sales over the same products always lock in the same order
// and cannot deadlock each other.
func (t *saleTx) LockProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*product.Product, error) {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	query := `SELECT ` + selectProductColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	products := make(map[uuid.UUID]*product.Product, len(sorted))

	for _, id := range sorted {
		p, err := scanProduct(t.tx.QueryRowContext(ctx, query, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("product %s: %w", id, product.ErrNotFound)
			}

			return nil, fmt.Errorf("locking product: %w", err)
		}

		products[id] = p
	}

	return products, nil
}

const selectCustomerColumns = `
	id, name, phone, email, address, credit_balance, credit_limit,
	loyalty_points, total_purchases, total_spent, status, created_at, updated_at
`

func (t *saleTx) LockCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`

	var c customer.Customer

	var statusStr string

	var phone, email, address sql.NullString

	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &phone, &email, &address, &c.CreditBalance, &c.CreditLimit,
		&c.LoyaltyPoints, &c.TotalPurchases, &c.TotalSpent, &statusStr, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("locking customer: %w", err)
	}

	c.Status = customer.Status(statusStr)
	c.Phone = phone.String
	c.Email = email.String
	c.Address = address.String

	return &c, nil
}

// NextBillSequence increments the per-year counter in one statement; the
// insert arm starts a fresh sequence on year rollover.
func (t *saleTx) NextBillSequence(ctx context.Context, year int) (int64, error) {
	query := `
		INSERT INTO bill_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = bill_sequences.last_value + 1
		RETURNING last_value
	`

	var sequence int64
	if err := t.tx.QueryRowContext(ctx, query, year).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("advancing bill sequence: %w", err)
	}

	return sequence, nil
}

func (t *saleTx) CreateSale(ctx context.Context, sl *sale.Sale) error {
	query := `
		INSERT INTO sales (bill_number, customer_id, subtotal, discount_amount, tax_amount, total_amount, amount_paid, credit_amount, payment_method, payment_status, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		sl.BillNumber,
		sl.CustomerID,
		sl.Subtotal,
		sl.DiscountAmount,
		sl.TaxAmount,
		sl.TotalAmount,
		sl.AmountPaid,
		sl.CreditAmount,
		sl.PaymentMethod,
		sl.PaymentStatus,
		sl.Notes,
		sl.CreatedBy,
	).Scan(&sl.ID, &sl.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "sales_bill_number_key") {
			return sale.ErrBillNumberConflict
		}

		return fmt.Errorf("creating sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (sale_id, line_no, product_id, product_name, quantity, unit_price, discount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	for i, item := range sl.Items {
		item.SaleID = sl.ID

		err := t.tx.QueryRowContext(ctx, itemQuery,
			item.SaleID,
			i+1,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.Discount,
			item.LineTotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("creating sale item: %w", err)
		}
	}

	return nil
}

// ApplyStockDecrement writes the new quantity computed from the locked row
// and appends the movement in the same transaction, so the movement's
// before/after always matches the product row it commits with.
func (t *saleTx) ApplyStockDecrement(ctx context.Context, p *product.Product, quantity int, saleID uuid.UUID, notes string) error {
	stockBefore := p.StockQuantity
	stockAfter := stockBefore - quantity

	if _, err := t.tx.ExecContext(ctx,
		`UPDATE products SET stock_quantity = $1, updated_at = NOW() WHERE id = $2`,
		stockAfter, p.ID,
	); err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	query := `
		INSERT INTO stock_movements (product_id, sale_id, movement_type, quantity_change, stock_before, stock_after, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	if _, err := t.tx.ExecContext(ctx, query,
		p.ID,
		saleID,
		product.MovementSale,
		-quantity,
		stockBefore,
		stockAfter,
		notes,
	); err != nil {
		return fmt.Errorf("recording stock movement: %w", err)
	}

	p.StockQuantity = stockAfter

	return nil
}

func (t *saleTx) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET credit_balance = $1, total_purchases = $2, total_spent = $3, updated_at = NOW()
		WHERE id = $4
	`

	if _, err := t.tx.ExecContext(ctx, query,
		c.CreditBalance,
		c.TotalPurchases,
		c.TotalSpent,
		c.ID,
	); err != nil {
		return fmt.Errorf("updating customer totals: %w", err)
	}

	return nil
}

func (t *saleTx) CreateCreditTransaction(ctx context.Context, txn *credit.Transaction) error {
	query := `
		INSERT INTO credit_transactions (customer_id, sale_id, transaction_type, amount, balance_before, balance_after, payment_method, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		txn.CustomerID,
		txn.SaleID,
		txn.Type,
		txn.Amount,
		txn.BalanceBefore,
		txn.BalanceAfter,
		txn.PaymentMethod,
		txn.Notes,
		txn.CreatedBy,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating credit transaction: %w", err)
	}

	return nil
}

const selectSaleColumns = `
	s.id, s.bill_number, s.customer_id, s.subtotal, s.discount_amount, s.tax_amount,
	s.total_amount, s.amount_paid, s.credit_amount, s.payment_method, s.payment_status,
	s.notes, s.created_by, s.created_at,
	c.name, c.phone, c.email, c.credit_balance
`

// scanSale reads a sale row joined with its optional customer view.
func scanSale(s scanner) (*sale.Sale, error) {
	var sl sale.Sale

	var methodStr, statusStr string

	var notes sql.NullString

	var custName, custPhone, custEmail sql.NullString

	var custBalance decimal.NullDecimal

	if err := s.Scan(
		&sl.ID, &sl.BillNumber, &sl.CustomerID, &sl.Subtotal, &sl.DiscountAmount, &sl.TaxAmount,
		&sl.TotalAmount, &sl.AmountPaid, &sl.CreditAmount, &methodStr, &statusStr,
		&notes, &sl.CreatedBy, &sl.CreatedAt,
		&custName, &custPhone, &custEmail, &custBalance,
	); err != nil {
		return nil, err
	}

	sl.PaymentMethod = sale.PaymentMethod(methodStr)
	sl.PaymentStatus = sale.PaymentStatus(statusStr)
	sl.Notes = notes.String

	if sl.CustomerID != nil && custName.Valid {
		sl.Customer = &customer.Customer{
			ID:            *sl.CustomerID,
			Name:          custName.String,
			Phone:         custPhone.String,
			Email:         custEmail.String,
			CreditBalance: custBalance.Decimal,
		}
	}

	return &sl, nil
}

func (s *Store) GetSale(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + `
		FROM sales s
		LEFT JOIN customers c ON s.customer_id = c.id
		WHERE s.id = $1`

	return s.getSale(ctx, query, id)
}

func (s *Store) GetSaleByBillNumber(ctx context.Context, billNumber string) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + `
		FROM sales s
		LEFT JOIN customers c ON s.customer_id = c.id
		WHERE s.bill_number = $1`

	return s.getSale(ctx, query, billNumber)
}

func (s *Store) getSale(ctx context.Context, query string, arg any) (*sale.Sale, error) {
	sl, err := scanSale(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	if sl.Items, err = loadItems(ctx, s.db, sl.ID); err != nil {
		return nil, err
	}

	return sl, nil
}

func (s *Store) ListSales(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + `
		FROM sales s
		LEFT JOIN customers c ON s.customer_id = c.id
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND s.created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND s.created_at < $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY s.created_at DESC"

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}

		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)

		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale

	for rows.Next() {
		sl, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	for _, sl := range sales {
		if sl.Items, err = loadItems(ctx, s.db, sl.ID); err != nil {
			return nil, err
		}
	}

	return sales, nil
}

func loadItems(ctx context.Context, q queryer, saleID uuid.UUID) ([]*sale.Item, error) {
	query := `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price, discount, line_total
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY line_no
	`

	rows, err := q.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("listing sale items: %w", err)
	}
	defer rows.Close()

	var items []*sale.Item

	for rows.Next() {
		var item sale.Item

		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Discount, &item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scanning sale item: %w", err)
		}

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale item rows: %w", err)
	}

	return items, nil
}
