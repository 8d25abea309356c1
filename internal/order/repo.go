package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmstore/backend/internal/pricing"
	"github.com/dmstore/backend/internal/product"
)

// StockDelta is one net stock adjustment for a product. Positive delta debits
// stock, negative delta credits it back.
type StockDelta struct {
	ProductID string
	Delta     int
}

// Store persists orders. Create, Replace and Delete each run as a single
// transaction spanning the order write and its stock adjustments; the stock
// side is applied with conditional increments so concurrent orders cannot
// lose updates or drive stock negative.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Replace(ctx context.Context, o *Order, deltas []StockDelta) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

// Create inserts the order with its lines and debits stock for every line,
// all in one transaction. The debit re-checks stock under the transaction,
// so validation done beforehand cannot be raced into a negative balance.
func (r *PGStore) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, order_number, customer_name, customer_phone, customer_email, customer_address,
                        total, total_weight_kg, price_mode, price_kind, status, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
  `, o.ID, o.OrderNumber, o.Customer.Name, o.Customer.Phone, o.Customer.Email, o.Customer.Address,
		o.Total, o.WeightKg, string(o.PriceMode), o.PriceKind, o.Status); err != nil {
		return err
	}

	if err := insertLines(ctx, tx, o.ID, o.Lines); err != nil {
		return err
	}

	for _, ln := range o.Lines {
		if err := debitStock(ctx, tx, ln.ProductID, ln.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Replace rewrites the order row and its lines and applies the given stock
// deltas in one transaction. Callers must order credits before debits.
func (r *PGStore) Replace(ctx context.Context, o *Order, deltas []StockDelta) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range deltas {
		switch {
		case d.Delta < 0:
			if err := creditStock(ctx, tx, d.ProductID, -d.Delta); err != nil {
				return err
			}
		case d.Delta > 0:
			if err := debitStock(ctx, tx, d.ProductID, d.Delta); err != nil {
				return err
			}
		}
	}

	tag, err := tx.Exec(ctx, `
    UPDATE orders
    SET customer_name = $2, customer_phone = $3, customer_email = $4, customer_address = $5,
        total = $6, total_weight_kg = $7, price_mode = $8, price_kind = $9, updated_at = NOW()
    WHERE id = $1
  `, o.ID, o.Customer.Name, o.Customer.Phone, o.Customer.Email, o.Customer.Address,
		o.Total, o.WeightKg, string(o.PriceMode), o.PriceKind)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, o.ID, o.Lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes the order and credits every line's quantity back to stock
// in the same transaction.
func (r *PGStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `SELECT product_id, quantity FROM order_items WHERE order_id=$1`, id)
	if err != nil {
		return err
	}
	type restock struct {
		productID string
		qty       int
	}
	var credits []restock
	for rows.Next() {
		var c restock
		if err := rows.Scan(&c.productID, &c.qty); err != nil {
			rows.Close()
			return err
		}
		credits = append(credits, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range credits {
		if err := creditStock(ctx, tx, c.productID, c.qty); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *PGStore) GetByID(ctx context.Context, id string) (*Order, error) {
	return r.getBy(ctx, `id=$1`, id)
}

func (r *PGStore) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return r.getBy(ctx, `order_number=$1`, number)
}

const orderCols = `id, order_number, customer_name, customer_phone, customer_email, customer_address,
    total::text, total_weight_kg::text, price_mode, price_kind, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }, o *Order) error {
	var mode string
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Email,
		&o.Customer.Address, &o.Total, &o.WeightKg, &mode, &o.PriceKind, &o.Status,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}
	o.PriceMode = pricing.Mode(mode)
	return nil
}

func (r *PGStore) getBy(ctx context.Context, cond, arg string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE `+cond, arg), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
    SELECT product_id, product_name, quantity, unit_price::text, line_total::text
    FROM order_items WHERE order_id=$1 ORDER BY position
  `, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ln Line
		if err := rows.Scan(&ln.ProductID, &ln.Name, &ln.Quantity, &ln.UnitPrice, &ln.LineTotal); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, ln)
	}
	return &o, rows.Err()
}

// List returns all orders, newest first, lines included.
func (r *PGStore) List(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT ` + orderCols + ` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	index := map[string]int{}
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	for i, o := range out {
		ids[i] = o.ID
	}
	lineRows, err := r.db.Query(ctx, `
    SELECT order_id, product_id, product_name, quantity, unit_price::text, line_total::text
    FROM order_items WHERE order_id = ANY($1) ORDER BY position
  `, ids)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var orderID string
		var ln Line
		if err := lineRows.Scan(&orderID, &ln.ProductID, &ln.Name, &ln.Quantity, &ln.UnitPrice, &ln.LineTotal); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			out[i].Lines = append(out[i].Lines, ln)
		}
	}
	return out, lineRows.Err()
}

func (r *PGStore) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
  `, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, orderID string, lines []Line) error {
	for i, ln := range lines {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (order_id, position, product_id, product_name, quantity, unit_price, line_total)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, orderID, i, ln.ProductID, ln.Name, ln.Quantity, ln.UnitPrice, ln.LineTotal); err != nil {
			return err
		}
	}
	return nil
}

// debitStock decrements stock only when enough units remain. Zero rows
// affected means the product vanished or the balance is short; the row is
// re-read to tell the two apart and to report the remaining quantity.
func debitStock(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	tag, err := tx.Exec(ctx, `
    UPDATE products SET stock = stock - $2, updated_at = NOW()
    WHERE id = $1 AND stock >= $2
  `, productID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var name string
	var stock int
	if err := tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id=$1`, productID).
		Scan(&name, &stock); err != nil {
		return product.ErrNotFound
	}
	return &InsufficientStockError{ProductID: productID, Name: name, Remaining: stock}
}

// creditStock returns units to stock. A missing product is not an error:
// crediting lines whose product was deleted is a no-op.
func creditStock(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	_, err := tx.Exec(ctx, `
    UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1
  `, productID, qty)
	return err
}
