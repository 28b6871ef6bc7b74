package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ConfirmParams carries everything checkout writes to the order row.
type ConfirmParams struct {
	TableID             *string
	PaymentMethod       string
	SpecialInstructions string
	// Replace swaps the cart's line items for ReplaceWith before confirming.
	Replace     bool
	ReplaceWith []Item
}

type Repository interface {
	GetOrCreateCart(ctx context.Context, customerID string) (*Order, error)
	GetPendingCart(ctx context.Context, customerID string) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	GetItems(ctx context.Context, orderID string) ([]Item, error)
	AddItem(ctx context.Context, orderID, menuItemID string, qty int, price decimal.Decimal) error
	RemoveItem(ctx context.Context, customerID, itemID string) error
	SetQuantity(ctx context.Context, customerID, itemID string, qty int) error
	Confirm(ctx context.Context, orderID string, p ConfirmParams) (*Order, error)
	UpdateStatus(ctx context.Context, orderID, newStatus string) error
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Order, error)
	ListActive(ctx context.Context) ([]Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderCols = `id, customer_id, table_id, status, total_amount::text, payment_method, special_instructions, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var total string
	if err := row.Scan(&o.ID, &o.CustomerID, &o.TableID, &o.Status, &total,
		&o.PaymentMethod, &o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	t, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.TotalAmount = t
	return &o, nil
}

// GetOrCreateCart returns the customer's single PENDING order, inserting one
// when absent. The insert races through the partial unique index on
// (customer_id) WHERE status='PENDING', so two concurrent calls converge on
// one row instead of creating two carts.
func (r *PGRepo) GetOrCreateCart(ctx context.Context, customerID string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		INSERT INTO orders (id, customer_id, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, 'PENDING', 0, NOW(), NOW())
		ON CONFLICT (customer_id) WHERE status = 'PENDING' DO NOTHING
		RETURNING `+orderCols+`
	`, uuid.NewString(), customerID))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// Conflict: another request holds the cart row already.
	return r.GetPendingCart(ctx, customerID)
}

func (r *PGRepo) GetPendingCart(ctx context.Context, customerID string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE customer_id=$1 AND status='PENDING'
	`, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderCols+` FROM orders WHERE id=$1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

func (r *PGRepo) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, menu_item_id, quantity, price::text
		FROM order_items WHERE order_id=$1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		it.Price = p
		items = append(items, it)
	}
	return items, rows.Err()
}

// recalcTotal rewrites the order total from its persisted line items. Runs
// inside the caller's transaction so the total never drifts from the items.
func recalcTotal(ctx context.Context, tx pgx.Tx, orderID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders
		SET total_amount = COALESCE(
			(SELECT SUM(quantity * price) FROM order_items WHERE order_id = $1), 0),
		    updated_at = NOW()
		WHERE id = $1
	`, orderID)
	return err
}

// AddItem merges into an existing line for the same menu item or inserts a
// new one with the given price snapshot, then recomputes the total.
func (r *PGRepo) AddItem(ctx context.Context, orderID, menuItemID string, qty int, price decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_items (id, order_id, menu_item_id, quantity, price)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (order_id, menu_item_id)
		DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity
	`, uuid.NewString(), orderID, menuItemID, qty, price.StringFixed(2)); err != nil {
		return err
	}
	if err := recalcTotal(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// RemoveItem deletes a line item, scoped to the caller's own pending cart.
// A foreign or unknown item id is reported as not found.
func (r *PGRepo) RemoveItem(ctx context.Context, customerID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID string
	err = tx.QueryRow(ctx, `
		DELETE FROM order_items oi
		USING orders o
		WHERE oi.id = $1 AND oi.order_id = o.id
		  AND o.customer_id = $2 AND o.status = 'PENDING'
		RETURNING oi.order_id
	`, itemID, customerID).Scan(&orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := recalcTotal(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) SetQuantity(ctx context.Context, customerID, itemID string, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(ctx, customerID, itemID)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID string
	err = tx.QueryRow(ctx, `
		UPDATE order_items oi
		SET quantity = $3
		FROM orders o
		WHERE oi.id = $1 AND oi.order_id = o.id
		  AND o.customer_id = $2 AND o.status = 'PENDING'
		RETURNING oi.order_id
	`, itemID, customerID, qty).Scan(&orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := recalcTotal(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Confirm applies checkout in a single transaction: optional line-item
// replace, total recompute, table/payment/instructions, status CONFIRMED.
// Partial application is not possible; any failure rolls everything back.
func (r *PGRepo) Confirm(ctx context.Context, orderID string, p ConfirmParams) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if p.Replace {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID); err != nil {
			return nil, err
		}
		for _, it := range p.ReplaceWith {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_items (id, order_id, menu_item_id, quantity, price)
				VALUES ($1,$2,$3,$4,$5)
				ON CONFLICT (order_id, menu_item_id)
				DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity
			`, uuid.NewString(), orderID, it.MenuItemID, it.Quantity, it.Price.StringFixed(2)); err != nil {
				return nil, err
			}
		}
	}
	if err := recalcTotal(ctx, tx, orderID); err != nil {
		return nil, err
	}

	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET table_id = COALESCE($2, table_id),
		    payment_method = $3,
		    special_instructions = $4,
		    status = 'CONFIRMED',
		    updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING `+orderCols+`
	`, orderID, p.TableID, p.PaymentMethod, p.SpecialInstructions))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus moves an order to a new status after checking the transition
// against the current one under a row lock.
func (r *PGRepo) UpdateStatus(ctx context.Context, orderID, newStatus string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `
		SELECT status FROM orders WHERE id=$1 FOR UPDATE
	`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(current, newStatus) {
		return ErrInvalidTransition
	}
	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1
	`, orderID, newStatus); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE customer_id=$1 AND status <> 'PENDING'
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListActive returns the kitchen board: everything confirmed but not yet
// served out.
func (r *PGRepo) ListActive(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE status IN ('CONFIRMED','PREPARING','READY')
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		var o Order
		var total string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.TableID, &o.Status, &total,
			&o.PaymentMethod, &o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		t, err := decimal.NewFromString(total)
		if err != nil {
			return nil, err
		}
		o.TotalAmount = t
		out = append(out, o)
	}
	return out, rows.Err()
}
