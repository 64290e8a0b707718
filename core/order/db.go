package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/decishop/storefront/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO orders (order_id, reference, cart_id, status, coupon, shipping, subtotal, freight, discount, total, created_at, updated_at)
	VALUES (:order_id, :reference, :cart_id, :status, :coupon, :shipping, :subtotal, :freight, :discount, :total, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ord); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func CreateItem(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, created_at)
	VALUES (:order_id, :product_id, :name, :unit_price, :quantity, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, it); err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db *sqlx.DB, id string) (Order, error) {
	const q = `
	SELECT order_id, reference, cart_id, status, coupon, shipping, subtotal, freight, discount, total, created_at, updated_at
	FROM orders
	WHERE order_id = $1`

	var ord Order
	if err := db.GetContext(ctx, &ord, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, database.ErrNotFound
		}
		return Order{}, fmt.Errorf("selecting order[%s]: %w", id, err)
	}

	return ord, nil
}

func FetchItems(ctx context.Context, db *sqlx.DB, orderID string) ([]Item, error) {
	const q = `
	SELECT order_id, product_id, name, unit_price, quantity, created_at
	FROM order_items
	WHERE order_id = $1
	ORDER BY created_at, product_id`

	its := []Item{}
	if err := db.SelectContext(ctx, &its, q, orderID); err != nil {
		return nil, fmt.Errorf("selecting items of order[%s]: %w", orderID, err)
	}

	return its, nil
}
