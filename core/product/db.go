package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/decishop/storefront/database"
	"github.com/jmoiron/sqlx"
)

func Fetch(ctx context.Context, db *sqlx.DB, id string) (Product, error) {
	const q = `
	SELECT product_id, name, brand, price, status, description, specs, image_url, created_at, updated_at, version
	FROM products
	WHERE product_id = $1`

	var p Product
	if err := db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, database.ErrNotFound
		}
		return Product{}, fmt.Errorf("selecting product[%s]: %w", id, err)
	}

	return p, nil
}

func FetchAll(ctx context.Context, db *sqlx.DB) ([]Product, error) {
	const q = `
	SELECT product_id, name, brand, price, status, description, specs, image_url, created_at, updated_at, version
	FROM products
	ORDER BY created_at, product_id`

	ps := []Product{}
	if err := db.SelectContext(ctx, &ps, q); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}

	return ps, nil
}

func FetchFeatured(ctx context.Context, db *sqlx.DB) ([]Product, error) {
	const q = `
	SELECT product_id, name, brand, price, status, description, specs, image_url, created_at, updated_at, version
	FROM products
	WHERE status = $1
	ORDER BY created_at, product_id`

	ps := []Product{}
	if err := db.SelectContext(ctx, &ps, q, Featured); err != nil {
		return nil, fmt.Errorf("selecting featured products: %w", err)
	}

	return ps, nil
}

func Search(ctx context.Context, db *sqlx.DB, term string) ([]Product, error) {
	const q = `
	SELECT product_id, name, brand, price, status, description, specs, image_url, created_at, updated_at, version
	FROM products
	WHERE name ILIKE $1 OR brand ILIKE $1 OR description ILIKE $1
	ORDER BY created_at, product_id`

	ps := []Product{}
	if err := db.SelectContext(ctx, &ps, q, "%"+term+"%"); err != nil {
		return nil, fmt.Errorf("searching products[%s]: %w", term, err)
	}

	return ps, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	INSERT INTO products (product_id, name, brand, price, status, description, specs, image_url, created_at, updated_at, version)
	VALUES (:product_id, :name, :brand, :price, :status, :description, :specs, :image_url, :created_at, :updated_at, :version)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, p); err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	UPDATE products
	SET name = :name, brand = :brand, price = :price, status = :status, description = :description,
		specs = :specs, image_url = :image_url, updated_at = :updated_at, version = :version + 1
	WHERE product_id = :product_id AND version = :version`

	res, err := sqlx.NamedExecContext(ctx, db, q, p)
	if err != nil {
		return fmt.Errorf("updating product[%s]: %w", p.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of product[%s]: %w", p.ID, err)
	}
	if n == 0 {
		return database.ErrNotFound
	}

	return nil
}
