package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, slug, description, price_cents, discount_cents,
	quantity, sold, active, status, category_id, colors, sizes, image_url,
	created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.DiscountCents,
		&p.Quantity, &p.Sold, &p.Active, &p.Status, &p.CategoryID, &p.Colors,
		&p.Sizes, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

const createProduct = `
INSERT INTO products (
	name, slug, description, price_cents, discount_cents, quantity, active,
	status, category_id, colors, sizes, image_url
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name          string
	Slug          string
	Description   string
	PriceCents    int32
	DiscountCents pgtype.Int4
	Quantity      int32
	Active        bool
	Status        string
	CategoryID    pgtype.Text
	Colors        []string
	Sizes         []string
	ImageURL      string
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Name, arg.Slug, arg.Description, arg.PriceCents, arg.DiscountCents,
		arg.Quantity, arg.Active, arg.Status, arg.CategoryID, arg.Colors,
		arg.Sizes, arg.ImageURL,
	)
	return scanProduct(row)
}

const getProductByID = `
SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductByID, id))
}

const getProductBySlug = `
SELECT ` + productColumns + ` FROM products WHERE slug = $1`

func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductBySlug, slug))
}

const getProductByIDForUpdate = `
SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

// GetProductByIDForUpdate locks the product row for the duration of the
// surrounding transaction.
func (q *Queries) GetProductByIDForUpdate(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductByIDForUpdate, id))
}

const listProducts = `
SELECT ` + productColumns + ` FROM products
WHERE (NOT $1::boolean OR active)
  AND ($2::text IS NULL OR category_id = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

type ListProductsParams struct {
	ActiveOnly bool
	CategoryID pgtype.Text
	Limit      int32
	Offset     int32
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts, arg.ActiveOnly, arg.CategoryID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const countProducts = `
SELECT count(*) FROM products
WHERE (NOT $1::boolean OR active)
  AND ($2::text IS NULL OR category_id = $2)`

type CountProductsParams struct {
	ActiveOnly bool
	CategoryID pgtype.Text
}

func (q *Queries) CountProducts(ctx context.Context, arg CountProductsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countProducts, arg.ActiveOnly, arg.CategoryID).Scan(&count)
	return count, err
}

const updateProduct = `
UPDATE products SET
	name = $2,
	slug = $3,
	description = $4,
	price_cents = $5,
	discount_cents = $6,
	quantity = $7,
	active = $8,
	status = $9,
	category_id = $10,
	colors = $11,
	sizes = $12,
	image_url = $13,
	updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID            pgtype.UUID
	Name          string
	Slug          string
	Description   string
	PriceCents    int32
	DiscountCents pgtype.Int4
	Quantity      int32
	Active        bool
	Status        string
	CategoryID    pgtype.Text
	Colors        []string
	Sizes         []string
	ImageURL      string
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID, arg.Name, arg.Slug, arg.Description, arg.PriceCents,
		arg.DiscountCents, arg.Quantity, arg.Active, arg.Status, arg.CategoryID,
		arg.Colors, arg.Sizes, arg.ImageURL,
	)
	return scanProduct(row)
}

const updateProductStatus = `
UPDATE products SET status = $2, updated_at = now() WHERE id = $1`

type UpdateProductStatusParams struct {
	ID     pgtype.UUID
	Status string
}

func (q *Queries) UpdateProductStatus(ctx context.Context, arg UpdateProductStatusParams) error {
	_, err := q.db.Exec(ctx, updateProductStatus, arg.ID, arg.Status)
	return err
}

const deleteProduct = `
DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteProduct, id)
	return tag.RowsAffected(), err
}

const decrementProductStock = `
UPDATE products
SET quantity = quantity - $2, sold = sold + $2, updated_at = now()
WHERE id = $1 AND quantity >= $2
RETURNING quantity, active`

type DecrementProductStockParams struct {
	ID       pgtype.UUID
	Quantity int32
}

type DecrementProductStockRow struct {
	Quantity int32
	Active   bool
}

// DecrementProductStock atomically debits inventory. The WHERE guard makes
// oversell impossible: pgx.ErrNoRows means stock was insufficient and the
// caller must abort its transaction.
func (q *Queries) DecrementProductStock(ctx context.Context, arg DecrementProductStockParams) (DecrementProductStockRow, error) {
	var r DecrementProductStockRow
	err := q.db.QueryRow(ctx, decrementProductStock, arg.ID, arg.Quantity).Scan(&r.Quantity, &r.Active)
	return r, err
}
