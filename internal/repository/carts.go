package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const cartColumns = `id, user_id, total_items, total_price_cents, created_at, updated_at`

func scanCart(row pgx.Row) (Cart, error) {
	var c Cart
	err := row.Scan(&c.ID, &c.UserID, &c.TotalItems, &c.TotalPriceCents, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const getCartByUserID = `
SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1`

func (q *Queries) GetCartByUserID(ctx context.Context, userID pgtype.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getCartByUserID, userID))
}

const createCart = `
INSERT INTO carts (user_id) VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
RETURNING ` + cartColumns

// CreateCart creates the user's cart, or returns the existing one. The
// upsert makes lazy creation race-free.
func (q *Queries) CreateCart(ctx context.Context, userID pgtype.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, createCart, userID))
}

const cartItemColumns = `id, cart_id, product_id, cart_item_key, product_name,
	color, size, quantity, unit_price_cents, image_url, created_at, updated_at`

func scanCartItem(row pgx.Row) (CartItem, error) {
	var i CartItem
	err := row.Scan(
		&i.ID, &i.CartID, &i.ProductID, &i.CartItemKey, &i.ProductName,
		&i.Color, &i.Size, &i.Quantity, &i.UnitPriceCents, &i.ImageURL,
		&i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

const listCartItems = `
SELECT ` + cartItemColumns + ` FROM cart_items WHERE cart_id = $1 ORDER BY created_at`

func (q *Queries) ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(ctx, listCartItems, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CartItem
	for rows.Next() {
		i, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listCartItemsWithProducts = `
SELECT ci.id, ci.cart_id, ci.product_id, ci.cart_item_key, ci.product_name,
	ci.color, ci.size, ci.quantity, ci.unit_price_cents, ci.image_url,
	ci.created_at, ci.updated_at,
	p.quantity, p.active, p.price_cents, p.discount_cents
FROM cart_items ci
LEFT JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at`

func (q *Queries) ListCartItemsWithProducts(ctx context.Context, cartID pgtype.UUID) ([]CartItemWithProduct, error) {
	rows, err := q.db.Query(ctx, listCartItemsWithProducts, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CartItemWithProduct
	for rows.Next() {
		var i CartItemWithProduct
		err := rows.Scan(
			&i.ID, &i.CartID, &i.ProductID, &i.CartItemKey, &i.ProductName,
			&i.Color, &i.Size, &i.Quantity, &i.UnitPriceCents, &i.ImageURL,
			&i.CreatedAt, &i.UpdatedAt,
			&i.ProductQuantity, &i.ProductActive, &i.ProductPriceCents,
			&i.ProductDiscountCents,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getCartItemByKey = `
SELECT ` + cartItemColumns + ` FROM cart_items WHERE cart_id = $1 AND cart_item_key = $2`

type GetCartItemByKeyParams struct {
	CartID      pgtype.UUID
	CartItemKey string
}

func (q *Queries) GetCartItemByKey(ctx context.Context, arg GetCartItemByKeyParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, getCartItemByKey, arg.CartID, arg.CartItemKey))
}

const upsertCartItem = `
INSERT INTO cart_items (
	cart_id, product_id, cart_item_key, product_name, color, size, quantity,
	unit_price_cents, image_url
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (cart_id, cart_item_key) DO UPDATE SET
	quantity = $7,
	unit_price_cents = $8,
	product_name = $4,
	image_url = $9,
	updated_at = now()
RETURNING ` + cartItemColumns

type UpsertCartItemParams struct {
	CartID         pgtype.UUID
	ProductID      pgtype.UUID
	CartItemKey    string
	ProductName    string
	Color          string
	Size           string
	Quantity       int32
	UnitPriceCents int32
	ImageURL       string
}

// UpsertCartItem writes one cart line, replacing quantity and refreshing the
// product snapshot when the key already exists. Callers pass the merged
// quantity.
func (q *Queries) UpsertCartItem(ctx context.Context, arg UpsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(ctx, upsertCartItem,
		arg.CartID, arg.ProductID, arg.CartItemKey, arg.ProductName, arg.Color,
		arg.Size, arg.Quantity, arg.UnitPriceCents, arg.ImageURL,
	)
	return scanCartItem(row)
}

const updateCartItemKey = `
UPDATE cart_items SET cart_item_key = $2, updated_at = now() WHERE id = $1`

type UpdateCartItemKeyParams struct {
	ID          pgtype.UUID
	CartItemKey string
}

func (q *Queries) UpdateCartItemKey(ctx context.Context, arg UpdateCartItemKeyParams) error {
	_, err := q.db.Exec(ctx, updateCartItemKey, arg.ID, arg.CartItemKey)
	return err
}

const deleteCartItem = `
DELETE FROM cart_items WHERE id = $1`

func (q *Queries) DeleteCartItem(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteCartItem, id)
	return err
}

const deleteCartItemByKey = `
DELETE FROM cart_items WHERE cart_id = $1 AND cart_item_key = $2`

type DeleteCartItemByKeyParams struct {
	CartID      pgtype.UUID
	CartItemKey string
}

func (q *Queries) DeleteCartItemByKey(ctx context.Context, arg DeleteCartItemByKeyParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteCartItemByKey, arg.CartID, arg.CartItemKey)
	return tag.RowsAffected(), err
}

const clearCartItems = `
DELETE FROM cart_items WHERE cart_id = $1`

func (q *Queries) ClearCartItems(ctx context.Context, cartID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, clearCartItems, cartID)
	return err
}

const updateCartTotals = `
UPDATE carts SET total_items = $2, total_price_cents = $3, updated_at = now()
WHERE id = $1
RETURNING ` + cartColumns

type UpdateCartTotalsParams struct {
	CartID          pgtype.UUID
	TotalItems      int32
	TotalPriceCents int64
}

func (q *Queries) UpdateCartTotals(ctx context.Context, arg UpdateCartTotalsParams) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, updateCartTotals, arg.CartID, arg.TotalItems, arg.TotalPriceCents))
}
