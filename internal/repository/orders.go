package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_number, user_id, status, shipping_full_name,
	shipping_line1, shipping_line2, shipping_city, shipping_postal_code,
	shipping_country, payment_method, items_price_cents, shipping_price_cents,
	tax_price_cents, total_price_cents, is_paid, paid_at, is_delivered,
	delivered_at, cancelled_at, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.ShippingFullName,
		&o.ShippingLine1, &o.ShippingLine2, &o.ShippingCity,
		&o.ShippingPostalCode, &o.ShippingCountry, &o.PaymentMethod,
		&o.ItemsPriceCents, &o.ShippingPriceCents, &o.TaxPriceCents,
		&o.TotalPriceCents, &o.IsPaid, &o.PaidAt, &o.IsDelivered,
		&o.DeliveredAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const nextOrderSequence = `
INSERT INTO order_counters (day, counter) VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE SET counter = order_counters.counter + 1
RETURNING counter`

// NextOrderSequence returns the next sequence number for the given day.
// Run inside the order transaction so a rollback releases the number's
// uniqueness along with everything else.
func (q *Queries) NextOrderSequence(ctx context.Context, day pgtype.Date) (int32, error) {
	var counter int32
	err := q.db.QueryRow(ctx, nextOrderSequence, day).Scan(&counter)
	return counter, err
}

const createOrder = `
INSERT INTO orders (
	order_number, user_id, status, shipping_full_name, shipping_line1,
	shipping_line2, shipping_city, shipping_postal_code, shipping_country,
	payment_method, items_price_cents, shipping_price_cents, tax_price_cents,
	total_price_cents
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	OrderNumber        string
	UserID             pgtype.UUID
	Status             string
	ShippingFullName   string
	ShippingLine1      string
	ShippingLine2      string
	ShippingCity       string
	ShippingPostalCode string
	ShippingCountry    string
	PaymentMethod      string
	ItemsPriceCents    int64
	ShippingPriceCents int64
	TaxPriceCents      int64
	TotalPriceCents    int64
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OrderNumber, arg.UserID, arg.Status, arg.ShippingFullName,
		arg.ShippingLine1, arg.ShippingLine2, arg.ShippingCity,
		arg.ShippingPostalCode, arg.ShippingCountry, arg.PaymentMethod,
		arg.ItemsPriceCents, arg.ShippingPriceCents, arg.TaxPriceCents,
		arg.TotalPriceCents,
	)
	return scanOrder(row)
}

const createOrderItem = `
INSERT INTO order_items (
	order_id, product_id, name, color, size, quantity, unit_price_cents,
	total_price_cents, image_url
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, order_id, product_id, name, color, size, quantity,
	unit_price_cents, total_price_cents, image_url`

type CreateOrderItemParams struct {
	OrderID         pgtype.UUID
	ProductID       pgtype.UUID
	Name            string
	Color           string
	Size            string
	Quantity        int32
	UnitPriceCents  int32
	TotalPriceCents int64
	ImageURL        string
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	var i OrderItem
	err := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.ProductID, arg.Name, arg.Color, arg.Size,
		arg.Quantity, arg.UnitPriceCents, arg.TotalPriceCents, arg.ImageURL,
	).Scan(
		&i.ID, &i.OrderID, &i.ProductID, &i.Name, &i.Color, &i.Size,
		&i.Quantity, &i.UnitPriceCents, &i.TotalPriceCents, &i.ImageURL,
	)
	return i, err
}

const getOrderByID = `
SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrderByID(ctx context.Context, id pgtype.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByID, id))
}

const listOrderItems = `
SELECT id, order_id, product_id, name, color, size, quantity,
	unit_price_cents, total_price_cents, image_url
FROM order_items WHERE order_id = $1 ORDER BY id`

func (q *Queries) ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		err := rows.Scan(
			&i.ID, &i.OrderID, &i.ProductID, &i.Name, &i.Color, &i.Size,
			&i.Quantity, &i.UnitPriceCents, &i.TotalPriceCents, &i.ImageURL,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listOrders = `
SELECT ` + orderColumns + ` FROM orders
WHERE ($1::uuid IS NULL OR user_id = $1)
  AND ($2::text IS NULL OR status = $2)
  AND ($3::boolean IS NULL OR is_paid = $3)
  AND ($4::boolean IS NULL OR is_delivered = $4)
ORDER BY created_at DESC
LIMIT $5 OFFSET $6`

type ListOrdersParams struct {
	UserID      pgtype.UUID
	Status      pgtype.Text
	IsPaid      pgtype.Bool
	IsDelivered pgtype.Bool
	Limit       int32
	Offset      int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.UserID, arg.Status, arg.IsPaid, arg.IsDelivered, arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const countOrders = `
SELECT count(*) FROM orders
WHERE ($1::uuid IS NULL OR user_id = $1)
  AND ($2::text IS NULL OR status = $2)
  AND ($3::boolean IS NULL OR is_paid = $3)
  AND ($4::boolean IS NULL OR is_delivered = $4)`

type CountOrdersParams struct {
	UserID      pgtype.UUID
	Status      pgtype.Text
	IsPaid      pgtype.Bool
	IsDelivered pgtype.Bool
}

func (q *Queries) CountOrders(ctx context.Context, arg CountOrdersParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countOrders, arg.UserID, arg.Status, arg.IsPaid, arg.IsDelivered).Scan(&count)
	return count, err
}

const updateOrder = `
UPDATE orders SET
	status = $2,
	payment_method = $3,
	is_paid = $4,
	paid_at = $5,
	is_delivered = $6,
	delivered_at = $7,
	cancelled_at = $8,
	updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderParams struct {
	ID            pgtype.UUID
	Status        string
	PaymentMethod string
	IsPaid        bool
	PaidAt        pgtype.Timestamptz
	IsDelivered   bool
	DeliveredAt   pgtype.Timestamptz
	CancelledAt   pgtype.Timestamptz
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrder,
		arg.ID, arg.Status, arg.PaymentMethod, arg.IsPaid, arg.PaidAt,
		arg.IsDelivered, arg.DeliveredAt, arg.CancelledAt,
	)
	return scanOrder(row)
}

const deleteOrder = `
DELETE FROM orders WHERE id = $1`

func (q *Queries) DeleteOrder(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrder, id)
	return tag.RowsAffected(), err
}
