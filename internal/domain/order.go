package domain

import (
	"context"
	"time"
)

// Order status values. Orders move pending → processing → shipped →
// delivered; cancelled, refunded and failed are alternate terminal states
// reachable from any non-terminal status.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
	OrderStatusFailed     = "failed"
)

// orderStatusRank orders the forward progression; terminal alternates are
// not ranked.
var orderStatusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded,
		OrderStatusFailed:
		return true
	}
	return false
}

// TerminalOrderStatus reports whether s admits no further transitions.
func TerminalOrderStatus(s string) bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

// CanTransitionOrderStatus reports whether an order may move from one
// status to another. Forward moves may skip intermediate steps; alternate
// terminals are reachable from any non-terminal status.
func CanTransitionOrderStatus(from, to string) bool {
	if !ValidOrderStatus(from) || !ValidOrderStatus(to) || from == to {
		return false
	}
	if TerminalOrderStatus(from) {
		return false
	}
	switch to {
	case OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return orderStatusRank[to] > orderStatusRank[from]
}

// Order domain errors.
var (
	ErrOrderNotFound   = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyCart       = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrOrderNotPending = &Error{Code: EINVALID, Message: "Only pending orders can be deleted"}
)

// Requester identifies who is performing an order operation, for ownership
// checks.
type Requester struct {
	UserID string
	Admin  bool
}

// ShippingAddress is the delivery address captured on an order.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItemInput is one explicitly supplied order line. When Items are
// omitted from CreateOrderParams the user's cart is used instead.
type OrderItemInput struct {
	ProductID string
	Quantity  int32
	Color     string
	Size      string
}

// CreateOrderParams carries order creation input.
type CreateOrderParams struct {
	// Items, when non-empty, is used instead of the caller's cart.
	Items []OrderItemInput

	ShippingAddress ShippingAddress
	PaymentMethod   string

	// Explicit pricing overrides; computed when nil (§ itemsPrice = sum of
	// line totals, flat shipping, fixed-percentage tax).
	ItemsPriceCents    *int64
	ShippingPriceCents *int64
	TaxPriceCents      *int64

	// KeepCart skips clearing the source cart after a cart-sourced order.
	KeepCart bool
}

// OrderItemView is one denormalized order line. It snapshots the product at
// creation time and never tracks later product changes.
type OrderItemView struct {
	ProductID       string `json:"productId"`
	Name            string `json:"name"`
	Color           string `json:"color,omitempty"`
	Size            string `json:"size,omitempty"`
	Quantity        int32  `json:"quantity"`
	UnitPriceCents  int32  `json:"price"`
	TotalPriceCents int64  `json:"totalPrice"`
	ImageURL        string `json:"imageUrl,omitempty"`
}

// OrderView is an order as returned to clients.
type OrderView struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId"`
	Status          string          `json:"status"`
	Items           []OrderItemView `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`

	ItemsPriceCents    int64 `json:"itemsPrice"`
	ShippingPriceCents int64 `json:"shippingPrice"`
	TaxPriceCents      int64 `json:"taxPrice"`
	TotalPriceCents    int64 `json:"totalPrice"`

	IsPaid      bool       `json:"isPaid"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	IsDelivered bool       `json:"isDelivered"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// OrderListFilter narrows order listings.
type OrderListFilter struct {
	Status      string
	IsPaid      *bool
	IsDelivered *bool
	Page        int32
	Limit       int32
}

// OrderList is one page of orders.
type OrderList struct {
	Orders     []OrderView `json:"orders"`
	Pagination Pagination  `json:"pagination"`
}

// UpdateOrderParams carries the mutable order fields. The item snapshot and
// pricing are immutable after creation.
type UpdateOrderParams struct {
	Status        *string
	PaymentMethod *string
	MarkPaid      bool
	MarkDelivered bool
}

// OrderService provides business logic for order operations.
type OrderService interface {
	// CreateOrder converts the user's cart (or the supplied item list) into
	// an order, debits inventory and clears the source cart, all inside one
	// database transaction.
	CreateOrder(ctx context.Context, userID string, params CreateOrderParams) (*OrderView, error)

	// GetOrder retrieves one order. Non-admins may only read their own.
	GetOrder(ctx context.Context, req Requester, orderID string) (*OrderView, error)

	// ListOrders returns the requester's orders, or all orders for admins.
	ListOrders(ctx context.Context, req Requester, filter OrderListFilter) (*OrderList, error)

	// UpdateOrder applies status/payment/delivery changes (admin).
	UpdateOrder(ctx context.Context, orderID string, params UpdateOrderParams) (*OrderView, error)

	// DeleteOrder removes an order. Permitted only while status is pending,
	// and only for the owner or an admin.
	DeleteOrder(ctx context.Context, req Requester, orderID string) error
}
