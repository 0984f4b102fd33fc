package domain

import (
	"context"
	"time"
)

// Cart domain errors.
var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// CartService provides business logic for shopping cart operations.
// Each user has at most one cart, created lazily on first access.
type CartService interface {
	// GetCart retrieves the user's cart, creating an empty one if absent.
	// The read path self-heals: items whose product is gone or inactive are
	// dropped, missing cart item keys are backfilled, and each item is
	// enriched with live stock and price information.
	GetCart(ctx context.Context, userID string) (*CartView, error)

	// AddItem adds a product + variant combination to the cart, merging into
	// the existing line item for the same cart item key. The merged quantity
	// is validated against live stock before any write.
	AddItem(ctx context.Context, userID string, params AddCartItemParams) (*CartView, error)

	// RemoveItem deletes the line item with the given cart item key. Legacy
	// items without a stored key are matched by product + variant fields.
	RemoveItem(ctx context.Context, userID string, cartItemKey string) (*CartView, error)

	// ClearCart empties the cart and zeroes its totals. Creates the cart if
	// it does not exist, so clearing always succeeds.
	ClearCart(ctx context.Context, userID string) (*CartView, error)
}

// AddCartItemParams carries add/update input for one cart line.
type AddCartItemParams struct {
	ProductID string
	Quantity  int32
	Color     string
	Size      string
}

// CartView is the cart as returned to clients: stored state plus live
// per-item stock and price enrichment.
type CartView struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	Items           []CartItemView `json:"items"`
	TotalItems      int32          `json:"totalItems"`
	TotalPriceCents int64          `json:"totalPrice"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// CartItemView is one cart line with its product snapshot and live
// availability.
type CartItemView struct {
	ID              string `json:"id"`
	ProductID       string `json:"productId"`
	CartItemKey     string `json:"cartItemKey"`
	ProductName     string `json:"productName"`
	Color           string `json:"color,omitempty"`
	Size            string `json:"size,omitempty"`
	Quantity        int32  `json:"quantity"`
	UnitPriceCents  int32  `json:"price"`
	TotalPriceCents int64  `json:"totalPrice"`
	ImageURL        string `json:"imageUrl,omitempty"`

	// Live enrichment, not persisted with the item.
	InStock           bool  `json:"inStock"`
	AvailableQuantity int32 `json:"availableQuantity"`
	CurrentPriceCents int32 `json:"currentPrice"`
}
