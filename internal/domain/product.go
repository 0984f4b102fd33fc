package domain

import (
	"context"
	"time"
)

// Product status values. Status is a pure function of (quantity, active) and
// is recomputed at every write site that touches either field.
const (
	ProductStatusInStock    = "in stock"
	ProductStatusLowStock   = "low stock"
	ProductStatusOutOfStock = "out of stock"
	ProductStatusDraft      = "draft"
)

// LowStockThreshold is the quantity at or below which an active product is
// reported as "low stock".
const LowStockThreshold = 5

// ProductStatus derives the display status from stock level and active flag.
func ProductStatus(quantity int32, active bool) string {
	switch {
	case !active:
		return ProductStatusDraft
	case quantity <= 0:
		return ProductStatusOutOfStock
	case quantity <= LowStockThreshold:
		return ProductStatusLowStock
	default:
		return ProductStatusInStock
	}
}

// Sellable reports whether a product may be added to a cart or ordered.
func Sellable(quantity int32, active bool) bool {
	status := ProductStatus(quantity, active)
	return status == ProductStatusInStock || status == ProductStatusLowStock
}

// Product domain errors.
var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrSlugTaken       = &Error{Code: ECONFLICT, Message: "Product slug already exists"}
)

// Product is the catalog view of a product.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	PriceCents    int32     `json:"price"`
	DiscountCents *int32    `json:"discountPrice,omitempty"`
	Quantity      int32     `json:"quantity"`
	Sold          int32     `json:"sold"`
	Active        bool      `json:"active"`
	Status        string    `json:"status"`
	CategoryID    string    `json:"categoryId,omitempty"`
	Colors        []string  `json:"colors,omitempty"`
	Sizes         []string  `json:"sizes,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int32 `json:"totalPages"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID string
	Page       int32
	Limit      int32
}

// ProductList is one page of products.
type ProductList struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// CreateProductParams carries admin product creation input.
type CreateProductParams struct {
	Name          string
	Slug          string
	Description   string
	PriceCents    int32
	DiscountCents *int32
	Quantity      int32
	Active        bool
	CategoryID    string
	Colors        []string
	Sizes         []string
	ImageURL      string
}

// UpdateProductParams carries admin product update input.
// Nil pointers leave the corresponding field unchanged.
type UpdateProductParams struct {
	Name          *string
	Slug          *string
	Description   *string
	PriceCents    *int32
	DiscountCents *int32
	ClearDiscount bool
	Quantity      *int32
	Active        *bool
	CategoryID    *string
	Colors        []string
	Sizes         []string
	ImageURL      *string
}

// ProductService provides catalog operations.
// Storefront reads return only active products; admin operations see drafts.
type ProductService interface {
	// ListProducts returns one page of active products.
	ListProducts(ctx context.Context, filter ProductFilter) (*ProductList, error)

	// GetProduct retrieves a product by ID or slug. Inactive products are
	// returned only when includeDraft is set (admin reads).
	GetProduct(ctx context.Context, idOrSlug string, includeDraft bool) (*Product, error)

	// ListAllProducts returns one page of products including drafts (admin).
	ListAllProducts(ctx context.Context, filter ProductFilter) (*ProductList, error)

	// CreateProduct creates a product with derived status.
	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)

	// UpdateProduct applies a partial update and recomputes status.
	UpdateProduct(ctx context.Context, productID string, params UpdateProductParams) (*Product, error)

	// DeleteProduct removes a product from the catalog.
	DeleteProduct(ctx context.Context, productID string) error
}
