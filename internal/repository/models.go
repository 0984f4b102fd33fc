package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID            pgtype.UUID
	Name          string
	Slug          string
	Description   string
	PriceCents    int32
	DiscountCents pgtype.Int4
	Quantity      int32
	Sold          int32
	Active        bool
	Status        string
	CategoryID    pgtype.Text
	Colors        []string
	Sizes         []string
	ImageURL      string
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type User struct {
	ID           pgtype.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type Session struct {
	Token     string
	UserID    pgtype.UUID
	ExpiresAt pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

type Cart struct {
	ID              pgtype.UUID
	UserID          pgtype.UUID
	TotalItems      int32
	TotalPriceCents int64
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type CartItem struct {
	ID             pgtype.UUID
	CartID         pgtype.UUID
	ProductID      pgtype.UUID
	CartItemKey    string
	ProductName    string
	Color          string
	Size           string
	Quantity       int32
	UnitPriceCents int32
	ImageURL       string
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

// CartItemWithProduct joins a cart line with the live product row. Product
// columns are nullable because the product may have been deleted.
type CartItemWithProduct struct {
	CartItem
	ProductQuantity      pgtype.Int4
	ProductActive        pgtype.Bool
	ProductPriceCents    pgtype.Int4
	ProductDiscountCents pgtype.Int4
}

type Order struct {
	ID                 pgtype.UUID
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
	IsPaid             bool
	PaidAt             pgtype.Timestamptz
	IsDelivered        bool
	DeliveredAt        pgtype.Timestamptz
	CancelledAt        pgtype.Timestamptz
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type OrderItem struct {
	ID              pgtype.UUID
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
