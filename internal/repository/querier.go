package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the query surface of the repository. Services depend on this
// interface so tests can substitute an in-memory implementation.
type Querier interface {
	// Products
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	GetProductByIDForUpdate(ctx context.Context, id pgtype.UUID) (Product, error)
	ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error)
	CountProducts(ctx context.Context, arg CountProductsParams) (int64, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	UpdateProductStatus(ctx context.Context, arg UpdateProductStatusParams) error
	DeleteProduct(ctx context.Context, id pgtype.UUID) (int64, error)
	DecrementProductStock(ctx context.Context, arg DecrementProductStockParams) (DecrementProductStockRow, error)

	// Carts
	GetCartByUserID(ctx context.Context, userID pgtype.UUID) (Cart, error)
	CreateCart(ctx context.Context, userID pgtype.UUID) (Cart, error)
	ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]CartItem, error)
	ListCartItemsWithProducts(ctx context.Context, cartID pgtype.UUID) ([]CartItemWithProduct, error)
	GetCartItemByKey(ctx context.Context, arg GetCartItemByKeyParams) (CartItem, error)
	UpsertCartItem(ctx context.Context, arg UpsertCartItemParams) (CartItem, error)
	UpdateCartItemKey(ctx context.Context, arg UpdateCartItemKeyParams) error
	DeleteCartItem(ctx context.Context, id pgtype.UUID) error
	DeleteCartItemByKey(ctx context.Context, arg DeleteCartItemByKeyParams) (int64, error)
	ClearCartItems(ctx context.Context, cartID pgtype.UUID) error
	UpdateCartTotals(ctx context.Context, arg UpdateCartTotalsParams) (Cart, error)

	// Orders
	NextOrderSequence(ctx context.Context, day pgtype.Date) (int32, error)
	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error)
	GetOrderByID(ctx context.Context, id pgtype.UUID) (Order, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error)
	ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error)
	CountOrders(ctx context.Context, arg CountOrdersParams) (int64, error)
	UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error)
	DeleteOrder(ctx context.Context, id pgtype.UUID) (int64, error)

	// Users and sessions
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (User, error)
	CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error)
	GetUserBySessionToken(ctx context.Context, token string) (User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

var _ Querier = (*Queries)(nil)
