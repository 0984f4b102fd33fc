package service

import (
	"context"
	"strings"
	"time"

	"github.com/askeland/vanir/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// fakeStore is an in-memory repository.Store. Transactions work on a deep
// copy of the data and fold it back on Commit, so rollback-on-error paths
// behave like the real database.
type fakeStore struct {
	products   []repository.Product
	carts      []repository.Cart
	cartItems  []repository.CartItem
	orders     []repository.Order
	orderItems []repository.OrderItem
	users      []repository.User
	sessions   []repository.Session
	counters   map[string]int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{counters: map[string]int32{}}
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{counters: map[string]int32{}}
	c.products = append(c.products, s.products...)
	c.carts = append(c.carts, s.carts...)
	c.cartItems = append(c.cartItems, s.cartItems...)
	c.orders = append(c.orders, s.orders...)
	c.orderItems = append(c.orderItems, s.orderItems...)
	c.users = append(c.users, s.users...)
	c.sessions = append(c.sessions, s.sessions...)
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

func (s *fakeStore) copyFrom(o *fakeStore) {
	s.products = o.products
	s.carts = o.carts
	s.cartItems = o.cartItems
	s.orders = o.orders
	s.orderItems = o.orderItems
	s.users = o.users
	s.sessions = o.sessions
	s.counters = o.counters
}

func (s *fakeStore) BeginTx(ctx context.Context) (repository.TxQuerier, error) {
	return &fakeTx{fakeStore: s.clone(), base: s}, nil
}

type fakeTx struct {
	*fakeStore
	base      *fakeStore
	committed bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.base.copyFrom(t.fakeStore)
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

func newUUID() pgtype.UUID {
	var u pgtype.UUID
	_ = u.Scan(uuid.NewString())
	return u
}

func sameUUID(a, b pgtype.UUID) bool {
	return a.Valid && b.Valid && a.Bytes == b.Bytes
}

func fakeNow() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
}

var errUnique = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

// Products

func (s *fakeStore) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	for _, p := range s.products {
		if p.Slug == arg.Slug {
			return repository.Product{}, errUnique
		}
	}
	p := repository.Product{
		ID:            newUUID(),
		Name:          arg.Name,
		Slug:          arg.Slug,
		Description:   arg.Description,
		PriceCents:    arg.PriceCents,
		DiscountCents: arg.DiscountCents,
		Quantity:      arg.Quantity,
		Active:        arg.Active,
		Status:        arg.Status,
		CategoryID:    arg.CategoryID,
		Colors:        arg.Colors,
		Sizes:         arg.Sizes,
		ImageURL:      arg.ImageURL,
		CreatedAt:     fakeNow(),
		UpdatedAt:     fakeNow(),
	}
	s.products = append(s.products, p)
	return p, nil
}

func (s *fakeStore) GetProductByID(ctx context.Context, id pgtype.UUID) (repository.Product, error) {
	for _, p := range s.products {
		if sameUUID(p.ID, id) {
			return p, nil
		}
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (s *fakeStore) GetProductBySlug(ctx context.Context, slug string) (repository.Product, error) {
	for _, p := range s.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (s *fakeStore) GetProductByIDForUpdate(ctx context.Context, id pgtype.UUID) (repository.Product, error) {
	return s.GetProductByID(ctx, id)
}

func (s *fakeStore) matchProduct(p repository.Product, arg repository.CountProductsParams) bool {
	if arg.ActiveOnly && !p.Active {
		return false
	}
	if arg.CategoryID.Valid && (!p.CategoryID.Valid || p.CategoryID.String != arg.CategoryID.String) {
		return false
	}
	return true
}

func (s *fakeStore) ListProducts(ctx context.Context, arg repository.ListProductsParams) ([]repository.Product, error) {
	var matched []repository.Product
	for _, p := range s.products {
		if s.matchProduct(p, repository.CountProductsParams{ActiveOnly: arg.ActiveOnly, CategoryID: arg.CategoryID}) {
			matched = append(matched, p)
		}
	}
	start := int(arg.Offset)
	if start > len(matched) {
		return nil, nil
	}
	end := start + int(arg.Limit)
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (s *fakeStore) CountProducts(ctx context.Context, arg repository.CountProductsParams) (int64, error) {
	var n int64
	for _, p := range s.products {
		if s.matchProduct(p, arg) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) UpdateProduct(ctx context.Context, arg repository.UpdateProductParams) (repository.Product, error) {
	for i, p := range s.products {
		if !sameUUID(p.ID, arg.ID) {
			continue
		}
		for _, other := range s.products {
			if other.Slug == arg.Slug && !sameUUID(other.ID, arg.ID) {
				return repository.Product{}, errUnique
			}
		}
		p.Name = arg.Name
		p.Slug = arg.Slug
		p.Description = arg.Description
		p.PriceCents = arg.PriceCents
		p.DiscountCents = arg.DiscountCents
		p.Quantity = arg.Quantity
		p.Active = arg.Active
		p.Status = arg.Status
		p.CategoryID = arg.CategoryID
		p.Colors = arg.Colors
		p.Sizes = arg.Sizes
		p.ImageURL = arg.ImageURL
		p.UpdatedAt = fakeNow()
		s.products[i] = p
		return p, nil
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (s *fakeStore) UpdateProductStatus(ctx context.Context, arg repository.UpdateProductStatusParams) error {
	for i, p := range s.products {
		if sameUUID(p.ID, arg.ID) {
			s.products[i].Status = arg.Status
			return nil
		}
	}
	return nil
}

func (s *fakeStore) DeleteProduct(ctx context.Context, id pgtype.UUID) (int64, error) {
	for i, p := range s.products {
		if sameUUID(p.ID, id) {
			s.products = append(s.products[:i:i], s.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeStore) DecrementProductStock(ctx context.Context, arg repository.DecrementProductStockParams) (repository.DecrementProductStockRow, error) {
	for i, p := range s.products {
		if sameUUID(p.ID, arg.ID) && p.Quantity >= arg.Quantity {
			p.Quantity -= arg.Quantity
			p.Sold += arg.Quantity
			s.products[i] = p
			return repository.DecrementProductStockRow{Quantity: p.Quantity, Active: p.Active}, nil
		}
	}
	return repository.DecrementProductStockRow{}, pgx.ErrNoRows
}

// Carts

func (s *fakeStore) GetCartByUserID(ctx context.Context, userID pgtype.UUID) (repository.Cart, error) {
	for _, c := range s.carts {
		if sameUUID(c.UserID, userID) {
			return c, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (s *fakeStore) CreateCart(ctx context.Context, userID pgtype.UUID) (repository.Cart, error) {
	if c, err := s.GetCartByUserID(ctx, userID); err == nil {
		return c, nil
	}
	c := repository.Cart{ID: newUUID(), UserID: userID, CreatedAt: fakeNow(), UpdatedAt: fakeNow()}
	s.carts = append(s.carts, c)
	return c, nil
}

func (s *fakeStore) ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]repository.CartItem, error) {
	var items []repository.CartItem
	for _, item := range s.cartItems {
		if sameUUID(item.CartID, cartID) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *fakeStore) ListCartItemsWithProducts(ctx context.Context, cartID pgtype.UUID) ([]repository.CartItemWithProduct, error) {
	var rows []repository.CartItemWithProduct
	for _, item := range s.cartItems {
		if !sameUUID(item.CartID, cartID) {
			continue
		}
		row := repository.CartItemWithProduct{CartItem: item}
		if p, err := s.GetProductByID(ctx, item.ProductID); err == nil {
			row.ProductQuantity = pgtype.Int4{Int32: p.Quantity, Valid: true}
			row.ProductActive = pgtype.Bool{Bool: p.Active, Valid: true}
			row.ProductPriceCents = pgtype.Int4{Int32: p.PriceCents, Valid: true}
			row.ProductDiscountCents = p.DiscountCents
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *fakeStore) GetCartItemByKey(ctx context.Context, arg repository.GetCartItemByKeyParams) (repository.CartItem, error) {
	for _, item := range s.cartItems {
		if sameUUID(item.CartID, arg.CartID) && item.CartItemKey == arg.CartItemKey {
			return item, nil
		}
	}
	return repository.CartItem{}, pgx.ErrNoRows
}

func (s *fakeStore) UpsertCartItem(ctx context.Context, arg repository.UpsertCartItemParams) (repository.CartItem, error) {
	for i, item := range s.cartItems {
		if sameUUID(item.CartID, arg.CartID) && item.CartItemKey == arg.CartItemKey {
			item.Quantity = arg.Quantity
			item.UnitPriceCents = arg.UnitPriceCents
			item.ProductName = arg.ProductName
			item.ImageURL = arg.ImageURL
			item.UpdatedAt = fakeNow()
			s.cartItems[i] = item
			return item, nil
		}
	}
	item := repository.CartItem{
		ID:             newUUID(),
		CartID:         arg.CartID,
		ProductID:      arg.ProductID,
		CartItemKey:    arg.CartItemKey,
		ProductName:    arg.ProductName,
		Color:          arg.Color,
		Size:           arg.Size,
		Quantity:       arg.Quantity,
		UnitPriceCents: arg.UnitPriceCents,
		ImageURL:       arg.ImageURL,
		CreatedAt:      fakeNow(),
		UpdatedAt:      fakeNow(),
	}
	s.cartItems = append(s.cartItems, item)
	return item, nil
}

func (s *fakeStore) UpdateCartItemKey(ctx context.Context, arg repository.UpdateCartItemKeyParams) error {
	for i, item := range s.cartItems {
		if sameUUID(item.ID, arg.ID) {
			s.cartItems[i].CartItemKey = arg.CartItemKey
		}
	}
	return nil
}

func (s *fakeStore) DeleteCartItem(ctx context.Context, id pgtype.UUID) error {
	for i, item := range s.cartItems {
		if sameUUID(item.ID, id) {
			s.cartItems = append(s.cartItems[:i:i], s.cartItems[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) DeleteCartItemByKey(ctx context.Context, arg repository.DeleteCartItemByKeyParams) (int64, error) {
	for i, item := range s.cartItems {
		if sameUUID(item.CartID, arg.CartID) && item.CartItemKey == arg.CartItemKey {
			s.cartItems = append(s.cartItems[:i:i], s.cartItems[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeStore) ClearCartItems(ctx context.Context, cartID pgtype.UUID) error {
	var kept []repository.CartItem
	for _, item := range s.cartItems {
		if !sameUUID(item.CartID, cartID) {
			kept = append(kept, item)
		}
	}
	s.cartItems = kept
	return nil
}

func (s *fakeStore) UpdateCartTotals(ctx context.Context, arg repository.UpdateCartTotalsParams) (repository.Cart, error) {
	for i, c := range s.carts {
		if sameUUID(c.ID, arg.CartID) {
			c.TotalItems = arg.TotalItems
			c.TotalPriceCents = arg.TotalPriceCents
			c.UpdatedAt = fakeNow()
			s.carts[i] = c
			return c, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

// Orders

func (s *fakeStore) NextOrderSequence(ctx context.Context, day pgtype.Date) (int32, error) {
	key := day.Time.Format("2006-01-02")
	s.counters[key]++
	return s.counters[key], nil
}

func (s *fakeStore) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	o := repository.Order{
		ID:                 newUUID(),
		OrderNumber:        arg.OrderNumber,
		UserID:             arg.UserID,
		Status:             arg.Status,
		ShippingFullName:   arg.ShippingFullName,
		ShippingLine1:      arg.ShippingLine1,
		ShippingLine2:      arg.ShippingLine2,
		ShippingCity:       arg.ShippingCity,
		ShippingPostalCode: arg.ShippingPostalCode,
		ShippingCountry:    arg.ShippingCountry,
		PaymentMethod:      arg.PaymentMethod,
		ItemsPriceCents:    arg.ItemsPriceCents,
		ShippingPriceCents: arg.ShippingPriceCents,
		TaxPriceCents:      arg.TaxPriceCents,
		TotalPriceCents:    arg.TotalPriceCents,
		CreatedAt:          fakeNow(),
		UpdatedAt:          fakeNow(),
	}
	s.orders = append(s.orders, o)
	return o, nil
}

func (s *fakeStore) CreateOrderItem(ctx context.Context, arg repository.CreateOrderItemParams) (repository.OrderItem, error) {
	item := repository.OrderItem{
		ID:              newUUID(),
		OrderID:         arg.OrderID,
		ProductID:       arg.ProductID,
		Name:            arg.Name,
		Color:           arg.Color,
		Size:            arg.Size,
		Quantity:        arg.Quantity,
		UnitPriceCents:  arg.UnitPriceCents,
		TotalPriceCents: arg.TotalPriceCents,
		ImageURL:        arg.ImageURL,
	}
	s.orderItems = append(s.orderItems, item)
	return item, nil
}

func (s *fakeStore) GetOrderByID(ctx context.Context, id pgtype.UUID) (repository.Order, error) {
	for _, o := range s.orders {
		if sameUUID(o.ID, id) {
			return o, nil
		}
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (s *fakeStore) ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]repository.OrderItem, error) {
	var items []repository.OrderItem
	for _, item := range s.orderItems {
		if sameUUID(item.OrderID, orderID) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *fakeStore) matchOrder(o repository.Order, arg repository.CountOrdersParams) bool {
	if arg.UserID.Valid && !sameUUID(o.UserID, arg.UserID) {
		return false
	}
	if arg.Status.Valid && o.Status != arg.Status.String {
		return false
	}
	if arg.IsPaid.Valid && o.IsPaid != arg.IsPaid.Bool {
		return false
	}
	if arg.IsDelivered.Valid && o.IsDelivered != arg.IsDelivered.Bool {
		return false
	}
	return true
}

func (s *fakeStore) ListOrders(ctx context.Context, arg repository.ListOrdersParams) ([]repository.Order, error) {
	var matched []repository.Order
	for _, o := range s.orders {
		if s.matchOrder(o, repository.CountOrdersParams{
			UserID: arg.UserID, Status: arg.Status, IsPaid: arg.IsPaid, IsDelivered: arg.IsDelivered,
		}) {
			matched = append(matched, o)
		}
	}
	start := int(arg.Offset)
	if start > len(matched) {
		return nil, nil
	}
	end := start + int(arg.Limit)
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (s *fakeStore) CountOrders(ctx context.Context, arg repository.CountOrdersParams) (int64, error) {
	var n int64
	for _, o := range s.orders {
		if s.matchOrder(o, arg) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) UpdateOrder(ctx context.Context, arg repository.UpdateOrderParams) (repository.Order, error) {
	for i, o := range s.orders {
		if sameUUID(o.ID, arg.ID) {
			o.Status = arg.Status
			o.PaymentMethod = arg.PaymentMethod
			o.IsPaid = arg.IsPaid
			o.PaidAt = arg.PaidAt
			o.IsDelivered = arg.IsDelivered
			o.DeliveredAt = arg.DeliveredAt
			o.CancelledAt = arg.CancelledAt
			o.UpdatedAt = fakeNow()
			s.orders[i] = o
			return o, nil
		}
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (s *fakeStore) DeleteOrder(ctx context.Context, id pgtype.UUID) (int64, error) {
	for i, o := range s.orders {
		if sameUUID(o.ID, id) {
			s.orders = append(s.orders[:i:i], s.orders[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Users and sessions

func (s *fakeStore) CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, arg.Email) {
			return repository.User{}, errUnique
		}
	}
	u := repository.User{
		ID:           newUUID(),
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		FirstName:    arg.FirstName,
		LastName:     arg.LastName,
		Role:         arg.Role,
		CreatedAt:    fakeNow(),
		UpdatedAt:    fakeNow(),
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (s *fakeStore) GetUserByID(ctx context.Context, id pgtype.UUID) (repository.User, error) {
	for _, u := range s.users {
		if sameUUID(u.ID, id) {
			return u, nil
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (s *fakeStore) CreateSession(ctx context.Context, arg repository.CreateSessionParams) (repository.Session, error) {
	sess := repository.Session{
		Token:     arg.Token,
		UserID:    arg.UserID,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: fakeNow(),
	}
	s.sessions = append(s.sessions, sess)
	return sess, nil
}

func (s *fakeStore) GetUserBySessionToken(ctx context.Context, token string) (repository.User, error) {
	for _, sess := range s.sessions {
		if sess.Token == token && sess.ExpiresAt.Time.After(time.Now()) {
			return s.GetUserByID(ctx, sess.UserID)
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (s *fakeStore) DeleteSession(ctx context.Context, token string) error {
	for i, sess := range s.sessions {
		if sess.Token == token {
			s.sessions = append(s.sessions[:i:i], s.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	var kept []repository.Session
	var removed int64
	for _, sess := range s.sessions {
		if sess.ExpiresAt.Time.After(time.Now()) {
			kept = append(kept, sess)
		} else {
			removed++
		}
	}
	s.sessions = kept
	return removed, nil
}

var _ repository.Store = (*fakeStore)(nil)
