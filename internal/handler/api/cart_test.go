package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/askeland/vanir/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCartService implements domain.CartService for handler tests.
type mockCartService struct {
	getCartFunc    func(ctx context.Context, userID string) (*domain.CartView, error)
	addItemFunc    func(ctx context.Context, userID string, params domain.AddCartItemParams) (*domain.CartView, error)
	removeItemFunc func(ctx context.Context, userID string, key string) (*domain.CartView, error)
	clearCartFunc  func(ctx context.Context, userID string) (*domain.CartView, error)
}

func (m *mockCartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	if m.getCartFunc != nil {
		return m.getCartFunc(ctx, userID)
	}
	return &domain.CartView{UserID: userID}, nil
}

func (m *mockCartService) AddItem(ctx context.Context, userID string, params domain.AddCartItemParams) (*domain.CartView, error) {
	if m.addItemFunc != nil {
		return m.addItemFunc(ctx, userID, params)
	}
	return &domain.CartView{UserID: userID}, nil
}

func (m *mockCartService) RemoveItem(ctx context.Context, userID string, key string) (*domain.CartView, error) {
	if m.removeItemFunc != nil {
		return m.removeItemFunc(ctx, userID, key)
	}
	return &domain.CartView{UserID: userID}, nil
}

func (m *mockCartService) ClearCart(ctx context.Context, userID string) (*domain.CartView, error) {
	if m.clearCartFunc != nil {
		return m.clearCartFunc(ctx, userID)
	}
	return &domain.CartView{UserID: userID}, nil
}

func TestCartHandler_Get(t *testing.T) {
	user := customer()
	carts := &mockCartService{
		getCartFunc: func(ctx context.Context, userID string) (*domain.CartView, error) {
			assert.Equal(t, user.ID, userID)
			return &domain.CartView{
				ID:     "cart-1",
				UserID: userID,
				Items: []domain.CartItemView{
					{ProductID: "p1", CartItemKey: "p1", Quantity: 2, InStock: true},
				},
				TotalItems:      2,
				TotalPriceCents: 5000,
			}, nil
		},
	}
	h := NewCartHandler(carts, testLogger())

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	rec := httptest.NewRecorder()
	asUser(user, h.Get).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view domain.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, int64(5000), view.TotalPriceCents)
	assert.Len(t, view.Items, 1)
}

func TestCartHandler_AddItem(t *testing.T) {
	user := customer()
	carts := &mockCartService{
		addItemFunc: func(ctx context.Context, userID string, params domain.AddCartItemParams) (*domain.CartView, error) {
			assert.Equal(t, "p1", params.ProductID)
			assert.Equal(t, int32(3), params.Quantity)
			assert.Equal(t, "blue", params.Color)
			return &domain.CartView{UserID: userID, TotalItems: 3}, nil
		},
	}
	h := NewCartHandler(carts, testLogger())

	body := `{"productId":"p1","quantity":3,"color":"blue"}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	asUser(user, h.AddItem).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_AddItemValidation(t *testing.T) {
	h := NewCartHandler(&mockCartService{}, testLogger())

	body := `{"productId":"","quantity":0}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	asUser(customer(), h.AddItem).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	eb := decodeErrorBody(t, rec.Body)
	assert.Equal(t, "invalid", eb.Error.Code)
	assert.Contains(t, eb.Error.Fields, "productid")
	assert.Contains(t, eb.Error.Fields, "quantity")
}

func TestCartHandler_AddItemOutOfStock(t *testing.T) {
	carts := &mockCartService{
		addItemFunc: func(ctx context.Context, userID string, params domain.AddCartItemParams) (*domain.CartView, error) {
			return nil, &domain.OutOfStockError{ProductID: "p1", Requested: 5, Available: 2}
		},
	}
	h := NewCartHandler(carts, testLogger())

	body := `{"productId":"p1","quantity":5}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	asUser(customer(), h.AddItem).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	eb := decodeErrorBody(t, rec.Body)
	assert.Equal(t, "out_of_stock", eb.Error.Code)
	require.NotNil(t, eb.Error.AvailableQuantity)
	assert.Equal(t, int32(2), *eb.Error.AvailableQuantity)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	user := customer()
	carts := &mockCartService{
		removeItemFunc: func(ctx context.Context, userID string, key string) (*domain.CartView, error) {
			assert.Equal(t, "p1|color:blue", key)
			return &domain.CartView{UserID: userID}, nil
		},
	}
	h := NewCartHandler(carts, testLogger())

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/cart/items/p1%7Ccolor:blue", nil))
	req.SetPathValue("key", "p1|color:blue")
	rec := httptest.NewRecorder()
	asUser(user, h.RemoveItem).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_RemoveItemNotFound(t *testing.T) {
	carts := &mockCartService{
		removeItemFunc: func(ctx context.Context, userID string, key string) (*domain.CartView, error) {
			return nil, domain.ErrCartItemNotFound
		},
	}
	h := NewCartHandler(carts, testLogger())

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/cart/items/ghost", nil))
	req.SetPathValue("key", "ghost")
	rec := httptest.NewRecorder()
	asUser(customer(), h.RemoveItem).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeErrorBody(t, rec.Body).Error.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	cleared := false
	carts := &mockCartService{
		clearCartFunc: func(ctx context.Context, userID string) (*domain.CartView, error) {
			cleared = true
			return &domain.CartView{UserID: userID}, nil
		},
	}
	h := NewCartHandler(carts, testLogger())

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/cart", nil))
	rec := httptest.NewRecorder()
	asUser(customer(), h.Clear).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cleared)
}
