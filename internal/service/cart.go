package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/repository"
	"github.com/jackc/pgx/v5/pgtype"
)

type cartService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewCartService creates a CartService backed by the given store.
func NewCartService(store repository.Store, logger *slog.Logger) domain.CartService {
	return &cartService{store: store, logger: logger}
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	cart, err := s.getOrCreateCart(ctx, s.store, uid)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return s.buildCartView(ctx, cart)
}

// buildCartView loads cart lines joined with live product rows, heals stale
// state and returns the enriched view. Lines whose product is gone or
// inactive are removed; missing cart item keys are backfilled from the
// stored variant fields.
func (s *cartService) buildCartView(ctx context.Context, cart repository.Cart) (*domain.CartView, error) {
	rows, err := s.store.ListCartItemsWithProducts(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	view := &domain.CartView{
		ID:        uuidString(cart.ID),
		UserID:    uuidString(cart.UserID),
		Items:     []domain.CartItemView{},
		UpdatedAt: cart.UpdatedAt.Time,
	}

	healed := false
	var totalItems int32
	var totalPrice int64

	for _, row := range rows {
		if !row.ProductActive.Valid || !row.ProductActive.Bool {
			if err := s.store.DeleteCartItem(ctx, row.ID); err != nil {
				return nil, fmt.Errorf("drop stale cart item: %w", err)
			}
			healed = true
			continue
		}

		key := row.CartItemKey
		if key == "" {
			key = domain.CartItemKey(uuidString(row.ProductID), row.Color, row.Size)
			if err := s.store.UpdateCartItemKey(ctx, repository.UpdateCartItemKeyParams{
				ID:          row.ID,
				CartItemKey: key,
			}); err != nil {
				return nil, fmt.Errorf("backfill cart item key: %w", err)
			}
			healed = true
		}

		current := row.UnitPriceCents
		if row.ProductPriceCents.Valid {
			current = row.ProductPriceCents.Int32
			if row.ProductDiscountCents.Valid && row.ProductDiscountCents.Int32 < current {
				current = row.ProductDiscountCents.Int32
			}
		}

		lineTotal := int64(row.UnitPriceCents) * int64(row.Quantity)
		view.Items = append(view.Items, domain.CartItemView{
			ID:                uuidString(row.ID),
			ProductID:         uuidString(row.ProductID),
			CartItemKey:       key,
			ProductName:       row.ProductName,
			Color:             row.Color,
			Size:              row.Size,
			Quantity:          row.Quantity,
			UnitPriceCents:    row.UnitPriceCents,
			TotalPriceCents:   lineTotal,
			ImageURL:          row.ImageURL,
			InStock:           domain.Sellable(row.ProductQuantity.Int32, row.ProductActive.Bool),
			AvailableQuantity: row.ProductQuantity.Int32,
			CurrentPriceCents: current,
		})
		totalItems += row.Quantity
		totalPrice += lineTotal
	}

	if healed || totalItems != cart.TotalItems || totalPrice != cart.TotalPriceCents {
		updated, err := s.store.UpdateCartTotals(ctx, repository.UpdateCartTotalsParams{
			CartID:          cart.ID,
			TotalItems:      totalItems,
			TotalPriceCents: totalPrice,
		})
		if err != nil {
			return nil, fmt.Errorf("update cart totals: %w", err)
		}
		view.UpdatedAt = updated.UpdatedAt.Time
	}

	view.TotalItems = totalItems
	view.TotalPriceCents = totalPrice
	return view, nil
}

func (s *cartService) AddItem(ctx context.Context, userID string, params domain.AddCartItemParams) (*domain.CartView, error) {
	if params.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}
	pid, err := parseUUID(params.ProductID)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add item: %w", err)
	}
	defer tx.Rollback(ctx)

	cart, err := s.getOrCreateCart(ctx, tx, uid)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	product, err := tx.GetProductByIDForUpdate(ctx, pid)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}

	key := domain.CartItemKey(params.ProductID, params.Color, params.Size)

	var held int32
	existing, err := tx.GetCartItemByKey(ctx, repository.GetCartItemByKeyParams{
		CartID:      cart.ID,
		CartItemKey: key,
	})
	switch {
	case err == nil:
		held = existing.Quantity
	case isNoRows(err):
	default:
		return nil, fmt.Errorf("get cart item: %w", err)
	}

	// The merged line quantity must fit within live stock.
	if err := checkStock(product, params.Quantity, held); err != nil {
		return nil, err
	}

	_, err = tx.UpsertCartItem(ctx, repository.UpsertCartItemParams{
		CartID:         cart.ID,
		ProductID:      pid,
		CartItemKey:    key,
		ProductName:    product.Name,
		Color:          domain.NormalizeVariant(params.Color),
		Size:           domain.NormalizeVariant(params.Size),
		Quantity:       held + params.Quantity,
		UnitPriceCents: resolvedUnitPrice(product),
		ImageURL:       product.ImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	if err := s.recomputeTotals(ctx, tx, cart.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit add item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID string, cartItemKey string) (*domain.CartView, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	cart, err := s.store.GetCartByUserID(ctx, uid)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	n, err := s.store.DeleteCartItemByKey(ctx, repository.DeleteCartItemByKeyParams{
		CartID:      cart.ID,
		CartItemKey: cartItemKey,
	})
	if err != nil {
		return nil, fmt.Errorf("delete cart item: %w", err)
	}
	if n == 0 {
		// Items written before keys were stored match on recomputed keys.
		removed, err := s.removeLegacyItem(ctx, cart.ID, cartItemKey)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, domain.ErrCartItemNotFound
		}
	}

	if err := s.recomputeTotals(ctx, s.store, cart.ID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) removeLegacyItem(ctx context.Context, cartID pgtype.UUID, cartItemKey string) (bool, error) {
	items, err := s.store.ListCartItems(ctx, cartID)
	if err != nil {
		return false, fmt.Errorf("list cart items: %w", err)
	}
	for _, item := range items {
		if item.CartItemKey != "" {
			continue
		}
		if domain.CartItemKey(uuidString(item.ProductID), item.Color, item.Size) == cartItemKey {
			if err := s.store.DeleteCartItem(ctx, item.ID); err != nil {
				return false, fmt.Errorf("delete cart item: %w", err)
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) (*domain.CartView, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	cart, err := s.getOrCreateCart(ctx, s.store, uid)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if err := s.store.ClearCartItems(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	cleared, err := s.store.UpdateCartTotals(ctx, repository.UpdateCartTotalsParams{
		CartID: cart.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("update cart totals: %w", err)
	}

	return &domain.CartView{
		ID:         uuidString(cleared.ID),
		UserID:     uuidString(cleared.UserID),
		Items:      []domain.CartItemView{},
		TotalItems: 0,
		UpdatedAt:  cleared.UpdatedAt.Time,
	}, nil
}

func (s *cartService) getOrCreateCart(ctx context.Context, q repository.Querier, uid pgtype.UUID) (repository.Cart, error) {
	cart, err := q.GetCartByUserID(ctx, uid)
	if err == nil {
		return cart, nil
	}
	if !isNoRows(err) {
		return repository.Cart{}, err
	}
	return q.CreateCart(ctx, uid)
}

func (s *cartService) recomputeTotals(ctx context.Context, q repository.Querier, cartID pgtype.UUID) error {
	items, err := q.ListCartItems(ctx, cartID)
	if err != nil {
		return fmt.Errorf("list cart items: %w", err)
	}
	var totalItems int32
	var totalPrice int64
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice += int64(item.UnitPriceCents) * int64(item.Quantity)
	}
	_, err = q.UpdateCartTotals(ctx, repository.UpdateCartTotalsParams{
		CartID:          cartID,
		TotalItems:      totalItems,
		TotalPriceCents: totalPrice,
	})
	if err != nil {
		return fmt.Errorf("update cart totals: %w", err)
	}
	return nil
}
