package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/events"
	"github.com/askeland/vanir/internal/repository"
)

// OrderPricing configures the computed pricing components of an order.
type OrderPricing struct {
	ShippingFlatCents int64
	TaxRatePercent    float64
}

type orderService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *slog.Logger
	pricing   OrderPricing
}

// NewOrderService creates an OrderService backed by the given store and
// event publisher.
func NewOrderService(store repository.Store, publisher events.Publisher, logger *slog.Logger, pricing OrderPricing) domain.OrderService {
	return &orderService{store: store, publisher: publisher, logger: logger, pricing: pricing}
}

// orderLine is a resolved order line: the locked product plus the quantity
// and price it will be sold at.
type orderLine struct {
	product        repository.Product
	quantity       int32
	color          string
	size           string
	unitPriceCents int32
}

func (s *orderService) CreateOrder(ctx context.Context, userID string, params domain.CreateOrderParams) (view *domain.OrderView, err error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, domain.Unauthorized("", "Invalid user")
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin order: %w", err)
	}
	defer tx.Rollback(ctx)

	inputs := params.Items
	fromCart := len(inputs) == 0
	var cart repository.Cart
	var capturedPrices []int32

	// Unexpected failures abort the transaction; keep enough context in the
	// log to reconstruct the attempt when diagnosing a stock race.
	defer func() {
		if err != nil && domain.ErrorCode(err) == domain.EINTERNAL {
			s.logger.ErrorContext(ctx, "order transaction failed",
				"user_id", userID,
				"items", describeOrderLines(inputs),
				"error", err)
		}
	}()
	if fromCart {
		cart, err = tx.GetCartByUserID(ctx, uid)
		if err != nil {
			if isNoRows(err) {
				return nil, domain.ErrEmptyCart
			}
			return nil, fmt.Errorf("get cart: %w", err)
		}
		items, err := tx.ListCartItems(ctx, cart.ID)
		if err != nil {
			return nil, fmt.Errorf("list cart items: %w", err)
		}
		for _, item := range items {
			inputs = append(inputs, domain.OrderItemInput{
				ProductID: uuidString(item.ProductID),
				Quantity:  item.Quantity,
				Color:     item.Color,
				Size:      item.Size,
			})
			capturedPrices = append(capturedPrices, item.UnitPriceCents)
		}
	}
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Lock every product row, validate availability, then debit. A failed
	// debit rolls back the whole transaction, including the counters below.
	lines := make([]orderLine, 0, len(inputs))
	for i, in := range inputs {
		if in.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		pid, err := parseUUID(in.ProductID)
		if err != nil {
			return nil, domain.ErrProductNotFound
		}
		product, err := tx.GetProductByIDForUpdate(ctx, pid)
		if err != nil {
			if isNoRows(err) {
				return nil, domain.ErrProductNotFound
			}
			return nil, fmt.Errorf("lock product: %w", err)
		}
		if err := checkStock(product, in.Quantity, 0); err != nil {
			return nil, err
		}
		// Cart lines sell at the price captured when the item was added;
		// explicit lines have no captured price and sell at the live one.
		unitPrice := resolvedUnitPrice(product)
		if fromCart {
			unitPrice = capturedPrices[i]
		}
		lines = append(lines, orderLine{
			product:        product,
			quantity:       in.Quantity,
			color:          domain.NormalizeVariant(in.Color),
			size:           domain.NormalizeVariant(in.Size),
			unitPriceCents: unitPrice,
		})
	}

	var itemsPrice int64
	for _, line := range lines {
		itemsPrice += int64(line.unitPriceCents) * int64(line.quantity)
	}
	if params.ItemsPriceCents != nil {
		itemsPrice = *params.ItemsPriceCents
	}
	shippingPrice := s.pricing.ShippingFlatCents
	if params.ShippingPriceCents != nil {
		shippingPrice = *params.ShippingPriceCents
	}
	taxPrice := int64(math.Round(float64(itemsPrice) * s.pricing.TaxRatePercent / 100))
	if params.TaxPriceCents != nil {
		taxPrice = *params.TaxPriceCents
	}
	totalPrice := itemsPrice + shippingPrice + taxPrice

	now := time.Now().UTC()
	seq, err := tx.NextOrderSequence(ctx, pgDate(now))
	if err != nil {
		return nil, fmt.Errorf("next order sequence: %w", err)
	}
	orderNumber := fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), seq)

	order, err := tx.CreateOrder(ctx, repository.CreateOrderParams{
		OrderNumber:        orderNumber,
		UserID:             uid,
		Status:             domain.OrderStatusPending,
		ShippingFullName:   params.ShippingAddress.FullName,
		ShippingLine1:      params.ShippingAddress.Line1,
		ShippingLine2:      params.ShippingAddress.Line2,
		ShippingCity:       params.ShippingAddress.City,
		ShippingPostalCode: params.ShippingAddress.PostalCode,
		ShippingCountry:    params.ShippingAddress.Country,
		PaymentMethod:      params.PaymentMethod,
		ItemsPriceCents:    itemsPrice,
		ShippingPriceCents: shippingPrice,
		TaxPriceCents:      taxPrice,
		TotalPriceCents:    totalPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	itemViews := make([]domain.OrderItemView, 0, len(lines))
	for _, line := range lines {
		lineTotal := int64(line.unitPriceCents) * int64(line.quantity)
		_, err := tx.CreateOrderItem(ctx, repository.CreateOrderItemParams{
			OrderID:         order.ID,
			ProductID:       line.product.ID,
			Name:            line.product.Name,
			Color:           line.color,
			Size:            line.size,
			Quantity:        line.quantity,
			UnitPriceCents:  line.unitPriceCents,
			TotalPriceCents: lineTotal,
			ImageURL:        line.product.ImageURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}

		debited, err := tx.DecrementProductStock(ctx, repository.DecrementProductStockParams{
			ID:       line.product.ID,
			Quantity: line.quantity,
		})
		if err != nil {
			if isNoRows(err) {
				return nil, &domain.OutOfStockError{
					ProductID: uuidString(line.product.ID),
					Requested: line.quantity,
					Available: line.product.Quantity,
				}
			}
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		if err := tx.UpdateProductStatus(ctx, repository.UpdateProductStatusParams{
			ID:     line.product.ID,
			Status: domain.ProductStatus(debited.Quantity, debited.Active),
		}); err != nil {
			return nil, fmt.Errorf("update product status: %w", err)
		}

		itemViews = append(itemViews, domain.OrderItemView{
			ProductID:       uuidString(line.product.ID),
			Name:            line.product.Name,
			Color:           line.color,
			Size:            line.size,
			Quantity:        line.quantity,
			UnitPriceCents:  line.unitPriceCents,
			TotalPriceCents: lineTotal,
			ImageURL:        line.product.ImageURL,
		})
	}

	if fromCart && !params.KeepCart {
		if err := tx.ClearCartItems(ctx, cart.ID); err != nil {
			return nil, fmt.Errorf("clear cart: %w", err)
		}
		if _, err := tx.UpdateCartTotals(ctx, repository.UpdateCartTotalsParams{
			CartID: cart.ID,
		}); err != nil {
			return nil, fmt.Errorf("reset cart totals: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	view = orderView(order, itemViews)

	if err := s.publisher.OrderCreated(ctx, events.OrderEvent{
		OrderID:         view.ID,
		OrderNumber:     view.OrderNumber,
		UserID:          view.UserID,
		Status:          view.Status,
		TotalPriceCents: view.TotalPriceCents,
		OccurredAt:      now,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order created event",
			"order_id", view.ID, "error", err)
	}

	return view, nil
}

func (s *orderService) GetOrder(ctx context.Context, req domain.Requester, orderID string) (*domain.OrderView, error) {
	order, err := s.loadOrder(ctx, req, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListOrderItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return orderView(order, orderItemViews(items)), nil
}

func (s *orderService) ListOrders(ctx context.Context, req domain.Requester, filter domain.OrderListFilter) (*domain.OrderList, error) {
	if filter.Status != "" && !domain.ValidOrderStatus(filter.Status) {
		return nil, domain.Invalid("", fmt.Sprintf("Unknown order status %q", filter.Status))
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	arg := repository.ListOrdersParams{
		Status:      pgText(filter.Status),
		IsPaid:      pgBoolPtr(filter.IsPaid),
		IsDelivered: pgBoolPtr(filter.IsDelivered),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
	if !req.Admin {
		uid, err := parseUUID(req.UserID)
		if err != nil {
			return nil, domain.Unauthorized("", "Invalid user")
		}
		arg.UserID = uid
	}

	orders, err := s.store.ListOrders(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	total, err := s.store.CountOrders(ctx, repository.CountOrdersParams{
		UserID:      arg.UserID,
		Status:      arg.Status,
		IsPaid:      arg.IsPaid,
		IsDelivered: arg.IsDelivered,
	})
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	list := &domain.OrderList{
		Orders:     make([]domain.OrderView, 0, len(orders)),
		Pagination: pagination(page, limit, total),
	}
	for _, order := range orders {
		items, err := s.store.ListOrderItems(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("list order items: %w", err)
		}
		list.Orders = append(list.Orders, *orderView(order, orderItemViews(items)))
	}
	return list, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID string, params domain.UpdateOrderParams) (*domain.OrderView, error) {
	oid, err := parseUUID(orderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.store.GetOrderByID(ctx, oid)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	now := time.Now().UTC()
	previousStatus := order.Status

	arg := repository.UpdateOrderParams{
		ID:            order.ID,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		IsPaid:        order.IsPaid,
		PaidAt:        order.PaidAt,
		IsDelivered:   order.IsDelivered,
		DeliveredAt:   order.DeliveredAt,
		CancelledAt:   order.CancelledAt,
	}

	if params.Status != nil && *params.Status != order.Status {
		if !domain.CanTransitionOrderStatus(order.Status, *params.Status) {
			return nil, domain.Conflict("",
				fmt.Sprintf("Cannot change order status from %s to %s", order.Status, *params.Status))
		}
		arg.Status = *params.Status
		switch *params.Status {
		case domain.OrderStatusDelivered:
			if !arg.IsDelivered {
				arg.IsDelivered = true
				arg.DeliveredAt = pgTime(now)
			}
		case domain.OrderStatusCancelled:
			if !arg.CancelledAt.Valid {
				arg.CancelledAt = pgTime(now)
			}
		}
	}
	if params.PaymentMethod != nil {
		arg.PaymentMethod = *params.PaymentMethod
	}
	if params.MarkPaid && !arg.IsPaid {
		arg.IsPaid = true
		arg.PaidAt = pgTime(now)
	}
	if params.MarkDelivered && !arg.IsDelivered {
		arg.IsDelivered = true
		arg.DeliveredAt = pgTime(now)
	}

	updated, err := s.store.UpdateOrder(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	items, err := s.store.ListOrderItems(ctx, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	view := orderView(updated, orderItemViews(items))

	if view.Status != previousStatus {
		if err := s.publisher.OrderStatusChanged(ctx, events.OrderEvent{
			OrderID:         view.ID,
			OrderNumber:     view.OrderNumber,
			UserID:          view.UserID,
			Status:          view.Status,
			PreviousStatus:  previousStatus,
			TotalPriceCents: view.TotalPriceCents,
			OccurredAt:      now,
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to publish order status event",
				"order_id", view.ID, "error", err)
		}
	}

	return view, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, req domain.Requester, orderID string) error {
	order, err := s.loadOrder(ctx, req, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusPending {
		return domain.ErrOrderNotPending
	}
	if _, err := s.store.DeleteOrder(ctx, order.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// loadOrder fetches an order and enforces ownership.
func (s *orderService) loadOrder(ctx context.Context, req domain.Requester, orderID string) (repository.Order, error) {
	oid, err := parseUUID(orderID)
	if err != nil {
		return repository.Order{}, domain.ErrOrderNotFound
	}
	order, err := s.store.GetOrderByID(ctx, oid)
	if err != nil {
		if isNoRows(err) {
			return repository.Order{}, domain.ErrOrderNotFound
		}
		return repository.Order{}, fmt.Errorf("get order: %w", err)
	}
	if !req.Admin && uuidString(order.UserID) != req.UserID {
		return repository.Order{}, domain.Forbidden("", "You do not have access to this order")
	}
	return order, nil
}

// describeOrderLines summarizes attempted order lines for failure logs.
func describeOrderLines(inputs []domain.OrderItemInput) []string {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, fmt.Sprintf("%s x%d", in.ProductID, in.Quantity))
	}
	return out
}

func orderView(order repository.Order, items []domain.OrderItemView) *domain.OrderView {
	return &domain.OrderView{
		ID:          uuidString(order.ID),
		OrderNumber: order.OrderNumber,
		UserID:      uuidString(order.UserID),
		Status:      order.Status,
		Items:       items,
		ShippingAddress: domain.ShippingAddress{
			FullName:   order.ShippingFullName,
			Line1:      order.ShippingLine1,
			Line2:      order.ShippingLine2,
			City:       order.ShippingCity,
			PostalCode: order.ShippingPostalCode,
			Country:    order.ShippingCountry,
		},
		PaymentMethod:      order.PaymentMethod,
		ItemsPriceCents:    order.ItemsPriceCents,
		ShippingPriceCents: order.ShippingPriceCents,
		TaxPriceCents:      order.TaxPriceCents,
		TotalPriceCents:    order.TotalPriceCents,
		IsPaid:             order.IsPaid,
		PaidAt:             timePtr(order.PaidAt),
		IsDelivered:        order.IsDelivered,
		DeliveredAt:        timePtr(order.DeliveredAt),
		CancelledAt:        timePtr(order.CancelledAt),
		CreatedAt:          order.CreatedAt.Time,
		UpdatedAt:          order.UpdatedAt.Time,
	}
}

func orderItemViews(items []repository.OrderItem) []domain.OrderItemView {
	views := make([]domain.OrderItemView, 0, len(items))
	for _, item := range items {
		views = append(views, domain.OrderItemView{
			ProductID:       uuidString(item.ProductID),
			Name:            item.Name,
			Color:           item.Color,
			Size:            item.Size,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			TotalPriceCents: item.TotalPriceCents,
			ImageURL:        item.ImageURL,
		})
	}
	return views
}
