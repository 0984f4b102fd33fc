package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/middleware"
)

// OrderHandler serves order creation and management.
type OrderHandler struct {
	orders domain.OrderService
	logger *slog.Logger
}

func NewOrderHandler(orders domain.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type shippingAddressRequest struct {
	FullName   string `json:"fullName" validate:"required,max=200"`
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int32  `json:"quantity" validate:"gt=0"`
	Color     string `json:"color" validate:"max=100"`
	Size      string `json:"size" validate:"max=100"`
}

type createOrderRequest struct {
	Items           []orderItemRequest     `json:"items" validate:"dive"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"max=100"`
	ItemsPrice      *int64                 `json:"itemsPrice"`
	ShippingPrice   *int64                 `json:"shippingPrice"`
	TaxPrice        *int64                 `json:"taxPrice"`
	KeepCart        bool                   `json:"keepCart"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	params := domain.CreateOrderParams{
		ShippingAddress: domain.ShippingAddress{
			FullName:   req.ShippingAddress.FullName,
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod:      req.PaymentMethod,
		ItemsPriceCents:    req.ItemsPrice,
		ShippingPriceCents: req.ShippingPrice,
		TaxPriceCents:      req.TaxPrice,
		KeepCart:           req.KeepCart,
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, domain.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
		})
	}

	user := middleware.GetUser(r.Context())
	order, err := h.orders.CreateOrder(r.Context(), user.ID, params)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), requester(r), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.OrderListFilter{
		Status:      r.URL.Query().Get("status"),
		IsPaid:      queryBool(r, "isPaid"),
		IsDelivered: queryBool(r, "isDelivered"),
		Page:        queryInt32(r, "page"),
		Limit:       queryInt32(r, "limit"),
	}

	list, err := h.orders.ListOrders(r.Context(), requester(r), filter)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

type updateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentMethod *string `json:"paymentMethod"`
	MarkPaid      bool    `json:"markPaid"`
	MarkDelivered bool    `json:"markDelivered"`
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	order, err := h.orders.UpdateOrder(r.Context(), r.PathValue("id"), domain.UpdateOrderParams{
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		MarkPaid:      req.MarkPaid,
		MarkDelivered: req.MarkDelivered,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.DeleteOrder(r.Context(), requester(r), r.PathValue("id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}

func requester(r *http.Request) domain.Requester {
	user := middleware.GetUser(r.Context())
	return domain.Requester{
		UserID: user.ID,
		Admin:  user.Role == domain.RoleAdmin,
	}
}

func queryBool(r *http.Request, name string) *bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &v
}
