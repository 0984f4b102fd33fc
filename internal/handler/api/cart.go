package api

import (
	"log/slog"
	"net/http"

	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/middleware"
)

// CartHandler serves the authenticated user's cart.
type CartHandler struct {
	carts  domain.CartService
	logger *slog.Logger
}

func NewCartHandler(carts domain.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	cart, err := h.carts.GetCart(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int32  `json:"quantity" validate:"gt=0"`
	Color     string `json:"color" validate:"max=100"`
	Size      string `json:"size" validate:"max=100"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	user := middleware.GetUser(r.Context())
	cart, err := h.carts.AddItem(r.Context(), user.ID, domain.AddCartItemParams{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Color:     req.Color,
		Size:      req.Size,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	cart, err := h.carts.RemoveItem(r.Context(), user.ID, r.PathValue("key"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	cart, err := h.carts.ClearCart(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
