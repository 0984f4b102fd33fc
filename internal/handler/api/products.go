package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/askeland/vanir/internal/domain"
)

// ProductHandler serves the public catalog and the admin product surface.
type ProductHandler struct {
	products domain.ProductService
	logger   *slog.Logger
}

func NewProductHandler(products domain.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.ListProducts(r.Context(), productFilter(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), r.PathValue("id"), false)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.ListAllProducts(r.Context(), productFilter(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

type createProductRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Slug          string   `json:"slug" validate:"required,max=200"`
	Description   string   `json:"description"`
	PriceCents    int32    `json:"price" validate:"gt=0"`
	DiscountCents *int32   `json:"discountPrice"`
	Quantity      int32    `json:"quantity" validate:"gte=0"`
	Active        bool     `json:"active"`
	CategoryID    string   `json:"categoryId"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	ImageURL      string   `json:"imageUrl"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), domain.CreateProductParams{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		DiscountCents: req.DiscountCents,
		Quantity:      req.Quantity,
		Active:        req.Active,
		CategoryID:    req.CategoryID,
		Colors:        req.Colors,
		Sizes:         req.Sizes,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

type updateProductRequest struct {
	Name          *string  `json:"name"`
	Slug          *string  `json:"slug"`
	Description   *string  `json:"description"`
	PriceCents    *int32   `json:"price"`
	DiscountCents *int32   `json:"discountPrice"`
	ClearDiscount bool     `json:"clearDiscount"`
	Quantity      *int32   `json:"quantity"`
	Active        *bool    `json:"active"`
	CategoryID    *string  `json:"categoryId"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	ImageURL      *string  `json:"imageUrl"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), r.PathValue("id"), domain.UpdateProductParams{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		DiscountCents: req.DiscountCents,
		ClearDiscount: req.ClearDiscount,
		Quantity:      req.Quantity,
		Active:        req.Active,
		CategoryID:    req.CategoryID,
		Colors:        req.Colors,
		Sizes:         req.Sizes,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func productFilter(r *http.Request) domain.ProductFilter {
	return domain.ProductFilter{
		CategoryID: r.URL.Query().Get("category"),
		Page:       queryInt32(r, "page"),
		Limit:      queryInt32(r, "limit"),
	}
}

func queryInt32(r *http.Request, name string) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}
