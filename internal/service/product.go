package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/repository"
)

type productService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewProductService creates a ProductService backed by the given store.
func NewProductService(store repository.Store, logger *slog.Logger) domain.ProductService {
	return &productService{store: store, logger: logger}
}

func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductList, error) {
	return s.list(ctx, filter, true)
}

func (s *productService) ListAllProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductList, error) {
	return s.list(ctx, filter, false)
}

func (s *productService) list(ctx context.Context, filter domain.ProductFilter, activeOnly bool) (*domain.ProductList, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	products, err := s.store.ListProducts(ctx, repository.ListProductsParams{
		ActiveOnly: activeOnly,
		CategoryID: pgText(filter.CategoryID),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	total, err := s.store.CountProducts(ctx, repository.CountProductsParams{
		ActiveOnly: activeOnly,
		CategoryID: pgText(filter.CategoryID),
	})
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	list := &domain.ProductList{
		Products:   make([]domain.Product, 0, len(products)),
		Pagination: pagination(page, limit, total),
	}
	for _, p := range products {
		list.Products = append(list.Products, *productView(p))
	}
	return list, nil
}

func (s *productService) GetProduct(ctx context.Context, idOrSlug string, includeDraft bool) (*domain.Product, error) {
	var (
		product repository.Product
		err     error
	)
	if id, uuidErr := parseUUID(idOrSlug); uuidErr == nil {
		product, err = s.store.GetProductByID(ctx, id)
	} else {
		product, err = s.store.GetProductBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !product.Active && !includeDraft {
		return nil, domain.ErrProductNotFound
	}
	return productView(product), nil
}

func (s *productService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	if err := validateProductInput(params.Name, params.Slug, params.PriceCents, params.Quantity); err != nil {
		return nil, err
	}

	product, err := s.store.CreateProduct(ctx, repository.CreateProductParams{
		Name:          strings.TrimSpace(params.Name),
		Slug:          strings.TrimSpace(params.Slug),
		Description:   params.Description,
		PriceCents:    params.PriceCents,
		DiscountCents: pgInt4Ptr(params.DiscountCents),
		Quantity:      params.Quantity,
		Active:        params.Active,
		Status:        domain.ProductStatus(params.Quantity, params.Active),
		CategoryID:    pgText(params.CategoryID),
		Colors:        params.Colors,
		Sizes:         params.Sizes,
		ImageURL:      params.ImageURL,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return productView(product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID string, params domain.UpdateProductParams) (*domain.Product, error) {
	id, err := parseUUID(productID)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	existing, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	arg := repository.UpdateProductParams{
		ID:            existing.ID,
		Name:          existing.Name,
		Slug:          existing.Slug,
		Description:   existing.Description,
		PriceCents:    existing.PriceCents,
		DiscountCents: existing.DiscountCents,
		Quantity:      existing.Quantity,
		Active:        existing.Active,
		CategoryID:    existing.CategoryID,
		Colors:        existing.Colors,
		Sizes:         existing.Sizes,
		ImageURL:      existing.ImageURL,
	}
	if params.Name != nil {
		arg.Name = strings.TrimSpace(*params.Name)
	}
	if params.Slug != nil {
		arg.Slug = strings.TrimSpace(*params.Slug)
	}
	if params.Description != nil {
		arg.Description = *params.Description
	}
	if params.PriceCents != nil {
		arg.PriceCents = *params.PriceCents
	}
	if params.ClearDiscount {
		arg.DiscountCents = pgInt4Ptr(nil)
	} else if params.DiscountCents != nil {
		arg.DiscountCents = pgInt4Ptr(params.DiscountCents)
	}
	if params.Quantity != nil {
		arg.Quantity = *params.Quantity
	}
	if params.Active != nil {
		arg.Active = *params.Active
	}
	if params.CategoryID != nil {
		arg.CategoryID = pgText(*params.CategoryID)
	}
	if params.Colors != nil {
		arg.Colors = params.Colors
	}
	if params.Sizes != nil {
		arg.Sizes = params.Sizes
	}
	if params.ImageURL != nil {
		arg.ImageURL = *params.ImageURL
	}

	if err := validateProductInput(arg.Name, arg.Slug, arg.PriceCents, arg.Quantity); err != nil {
		return nil, err
	}
	arg.Status = domain.ProductStatus(arg.Quantity, arg.Active)

	product, err := s.store.UpdateProduct(ctx, arg)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return productView(product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID string) error {
	id, err := parseUUID(productID)
	if err != nil {
		return domain.ErrProductNotFound
	}
	n, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func validateProductInput(name, slug string, priceCents, quantity int32) error {
	switch {
	case strings.TrimSpace(name) == "":
		return domain.NewValidationError("", "name", "Name is required")
	case strings.TrimSpace(slug) == "":
		return domain.NewValidationError("", "slug", "Slug is required")
	case priceCents <= 0:
		return domain.NewValidationError("", "price", "Price must be greater than 0")
	case quantity < 0:
		return domain.NewValidationError("", "quantity", "Quantity cannot be negative")
	}
	return nil
}

func productView(p repository.Product) *domain.Product {
	return &domain.Product{
		ID:            uuidString(p.ID),
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		PriceCents:    p.PriceCents,
		DiscountCents: int32Ptr(p.DiscountCents),
		Quantity:      p.Quantity,
		Sold:          p.Sold,
		Active:        p.Active,
		Status:        p.Status,
		CategoryID:    p.CategoryID.String,
		Colors:        p.Colors,
		Sizes:         p.Sizes,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt.Time,
		UpdatedAt:     p.UpdatedAt.Time,
	}
}
