package service

import (
	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/repository"
)

// checkStock validates that requested units can be taken from the product on
// top of held units already reserved for the same cart line. It reports the
// remaining headroom so clients can adjust.
func checkStock(p repository.Product, requested, held int32) error {
	if !p.Active {
		return domain.ErrProductNotFound
	}
	available := p.Quantity - held
	if available < 0 {
		available = 0
	}
	if requested > available {
		return &domain.OutOfStockError{
			ProductID: uuidString(p.ID),
			Requested: requested,
			Available: available,
		}
	}
	return nil
}

// resolvedUnitPrice returns the price a unit sells for right now: the
// discount price when one is set and lower than the list price.
func resolvedUnitPrice(p repository.Product) int32 {
	if p.DiscountCents.Valid && p.DiscountCents.Int32 < p.PriceCents {
		return p.DiscountCents.Int32
	}
	return p.PriceCents
}
