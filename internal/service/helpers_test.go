package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/askeland/vanir/internal/events"
	"github.com/askeland/vanir/internal/repository"
	"github.com/jackc/pgx/v5/pgtype"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedProduct(s *fakeStore, name, slug string, priceCents, quantity int32, active bool) repository.Product {
	p, _ := s.CreateProduct(context.Background(), repository.CreateProductParams{
		Name:       name,
		Slug:       slug,
		PriceCents: priceCents,
		Quantity:   quantity,
		Active:     active,
		Status:     "in stock",
	})
	return p
}

func seedUser(s *fakeStore, email string) repository.User {
	u, _ := s.CreateUser(context.Background(), repository.CreateUserParams{
		Email:        email,
		PasswordHash: "x",
		Role:         "customer",
	})
	return u
}

func repriced(p repository.Product, s *fakeStore, cents int32) repository.Product {
	for i, existing := range s.products {
		if sameUUID(existing.ID, p.ID) {
			s.products[i].PriceCents = cents
			return s.products[i]
		}
	}
	return p
}

func discounted(p repository.Product, s *fakeStore, cents int32) repository.Product {
	for i, existing := range s.products {
		if sameUUID(existing.ID, p.ID) {
			s.products[i].DiscountCents = pgtype.Int4{Int32: cents, Valid: true}
			return s.products[i]
		}
	}
	return p
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	created       []events.OrderEvent
	statusChanged []events.OrderEvent
}

func (p *recordingPublisher) OrderCreated(ctx context.Context, event events.OrderEvent) error {
	p.created = append(p.created, event)
	return nil
}

func (p *recordingPublisher) OrderStatusChanged(ctx context.Context, event events.OrderEvent) error {
	p.statusChanged = append(p.statusChanged, event)
	return nil
}

func (p *recordingPublisher) Close() {}
