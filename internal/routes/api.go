package routes

import (
	"github.com/askeland/vanir/internal/middleware"
	"github.com/askeland/vanir/internal/router"
)

// RegisterAPIRoutes registers the full HTTP surface.
func RegisterAPIRoutes(r *router.Router, deps Deps) {
	r.Get("/health", deps.Health.Check)
	r.HandleFunc("GET /metrics", deps.Metrics.Handler())

	// Credential endpoints carry the strict limiter.
	r.Post("/api/auth/register", deps.Auth.Register, deps.AuthLimiter.Middleware)
	r.Post("/api/auth/login", deps.Auth.Login, deps.AuthLimiter.Middleware)

	// Public catalog
	r.Get("/api/products", deps.Products.List)
	r.Get("/api/products/{id}", deps.Products.Get)

	// Authenticated surface
	authed := r.Group(middleware.RequireAuth)
	authed.Post("/api/auth/logout", deps.Auth.Logout)

	authed.Get("/api/cart", deps.Cart.Get)
	authed.Post("/api/cart", deps.Cart.AddItem)
	authed.Delete("/api/cart", deps.Cart.Clear)
	authed.Delete("/api/cart/items/{key}", deps.Cart.RemoveItem)

	authed.Post("/api/orders", deps.Orders.Create)
	authed.Get("/api/orders", deps.Orders.List)
	authed.Get("/api/orders/{id}", deps.Orders.Get)
	authed.Delete("/api/orders/{id}", deps.Orders.Delete)

	// Admin surface
	admin := r.Group(middleware.RequireAdmin)
	admin.Get("/api/admin/products", deps.Products.AdminList)
	admin.Post("/api/admin/products", deps.Products.Create)
	admin.Put("/api/admin/products/{id}", deps.Products.Update)
	admin.Delete("/api/admin/products/{id}", deps.Products.Delete)
	admin.Put("/api/orders/{id}", deps.Orders.Update)
}
