package routes

import (
	"github.com/askeland/vanir/internal/handler/api"
	"github.com/askeland/vanir/internal/middleware"
)

// Deps bundles the handlers and injectable middleware the route table needs.
type Deps struct {
	Health   *api.HealthHandler
	Auth     *api.AuthHandler
	Products *api.ProductHandler
	Cart     *api.CartHandler
	Orders   *api.OrderHandler

	Metrics     *middleware.Metrics
	AuthLimiter *middleware.RateLimiter
}
