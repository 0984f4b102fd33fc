package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/askeland/vanir/internal"
	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/events"
	"github.com/askeland/vanir/internal/handler/api"
	"github.com/askeland/vanir/internal/middleware"
	"github.com/askeland/vanir/internal/repository"
	"github.com/askeland/vanir/internal/router"
	"github.com/askeland/vanir/internal/routes"
	"github.com/askeland/vanir/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize repository
	store := repository.NewStore(pool)

	// Initialize event publisher
	var publisher events.Publisher
	if cfg.NatsUrl != "" {
		logger.Info("Connecting to NATS...", "url", cfg.NatsUrl)
		publisher, err = events.NewNATSPublisher(cfg.NatsUrl)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
	} else {
		logger.Info("NATS_URL not set, order events will not be published")
		publisher = &events.NoopPublisher{Logger: logger}
	}
	defer publisher.Close()

	// Initialize services
	userService := service.NewUserService(store, logger)
	productService := service.NewProductService(store, logger)
	cartService := service.NewCartService(store, logger)
	orderService := service.NewOrderService(store, publisher, logger, service.OrderPricing{
		ShippingFlatCents: cfg.Pricing.ShippingFlatCents,
		TaxRatePercent:    cfg.Pricing.TaxRatePercent,
	})

	// Seed the initial admin user when configured
	seed := domain.AdminSeed{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}
	if err := userService.EnsureAdmin(ctx, seed); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Limit:  cfg.RateLimit.AuthLimit,
		Window: time.Duration(cfg.RateLimit.AuthWindowSeconds) * time.Second,
	})
	defer authLimiter.Stop()

	// Metrics
	metrics := middleware.NewMetrics("vanir")

	// Router with global middleware
	r := router.New(
		middleware.RequestID,
		router.Recovery(logger),
		router.Logger(logger),
		router.CORS(strings.Split(cfg.CorsOrigins, ",")),
		metrics.Middleware,
		middleware.WithUser(userService),
	)

	routes.RegisterAPIRoutes(r, routes.Deps{
		Health:      api.NewHealthHandler(pool, logger),
		Auth:        api.NewAuthHandler(userService, logger, cfg.Env == "prod"),
		Products:    api.NewProductHandler(productService, logger),
		Cart:        api.NewCartHandler(cartService, logger),
		Orders:      api.NewOrderHandler(orderService, logger),
		Metrics:     metrics,
		AuthLimiter: authLimiter,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
