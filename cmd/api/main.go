package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/yaodigital/storefront-backend/api/middleware"
	"github.com/yaodigital/storefront-backend/api/routes"
	authsvc "github.com/yaodigital/storefront-backend/internal/auth"
	"github.com/yaodigital/storefront-backend/internal/cart"
	"github.com/yaodigital/storefront-backend/internal/catalog"
	"github.com/yaodigital/storefront-backend/internal/reviews"
	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/internal/storefront/rest"
	"github.com/yaodigital/storefront-backend/internal/users"
	"github.com/yaodigital/storefront-backend/internal/wishlist"
	"github.com/yaodigital/storefront-backend/pkg/auth/session"
	"github.com/yaodigital/storefront-backend/pkg/config"
	"github.com/yaodigital/storefront-backend/pkg/db"
	"github.com/yaodigital/storefront-backend/pkg/images"
	"github.com/yaodigital/storefront-backend/pkg/logger"
	"github.com/yaodigital/storefront-backend/pkg/metrics"
	"github.com/yaodigital/storefront-backend/pkg/migrate"
	"github.com/yaodigital/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	mode := storefront.ModeFor(cfg)
	storefront.LogMode(context.Background(), logg, mode)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	deps := routes.Deps{
		Config:      cfg,
		Logger:      logg,
		HTTPMetrics: httpMetrics,
		Registry:    registry,
	}

	var closers []func() error

	switch mode {
	case storefront.ModeDatabase:
		dbClient, err := db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}

		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)

		sessionManager, err := session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			logg.Error(context.Background(), "failed to create session manager", err)
			os.Exit(1)
		}

		resolver := images.NewResolver(cfg.API.Origin(), cfg.Storage.PublicBaseURL, cfg.Storage.Bucket)
		mapper := catalog.NewMapper(resolver, cfg.Contact.WhatsAppNumber)

		catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), mapper)
		if err != nil {
			logg.Error(context.Background(), "failed to create catalog service", err)
			os.Exit(1)
		}
		authService, err := authsvc.NewService(users.NewRepository(dbClient.DB()), sessionManager, cfg.JWT, cfg.Password)
		if err != nil {
			logg.Error(context.Background(), "failed to create auth service", err)
			os.Exit(1)
		}
		wishlistService, err := wishlist.NewService(wishlist.NewRepository(dbClient.DB()), mapper)
		if err != nil {
			logg.Error(context.Background(), "failed to create wishlist service", err)
			os.Exit(1)
		}
		cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), mapper)
		if err != nil {
			logg.Error(context.Background(), "failed to create cart service", err)
			os.Exit(1)
		}
		reviewService := reviews.NewService(reviews.NewRepository(dbClient.DB()))

		deps.Backend = storefront.NewDatabaseBackend(catalogService, authService, wishlistService, cartService, reviewService)
		deps.Auth = middleware.Auth(cfg.JWT, sessionManager, logg)
		deps.DBPinger = dbClient
		deps.RedisPinger = redisClient

	case storefront.ModeREST:
		client, err := rest.NewClient(cfg.API, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create upstream client", err)
			os.Exit(1)
		}
		deps.Backend = client
		deps.Auth = middleware.BearerAuth(logg)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"mode": string(mode),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeAll(ctx, logg, closers)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during shutdown", err)
		}
	}

	closeAll(ctx, logg, closers)
	logg.Info(ctx, "api server stopped")
}

func closeAll(ctx context.Context, logg *logger.Logger, closers []func() error) {
	var combined error
	for _, close := range closers {
		combined = multierr.Append(combined, close())
	}
	if combined != nil {
		logg.Error(ctx, "error closing resources", combined)
	}
}
