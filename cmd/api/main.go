package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sharecircle/sharecircle-backend/api/routes"
	"github.com/sharecircle/sharecircle-backend/internal/bookings"
	"github.com/sharecircle/sharecircle-backend/internal/catalog"
	"github.com/sharecircle/sharecircle-backend/internal/reviews"
	"github.com/sharecircle/sharecircle-backend/internal/users"
	"github.com/sharecircle/sharecircle-backend/pkg/config"
	"github.com/sharecircle/sharecircle-backend/pkg/db"
	"github.com/sharecircle/sharecircle-backend/pkg/logger"
	"github.com/sharecircle/sharecircle-backend/pkg/metrics"
	"github.com/sharecircle/sharecircle-backend/pkg/migrate"
	"github.com/sharecircle/sharecircle-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	itemRepo := catalog.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())
	reviewRepo := reviews.NewRepository(dbClient.DB())

	userService, err := users.NewService(users.ServiceParams{UserRepo: userRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		ItemRepo:   itemRepo,
		UserRepo:   userRepo,
		Cache:      redisClient,
		ListingTTL: cfg.Cache.ListingTTL,
		Logg:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	bookingService, err := bookings.NewService(bookings.ServiceParams{
		BookingRepo: bookingRepo,
		ItemRepo:    itemRepo,
		UserRepo:    userRepo,
		Cache:       redisClient,
		BookingsTTL: cfg.Cache.BookingsTTL,
		Metrics:     bookingMetrics,
		Logg:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		ReviewRepo:  reviewRepo,
		ItemRepo:    itemRepo,
		BookingRepo: bookingRepo,
		UserRepo:    userRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Users:       userService,
			Catalog:     catalogService,
			Bookings:    bookingService,
			Reviews:     reviewService,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
