package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharecircle/sharecircle-backend/api/controllers"
	"github.com/sharecircle/sharecircle-backend/api/middleware"
	"github.com/sharecircle/sharecircle-backend/internal/bookings"
	"github.com/sharecircle/sharecircle-backend/internal/catalog"
	"github.com/sharecircle/sharecircle-backend/internal/reviews"
	"github.com/sharecircle/sharecircle-backend/internal/users"
	"github.com/sharecircle/sharecircle-backend/pkg/config"
	"github.com/sharecircle/sharecircle-backend/pkg/db"
	"github.com/sharecircle/sharecircle-backend/pkg/logger"
	"github.com/sharecircle/sharecircle-backend/pkg/metrics"
	"github.com/sharecircle/sharecircle-backend/pkg/redis"
)

// RouterParams groups everything the HTTP surface needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Users    users.Service
	Catalog  catalog.Service
	Bookings bookings.Service
	Reviews  reviews.Service

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", controllers.RegisterUser(p.Users, logg))
		r.Get("/users", controllers.ListUsers(p.Users, logg))
		r.Get("/users/{userID}", controllers.GetUser(p.Users, logg))
		r.Get("/users/{userID}/profile", controllers.GetUserProfile(p.Users, logg))
		r.Get("/users/{userID}/reviews", controllers.GetUserReviews(p.Reviews, logg))

		r.Get("/items", controllers.ListItems(p.Catalog, logg))
		r.Get("/items/{itemID}", controllers.GetItem(p.Catalog, logg))
		r.Get("/items/{itemID}/reviews", controllers.ListItemReviews(p.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Post("/items", controllers.CreateItem(p.Catalog, logg))
			r.Delete("/items/{itemID}", controllers.DeleteItem(p.Catalog, logg))
			r.Post("/items/{itemID}/reviews", controllers.CreateItemReview(p.Reviews, logg))

			r.Post("/bookings", controllers.RequestBooking(p.Bookings, logg))
			r.Get("/bookings", controllers.GetMyBookings(p.Bookings, logg))
			r.Post("/bookings/{bookingID}/status", controllers.UpdateBookingStatus(p.Bookings, logg))
			r.Post("/bookings/{bookingID}/review", controllers.CreateUserReview(p.Reviews, logg))
		})
	})

	return r
}
