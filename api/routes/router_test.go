package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sharecircle/sharecircle-backend/internal/bookings"
	"github.com/sharecircle/sharecircle-backend/internal/catalog"
	"github.com/sharecircle/sharecircle-backend/internal/reviews"
	"github.com/sharecircle/sharecircle-backend/internal/users"
	pkgAuth "github.com/sharecircle/sharecircle-backend/pkg/auth"
	"github.com/sharecircle/sharecircle-backend/pkg/config"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubUserService struct{}

func (stubUserService) Register(context.Context, users.RegisterUserInput) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New()}, nil
}

func (stubUserService) GetByID(context.Context, uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New()}, nil
}

func (stubUserService) List(context.Context) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (stubUserService) GetProfile(context.Context, uuid.UUID) (*users.ProfileDTO, error) {
	return &users.ProfileDTO{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateItem(context.Context, uuid.UUID, catalog.CreateItemInput) (*catalog.ItemDTO, error) {
	return &catalog.ItemDTO{ID: uuid.New()}, nil
}

func (stubCatalogService) GetItem(context.Context, uuid.UUID) (*catalog.ItemDetailDTO, error) {
	return &catalog.ItemDetailDTO{}, nil
}

func (stubCatalogService) ListItems(context.Context, catalog.ListItemsQuery) (catalog.ItemsPageDTO, error) {
	return catalog.ItemsPageDTO{Items: []catalog.ItemDTO{}}, nil
}

func (stubCatalogService) DeleteItem(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

type stubBookingService struct{}

func (stubBookingService) Request(context.Context, uuid.UUID, bookings.RequestBookingInput) (*bookings.BookingDTO, error) {
	return &bookings.BookingDTO{ID: uuid.New()}, nil
}

func (stubBookingService) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, bookings.UpdateBookingStatusInput) (*bookings.BookingDTO, error) {
	return &bookings.BookingDTO{ID: uuid.New()}, nil
}

func (stubBookingService) ListByUser(context.Context, uuid.UUID) (bookings.UserBookingsDTO, error) {
	return bookings.UserBookingsDTO{}, nil
}

type stubReviewService struct{}

func (stubReviewService) CreateItemReview(context.Context, uuid.UUID, reviews.CreateItemReviewInput) (*reviews.ItemReviewDTO, error) {
	return &reviews.ItemReviewDTO{ID: uuid.New()}, nil
}

func (stubReviewService) ListItemReviews(context.Context, uuid.UUID) (reviews.ItemReviewsDTO, error) {
	return reviews.ItemReviewsDTO{}, nil
}

func (stubReviewService) CreateUserReview(context.Context, uuid.UUID, reviews.CreateUserReviewInput) (*reviews.UserReviewDTO, error) {
	return &reviews.UserReviewDTO{ID: uuid.New()}, nil
}

func (stubReviewService) GetUserReviews(context.Context, uuid.UUID) (reviews.UserReviewsDTO, error) {
	return reviews.UserReviewsDTO{}, nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "sharecircle", ExpirationMinutes: 30}

	return NewRouter(RouterParams{
		Config:   cfg,
		DB:       stubPinger{},
		Users:    stubUserService{},
		Catalog:  stubCatalogService{},
		Bookings: stubBookingService{},
		Reviews:  stubReviewService{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if env := rec.Header().Get("X-ShareCircle-Env"); env != "test" {
		t.Fatalf("unexpected env header %q", env)
	}
}

func TestRouterPublicListings(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterProtectedRequiresToken(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRouterProtectedAcceptsToken(t *testing.T) {
	router := testRouter(t)

	cfg := config.JWTConfig{Secret: "secret", Issuer: "sharecircle", ExpirationMinutes: 30}
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
