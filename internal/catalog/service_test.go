package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sharecircle/sharecircle-backend/internal/users"
	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
	"github.com/sharecircle/sharecircle-backend/pkg/enums"
	pkgerrors "github.com/sharecircle/sharecircle-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(ServiceParams{
		ItemRepo: NewRepository(conn),
		UserRepo: users.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func mustCreateTestUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:    uuid.New(),
		Name:  "Catalog Tester",
		Email: fmt.Sprintf("sc_test_%s@example.com", uuid.NewString()),
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func mustCreateTestItem(t *testing.T, conn *gorm.DB, ownerID uuid.UUID, title string, createdAt time.Time) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: "shared between neighbors",
		PriceCents:  250,
		Category:    "tools",
		Images:      pq.StringArray{},
		Available:   true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, conn.Create(item).Error)
	return item
}

func TestCreateItemPublishesListing(t *testing.T) {
	svc, conn := newTestService(t)
	owner := mustCreateTestUser(t, conn)

	dto, err := svc.CreateItem(context.Background(), owner.ID, CreateItemInput{
		Title:       "  Ladder  ",
		Description: "3m aluminium ladder",
		PriceCents:  800,
		Category:    "Tools",
		Images:      []string{"https://cdn.example.com/ladder.jpg"},
	})
	require.NoError(t, err)
	require.Equal(t, "Ladder", dto.Title)
	require.Equal(t, "tools", dto.Category)
	require.True(t, dto.Available)
	require.Equal(t, owner.ID, dto.OwnerID)
}

func TestCreateItemRequiresKnownOwner(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateItem(context.Background(), uuid.New(), CreateItemInput{
		Title:       "Ladder",
		Description: "3m aluminium ladder",
		Category:    "tools",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateItemValidation(t *testing.T) {
	svc, conn := newTestService(t)
	owner := mustCreateTestUser(t, conn)
	ctx := context.Background()

	cases := []CreateItemInput{
		{Description: "no title", Category: "tools"},
		{Title: "no description", Category: "tools"},
		{Title: "no category", Description: "something"},
		{Title: "negative", Description: "something", Category: "tools", PriceCents: -1},
	}
	for _, input := range cases {
		_, err := svc.CreateItem(ctx, owner.ID, input)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestGetItemIncludesOwner(t *testing.T) {
	svc, conn := newTestService(t)
	owner := mustCreateTestUser(t, conn)
	item := mustCreateTestItem(t, conn, owner.ID, "Tent", time.Now().UTC())

	detail, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, item.ID, detail.ID)
	require.Equal(t, owner.ID, detail.Owner.ID)
	require.Equal(t, owner.Name, detail.Owner.Name)
}

func TestGetItemNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetItem(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListItemsFiltersAndPaginates(t *testing.T) {
	svc, conn := newTestService(t)
	owner := mustCreateTestUser(t, conn)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	mustCreateTestItem(t, conn, owner.ID, "Drill", base)
	mustCreateTestItem(t, conn, owner.ID, "Tent", base.Add(time.Minute))
	camera := mustCreateTestItem(t, conn, owner.ID, "Camera", base.Add(2*time.Minute))
	require.NoError(t, conn.Model(camera).Update("category", "electronics").Error)

	page, err := svc.ListItems(ctx, ListItemsQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.Equal(t, "Camera", page.Items[0].Title)
	require.Nil(t, page.NextCursor)

	byCategory, err := svc.ListItems(ctx, ListItemsQuery{Category: "electronics"})
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	require.Equal(t, camera.ID, byCategory.Items[0].ID)

	bySearch, err := svc.ListItems(ctx, ListItemsQuery{Search: "ten"})
	require.NoError(t, err)
	require.Len(t, bySearch.Items, 1)
	require.Equal(t, "Tent", bySearch.Items[0].Title)

	firstPage, err := svc.ListItems(ctx, ListItemsQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, firstPage.Items, 2)
	require.NotNil(t, firstPage.NextCursor)

	secondPage, err := svc.ListItems(ctx, ListItemsQuery{Limit: 2, Cursor: *firstPage.NextCursor})
	require.NoError(t, err)
	require.Len(t, secondPage.Items, 1)
	require.Equal(t, "Drill", secondPage.Items[0].Title)
	require.Nil(t, secondPage.NextCursor)
}

func TestListItemsCategoryFilterIsCaseInsensitive(t *testing.T) {
	svc, conn := newTestService(t)
	owner := mustCreateTestUser(t, conn)
	ctx := context.Background()

	dto, err := svc.CreateItem(ctx, owner.ID, CreateItemInput{
		Title:       "Circular Saw",
		Description: "230mm blade",
		PriceCents:  1200,
		Category:    "Tools",
	})
	require.NoError(t, err)
	require.Equal(t, "tools", dto.Category)

	page, err := svc.ListItems(ctx, ListItemsQuery{Category: "Tools"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, dto.ID, page.Items[0].ID)

	page, err = svc.ListItems(ctx, ListItemsQuery{Category: " TOOLS "})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
}

func TestListItemsRejectsBadCursor(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListItems(context.Background(), ListItemsQuery{Cursor: "garbage!!"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteItemOwnerOnly(t *testing.T) {
	svc, conn := newTestService(t)
	owner := mustCreateTestUser(t, conn)
	other := mustCreateTestUser(t, conn)
	item := mustCreateTestItem(t, conn, owner.ID, "Kayak", time.Now().UTC())

	err := svc.DeleteItem(context.Background(), other.ID, item.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestDeleteItemBlockedByActiveBooking(t *testing.T) {
	svc, conn := newTestService(t)
	owner := mustCreateTestUser(t, conn)
	borrower := mustCreateTestUser(t, conn)
	item := mustCreateTestItem(t, conn, owner.ID, "Projector", time.Now().UTC())

	booking := &models.Booking{
		ID:         uuid.New(),
		ItemID:     item.ID,
		BorrowerID: borrower.ID,
		StartDate:  time.Now().UTC().AddDate(0, 0, 1),
		EndDate:    time.Now().UTC().AddDate(0, 0, 2),
		Status:     enums.BookingStatusPending,
	}
	require.NoError(t, conn.Create(booking).Error)

	err := svc.DeleteItem(context.Background(), owner.ID, item.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, conn.Model(booking).Update("status", enums.BookingStatusReturned).Error)
	require.NoError(t, svc.DeleteItem(context.Background(), owner.ID, item.ID))

	var count int64
	require.NoError(t, conn.Model(&models.Item{}).Where("id = ?", item.ID).Count(&count).Error)
	require.Zero(t, count)
}
