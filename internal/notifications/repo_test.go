package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:notifications_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, createdAt time.Time) *models.Notification {
	t.Helper()
	n := &models.Notification{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        enums.NotificationTypeShipping,
		Title:       "Tu pedido fue enviado",
		Description: "El vendedor despachó tu pedido",
		CreatedAt:   createdAt,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return n
}

func TestListByUserPaginates(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedNotification(t, db, userID, base.Add(time.Duration(i)*time.Minute))
	}
	seedNotification(t, db, uuid.New(), base)

	first, next, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first) != 3 || next == "" {
		t.Fatalf("expected full first page with cursor, got %d rows, cursor %q", len(first), next)
	}
	if first[0].CreatedAt.Before(first[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}

	second, next2, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3, Cursor: next})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second) != 2 || next2 != "" {
		t.Fatalf("expected final page of 2, got %d rows, cursor %q", len(second), next2)
	}
}

func TestMarkReadScopedToUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := uuid.New()
	n := seedNotification(t, db, owner, time.Now().UTC())

	err := repo.MarkRead(ctx, uuid.New(), n.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("another user's mark must fail, got %v", err)
	}

	if err := repo.MarkRead(ctx, owner, n.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	// Marking twice is a no-op, not an error.
	if err := repo.MarkRead(ctx, owner, n.ID); err != nil {
		t.Fatalf("second mark read: %v", err)
	}

	unread, err := repo.CountUnread(ctx, owner)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread, got %d", unread)
	}
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()
	seedNotification(t, db, userID, now)
	seedNotification(t, db, userID, now.Add(time.Minute))

	if err := repo.MarkAllRead(ctx, userID); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	unread, err := repo.CountUnread(ctx, userID)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread, got %d", unread)
	}
}
