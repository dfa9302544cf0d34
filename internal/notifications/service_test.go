package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/pagination"
)

type stubRepo struct {
	created []*models.Notification
	rows    []models.Notification
	unread  int64
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	n.ID = uuid.New()
	s.created = append(s.created, n)
	return n, nil
}

func (s *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Notification, string, error) {
	return s.rows, "", nil
}

func (s *stubRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error  { return nil }
func (s *stubRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error   { return nil }
func (s *stubRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.unread, nil
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		Type:  enums.NotificationTypeShipping,
		Title: "Pedido enviado",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("missing user id must fail validation, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		UserID: uuid.New(),
		Type:   enums.NotificationType("bogus"),
		Title:  "Pedido enviado",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("unknown type must fail validation, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		UserID: uuid.New(),
		Type:   enums.NotificationTypeShipping,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("empty title must fail validation, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("invalid input must not reach the repository")
	}
}

func TestListIncludesUnreadCount(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		rows:   []models.Notification{{Title: "a"}, {Title: "b"}},
		unread: 5,
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	page, err := svc.List(context.Background(), uuid.New(), pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Notifications) != 2 {
		t.Fatalf("notifications = %d, want 2", len(page.Notifications))
	}
	if page.UnreadCount != 5 {
		t.Fatalf("unread = %d, want 5", page.UnreadCount)
	}
}
