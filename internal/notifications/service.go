package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/pagination"
)

// CreateInput carries the fields of a notification to emit.
type CreateInput struct {
	UserID         uuid.UUID
	Type           enums.NotificationType
	Title          string
	Description    string
	PurchaseID     *uuid.UUID
	ProductName    string
	ShippingStatus *enums.ShippingStatus
	TrackingNumber *string
	CarrierName    *string
}

// Creator is the emit-only side of the service, consumed by shipping.
type Creator interface {
	Create(ctx context.Context, input CreateInput) (*models.Notification, error)
}

// Page is one page of a user's notifications.
type Page struct {
	Notifications []models.Notification
	NextCursor    string
	UnreadCount   int64
}

// Service manages user notifications.
type Service interface {
	Creator
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires notification dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Notification, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification user id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown notification type %q", input.Type))
	}
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification title required")
	}
	return s.repo.Create(ctx, &models.Notification{
		UserID:         input.UserID,
		Type:           input.Type,
		Title:          input.Title,
		Description:    input.Description,
		PurchaseID:     input.PurchaseID,
		ProductName:    input.ProductName,
		ShippingStatus: input.ShippingStatus,
		TrackingNumber: input.TrackingNumber,
		CarrierName:    input.CarrierName,
	})
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Page{Notifications: rows, NextCursor: next, UnreadCount: unread}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and notification id required")
	}
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.repo.MarkAllRead(ctx, userID)
}
