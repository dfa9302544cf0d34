package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/api/middleware"
	"github.com/feriavirtual/marketplace-backend/api/responses"
	"github.com/feriavirtual/marketplace-backend/internal/notifications"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
	"github.com/feriavirtual/marketplace-backend/pkg/pagination"
)

type notificationResponse struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	PurchaseID     *string    `json:"purchase_id,omitempty"`
	ProductName    string     `json:"product_name,omitempty"`
	ShippingStatus *string    `json:"shipping_status,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	CarrierName    *string    `json:"carrier_name,omitempty"`
	IsRead         bool       `json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type notificationsPageResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	NextCursor    string                 `json:"next_cursor,omitempty"`
	UnreadCount   int64                  `json:"unread_count"`
}

// ListNotifications returns a page of the caller's notifications.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}

		params := pagination.Params{Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}

		page, err := svc.List(r.Context(), actor.ID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := notificationsPageResponse{
			NextCursor:  page.NextCursor,
			UnreadCount: page.UnreadCount,
		}
		for _, n := range page.Notifications {
			resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
		}
		responses.WriteSuccess(w, resp)
	}
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "notificationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}
		if err := svc.MarkRead(r.Context(), actor.ID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

// MarkAllNotificationsRead marks every unread notification of the caller.
func MarkAllNotificationsRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}
		if err := svc.MarkAllRead(r.Context(), actor.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

func toNotificationResponse(n models.Notification) notificationResponse {
	resp := notificationResponse{
		ID:             n.ID.String(),
		Type:           string(n.Type),
		Title:          n.Title,
		Description:    n.Description,
		ProductName:    n.ProductName,
		TrackingNumber: n.TrackingNumber,
		CarrierName:    n.CarrierName,
		IsRead:         n.IsRead,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
	}
	if n.PurchaseID != nil {
		id := n.PurchaseID.String()
		resp.PurchaseID = &id
	}
	if n.ShippingStatus != nil {
		status := string(*n.ShippingStatus)
		resp.ShippingStatus = &status
	}
	return resp
}
