package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/api/middleware"
	"github.com/feriavirtual/marketplace-backend/api/responses"
	"github.com/feriavirtual/marketplace-backend/api/validators"
	"github.com/feriavirtual/marketplace-backend/internal/shipping"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

type shippingTransitionRequest struct {
	Status            string     `json:"status" validate:"required"`
	TrackingNumber    *string    `json:"tracking_number,omitempty" validate:"omitempty,min=3"`
	CarrierName       *string    `json:"carrier_name,omitempty" validate:"omitempty,min=2"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	Notes             *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type shippingResponse struct {
	Status            string     `json:"status"`
	TrackingNumber    *string    `json:"tracking_number,omitempty"`
	CarrierName       *string    `json:"carrier_name,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// InitializeShipping creates the pending shipping record for a purchase.
func InitializeShipping(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, purchaseID, err := shippingActorAndPurchase(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		info, err := svc.InitializeShipping(r.Context(), actor, purchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toShippingResponse(info))
	}
}

// UpdateShippingStatus applies one transition on the shipping state machine.
func UpdateShippingStatus(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, purchaseID, err := shippingActorAndPurchase(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req shippingTransitionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseShippingStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping status"))
			return
		}

		info, err := svc.ApplyTransition(r.Context(), actor, purchaseID, target, shipping.Fields{
			TrackingNumber:    req.TrackingNumber,
			CarrierName:       req.CarrierName,
			EstimatedDelivery: req.EstimatedDelivery,
			Notes:             req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShippingResponse(info))
	}
}

// GetShipping returns the shipping record to the buyer or seller.
func GetShipping(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, purchaseID, err := shippingActorAndPurchase(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		info, err := svc.GetShipping(r.Context(), actor, purchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShippingResponse(info))
	}
}

func shippingActorAndPurchase(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodePermission, "identity missing")
	}
	purchaseID, err := uuid.Parse(chi.URLParam(r, "purchaseId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase id")
	}
	return actor.ID, purchaseID, nil
}

func toShippingResponse(info *models.ShippingInfo) shippingResponse {
	return shippingResponse{
		Status:            string(info.Status),
		TrackingNumber:    info.TrackingNumber,
		CarrierName:       info.CarrierName,
		EstimatedDelivery: info.EstimatedDelivery,
		ActualDelivery:    info.ActualDelivery,
		Notes:             info.Notes,
		UpdatedAt:         info.UpdatedAt,
	}
}
