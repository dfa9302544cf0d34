package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/api/middleware"
	"github.com/feriavirtual/marketplace-backend/api/responses"
	"github.com/feriavirtual/marketplace-backend/api/validators"
	"github.com/feriavirtual/marketplace-backend/internal/checkout"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

type checkoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"required,gt=0"`
}

type checkoutRequest struct {
	Items           []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	CouponCode      *string               `json:"coupon_code,omitempty"`
	ShippingAddress *string               `json:"shipping_address,omitempty"`
	IdempotencyKey  string                `json:"idempotency_key" validate:"required,min=8"`
}

type checkoutResponse struct {
	RedirectHandle string            `json:"redirect_handle"`
	Purchases      []purchaseSummary `json:"purchases"`
}

type purchaseSummary struct {
	ID             string `json:"id"`
	SellerID       string `json:"seller_id"`
	Amount         string `json:"amount"`
	ShippingAmount string `json:"shipping_amount"`
	Status         string `json:"status"`
	Type           string `json:"type"`
}

// CheckoutSingle creates one purchase for exactly one product.
func CheckoutSingle(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return checkoutHandler(logg, func(r *http.Request, input checkout.Input) (*checkout.Result, error) {
		return svc.CreateSingleProductPurchase(r.Context(), input)
	})
}

// CheckoutMulti creates one purchase covering several products of one seller.
func CheckoutMulti(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return checkoutHandler(logg, func(r *http.Request, input checkout.Input) (*checkout.Result, error) {
		return svc.CreateMultipleProductsPurchase(r.Context(), input)
	})
}

// CheckoutCentralized splits a cross-seller cart into per-seller purchases
// behind one payment redirect.
func CheckoutCentralized(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return checkoutHandler(logg, func(r *http.Request, input checkout.Input) (*checkout.Result, error) {
		return svc.CreateCentralizedCheckout(r.Context(), input)
	})
}

func checkoutHandler(logg *logger.Logger, place func(*http.Request, checkout.Input) (*checkout.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkout.Input{
			BuyerID:        actor.ID,
			BuyerEmail:     actor.Email,
			BuyerIsSeller:  actor.IsSeller,
			CouponCode:     req.CouponCode,
			ShippingAddr:   req.ShippingAddress,
			IdempotencyKey: req.IdempotencyKey,
		}
		for _, item := range req.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input.Items = append(input.Items, checkout.ItemInput{ProductID: productID, Qty: item.Qty})
		}

		result, err := place(r, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toCheckoutResponse(result))
	}
}

func toCheckoutResponse(result *checkout.Result) checkoutResponse {
	resp := checkoutResponse{RedirectHandle: result.RedirectHandle}
	for _, p := range result.Purchases {
		resp.Purchases = append(resp.Purchases, toPurchaseSummary(p))
	}
	return resp
}

func toPurchaseSummary(p models.Purchase) purchaseSummary {
	return purchaseSummary{
		ID:             p.ID.String(),
		SellerID:       p.SellerID.String(),
		Amount:         p.Amount.StringFixed(2),
		ShippingAmount: p.ShippingAmount.StringFixed(2),
		Status:         string(p.Status),
		Type:           string(p.Type),
	}
}
