package controllers

import (
	"net/http"

	"github.com/feriavirtual/marketplace-backend/api/middleware"
	"github.com/feriavirtual/marketplace-backend/api/responses"
	"github.com/feriavirtual/marketplace-backend/internal/purchases"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

// SellerApprovedPurchases lists the caller's approved purchases, the ones
// eligible for shipping management.
func SellerApprovedPurchases(repo purchases.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}

		rows, err := repo.FindApprovedBySeller(r.Context(), actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]purchaseSummary, 0, len(rows))
		for _, p := range rows {
			payload = append(payload, toPurchaseSummary(p))
		}
		responses.WriteSuccess(w, payload)
	}
}
