package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feriavirtual/marketplace-backend/api/middleware"
	"github.com/feriavirtual/marketplace-backend/api/responses"
	"github.com/feriavirtual/marketplace-backend/api/validators"
	"github.com/feriavirtual/marketplace-backend/internal/commission"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

type bankConfigRequest struct {
	BankName          string `json:"bank_name" validate:"required,min=2"`
	AccountHolder     string `json:"account_holder" validate:"required,min=2"`
	AccountNumber     string `json:"account_number" validate:"required,min=4"`
	AccountType       string `json:"account_type" validate:"required"`
	PreferenciaRetiro string `json:"preferencia_retiro" validate:"required"`
}

type bankConfigResponse struct {
	BankName          string `json:"bank_name"`
	AccountHolder     string `json:"account_holder"`
	AccountNumber     string `json:"account_number"`
	AccountType       string `json:"account_type"`
	PreferenciaRetiro string `json:"preferencia_retiro"`
	IsActive          bool   `json:"is_active"`
}

type payoutResponse struct {
	Gross      string `json:"gross"`
	Rate       string `json:"rate"`
	Commission string `json:"commission"`
	Net        string `json:"net"`
	Tier       string `json:"tier"`
}

// GetBankConfig returns the seller's active payout configuration.
func GetBankConfig(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}
		cfg, err := svc.GetConfig(r.Context(), actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toBankConfigResponse(cfg))
	}
}

// SetBankConfig replaces the seller's active payout configuration.
func SetBankConfig(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}

		var req bankConfigRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := svc.SetConfig(r.Context(), actor.ID, commission.ConfigInput{
			SellerID:          actor.ID,
			BankName:          req.BankName,
			AccountHolder:     req.AccountHolder,
			AccountNumber:     req.AccountNumber,
			AccountType:       req.AccountType,
			PreferenciaRetiro: enums.WithdrawalTier(req.PreferenciaRetiro),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toBankConfigResponse(cfg))
	}
}

// PayoutPreview computes the net payout for a gross amount under the
// seller's active withdrawal tier.
func PayoutPreview(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}

		grossRaw := strings.TrimSpace(r.URL.Query().Get("gross"))
		gross, err := decimal.NewFromString(grossRaw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "gross must be a decimal amount"))
			return
		}

		breakdown, err := svc.SellerPayout(r.Context(), actor.ID, gross)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payoutResponse{
			Gross:      breakdown.Gross.StringFixed(2),
			Rate:       breakdown.Rate.String(),
			Commission: breakdown.Commission.StringFixed(2),
			Net:        breakdown.Net.StringFixed(2),
			Tier:       string(breakdown.Tier),
		})
	}
}

func toBankConfigResponse(cfg *models.SellerBankConfig) bankConfigResponse {
	return bankConfigResponse{
		BankName:          cfg.BankName,
		AccountHolder:     cfg.AccountHolder,
		AccountNumber:     maskAccount(cfg.AccountNumber),
		AccountType:       cfg.AccountType,
		PreferenciaRetiro: string(cfg.PreferenciaRetiro),
		IsActive:          cfg.IsActive,
	}
}

// maskAccount hides all but the last four digits.
func maskAccount(value string) string {
	if len(value) <= 4 {
		return value
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
