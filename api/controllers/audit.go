package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/api/middleware"
	"github.com/feriavirtual/marketplace-backend/api/responses"
	"github.com/feriavirtual/marketplace-backend/internal/audit"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

type auditReportResponse struct {
	PurchaseID      string   `json:"purchase_id"`
	IsValid         bool     `json:"is_valid"`
	Issues          []string `json:"issues,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// AuditPurchase runs the consistency checks against one purchase.
func AuditPurchase(auditor *audit.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchaseID, err := uuid.Parse(chi.URLParam(r, "purchaseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase id"))
			return
		}
		report, err := auditor.Audit(r.Context(), purchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAuditResponse(*report))
	}
}

type sellerAuditResponse struct {
	SellerID      string                `json:"seller_id"`
	TotalAudited  int                   `json:"total_audited"`
	TotalIssues   int                   `json:"total_issues"`
	TotalWarnings int                   `json:"total_warnings"`
	Details       []auditReportResponse `json:"details,omitempty"`
}

// AuditSellerPurchases sweeps every approved purchase of the caller.
func AuditSellerPurchases(auditor *audit.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePermission, "identity missing"))
			return
		}

		summary, sweepErr := auditor.AuditSeller(r.Context(), actor.ID)
		if summary == nil && sweepErr != nil {
			responses.WriteError(r.Context(), logg, w, sweepErr)
			return
		}

		// Per-purchase findings live inside the summary; the sweep itself
		// succeeded even when some purchases are inconsistent.
		payload := sellerAuditResponse{
			SellerID:      summary.SellerID.String(),
			TotalAudited:  summary.TotalAudited,
			TotalIssues:   summary.TotalIssues,
			TotalWarnings: summary.TotalWarnings,
		}
		for _, report := range summary.Details {
			payload.Details = append(payload.Details, toAuditResponse(report))
		}
		responses.WriteSuccess(w, payload)
	}
}

func toAuditResponse(report audit.Report) auditReportResponse {
	return auditReportResponse{
		PurchaseID:      report.PurchaseID.String(),
		IsValid:         report.IsValid,
		Issues:          report.Issues,
		Warnings:        report.Warnings,
		Recommendations: report.Recommendations,
	}
}
