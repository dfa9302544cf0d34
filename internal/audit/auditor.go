package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/feriavirtual/marketplace-backend/internal/purchases"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
)

// staleShippedAfter is how long a purchase may sit in shipped before the
// auditor flags it as possibly lost.
const staleShippedAfter = 14 * 24 * time.Hour

const maxNotesLength = 500

// Report is the outcome of auditing one purchase. Issues are invariant
// violations; warnings are suspicious but legal states. IsValid is true when
// no issues were found.
type Report struct {
	PurchaseID      uuid.UUID
	IsValid         bool
	Issues          []string
	Warnings        []string
	Recommendations []string
}

// Auditor cross-checks stored purchases against the shipping invariants the
// write path is supposed to maintain.
type Auditor struct {
	purchases purchases.Repository
	log       *logger.Logger
	now       func() time.Time
}

// NewAuditor wires the auditor.
func NewAuditor(purchaseRepo purchases.Repository, log *logger.Logger) (*Auditor, error) {
	if purchaseRepo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Auditor{
		purchases: purchaseRepo,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Audit loads one purchase and runs every check against it. Checks are
// independent; one failure never masks another.
func (a *Auditor) Audit(ctx context.Context, purchaseID uuid.UUID) (*Report, error) {
	purchase, err := a.purchases.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	report := a.inspect(purchase)
	if !report.IsValid {
		ctx = a.log.WithPurchaseID(ctx, purchaseID.String())
		a.log.Warn(ctx, fmt.Sprintf("audit found %d issue(s)", len(report.Issues)))
	}
	return report, nil
}

// SellerReport summarizes a seller-wide sweep. Details keeps only the
// purchases with at least one issue or warning; clean ones just count.
type SellerReport struct {
	SellerID      uuid.UUID
	TotalAudited  int
	TotalIssues   int
	TotalWarnings int
	Details       []Report
}

// AuditSeller audits every approved purchase of a seller. Individual audit
// failures are collected rather than aborting the sweep.
func (a *Auditor) AuditSeller(ctx context.Context, sellerID uuid.UUID) (*SellerReport, error) {
	rows, err := a.purchases.FindApprovedBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	var sweepErr error
	summary := &SellerReport{SellerID: sellerID, TotalAudited: len(rows)}
	for i := range rows {
		report := a.inspect(&rows[i])
		summary.TotalIssues += len(report.Issues)
		summary.TotalWarnings += len(report.Warnings)
		if len(report.Issues) > 0 || len(report.Warnings) > 0 {
			summary.Details = append(summary.Details, *report)
		}
		if !report.IsValid {
			sweepErr = multierr.Append(sweepErr,
				fmt.Errorf("purchase %s: %d issue(s)", rows[i].ID, len(report.Issues)))
		}
	}
	return summary, sweepErr
}

func (a *Auditor) inspect(purchase *models.Purchase) *Report {
	report := &Report{PurchaseID: purchase.ID}

	if purchase.SellerID == uuid.Nil {
		report.addIssue("purchase has no seller id")
	}
	if purchase.BuyerID == uuid.Nil {
		report.addIssue("purchase has no buyer id")
	}
	if purchase.ProductID == nil && len(purchase.Items) == 0 {
		report.addIssue("purchase references no products")
	}
	if purchase.Status != enums.PurchaseStatusApproved {
		report.addIssue(fmt.Sprintf("purchase status is %s, not approved", purchase.Status))
	}

	shipping := purchase.Shipping
	if shipping != nil && purchase.IsService {
		report.addIssue("service purchase carries shipping data")
	}

	if shipping == nil {
		if purchase.Status == enums.PurchaseStatusApproved && !purchase.IsService {
			report.addWarning("approved physical purchase has no shipping record")
			report.addRecommendation("initialize shipping so the buyer can track fulfillment")
		}
		report.IsValid = len(report.Issues) == 0
		return report
	}

	if !shipping.Status.IsValid() {
		report.addIssue(fmt.Sprintf("unknown shipping status %q", shipping.Status))
	}
	if purchase.ShippingStatus == nil || *purchase.ShippingStatus != shipping.Status {
		report.addIssue("shipping status column disagrees with the shipping record")
	}

	if shipping.ActualDelivery != nil && shipping.Status != enums.ShippingStatusDelivered {
		report.addIssue("actual delivery is set but status is not delivered")
	}
	if shipping.ActualDelivery == nil && shipping.Status == enums.ShippingStatusDelivered {
		report.addIssue("delivered without an actual delivery time")
	}

	if shipping.Status == enums.ShippingStatusShipped {
		if shipping.TrackingNumber == nil || shipping.CarrierName == nil {
			report.addWarning("shipped without tracking details")
			report.addRecommendation("record the tracking number and carrier")
		}
		if a.now().Sub(shipping.UpdatedAt) > staleShippedAfter {
			report.addWarning("shipped for more than 14 days without delivery")
			report.addRecommendation("contact the carrier or the buyer to confirm the delivery")
		}
	}

	if shipping.TrackingNumber != nil && len(*shipping.TrackingNumber) < 3 {
		report.addIssue("tracking number is shorter than 3 characters")
	}
	if shipping.CarrierName != nil && len(*shipping.CarrierName) < 2 {
		report.addIssue("carrier name is shorter than 2 characters")
	}
	if shipping.Notes != nil && len(*shipping.Notes) > maxNotesLength {
		report.addIssue("shipping notes exceed 500 characters")
	}

	report.IsValid = len(report.Issues) == 0
	return report
}

func (r *Report) addIssue(msg string)          { r.Issues = append(r.Issues, msg) }
func (r *Report) addWarning(msg string)        { r.Warnings = append(r.Warnings, msg) }
func (r *Report) addRecommendation(msg string) { r.Recommendations = append(r.Recommendations, msg) }
