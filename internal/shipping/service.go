package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/internal/notifications"
	"github.com/feriavirtual/marketplace-backend/internal/purchases"
	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
	"github.com/feriavirtual/marketplace-backend/pkg/metrics"
)

// Fields are the mutable shipping attributes a seller may set alongside a
// transition. Nil fields keep their current value.
type Fields struct {
	TrackingNumber    *string    `validate:"omitempty,min=3"`
	CarrierName       *string    `validate:"omitempty,min=2"`
	EstimatedDelivery *time.Time `validate:"omitempty"`
	Notes             *string    `validate:"omitempty,max=500"`
}

// Service drives the shipping lifecycle of approved physical purchases.
type Service interface {
	InitializeShipping(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.ShippingInfo, error)
	ApplyTransition(ctx context.Context, actorID, purchaseID uuid.UUID, target enums.ShippingStatus, fields Fields) (*models.ShippingInfo, error)
	GetShipping(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.ShippingInfo, error)
}

type service struct {
	purchases purchases.Repository
	notifier  notifications.Creator
	validate  *validator.Validate
	log       *logger.Logger
	metrics   *metrics.MarketplaceMetrics
}

// NewService wires shipping dependencies.
func NewService(purchaseRepo purchases.Repository, notifier notifications.Creator, log *logger.Logger, m *metrics.MarketplaceMetrics) (Service, error) {
	if purchaseRepo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notification creator required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		purchases: purchaseRepo,
		notifier:  notifier,
		validate:  validator.New(),
		log:       log,
		metrics:   m,
	}, nil
}

// InitializeShipping creates the shipping sub-record in pending. It is only
// valid on approved physical purchases that have no shipping record yet.
func (s *service) InitializeShipping(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.ShippingInfo, error) {
	purchase, err := s.eligiblePurchase(ctx, actorID, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.Shipping != nil {
		return nil, pkgerrors.New(pkgerrors.CodeIneligibleState, "shipping already initialized")
	}

	info := &models.ShippingInfo{
		Status:    enums.ShippingStatusPending,
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: actorID,
	}
	if err := s.purchases.UpdateShipping(ctx, purchaseID, nil, info); err != nil {
		return nil, err
	}

	s.metrics.IncShippingTransition(string(enums.ShippingStatusPending))
	s.notifyBuyer(ctx, purchase, info)
	return info, nil
}

// ApplyTransition moves the purchase to the target status. Preconditions are
// checked in a fixed order so callers always see the most fundamental
// failure: existence, ownership, approval, shippability, legality, fields.
func (s *service) ApplyTransition(ctx context.Context, actorID, purchaseID uuid.UUID, target enums.ShippingStatus, fields Fields) (*models.ShippingInfo, error) {
	purchase, err := s.eligiblePurchase(ctx, actorID, purchaseID)
	if err != nil {
		return nil, err
	}

	current := purchase.ShippingStatus
	if !CanTransition(current, target) {
		from := "uninitialized"
		if current != nil {
			from = current.String()
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("cannot transition shipping from %s to %s", from, target))
	}

	if err := s.validateFields(fields); err != nil {
		return nil, err
	}

	info := mergeFields(purchase.Shipping, fields)
	info.Status = target
	info.UpdatedAt = time.Now().UTC()
	info.UpdatedBy = actorID
	if target == enums.ShippingStatusDelivered {
		now := info.UpdatedAt
		info.ActualDelivery = &now
	}

	if err := s.purchases.UpdateShipping(ctx, purchaseID, current, info); err != nil {
		return nil, err
	}

	s.metrics.IncShippingTransition(string(target))
	ctx = s.log.WithPurchaseID(ctx, purchaseID.String())
	s.log.Info(ctx, fmt.Sprintf("shipping moved to %s", target))
	s.notifyBuyer(ctx, purchase, info)
	return info, nil
}

func (s *service) GetShipping(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.ShippingInfo, error) {
	purchase, err := s.purchases.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if actorID != purchase.SellerID && actorID != purchase.BuyerID {
		return nil, pkgerrors.New(pkgerrors.CodePermission, "only the buyer or seller may view shipping")
	}
	if purchase.Shipping == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipping not initialized")
	}
	return purchase.Shipping, nil
}

// eligiblePurchase loads the purchase and applies the actor and state
// preconditions shared by every shipping mutation.
func (s *service) eligiblePurchase(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.Purchase, error) {
	purchase, err := s.purchases.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodePermission, "only the seller may manage shipping")
	}
	if purchase.Status != enums.PurchaseStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeIneligibleState,
			fmt.Sprintf("shipping requires an approved purchase, current status is %s", purchase.Status))
	}
	if purchase.IsService {
		return nil, pkgerrors.New(pkgerrors.CodeNotShippable, "service purchases have no shipping")
	}
	return purchase, nil
}

// validateFields enforces length rules only when a field is present; tracking
// details stay optional on every transition, the auditor flags their absence.
func (s *service) validateFields(fields Fields) error {
	if err := s.validate.Struct(fields); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping fields")
	}
	return nil
}

// notifyBuyer emits the single buyer notification for an applied transition.
// Emission failures are logged, never rolled back; the transition stands.
func (s *service) notifyBuyer(ctx context.Context, purchase *models.Purchase, info *models.ShippingInfo) {
	title, description := statusMessage(info.Status, productName(purchase), info.TrackingNumber, info.CarrierName)
	input := notifications.CreateInput{
		UserID:         purchase.BuyerID,
		Type:           enums.NotificationTypeShipping,
		Title:          title,
		Description:    description,
		PurchaseID:     &purchase.ID,
		ProductName:    productName(purchase),
		ShippingStatus: &info.Status,
	}
	if info.Status == enums.ShippingStatusShipped {
		input.TrackingNumber = info.TrackingNumber
		input.CarrierName = info.CarrierName
	}
	if _, err := s.notifier.Create(ctx, input); err != nil {
		s.log.Error(ctx, "emitting shipping notification", err)
	}
}

func mergeFields(existing *models.ShippingInfo, fields Fields) *models.ShippingInfo {
	info := &models.ShippingInfo{}
	if existing != nil {
		copied := *existing
		info = &copied
	}
	if fields.TrackingNumber != nil {
		info.TrackingNumber = fields.TrackingNumber
	}
	if fields.CarrierName != nil {
		info.CarrierName = fields.CarrierName
	}
	if fields.EstimatedDelivery != nil {
		info.EstimatedDelivery = fields.EstimatedDelivery
	}
	if fields.Notes != nil {
		info.Notes = fields.Notes
	}
	return info
}

func productName(purchase *models.Purchase) string {
	if len(purchase.Items) == 1 {
		return purchase.Items[0].Name
	}
	if len(purchase.Items) > 1 {
		return fmt.Sprintf("%s y %d más", purchase.Items[0].Name, len(purchase.Items)-1)
	}
	return "tu pedido"
}
