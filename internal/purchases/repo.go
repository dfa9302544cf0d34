package purchases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

// Repository persists purchases and their shipping sub-records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	FindApprovedBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Purchase, error)
	UpdateShipping(ctx context.Context, id uuid.UUID, expected *enums.ShippingStatus, info *models.ShippingInfo) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the purchases repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase")
	}
	return purchase, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).First(&purchase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	return &purchase, nil
}

func (r *repository) FindApprovedBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND status = ?", sellerID, enums.PurchaseStatusApproved).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller purchases")
	}
	return rows, nil
}

// UpdateShipping writes the shipping sub-record guarded by the expected
// current status. A stale expectation affects zero rows and surfaces as a
// concurrent modification, never a silent overwrite.
func (r *repository) UpdateShipping(ctx context.Context, id uuid.UUID, expected *enums.ShippingStatus, info *models.ShippingInfo) error {
	query := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", id)
	if expected == nil {
		query = query.Where("shipping_status IS NULL")
	} else {
		query = query.Where("shipping_status = ?", *expected)
	}

	// Struct-based update so the jsonb serializer applies to the shipping column.
	result := query.
		Select("shipping_status", "shipping").
		Updates(models.Purchase{ShippingStatus: &info.Status, Shipping: info})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "update shipping info")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeConcurrentModification, "shipping status changed concurrently")
	}
	return nil
}
