package commission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

// Repository persists seller bank configurations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankConfig, error)
	Create(ctx context.Context, cfg *models.SellerBankConfig) (*models.SellerBankConfig, error)
	DeactivateBySeller(ctx context.Context, sellerID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the seller bank config repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankConfig, error) {
	var cfg models.SellerBankConfig
	err := r.db.WithContext(ctx).
		Where("vendedor_id = ? AND is_active", sellerID).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active bank config for seller")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bank config")
	}
	return &cfg, nil
}

func (r *repository) Create(ctx context.Context, cfg *models.SellerBankConfig) (*models.SellerBankConfig, error) {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bank config")
	}
	return cfg, nil
}

func (r *repository) DeactivateBySeller(ctx context.Context, sellerID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.SellerBankConfig{}).
		Where("vendedor_id = ? AND is_active", sellerID).
		Update("is_active", false).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate bank config")
	}
	return nil
}
