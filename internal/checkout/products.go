package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

// ProductReader loads catalog rows for checkout.
type ProductReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type productReader struct {
	db *gorm.DB
}

// NewProductReader builds the gorm-backed product reader.
func NewProductReader(db *gorm.DB) ProductReader {
	return &productReader{db: db}
}

func (r *productReader) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	return rows, nil
}
