package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

// ReserveItem is one product/quantity pair to take out of available stock.
type ReserveItem struct {
	ProductID uuid.UUID
	Qty       int
}

// InventoryReserver moves stock between available and reserved. Reserve is
// all-or-nothing when run inside a transaction: the first shortfall aborts
// and the rollback returns every prior decrement.
type InventoryReserver interface {
	WithTx(tx *gorm.DB) InventoryReserver
	Reserve(ctx context.Context, items []ReserveItem) error
	Release(ctx context.Context, items []ReserveItem) error
}

type inventoryReserver struct {
	db *gorm.DB
}

// NewInventoryReserver builds the gorm-backed reserver.
func NewInventoryReserver(db *gorm.DB) InventoryReserver {
	return &inventoryReserver{db: db}
}

func (r *inventoryReserver) WithTx(tx *gorm.DB) InventoryReserver {
	return &inventoryReserver{db: tx}
}

func (r *inventoryReserver) Reserve(ctx context.Context, items []ReserveItem) error {
	for _, item := range items {
		if item.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("reserve quantity must be positive for product %s", item.ProductID))
		}
		result := r.db.WithContext(ctx).
			Model(&models.InventoryItem{}).
			Where("product_id = ? AND available_qty >= ?", item.ProductID, item.Qty).
			Updates(map[string]any{
				"available_qty": gorm.Expr("available_qty - ?", item.Qty),
				"reserved_qty":  gorm.Expr("reserved_qty + ?", item.Qty),
			})
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "reserve stock")
		}
		if result.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeInventory,
				fmt.Sprintf("insufficient stock for product %s", item.ProductID))
		}
	}
	return nil
}

func (r *inventoryReserver) Release(ctx context.Context, items []ReserveItem) error {
	for _, item := range items {
		result := r.db.WithContext(ctx).
			Model(&models.InventoryItem{}).
			Where("product_id = ? AND reserved_qty >= ?", item.ProductID, item.Qty).
			Updates(map[string]any{
				"available_qty": gorm.Expr("available_qty + ?", item.Qty),
				"reserved_qty":  gorm.Expr("reserved_qty - ?", item.Qty),
			})
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "release stock")
		}
		if result.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeInventory,
				fmt.Sprintf("no reservation to release for product %s", item.ProductID))
		}
	}
	return nil
}
