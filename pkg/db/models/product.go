package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entry a cart line references. Services are never
// shipped and carry no shipping cost.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SellerID     uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index"`
	Title        string          `gorm:"column:title;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock        int             `gorm:"column:stock;not null;default:0"`
	IsService    bool            `gorm:"column:is_service;not null;default:false"`
	ShippingCost decimal.Decimal `gorm:"column:shipping_cost;type:numeric(12,2);not null;default:0"`
	FreeShipping bool            `gorm:"column:free_shipping;not null;default:false"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
