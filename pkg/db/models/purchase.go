package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feriavirtual/marketplace-backend/pkg/enums"
)

// ShippingInfo is the shipping sub-record embedded in a purchase. It exists
// only for approved purchases of physical products. ActualDelivery is set if
// and only if the status is delivered.
type ShippingInfo struct {
	Status            enums.ShippingStatus `json:"status"`
	TrackingNumber    *string              `json:"tracking_number,omitempty"`
	CarrierName       *string              `json:"carrier_name,omitempty"`
	EstimatedDelivery *time.Time           `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time           `json:"actual_delivery,omitempty"`
	Notes             *string              `json:"notes,omitempty"`
	UpdatedAt         time.Time            `json:"updated_at"`
	UpdatedBy         uuid.UUID            `json:"updated_by"`
}

// PurchaseItem is one product line inside a purchase detail set.
type PurchaseItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Purchase is one seller's portion of an order: its own amount, payment
// reference and shipping lifecycle. A multi-vendor checkout produces one
// Purchase per seller behind a single payment redirect.
type Purchase struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	PaymentID      string                `gorm:"column:payment_id;not null"`
	SellerID       uuid.UUID             `gorm:"column:seller_id;type:uuid;not null;index"`
	BuyerID        uuid.UUID             `gorm:"column:buyer_id;type:uuid;not null;index"`
	BuyerEmail     string                `gorm:"column:buyer_email;not null"`
	ProductID      *uuid.UUID            `gorm:"column:product_id;type:uuid"`
	Items          []PurchaseItem        `gorm:"column:items;type:jsonb;serializer:json"`
	Amount         decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	ShippingAmount decimal.Decimal       `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	Status         enums.PurchaseStatus  `gorm:"column:status;type:text;not null;default:'pending'"`
	Type           enums.PurchaseType    `gorm:"column:type;type:text;not null"`
	IsService      bool                  `gorm:"column:is_service;not null;default:false"`
	ShippingStatus *enums.ShippingStatus `gorm:"column:shipping_status;type:text"`
	Shipping       *ShippingInfo         `gorm:"column:shipping;type:jsonb;serializer:json"`
	ShippingAddr   *string               `gorm:"column:shipping_address"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
