package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feriavirtual/marketplace-backend/pkg/enums"
)

// Notification is a write-only side effect of a shipping transition, read
// later by the notification UI.
type Notification struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Type           enums.NotificationType `gorm:"column:type;type:text;not null"`
	Title          string                 `gorm:"column:title;not null"`
	Description    string                 `gorm:"column:description;not null"`
	PurchaseID     *uuid.UUID             `gorm:"column:purchase_id;type:uuid"`
	ProductName    string                 `gorm:"column:product_name"`
	ShippingStatus *enums.ShippingStatus  `gorm:"column:shipping_status;type:text"`
	TrackingNumber *string                `gorm:"column:tracking_number"`
	CarrierName    *string                `gorm:"column:carrier_name"`
	IsRead         bool                   `gorm:"column:is_read;not null;default:false"`
	ReadAt         *time.Time             `gorm:"column:read_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
}
