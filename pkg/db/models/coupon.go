package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feriavirtual/marketplace-backend/pkg/enums"
)

// Coupon is a discount code with an activity window and an optional usage cap.
type Coupon struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Code          string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinPurchase   *decimal.Decimal   `gorm:"column:min_purchase;type:numeric(12,2)"`
	MaxDiscount   *decimal.Decimal   `gorm:"column:max_discount;type:numeric(12,2)"`
	UsageLimit    *int               `gorm:"column:usage_limit"`
	UsedCount     int                `gorm:"column:used_count;not null;default:0"`
	AppliesTo     enums.CouponScope  `gorm:"column:applies_to;type:text;not null;default:'all'"`
	StartsAt      time.Time          `gorm:"column:starts_at;not null"`
	EndsAt        time.Time          `gorm:"column:ends_at;not null"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// IsCurrent reports whether the coupon is active and inside its window.
func (c Coupon) IsCurrent(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.StartsAt) || now.After(c.EndsAt) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}
