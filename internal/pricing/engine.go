package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feriavirtual/marketplace-backend/pkg/db/models"
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
	"github.com/feriavirtual/marketplace-backend/pkg/money"
)

// BuyerContext describes the buyer a coupon is evaluated against.
type BuyerContext struct {
	BuyerID  uuid.UUID
	IsSeller bool
}

// Applicable reports whether the coupon can discount anything for this buyer
// right now: active, inside its window, usage not exhausted, and the scope
// matches the buyer's role.
func Applicable(coupon *models.Coupon, buyer BuyerContext, now time.Time) bool {
	if coupon == nil {
		return false
	}
	if !coupon.IsCurrent(now) {
		return false
	}
	switch coupon.AppliesTo {
	case enums.CouponScopeAll:
		return true
	case enums.CouponScopeSellers:
		return buyer.IsSeller
	case enums.CouponScopeBuyers:
		return !buyer.IsSeller
	}
	return false
}

// EffectivePrice returns the unit price after the coupon discount. The result
// is never negative and never exceeds the original price. Intermediate math
// is unrounded; the half-up 2dp rounding happens once at the end.
func EffectivePrice(price decimal.Decimal, coupon *models.Coupon, buyer BuyerContext, now time.Time) decimal.Decimal {
	if !Applicable(coupon, buyer, now) {
		return money.RoundFinal(price)
	}

	var discounted decimal.Decimal
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		discounted = money.PercentOff(price, coupon.DiscountValue)
		if coupon.MaxDiscount != nil {
			if price.Sub(discounted).GreaterThan(*coupon.MaxDiscount) {
				discounted = price.Sub(*coupon.MaxDiscount)
			}
		}
	case enums.DiscountTypeFixed:
		discounted = price.Sub(coupon.DiscountValue)
	default:
		discounted = price
	}

	discounted = money.ClampNonNegative(discounted)
	discounted = money.Min(discounted, price)
	return money.RoundFinal(discounted)
}
