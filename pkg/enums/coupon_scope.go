package enums

import "fmt"

// CouponScope restricts who a coupon applies to.
type CouponScope string

const (
	CouponScopeAll     CouponScope = "all"
	CouponScopeSellers CouponScope = "sellers"
	CouponScopeBuyers  CouponScope = "buyers"
)

var validCouponScopes = []CouponScope{
	CouponScopeAll,
	CouponScopeSellers,
	CouponScopeBuyers,
}

// IsValid reports whether the value is a known CouponScope.
func (c CouponScope) IsValid() bool {
	for _, candidate := range validCouponScopes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponScope converts raw input into a CouponScope.
func ParseCouponScope(value string) (CouponScope, error) {
	for _, candidate := range validCouponScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon scope %q", value)
}
