package enums

import "fmt"

// WithdrawalTier is the seller-chosen delay before funds are released.
// Shorter hold time costs a higher commission.
type WithdrawalTier string

const (
	WithdrawalTier7Days  WithdrawalTier = "a_7_dias"
	WithdrawalTier15Days WithdrawalTier = "a_15_dias"
	WithdrawalTier35Days WithdrawalTier = "a_35_dias"
)

var validWithdrawalTiers = []WithdrawalTier{
	WithdrawalTier7Days,
	WithdrawalTier15Days,
	WithdrawalTier35Days,
}

// String implements fmt.Stringer.
func (w WithdrawalTier) String() string {
	return string(w)
}

// IsValid reports whether the value is one of the three settlement tiers.
func (w WithdrawalTier) IsValid() bool {
	for _, candidate := range validWithdrawalTiers {
		if candidate == w {
			return true
		}
	}
	return false
}

// HoldDays returns the settlement delay in days for the tier.
func (w WithdrawalTier) HoldDays() int {
	switch w {
	case WithdrawalTier7Days:
		return 7
	case WithdrawalTier15Days:
		return 15
	case WithdrawalTier35Days:
		return 35
	}
	return 0
}

// ParseWithdrawalTier converts raw input into a WithdrawalTier.
func ParseWithdrawalTier(value string) (WithdrawalTier, error) {
	for _, candidate := range validWithdrawalTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid withdrawal tier %q", value)
}
