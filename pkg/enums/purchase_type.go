package enums

import "fmt"

// PurchaseType records which checkout path produced a purchase.
type PurchaseType string

const (
	PurchaseTypeSingle      PurchaseType = "single"
	PurchaseTypeMulti       PurchaseType = "multi"
	PurchaseTypeCentralized PurchaseType = "centralized"
)

var validPurchaseTypes = []PurchaseType{
	PurchaseTypeSingle,
	PurchaseTypeMulti,
	PurchaseTypeCentralized,
}

// IsValid reports whether the value is a known PurchaseType.
func (p PurchaseType) IsValid() bool {
	for _, candidate := range validPurchaseTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePurchaseType converts raw input into a PurchaseType.
func ParsePurchaseType(value string) (PurchaseType, error) {
	for _, candidate := range validPurchaseTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase type %q", value)
}
