package enums

import "fmt"

// ShippingStatus tracks physical fulfillment progress for a purchase.
type ShippingStatus string

const (
	ShippingStatusPending   ShippingStatus = "pending"
	ShippingStatusPreparing ShippingStatus = "preparing"
	ShippingStatusShipped   ShippingStatus = "shipped"
	ShippingStatusDelivered ShippingStatus = "delivered"
	ShippingStatusCancelled ShippingStatus = "cancelled"
)

var validShippingStatuses = []ShippingStatus{
	ShippingStatusPending,
	ShippingStatusPreparing,
	ShippingStatusShipped,
	ShippingStatusDelivered,
	ShippingStatusCancelled,
}

// String implements fmt.Stringer.
func (s ShippingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShippingStatus.
func (s ShippingStatus) IsValid() bool {
	for _, candidate := range validShippingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (s ShippingStatus) IsTerminal() bool {
	return s == ShippingStatusDelivered || s == ShippingStatusCancelled
}

// ShippingStatuses returns all known statuses in declaration order.
func ShippingStatuses() []ShippingStatus {
	return validShippingStatuses
}

// ParseShippingStatus converts raw input into a ShippingStatus.
func ParseShippingStatus(value string) (ShippingStatus, error) {
	for _, candidate := range validShippingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping status %q", value)
}
