package shipping

import (
	"github.com/feriavirtual/marketplace-backend/pkg/enums"
)

// transitions is the legal edge set of the shipping lifecycle. Terminal
// statuses have no outgoing edges.
var transitions = map[enums.ShippingStatus][]enums.ShippingStatus{
	enums.ShippingStatusPending:   {enums.ShippingStatusPreparing, enums.ShippingStatusCancelled},
	enums.ShippingStatusPreparing: {enums.ShippingStatusShipped, enums.ShippingStatusCancelled},
	enums.ShippingStatusShipped:   {enums.ShippingStatusDelivered, enums.ShippingStatusCancelled},
	enums.ShippingStatusDelivered: {},
	enums.ShippingStatusCancelled: {},
}

// CanTransition reports whether moving from the current status to the target
// is legal. A nil current status means shipping was never initialized; any
// valid status may then be set directly.
func CanTransition(from *enums.ShippingStatus, to enums.ShippingStatus) bool {
	if !to.IsValid() {
		return false
	}
	if from == nil {
		return true
	}
	for _, next := range transitions[*from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from the current one.
func NextStatuses(from *enums.ShippingStatus) []enums.ShippingStatus {
	if from == nil {
		return append([]enums.ShippingStatus(nil), enums.ShippingStatuses()...)
	}
	return append([]enums.ShippingStatus(nil), transitions[*from]...)
}
