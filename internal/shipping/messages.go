package shipping

import (
	"fmt"

	"github.com/feriavirtual/marketplace-backend/pkg/enums"
)

// statusMessage builds the buyer-facing notification copy for a status.
// Tracking details appear only in the shipped message.
func statusMessage(status enums.ShippingStatus, productName string, tracking, carrier *string) (title, description string) {
	switch status {
	case enums.ShippingStatusPending:
		return "Pedido confirmado",
			fmt.Sprintf("El vendedor recibió tu pedido de %s", productName)
	case enums.ShippingStatusPreparing:
		return "Pedido en preparación",
			fmt.Sprintf("El vendedor está preparando %s", productName)
	case enums.ShippingStatusShipped:
		description = fmt.Sprintf("%s va en camino", productName)
		if tracking != nil && carrier != nil {
			description = fmt.Sprintf("%s va en camino con %s, seguimiento %s", productName, *carrier, *tracking)
		}
		return "Pedido enviado", description
	case enums.ShippingStatusDelivered:
		return "Pedido entregado",
			fmt.Sprintf("%s fue entregado", productName)
	case enums.ShippingStatusCancelled:
		return "Envío cancelado",
			fmt.Sprintf("El envío de %s fue cancelado", productName)
	}
	return "Actualización de envío", fmt.Sprintf("Tu pedido de %s cambió de estado", productName)
}
