package checkout

import (
	"context"
)

// IntentRequest asks the payment gateway for a single redirect covering the
// whole order, regardless of how many sellers it splits into.
type IntentRequest struct {
	Amount     string
	Currency   string
	BuyerEmail string
	Metadata   map[string]string
}

// Intent is the gateway's answer: an opaque handle the buyer is redirected to.
type Intent struct {
	RedirectHandle string
}

// IntentCreator is the payment gateway boundary. Implementations wrap
// gateway failures in CodePaymentGateway errors.
type IntentCreator interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}
