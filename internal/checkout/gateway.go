package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/feriavirtual/marketplace-backend/pkg/config"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

// HTTPGateway creates payment intents against the redirect provider's REST
// API. It is the only place gateway wire details live.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway builds the gateway client from payment configuration.
func NewHTTPGateway(cfg config.PaymentConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.RedirectBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type intentPayload struct {
	Amount     string            `json:"amount"`
	Currency   string            `json:"currency"`
	BuyerEmail string            `json:"buyer_email"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type intentResponse struct {
	RedirectHandle string `json:"redirect_handle"`
}

func (g *HTTPGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	body, err := json.Marshal(intentPayload{
		Amount:     req.Amount,
		Currency:   req.Currency,
		BuyerEmail: req.BuyerEmail,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode intent request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/intents", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build intent request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentGateway, err, "call payment gateway")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pkgerrors.New(pkgerrors.CodePaymentGateway,
			fmt.Sprintf("payment gateway returned status %d", resp.StatusCode))
	}

	var decoded intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentGateway, err, "decode gateway response")
	}
	if decoded.RedirectHandle == "" {
		return nil, pkgerrors.New(pkgerrors.CodePaymentGateway, "gateway response missing redirect handle")
	}
	return &Intent{RedirectHandle: decoded.RedirectHandle}, nil
}
