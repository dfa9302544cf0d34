package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/feriavirtual/marketplace-backend/pkg/config"
	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
)

func gatewayFor(t *testing.T, handler http.HandlerFunc) *HTTPGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPGateway(config.PaymentConfig{
		RedirectBaseURL: server.URL,
		RequestTimeout:  2 * time.Second,
	})
}

func TestHTTPGatewayCreatesIntent(t *testing.T) {
	t.Parallel()

	gateway := gatewayFor(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/intents", r.URL.Path)

		var payload intentPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "250.00", payload.Amount)
		require.Equal(t, "CLP", payload.Currency)

		json.NewEncoder(w).Encode(intentResponse{RedirectHandle: "handle-xyz"})
	})

	intent, err := gateway.CreateIntent(context.Background(), IntentRequest{
		Amount:     "250.00",
		Currency:   "CLP",
		BuyerEmail: "buyer@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "handle-xyz", intent.RedirectHandle)
}

func TestHTTPGatewayRejectsErrorStatus(t *testing.T) {
	t.Parallel()

	gateway := gatewayFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := gateway.CreateIntent(context.Background(), IntentRequest{Amount: "10.00", Currency: "CLP"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodePaymentGateway), "got %v", err)
}

func TestHTTPGatewayRejectsEmptyHandle(t *testing.T) {
	t.Parallel()

	gateway := gatewayFor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(intentResponse{})
	})

	_, err := gateway.CreateIntent(context.Background(), IntentRequest{Amount: "10.00", Currency: "CLP"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodePaymentGateway), "got %v", err)
}
