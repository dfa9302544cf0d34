package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/feriavirtual/marketplace-backend/pkg/errors"
	"github.com/feriavirtual/marketplace-backend/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var payload types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload
}

func TestWriteErrorMapsCodesToStatuses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodePermission, http.StatusForbidden},
		{pkgerrors.CodeInvalidTransition, http.StatusUnprocessableEntity},
		{pkgerrors.CodeConcurrentModification, http.StatusConflict},
		{pkgerrors.CodePaymentGateway, http.StatusBadGateway},
		{pkgerrors.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(tc.code, "boom"))
		if rec.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d", tc.code, rec.Code, tc.status)
		}
		payload := decodeError(t, rec)
		if payload.Error.Code != string(tc.code) {
			t.Fatalf("%s: payload code = %s", tc.code, payload.Error.Code)
		}
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec,
		pkgerrors.New(pkgerrors.CodeInternal, "connection string user=admin leaked"))

	payload := decodeError(t, rec)
	if payload.Error.Message != "internal server error" {
		t.Fatalf("internal details must not leak, got %q", payload.Error.Message)
	}
}

func TestWriteErrorExposesValidationMessages(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec,
		pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]string{"qty": "must be greater than 0"}))

	payload := decodeError(t, rec)
	if payload.Error.Message != "quantity must be positive" {
		t.Fatalf("validation messages are public, got %q", payload.Error.Message)
	}
	if payload.Error.Details == nil {
		t.Fatal("validation details must be included")
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, context.DeadlineExceeded)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("untyped errors default to 500, got %d", rec.Code)
	}
}
