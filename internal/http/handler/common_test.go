package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/esign"
	"github.com/straye-as/offer-workflow/internal/gateway"
	"github.com/straye-as/offer-workflow/internal/http/handler"
	"github.com/straye-as/offer-workflow/internal/service"
	"github.com/straye-as/offer-workflow/internal/store"
	"github.com/straye-as/offer-workflow/internal/validation"
	"github.com/straye-as/offer-workflow/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func respond(err error) (int, domain.APIError) {
	w := httptest.NewRecorder()
	handler.RespondServiceError(w, zap.NewNop(), err)
	var body domain.APIError
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestRespondServiceError_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"unknown session", service.ErrSessionNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{"unknown document", fmt.Errorf("remove: %w", domain.ErrDocumentNotFound), http.StatusNotFound, domain.ErrorTypeNotFound},
		{"no agent", service.ErrUnauthorized, http.StatusUnauthorized, domain.ErrorTypeUnauthorized},
		{"untrusted message", esign.ErrUntrustedMessage, http.StatusForbidden, domain.ErrorTypeForbidden},
		{"not a pdf", gateway.ErrNotPDF, http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{"bad type", fmt.Errorf("%w: %q", domain.ErrInvalidDocumentType, "Deed"), http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{"too large", gateway.ErrFileTooLarge, http.StatusRequestEntityTooLarge, domain.ErrorTypeTooLarge},
		{"bad expiry", store.ErrInvalidExpiry, http.StatusUnprocessableEntity, domain.ErrorTypeValidation},
		{"analysis running", gateway.ErrAnalysisInProgress, http.StatusConflict, domain.ErrorTypeBusy},
		{"submit running", wizard.ErrSubmissionInProgress, http.StatusConflict, domain.ErrorTypeBusy},
		{"back at first step", wizard.ErrAtFirstStep, http.StatusConflict, domain.ErrorTypeConflict},
		{"required recipient", domain.ErrRecipientRequired, http.StatusConflict, domain.ErrorTypeConflict},
		{"popup timeout", esign.ErrPopupTimeout, http.StatusGatewayTimeout, domain.ErrorTypeTimeout},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, domain.ErrorTypeTimeout},
		{"connect failed", esign.ErrConnectFailed, http.StatusBadGateway, domain.ErrorTypeUpstream},
		{"backend down", fmt.Errorf("%w: %w", gateway.ErrUploadFailed, backend.ErrUnavailable), http.StatusBadGateway, domain.ErrorTypeUpstream},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, domain.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respond(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, body.Type)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestRespondServiceError_PassesBackendMessage(t *testing.T) {
	status, body := respond(fmt.Errorf("%w: %w", service.ErrDeleteFailed, &backend.Error{
		Operation: "delete document",
		Status:    http.StatusConflict,
		Message:   "Document is attached to a sent envelope",
	}))

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Document is attached to a sent envelope", body.Detail)

	status, body = respond(&backend.Error{Operation: "submit offer", Status: http.StatusBadRequest, Message: "Listing is no longer active"})
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Listing is no longer active", body.Detail)
}

func TestRespondServiceError_AnalysisMessage(t *testing.T) {
	status, body := respond(&gateway.AnalysisError{Message: "Unreadable PDF"})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Unreadable PDF", body.Detail)
}

func TestRespondServiceError_SubmitBlocked(t *testing.T) {
	status, body := respond(&wizard.SubmitBlockedError{Issues: []validation.Issue{
		{Field: "buyerName", Message: "Buyer name is required"},
		{Field: "presentingAgent.email", Message: "Presenting agent email is required"},
	}})

	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, domain.ErrorTypeValidation, body.Type)
	assert.Equal(t, map[string]string{
		"buyerName":             "Buyer name is required",
		"presentingAgent.email": "Presenting agent email is required",
	}, body.Errors)
}
