package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/esign"
	"github.com/straye-as/offer-workflow/internal/gateway"
	"github.com/straye-as/offer-workflow/internal/service"
	"github.com/straye-as/offer-workflow/internal/store"
	"github.com/straye-as/offer-workflow/internal/wizard"
	"go.uber.org/zap"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// decodeAndValidate decodes a JSON body into target and runs its validate tags.
// It writes the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			respondWithError(w, http.StatusBadRequest, "Request body is required")
			return false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(target); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = formatValidationError(fe)
		}
	}

	respondProblem(w, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

// fieldPath drops the root struct name from the namespace: "OfferUpdate.presentingAgent.email" -> "presentingAgent.email"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondProblem(w, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

func respondProblem(w http.ResponseWriter, p domain.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusRequestEntityTooLarge:
		return domain.ErrorTypeTooLarge
	case http.StatusUnprocessableEntity:
		return domain.ErrorTypeValidation
	case http.StatusBadGateway:
		return domain.ErrorTypeUpstream
	case http.StatusGatewayTimeout:
		return domain.ErrorTypeTimeout
	default:
		return domain.ErrorTypeInternal
	}
}

// respondServiceError maps errors from the workflow components onto problem responses.
// Messages from the listing backend and the analysis service are passed through to the agent.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var blocked *wizard.SubmitBlockedError
	if errors.As(err, &blocked) {
		fields := make(map[string]string, len(blocked.Issues))
		for _, issue := range blocked.Issues {
			fields[issue.Field] = issue.Message
		}
		respondProblem(w, domain.APIError{
			Type:   domain.ErrorTypeValidation,
			Title:  "Offer Incomplete",
			Status: http.StatusUnprocessableEntity,
			Detail: "Fix the listed fields before submitting",
			Errors: fields,
		})
		return
	}

	var analysisErr *gateway.AnalysisError
	if errors.As(err, &analysisErr) {
		respondWithError(w, http.StatusUnprocessableEntity, analysisErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrRecipientNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, esign.ErrUntrustedMessage):
		respondWithError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidDocumentType),
		errors.Is(err, gateway.ErrEmptyFile),
		errors.Is(err, gateway.ErrNotPDF):
		respondWithError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, gateway.ErrFileTooLarge):
		respondWithError(w, http.StatusRequestEntityTooLarge, err.Error())

	case errors.Is(err, store.ErrInvalidExpiry):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, gateway.ErrAnalysisInProgress),
		errors.Is(err, wizard.ErrOperationInProgress),
		errors.Is(err, wizard.ErrSubmissionInProgress),
		errors.Is(err, wizard.ErrUploadsPending):
		respondProblem(w, domain.APIError{
			Type:   domain.ErrorTypeBusy,
			Title:  http.StatusText(http.StatusConflict),
			Status: http.StatusConflict,
			Detail: err.Error(),
		})

	case errors.Is(err, wizard.ErrAtFirstStep),
		errors.Is(err, wizard.ErrUseSubmit),
		errors.Is(err, wizard.ErrNotAtReview),
		errors.Is(err, wizard.ErrAlreadySubmitted),
		errors.Is(err, esign.ErrNoPopup),
		errors.Is(err, domain.ErrDocumentUploading),
		errors.Is(err, domain.ErrDocumentNotDeleted),
		errors.Is(err, domain.ErrNotSoftRemovable),
		errors.Is(err, domain.ErrRecipientRequired):
		respondWithError(w, http.StatusConflict, err.Error())

	case errors.Is(err, esign.ErrPopupTimeout),
		errors.Is(err, context.DeadlineExceeded):
		respondWithError(w, http.StatusGatewayTimeout, err.Error())

	case errors.Is(err, esign.ErrConnectFailed):
		respondWithError(w, http.StatusBadGateway, err.Error())

	case errors.Is(err, service.ErrDeleteFailed),
		errors.Is(err, gateway.ErrUploadFailed),
		errors.Is(err, backend.ErrUnavailable),
		errors.Is(err, backend.ErrInvalidResponse):
		detail := backend.ServerMessage(err)
		if detail == "" {
			detail = err.Error()
		}
		logger.Warn("listing backend call failed", zap.Error(err))
		respondWithError(w, http.StatusBadGateway, detail)

	default:
		if msg := backend.ServerMessage(err); msg != "" {
			logger.Warn("listing backend rejected request", zap.Error(err))
			respondWithError(w, http.StatusBadGateway, msg)
			return
		}
		logger.Error("unhandled service error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// sessionFromRequest resolves the {id} path parameter to a session owned by the caller
func sessionFromRequest(w http.ResponseWriter, r *http.Request, sessions *service.SessionService, logger *zap.Logger) (*service.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session ID: must be a valid UUID")
		return nil, false
	}

	sess, err := sessions.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, logger, err)
		return nil, false
	}
	return sess, true
}
