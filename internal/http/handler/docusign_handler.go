package handler

import (
	"net/http"

	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/esign"
	"github.com/straye-as/offer-workflow/internal/service"
	"go.uber.org/zap"
)

// DocuSignHandler drives the DocuSign connection flow.
// The browser owns the popup window and relays its messages and close events here.
type DocuSignHandler struct {
	sessions *service.SessionService
	signing  *service.SigningService
	logger   *zap.Logger
}

func NewDocuSignHandler(sessions *service.SessionService, signing *service.SigningService, logger *zap.Logger) *DocuSignHandler {
	return &DocuSignHandler{
		sessions: sessions,
		signing:  signing,
		logger:   logger,
	}
}

// @Summary Get DocuSign connection status
// @Tags DocuSign
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.DocuSignDTO
// @Security BearerAuth
// @Router /sessions/{id}/docusign [get]
func (h *DocuSignHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.signing.Status(r.Context(), sess))
}

// @Summary Start DocuSign authorization
// @Description Returns the authorization URL the browser should open in a popup.
// @Tags DocuSign
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.DocuSignDTO
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/docusign/connect [post]
func (h *DocuSignHandler) Connect(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	state, err := h.signing.Connect(r.Context(), sess)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// @Summary Relay the OAuth callback message
// @Description Accepted only from a trusted origin with the callback message type. A request Origin header, when present, must also be trusted. Polls the connection status before returning.
// @Tags DocuSign
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body domain.DocuSignMessageRequest true "Message origin and type"
// @Success 200 {object} domain.DocuSignDTO
// @Failure 403 {object} domain.APIError "Untrusted message"
// @Failure 502 {object} domain.APIError "Connection could not be confirmed"
// @Security BearerAuth
// @Router /sessions/{id}/docusign/message [post]
func (h *DocuSignHandler) Message(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	var req domain.DocuSignMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// The relaying page itself must be served from a trusted origin
	if origin := r.Header.Get("Origin"); origin != "" && !sess.Connector.TrustedOrigin(origin) {
		h.logger.Warn("Rejected DocuSign message relayed from untrusted page",
			zap.String("request_origin", origin),
			zap.String("session_id", sess.ID.String()),
		)
		respondServiceError(w, h.logger, esign.ErrUntrustedMessage)
		return
	}

	state, err := h.signing.HandleMessage(r.Context(), sess, req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// @Summary Report that the popup was closed
// @Description Re-checks the connection once unless the callback was already handled. Closing without connecting is not an error.
// @Tags DocuSign
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.DocuSignDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/docusign/popup-closed [post]
func (h *DocuSignHandler) PopupClosed(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	state, err := h.signing.PopupClosed(r.Context(), sess)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}
