package handler

import (
	"net/http"

	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/service"
	"go.uber.org/zap"
)

type SessionHandler struct {
	sessions *service.SessionService
	logger   *zap.Logger
}

func NewSessionHandler(sessions *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// @Summary Start or resume an offer session
// @Description Opens the offer wizard for a listing. An open session for the same agent and listing is returned as-is; otherwise a saved draft is resumed.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body domain.CreateSessionRequest true "Listing to make an offer on"
// @Success 201 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.sessions.Create(r.Context(), req.ListingID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID.String())
	respondJSON(w, http.StatusCreated, sess.DTO())
}

// @Summary Get session state
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.DTO())
}

// @Summary Discard a session
// @Description Resets the offer and document workflow to defaults and deletes the saved draft.
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Discard(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	if err := h.sessions.Discard(r.Context(), sess.ID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
