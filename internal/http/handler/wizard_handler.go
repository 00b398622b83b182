package handler

import (
	"net/http"

	"github.com/straye-as/offer-workflow/internal/service"
	"go.uber.org/zap"
)

type WizardHandler struct {
	sessions *service.SessionService
	wizard   *service.WizardService
	logger   *zap.Logger
}

func NewWizardHandler(sessions *service.SessionService, wizard *service.WizardService, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{
		sessions: sessions,
		wizard:   wizard,
		logger:   logger,
	}
}

// @Summary Advance to the next step
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.WizardDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/wizard/next [post]
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	state, err := h.wizard.Next(sess)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// @Summary Go back one step
// @Description Blocked while an upload, analysis or signing operation is running.
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.WizardDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/wizard/back [post]
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	state, err := h.wizard.Back(sess)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// @Summary Final review
// @Description Blocking issues, warnings and the read-only summary of the offer.
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.ReviewDTO
// @Security BearerAuth
// @Router /sessions/{id}/wizard/review [get]
func (h *WizardHandler) Review(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.wizard.Review(sess))
}

// @Summary Submit the offer
// @Description Retrying an unchanged offer after a failure reuses the same idempotency key.
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} domain.SubmitResponseDTO
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Offer incomplete"
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/wizard/submit [post]
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	resp, err := h.wizard.Submit(r.Context(), sess)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}
