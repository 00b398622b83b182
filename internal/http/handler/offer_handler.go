package handler

import (
	"net/http"

	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/service"
	"go.uber.org/zap"
)

type OfferHandler struct {
	sessions *service.SessionService
	offers   *service.OfferService
	logger   *zap.Logger
}

func NewOfferHandler(sessions *service.SessionService, offers *service.OfferService, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{
		sessions: sessions,
		offers:   offers,
		logger:   logger,
	}
}

// @Summary Get offer draft
// @Tags Offer
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.OfferDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/offer [get]
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.offers.Get(sess))
}

// @Summary Update offer draft
// @Description Merges the given fields into the draft. Omitted fields are left untouched; derived amounts cannot be set.
// @Tags Offer
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body domain.OfferUpdate true "Fields to change"
// @Success 200 {object} domain.OfferDTO
// @Failure 400 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/offer [patch]
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	var req domain.OfferUpdate
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.FinanceType != nil && !req.FinanceType.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid financeType")
		return
	}

	offer, err := h.offers.Update(r.Context(), sess, req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, offer)
}

// @Summary Get derived financials
// @Tags Offer
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.FinancialsDTO
// @Security BearerAuth
// @Router /sessions/{id}/offer/financials [get]
func (h *OfferHandler) Financials(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.offers.Financials(sess))
}
