package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/service"
	"go.uber.org/zap"
)

// multipart overhead allowed on top of the largest file limit
const formOverhead = 1 << 20

type DocumentHandler struct {
	sessions  *service.SessionService
	documents *service.DocumentService
	maxBody   int64
	logger    *zap.Logger
}

func NewDocumentHandler(sessions *service.SessionService, documents *service.DocumentService, limits config.UploadConfig, logger *zap.Logger) *DocumentHandler {
	largest := max(limits.AnalysisMaxMB, limits.OfferDocumentMaxMB, limits.ListingDocumentMaxMB)
	return &DocumentHandler{
		sessions:  sessions,
		documents: documents,
		maxBody:   largest<<20 + formOverhead,
		logger:    logger,
	}
}

// readFile pulls the "file" part out of a multipart request.
// Per-context size and type checks happen in the upload gateway.
func (h *DocumentHandler) readFile(w http.ResponseWriter, r *http.Request) (backend.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum request size is %dMB", h.maxBody>>20))
			return backend.File{}, false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return backend.File{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return backend.File{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return backend.File{}, false
	}

	return backend.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

// @Summary Upload and analyze a purchase agreement
// @Description Uploads the PDF, runs field extraction and merges the extracted fields into the offer draft.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Purchase agreement PDF"
// @Success 200 {object} domain.AnalysisResultDTO
// @Failure 409 {object} domain.APIError "An analysis is already running"
// @Failure 413 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Analysis failed"
// @Security BearerAuth
// @Router /sessions/{id}/documents/analyze [post]
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	file, ok := h.readFile(w, r)
	if !ok {
		return
	}

	result, err := h.documents.Analyze(r.Context(), sess, file)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Upload a supporting document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "PDF document"
// @Param type formData string false "Document type" default(Supporting Document)
// @Param sendForSigning formData bool false "Include in the signing envelope"
// @Success 201 {object} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/documents [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	file, ok := h.readFile(w, r)
	if !ok {
		return
	}

	send := false
	if v := r.FormValue("sendForSigning"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid sendForSigning: must be true or false")
			return
		}
		send = parsed
	}

	doc, err := h.documents.Upload(r.Context(), sess, file, domain.DocumentType(r.FormValue("type")), send)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// @Summary Remove a document
// @Description The disclosure packet is only hidden and can be restored; other documents are deleted on the listing platform.
// @Tags Documents
// @Produce json
// @Param id path string true "Session ID"
// @Param docId path string true "Document ID"
// @Success 200 {object} domain.WorkflowDTO
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/documents/{docId} [delete]
func (h *DocumentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	if err := h.documents.Remove(r.Context(), sess, chi.URLParam(r, "docId")); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, sess.DTO().Workflow)
}

// @Summary Restore a removed disclosure packet
// @Tags Documents
// @Produce json
// @Param id path string true "Session ID"
// @Param docId path string true "Document ID"
// @Success 200 {object} domain.WorkflowDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/documents/{docId}/restore [post]
func (h *DocumentHandler) Restore(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	wf, err := h.documents.Restore(sess, chi.URLParam(r, "docId"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, wf)
}

// @Summary Change a document's type
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param docId path string true "Document ID"
// @Param request body domain.UpdateDocumentTypeRequest true "New type"
// @Success 200 {object} domain.WorkflowDTO
// @Security BearerAuth
// @Router /sessions/{id}/documents/{docId}/type [put]
func (h *DocumentHandler) SetType(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	var req domain.UpdateDocumentTypeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	wf, err := h.documents.SetType(sess, chi.URLParam(r, "docId"), req.Type)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, wf)
}

// @Summary Include or exclude a document from signing
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param docId path string true "Document ID"
// @Param request body domain.SetSendForSigningRequest true "Signing flag"
// @Success 200 {object} domain.WorkflowDTO
// @Security BearerAuth
// @Router /sessions/{id}/documents/{docId}/signing [put]
func (h *DocumentHandler) SetSendForSigning(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	var req domain.SetSendForSigningRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	wf, err := h.documents.SetSendForSigning(sess, chi.URLParam(r, "docId"), req.SendForSigning)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, wf)
}

// @Summary Skip e-signing
// @Description Clears every document's signing flag and marks signing as skipped.
// @Tags Signing
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.WorkflowDTO
// @Security BearerAuth
// @Router /sessions/{id}/signing/skip [post]
func (h *DocumentHandler) SkipSigning(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	wf, err := h.documents.SkipSigning(sess)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, wf)
}

// @Summary Choose how the purchase agreement is provided
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body domain.SetPurchaseAgreementRequest true "Purchase agreement mode"
// @Success 200 {object} domain.WorkflowDTO
// @Security BearerAuth
// @Router /sessions/{id}/purchase-agreement [put]
func (h *DocumentHandler) SetPurchaseAgreement(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	var req domain.SetPurchaseAgreementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	wf, err := h.documents.SetPurchaseAgreement(sess, req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, wf)
}

// @Summary Add a signing recipient
// @Tags Signing
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body domain.AddRecipientRequest true "Recipient"
// @Success 201 {object} domain.RecipientDTO
// @Security BearerAuth
// @Router /sessions/{id}/signing/recipients [post]
func (h *DocumentHandler) AddRecipient(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	var req domain.AddRecipientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	recipient, err := h.documents.AddRecipient(sess, req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, recipient)
}

// @Summary Update a signing recipient
// @Tags Signing
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param recipientId path string true "Recipient ID"
// @Param request body domain.UpdateRecipientRequest true "Recipient details"
// @Success 200 {object} domain.WorkflowDTO
// @Security BearerAuth
// @Router /sessions/{id}/signing/recipients/{recipientId} [patch]
func (h *DocumentHandler) UpdateRecipient(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	var req domain.UpdateRecipientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	wf, err := h.documents.UpdateRecipient(sess, chi.URLParam(r, "recipientId"), req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, wf)
}

// @Summary Remove a signing recipient
// @Description The presenting agent and buyer recipients are required and cannot be removed.
// @Tags Signing
// @Produce json
// @Param id path string true "Session ID"
// @Param recipientId path string true "Recipient ID"
// @Success 200 {object} domain.WorkflowDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/signing/recipients/{recipientId} [delete]
func (h *DocumentHandler) RemoveRecipient(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r, h.sessions, h.logger)
	if !ok {
		return
	}

	wf, err := h.documents.RemoveRecipient(sess, chi.URLParam(r, "recipientId"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, wf)
}
