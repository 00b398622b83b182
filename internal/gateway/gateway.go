// Package gateway validates uploaded files and runs purchase agreement analysis,
// merging extracted fields into the offer draft.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/store"
	"go.uber.org/zap"
)

// UploadContext names the call site of an upload; each has its own size limit
type UploadContext string

const (
	ContextAnalysis        UploadContext = "analysis"
	ContextOfferDocument   UploadContext = "offerDocument"
	ContextListingDocument UploadContext = "listingDocument"
)

// DefaultAnalysisFailureMessage is shown when the analysis service gives no reason
const DefaultAnalysisFailureMessage = "We couldn't read this purchase agreement. Try again or enter the details manually."

var (
	ErrAnalysisInProgress = errors.New("an analysis is already in progress")
	ErrEmptyFile          = errors.New("file is empty")
	ErrNotPDF             = errors.New("file must be a PDF")
	ErrFileTooLarge       = errors.New("file exceeds the size limit")
	ErrUploadFailed       = errors.New("upload failed")
	ErrAnalysisFailed     = errors.New("analysis failed")
)

// AnalysisError carries the user-facing reason an analysis failed
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string { return e.Message }

func (e *AnalysisError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAnalysisFailed}
	}
	return []error{ErrAnalysisFailed, e.Err}
}

// DocumentBackend is the subset of the backend client the gateway calls
type DocumentBackend interface {
	UploadDocument(ctx context.Context, target string, file backend.File, idempotencyKey string) (backend.UploadedDocument, error)
	AnalyzePurchaseAgreement(ctx context.Context, documentID, pages string) (backend.AnalysisResult, error)
}

// AnalysisOutcome describes what a successful analysis changed
type AnalysisOutcome struct {
	Document domain.Document
	Applied  []string
	Skipped  []string
	Offer    domain.Offer
}

// Gateway uploads and analyzes documents for one wizard session
type Gateway struct {
	backend   DocumentBackend
	offers    *store.OfferStore
	workflow  *store.WorkflowStore
	limits    config.UploadConfig
	pages     string
	analyzing atomic.Bool
	logger    *zap.Logger
}

func NewGateway(b DocumentBackend, offers *store.OfferStore, workflow *store.WorkflowStore, limits config.UploadConfig, pages string, logger *zap.Logger) *Gateway {
	return &Gateway{
		backend:  b,
		offers:   offers,
		workflow: workflow,
		limits:   limits,
		pages:    pages,
		logger:   logger,
	}
}

// Busy reports whether an analysis is in flight
func (g *Gateway) Busy() bool {
	return g.analyzing.Load()
}

// MaxBytes returns the size limit for an upload context
func (g *Gateway) MaxBytes(uc UploadContext) int64 {
	var mb int64
	switch uc {
	case ContextAnalysis:
		mb = g.limits.AnalysisMaxMB
	case ContextListingDocument:
		mb = g.limits.ListingDocumentMaxMB
	default:
		mb = g.limits.OfferDocumentMaxMB
	}
	return mb << 20
}

// Validate checks that file is a non-empty PDF within the limit of uc
func (g *Gateway) Validate(file backend.File, uc UploadContext) error {
	if len(file.Data) == 0 {
		return ErrEmptyFile
	}
	if max := g.MaxBytes(uc); int64(len(file.Data)) > max {
		return fmt.Errorf("%w: %d MB for %s", ErrFileTooLarge, max>>20, uc)
	}

	declaredPDF := strings.EqualFold(filepath.Ext(file.Name), ".pdf") ||
		strings.HasPrefix(strings.ToLower(file.ContentType), "application/pdf")
	if !declaredPDF || !mimetype.Detect(file.Data).Is("application/pdf") {
		return ErrNotPDF
	}
	return nil
}

// Upload stores a validated file under target and returns the server record
func (g *Gateway) Upload(ctx context.Context, file backend.File, target string, uc UploadContext) (backend.UploadedDocument, error) {
	if err := g.Validate(file, uc); err != nil {
		return backend.UploadedDocument{}, err
	}

	file.ContentType = "application/pdf"
	uploaded, err := g.backend.UploadDocument(ctx, target, file, uuid.NewString())
	if err != nil {
		g.logger.Warn("Document upload failed",
			zap.String("target", target),
			zap.String("context", string(uc)),
			zap.Error(err),
		)
		return backend.UploadedDocument{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return uploaded, nil
}

// Analyze uploads a purchase agreement, extracts its fields and merges them into the offer.
// On any failure neither the offer nor the workflow is changed.
func (g *Gateway) Analyze(ctx context.Context, file backend.File, listingID string) (AnalysisOutcome, error) {
	if !g.analyzing.CompareAndSwap(false, true) {
		return AnalysisOutcome{}, ErrAnalysisInProgress
	}
	defer g.analyzing.Store(false)

	uploaded, err := g.Upload(ctx, file, listingID, ContextAnalysis)
	if err != nil {
		return AnalysisOutcome{}, err
	}

	result, err := g.backend.AnalyzePurchaseAgreement(ctx, uploaded.ID, g.pages)
	if err != nil {
		msg := backend.ServerMessage(err)
		if msg == "" {
			msg = DefaultAnalysisFailureMessage
		}
		return AnalysisOutcome{}, &AnalysisError{Message: msg, Err: err}
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = DefaultAnalysisFailureMessage
		}
		g.logger.Info("Purchase agreement analysis rejected",
			zap.String("document_id", uploaded.ID),
			zap.String("message", msg),
		)
		return AnalysisOutcome{}, &AnalysisError{Message: msg}
	}

	update, applied, skipped := MapFields(result.MappedData)
	offer, err := g.offers.Update(ctx, update)
	if errors.Is(err, store.ErrInvalidExpiry) {
		// Keep the rest of the extraction when the extracted dates are inconsistent
		update.SubmittedAt, update.ExpiresAt = nil, nil
		applied, skipped = moveKeys(applied, skipped, "submittedAt", "expiresAt")
		offer, err = g.offers.Update(ctx, update)
	}
	if err != nil {
		return AnalysisOutcome{}, err
	}
	for _, key := range skipped {
		g.logger.Warn("Skipped extracted field", zap.String("field", key))
	}

	doc := domain.Document{
		ID:     uploaded.ID,
		Title:  documentTitle(uploaded.Title, file.Name),
		Type:   domain.DocumentTypePurchaseAgreement,
		Size:   uploaded.Size,
		Pages:  uploaded.Pages,
		Source: domain.DocumentSourceAnalysis,
	}
	if _, err := g.workflow.Update(func(wf *domain.DocumentWorkflow) error {
		wf.AddDocument(doc)
		wf.PurchaseAgreement.Mode = domain.PurchaseAgreementUpload
		wf.PurchaseAgreement.DocumentID = doc.ID
		return nil
	}); err != nil {
		return AnalysisOutcome{}, err
	}

	return AnalysisOutcome{Document: doc, Applied: applied, Skipped: skipped, Offer: offer}, nil
}

func documentTitle(serverTitle, fileName string) string {
	if serverTitle != "" {
		return serverTitle
	}
	return fileName
}

func moveKeys(applied, skipped []string, keys ...string) ([]string, []string) {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	kept := applied[:0:0]
	for _, k := range applied {
		if drop[k] {
			skipped = append(skipped, k)
			continue
		}
		kept = append(kept, k)
	}
	return kept, skipped
}
