package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/gateway"
	"github.com/straye-as/offer-workflow/internal/mapper"
	"go.uber.org/zap"
)

// Delete policies for documents removed while the backend call may fail
const (
	DeletePolicyOptimistic  = "optimistic"
	DeletePolicyPessimistic = "pessimistic"
)

// DocumentService manages the documents and signing setup of a session
type DocumentService struct {
	backend      Backend
	deletePolicy string
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService instance
func NewDocumentService(cfg *config.Config, b Backend, logger *zap.Logger) *DocumentService {
	policy := cfg.Documents.DeletePolicy
	if policy != DeletePolicyPessimistic {
		policy = DeletePolicyOptimistic
	}
	return &DocumentService{
		backend:      b,
		deletePolicy: policy,
		logger:       logger,
	}
}

// ============================================================================
// Uploads
// ============================================================================

// Upload adds a supporting document. A placeholder is shown while the upload runs
// and is dropped again when the upload fails.
func (s *DocumentService) Upload(ctx context.Context, sess *Session, file backend.File, docType domain.DocumentType, sendForSigning bool) (domain.DocumentDTO, error) {
	if docType == "" {
		docType = domain.DocumentTypeSupportingDocument
	}
	if !docType.IsValid() {
		return domain.DocumentDTO{}, fmt.Errorf("%w: %q", domain.ErrInvalidDocumentType, docType)
	}
	if err := sess.Gateway.Validate(file, gateway.ContextOfferDocument); err != nil {
		return domain.DocumentDTO{}, err
	}

	tempID, err := gonanoid.New()
	if err != nil {
		return domain.DocumentDTO{}, fmt.Errorf("failed to create placeholder id: %w", err)
	}

	sess.Wizard.BeginOperation()
	defer sess.Wizard.EndOperation()

	if _, err := sess.Workflow.Update(func(wf *domain.DocumentWorkflow) error {
		wf.AddPlaceholder(domain.UploadingDocument{
			TempID:         tempID,
			Title:          file.Name,
			Type:           docType,
			Size:           int64(len(file.Data)),
			SendForSigning: sendForSigning,
		})
		return nil
	}); err != nil {
		return domain.DocumentDTO{}, err
	}

	uploaded, err := sess.Gateway.Upload(ctx, file, sess.ListingID, gateway.ContextOfferDocument)
	if err != nil {
		_, _ = sess.Workflow.Update(func(wf *domain.DocumentWorkflow) error {
			wf.DiscardPlaceholder(tempID)
			return nil
		})
		return domain.DocumentDTO{}, err
	}

	doc := domain.Document{
		ID:             uploaded.ID,
		Title:          documentTitle(uploaded.Title, file.Name),
		Type:           docType,
		Size:           uploaded.Size,
		Pages:          uploaded.Pages,
		SendForSigning: sendForSigning,
		Source:         domain.DocumentSourceUpload,
	}
	if _, err := sess.Workflow.Update(func(wf *domain.DocumentWorkflow) error {
		wf.ConfirmPlaceholder(tempID, doc)
		if sendForSigning {
			wf.Signing.Skip = false
		}
		return nil
	}); err != nil {
		return domain.DocumentDTO{}, err
	}

	s.logger.Info("Document uploaded",
		zap.String("session_id", sess.ID.String()),
		zap.String("document_id", doc.ID),
		zap.String("type", string(doc.Type)),
	)
	return mapper.ToDocumentDTO(doc), nil
}

// Analyze uploads and analyzes a purchase agreement
func (s *DocumentService) Analyze(ctx context.Context, sess *Session, file backend.File) (domain.AnalysisResultDTO, error) {
	sess.Wizard.BeginOperation()
	defer sess.Wizard.EndOperation()

	outcome, err := sess.Gateway.Analyze(ctx, file, sess.ListingID)
	if err != nil {
		return domain.AnalysisResultDTO{}, err
	}
	syncRecipients(sess, outcome.Offer)

	applied := outcome.Applied
	if applied == nil {
		applied = []string{}
	}
	return domain.AnalysisResultDTO{
		Document:      mapper.ToDocumentDTO(outcome.Document),
		AppliedFields: applied,
		SkippedFields: outcome.Skipped,
		Offer:         mapper.ToOfferDTO(outcome.Offer),
	}, nil
}

// ============================================================================
// Removal
// ============================================================================

// Remove removes a document. The disclosure packet is only hidden and can be restored;
// any other document is deleted on the backend.
func (s *DocumentService) Remove(ctx context.Context, sess *Session, documentID string) error {
	wf := sess.Workflow.Get()
	doc, ok := wf.Document(documentID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, documentID)
	}

	if doc.Type == domain.DocumentTypeDisclosurePacket {
		_, err := sess.Workflow.Update(func(wf *domain.DocumentWorkflow) error {
			return wf.SoftRemove(documentID)
		})
		return err
	}

	remove := func() error {
		_, err := sess.Workflow.Update(func(wf *domain.DocumentWorkflow) error {
			return wf.RemoveDocument(documentID)
		})
		return err
	}

	if s.deletePolicy == DeletePolicyOptimistic {
		if err := remove(); err != nil {
			return err
		}
		if err := s.backend.DeleteDocument(ctx, documentID); err != nil {
			// The document stays removed locally
			s.logger.Warn("Backend delete failed after local removal",
				zap.String("session_id", sess.ID.String()),
				zap.String("document_id", documentID),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
		}
		return nil
	}

	if err := s.backend.DeleteDocument(ctx, documentID); err != nil {
		s.logger.Warn("Backend delete failed",
			zap.String("session_id", sess.ID.String()),
			zap.String("document_id", documentID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return remove()
}

// Restore brings back a removed disclosure packet
func (s *DocumentService) Restore(sess *Session, documentID string) (domain.WorkflowDTO, error) {
	return s.update(sess, func(wf *domain.DocumentWorkflow) error {
		return wf.Restore(documentID)
	})
}

// ============================================================================
// Document settings
// ============================================================================

func (s *DocumentService) SetType(sess *Session, documentID string, docType domain.DocumentType) (domain.WorkflowDTO, error) {
	return s.update(sess, func(wf *domain.DocumentWorkflow) error {
		return wf.SetDocumentType(documentID, docType)
	})
}

func (s *DocumentService) SetSendForSigning(sess *Session, documentID string, send bool) (domain.WorkflowDTO, error) {
	return s.update(sess, func(wf *domain.DocumentWorkflow) error {
		return wf.SetSendForSigning(documentID, send)
	})
}

func (s *DocumentService) SkipSigning(sess *Session) (domain.WorkflowDTO, error) {
	return s.update(sess, func(wf *domain.DocumentWorkflow) error {
		wf.SkipSigning()
		return nil
	})
}

// SetPurchaseAgreement records how the purchase agreement is provided. Upload mode
// requires an attached document, which is tagged as the purchase agreement.
func (s *DocumentService) SetPurchaseAgreement(sess *Session, req domain.SetPurchaseAgreementRequest) (domain.WorkflowDTO, error) {
	return s.update(sess, func(wf *domain.DocumentWorkflow) error {
		switch req.Mode {
		case domain.PurchaseAgreementUpload:
			if req.DocumentID == "" {
				return fmt.Errorf("%w: documentId is required for upload mode", ErrInvalidInput)
			}
			if err := wf.SetDocumentType(req.DocumentID, domain.DocumentTypePurchaseAgreement); err != nil {
				return err
			}
			wf.PurchaseAgreement.DocumentID = req.DocumentID
			wf.PurchaseAgreement.CanRegenerate = false
		case domain.PurchaseAgreementGenerate:
			wf.PurchaseAgreement.DocumentID = ""
			wf.PurchaseAgreement.CanRegenerate = true
		case domain.PurchaseAgreementSkip:
			wf.PurchaseAgreement.DocumentID = ""
			wf.PurchaseAgreement.CanRegenerate = false
		default:
			return fmt.Errorf("%w: unknown purchase agreement mode %q", ErrInvalidInput, req.Mode)
		}
		wf.PurchaseAgreement.Mode = req.Mode
		return nil
	})
}

// ============================================================================
// Recipients
// ============================================================================

func (s *DocumentService) AddRecipient(sess *Session, req domain.AddRecipientRequest) (domain.RecipientDTO, error) {
	role := req.Role
	if role == "" {
		role = domain.RecipientRoleSigner
		if req.Type == domain.RecipientTypeAgent {
			role = domain.RecipientRoleAgent
		}
	}

	var added domain.Recipient
	_, err := sess.Workflow.Update(func(wf *domain.DocumentWorkflow) error {
		added = wf.AddRecipient(domain.Recipient{
			ID:    uuid.NewString(),
			Type:  req.Type,
			Role:  role,
			Name:  req.Name,
			Email: req.Email,
		})
		return nil
	})
	if err != nil {
		return domain.RecipientDTO{}, err
	}
	return mapper.ToRecipientDTO(added), nil
}

func (s *DocumentService) UpdateRecipient(sess *Session, recipientID string, req domain.UpdateRecipientRequest) (domain.WorkflowDTO, error) {
	return s.update(sess, func(wf *domain.DocumentWorkflow) error {
		return wf.UpdateRecipient(recipientID, req.Name, req.Email)
	})
}

func (s *DocumentService) RemoveRecipient(sess *Session, recipientID string) (domain.WorkflowDTO, error) {
	return s.update(sess, func(wf *domain.DocumentWorkflow) error {
		return wf.RemoveRecipient(recipientID)
	})
}

func (s *DocumentService) update(sess *Session, fn func(*domain.DocumentWorkflow) error) (domain.WorkflowDTO, error) {
	wf, err := sess.Workflow.Update(fn)
	if err != nil {
		return domain.WorkflowDTO{}, err
	}
	return mapper.ToWorkflowDTO(wf), nil
}
