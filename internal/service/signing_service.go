package service

import (
	"context"

	"github.com/straye-as/offer-workflow/internal/domain"
	"go.uber.org/zap"
)

// SigningService runs the DocuSign connection flow of a session
type SigningService struct {
	logger *zap.Logger
}

// NewSigningService creates a new SigningService instance
func NewSigningService(logger *zap.Logger) *SigningService {
	return &SigningService{logger: logger}
}

// Status re-queries the provider and returns the connection view
func (s *SigningService) Status(ctx context.Context, sess *Session) domain.DocuSignDTO {
	if _, err := sess.Connector.Refresh(ctx); err != nil {
		s.logger.Debug("DocuSign status refresh failed",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err),
		)
	}
	return sess.DocuSignDTO()
}

// Connect opens the authorization popup
func (s *SigningService) Connect(ctx context.Context, sess *Session) (domain.DocuSignDTO, error) {
	if _, err := sess.Connector.Connect(ctx, sess.Popup); err != nil {
		return domain.DocuSignDTO{}, err
	}
	return sess.DocuSignDTO(), nil
}

// HandleMessage relays the callback message and waits for the connection to settle
func (s *SigningService) HandleMessage(ctx context.Context, sess *Session, req domain.DocuSignMessageRequest) (domain.DocuSignDTO, error) {
	sess.Wizard.BeginOperation()
	defer sess.Wizard.EndOperation()

	if err := sess.Connector.HandleMessage(ctx, req.Origin, req.Type); err != nil {
		return domain.DocuSignDTO{}, err
	}
	return sess.DocuSignDTO(), nil
}

// PopupClosed handles the agent closing the popup themselves
func (s *SigningService) PopupClosed(ctx context.Context, sess *Session) (domain.DocuSignDTO, error) {
	sess.Wizard.BeginOperation()
	defer sess.Wizard.EndOperation()

	if err := sess.Connector.PopupClosed(ctx); err != nil {
		return domain.DocuSignDTO{}, err
	}
	return sess.DocuSignDTO(), nil
}
