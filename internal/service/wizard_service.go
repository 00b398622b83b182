package service

import (
	"context"
	"time"

	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/mapper"
	"go.uber.org/zap"
)

// WizardService moves a session through the wizard and submits the offer
type WizardService struct {
	now    func() time.Time
	logger *zap.Logger
}

// NewWizardService creates a new WizardService instance
func NewWizardService(logger *zap.Logger) *WizardService {
	return &WizardService{now: time.Now, logger: logger}
}

func (s *WizardService) Next(sess *Session) (domain.WizardDTO, error) {
	if _, err := sess.Wizard.Next(); err != nil {
		return domain.WizardDTO{}, err
	}
	return sess.WizardDTO(), nil
}

func (s *WizardService) Back(sess *Session) (domain.WizardDTO, error) {
	if _, err := sess.Wizard.Back(); err != nil {
		return domain.WizardDTO{}, err
	}
	return sess.WizardDTO(), nil
}

// Review returns the final review with its blocking issues and warnings
func (s *WizardService) Review(sess *Session) domain.ReviewDTO {
	result, offer, wf := sess.Wizard.Review()
	return mapper.ToReviewDTO(result, offer, wf)
}

// Submit sends the offer to the listing platform
func (s *WizardService) Submit(ctx context.Context, sess *Session) (domain.SubmitResponseDTO, error) {
	resp, err := sess.Wizard.Submit(ctx)
	if err != nil {
		return domain.SubmitResponseDTO{}, err
	}
	s.logger.Info("Offer submitted from session",
		zap.String("session_id", sess.ID.String()),
		zap.String("offer_id", resp.ID),
	)
	return domain.SubmitResponseDTO{OfferID: resp.ID, SubmittedAt: s.now().UTC()}, nil
}
