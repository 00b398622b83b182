package service

import (
	"context"

	"github.com/straye-as/offer-workflow/internal/calculator"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/mapper"
	"go.uber.org/zap"
)

// OfferService reads and edits the offer draft of a session
type OfferService struct {
	logger *zap.Logger
}

// NewOfferService creates a new OfferService instance
func NewOfferService(logger *zap.Logger) *OfferService {
	return &OfferService{logger: logger}
}

func (s *OfferService) Get(sess *Session) domain.OfferDTO {
	return mapper.ToOfferDTO(sess.Offers.Get())
}

// Update merges a partial update into the draft and keeps the required signing
// recipients in line with the buyer and presenting agent
func (s *OfferService) Update(ctx context.Context, sess *Session, u domain.OfferUpdate) (domain.OfferDTO, error) {
	offer, err := sess.Offers.Update(ctx, u)
	if err != nil {
		return domain.OfferDTO{}, err
	}
	if u.BuyerName != nil || u.PresentingAgent != nil {
		syncRecipients(sess, offer)
	}
	return mapper.ToOfferDTO(offer), nil
}

func (s *OfferService) Financials(sess *Session) domain.FinancialsDTO {
	return mapper.ToFinancialsDTO(calculator.FromOffer(sess.Offers.Get()))
}

func syncRecipients(sess *Session, offer domain.Offer) {
	_, _ = sess.Workflow.Update(func(wf *domain.DocumentWorkflow) error {
		for i := range wf.Signing.Recipients {
			r := &wf.Signing.Recipients[i]
			switch r.ID {
			case AgentRecipientID:
				r.Name = offer.PresentingAgent.Name
				r.Email = offer.PresentingAgent.Email
			case BuyerRecipientID:
				r.Name = offer.BuyerName
			}
		}
		return nil
	})
}
