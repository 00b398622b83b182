package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/esign"
	"github.com/straye-as/offer-workflow/internal/gateway"
	"github.com/straye-as/offer-workflow/internal/mapper"
	"github.com/straye-as/offer-workflow/internal/store"
	"github.com/straye-as/offer-workflow/internal/wizard"
)

// Session is one agent's run through the offer wizard for a listing.
// Each session owns its own stores; components receive them explicitly.
type Session struct {
	ID        uuid.UUID
	AgentID   string
	ListingID string
	CreatedAt time.Time

	Offers    *store.OfferStore
	Workflow  *store.WorkflowStore
	Gateway   *gateway.Gateway
	Connector *esign.Connector
	Popup     *esign.TrackedPopup
	Wizard    *wizard.Wizard

	mu         sync.Mutex
	lastActive time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now
}

// LastActive returns when the session was last used
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// DTO builds the full session view
func (s *Session) DTO() domain.SessionDTO {
	return domain.SessionDTO{
		ID:        s.ID,
		ListingID: s.ListingID,
		Wizard:    s.WizardDTO(),
		Offer:     mapper.ToOfferDTO(s.Offers.Get()),
		Workflow:  mapper.ToWorkflowDTO(s.Workflow.Get()),
		CreatedAt: mapper.FormatTime(s.CreatedAt),
		UpdatedAt: mapper.FormatTime(s.LastActive()),
	}
}

// WizardDTO builds the wizard view
func (s *Session) WizardDTO() domain.WizardDTO {
	state := s.Wizard.State()
	steps := make([]string, len(state.Steps))
	for i, step := range state.Steps {
		steps[i] = string(step)
	}
	dto := domain.WizardDTO{
		Step:       string(state.Step),
		Steps:      steps,
		CanGoBack:  state.CanGoBack,
		Submitting: state.Submitting,
		OfferID:    state.OfferID,
	}
	if state.LastError != nil {
		dto.LastError = state.LastError.Error()
	}
	return dto
}

// DocuSignDTO builds the e-signature connection view
func (s *Session) DocuSignDTO() domain.DocuSignDTO {
	state := s.Connector.State()
	dto := domain.DocuSignDTO{
		Status:    state.Status,
		Connected: state.Status == domain.ConnectionReady,
		AuthURL:   state.AuthURL,
		PopupOpen: state.PopupOpen,
	}
	if state.LastError != nil {
		dto.LastError = state.LastError.Error()
	}
	return dto
}
