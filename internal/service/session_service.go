package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/offer-workflow/internal/auth"
	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/esign"
	"github.com/straye-as/offer-workflow/internal/gateway"
	"github.com/straye-as/offer-workflow/internal/logger"
	"github.com/straye-as/offer-workflow/internal/storage"
	"github.com/straye-as/offer-workflow/internal/store"
	"github.com/straye-as/offer-workflow/internal/validation"
	"github.com/straye-as/offer-workflow/internal/wizard"
	"go.uber.org/zap"
)

// Backend is the listing platform API the services depend on
type Backend interface {
	gateway.DocumentBackend
	esign.StatusBackend
	wizard.Submitter
	DeleteDocument(ctx context.Context, documentID string) error
	DisclosurePacket(ctx context.Context, listingID string) (backend.UploadedDocument, error)
}

// Required recipient ids seeded into every session
const (
	AgentRecipientID = "presenting-agent"
	BuyerRecipientID = "buyer"
)

// SessionService creates and tracks wizard sessions per authenticated agent
type SessionService struct {
	cfg     *config.Config
	backend Backend
	drafts  storage.Storage
	engine  *validation.Engine
	now     func() time.Time
	logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessionService creates a new SessionService instance
func NewSessionService(cfg *config.Config, b Backend, drafts storage.Storage, logger *zap.Logger) *SessionService {
	return &SessionService{
		cfg:      cfg,
		backend:  b,
		drafts:   drafts,
		engine:   validation.NewEngine(),
		now:      time.Now,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a wizard session for the calling agent. An open session for the same
// listing is returned as is; otherwise the persisted draft, if any, is resumed.
func (s *SessionService) Create(ctx context.Context, listingID string) (*Session, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if existing := s.findOpen(user.UserID, listingID); existing != nil {
		existing.touch(s.now())
		return existing, nil
	}

	id := uuid.New()
	log := logger.WithUser(logger.WithSession(s.logger, id.String(), listingID), user.UserID, user.DisplayName)

	offers, err := store.NewOfferStore(ctx, s.drafts, store.DraftKey(user.UserID, listingID), s.now, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer draft: %w", err)
	}
	workflow := store.NewWorkflowStore()

	now := s.now()
	sess := &Session{
		ID:         id,
		AgentID:    user.UserID,
		ListingID:  listingID,
		CreatedAt:  now,
		Offers:     offers,
		Workflow:   workflow,
		Gateway:    gateway.NewGateway(s.backend, offers, workflow, s.cfg.Upload, s.cfg.Backend.AnalysisPages, log),
		Connector:  esign.NewConnector(s.backend, workflow, s.cfg, log),
		Popup:      esign.NewTrackedPopup(),
		Wizard:     wizard.New(offers, workflow, s.engine, s.backend, log),
		lastActive: now,
	}

	if err := s.seed(ctx, sess, user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing := s.findOpenLocked(user.UserID, listingID); existing != nil {
		s.mu.Unlock()
		sess.Connector.Close()
		existing.touch(s.now())
		log.Debug("Concurrent create resolved to open session", zap.String("open_session_id", existing.ID.String()))
		return existing, nil
	}
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Info("Wizard session created")
	return sess, nil
}

func (s *SessionService) findOpen(agentID, listingID string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findOpenLocked(agentID, listingID)
}

// findOpenLocked expects s.mu to be held
func (s *SessionService) findOpenLocked(agentID, listingID string) *Session {
	for _, sess := range s.sessions {
		if sess.AgentID == agentID && sess.ListingID == listingID && sess.Wizard.State().Step != wizard.StepSubmitted {
			return sess
		}
	}
	return nil
}

// seed fills agent details, required recipients, the disclosure packet and the provider status
func (s *SessionService) seed(ctx context.Context, sess *Session, user *auth.UserContext) error {
	offer := sess.Offers.Get()
	update := domain.OfferUpdate{}
	if offer.ListingID != sess.ListingID {
		update.ListingID = &sess.ListingID
	}
	if offer.PresentingAgent.Name == "" && offer.PresentingAgent.Email == "" {
		update.PresentingAgent = &domain.PresentingAgent{
			Name:    user.DisplayName,
			License: user.License,
			Email:   user.Email,
			Phone:   user.Phone,
		}
	}
	if update != (domain.OfferUpdate{}) {
		var err error
		if offer, err = sess.Offers.Update(ctx, update); err != nil {
			return fmt.Errorf("failed to prepare offer draft: %w", err)
		}
	}

	packet, packetErr := s.backend.DisclosurePacket(ctx, sess.ListingID)
	switch {
	case packetErr == nil:
	case errors.Is(packetErr, backend.ErrNotFound):
	default:
		s.logger.Warn("Failed to load disclosure packet",
			zap.String("listing_id", sess.ListingID),
			zap.Error(packetErr),
		)
	}

	if _, err := sess.Workflow.Update(func(wf *domain.DocumentWorkflow) error {
		wf.AddRecipient(domain.Recipient{
			ID:       AgentRecipientID,
			Type:     domain.RecipientTypeAgent,
			Role:     domain.RecipientRoleAgent,
			Name:     offer.PresentingAgent.Name,
			Email:    offer.PresentingAgent.Email,
			Required: true,
		})
		wf.AddRecipient(domain.Recipient{
			ID:       BuyerRecipientID,
			Type:     domain.RecipientTypeBuyer,
			Role:     domain.RecipientRoleSigner,
			Name:     offer.BuyerName,
			Required: true,
		})
		if packetErr == nil {
			wf.AddDocument(domain.Document{
				ID:             packet.ID,
				Title:          documentTitle(packet.Title, "Disclosure Signature Packet"),
				Type:           domain.DocumentTypeDisclosurePacket,
				Size:           packet.Size,
				Pages:          packet.Pages,
				SendForSigning: true,
				Source:         domain.DocumentSourceListing,
			})
		}
		return nil
	}); err != nil {
		return err
	}

	if _, err := sess.Connector.Refresh(ctx); err != nil {
		s.logger.Warn("DocuSign status unavailable at session start",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// Get returns a session owned by the calling agent
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	s.mu.RLock()
	sess, exists := s.sessions[id]
	s.mu.RUnlock()

	if !exists || sess.AgentID != user.UserID {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Discard clears the session's persisted draft and forgets the session
func (s *SessionService) Discard(ctx context.Context, id uuid.UUID) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := sess.Offers.Reset(ctx); err != nil {
		return err
	}
	sess.Workflow.Reset()
	sess.Wizard.Reset()
	sess.Connector.Close()

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.logger.Info("Wizard session discarded", zap.String("session_id", id.String()))
	return nil
}

// SweepIdle drops sessions untouched for longer than the idle TTL and returns how many
// were dropped. Persisted drafts are kept so the agent can resume.
func (s *SessionService) SweepIdle() int {
	ttl := s.cfg.Session.IdleTTLDuration()
	if ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActive().Before(cutoff) && !sess.Wizard.State().Submitting {
			sess.Connector.Close()
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Swept idle wizard sessions", zap.Int("removed", removed))
	}
	return removed
}

// Count returns the number of open sessions
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func documentTitle(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}
