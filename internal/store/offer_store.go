package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/storage"
	"go.uber.org/zap"
)

var (
	// ErrInvalidExpiry is returned when an update would leave the expiry at or before submission
	ErrInvalidExpiry = errors.New("offer expiry must be after submission time")
	// ErrPersistFailed is returned when the draft snapshot could not be written
	ErrPersistFailed = errors.New("failed to persist offer draft")
)

// DraftKey derives the storage key of an offer draft from its owner parts, for example
// agent id and listing id. Parts are hashed so any identifier yields a valid key.
func DraftKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "offer-draft/" + hex.EncodeToString(sum[:16])
}

// OfferStore is the single source of truth for an offer draft.
// Every update is written through to durable storage before it becomes visible.
type OfferStore struct {
	mu      sync.Mutex
	offer   domain.Offer
	backend storage.Storage
	key     string
	now     func() time.Time
	logger  *zap.Logger
}

// NewOfferStore loads the persisted draft under key, falling back to defaults when none exists
func NewOfferStore(ctx context.Context, backend storage.Storage, key string, now func() time.Time, logger *zap.Logger) (*OfferStore, error) {
	if now == nil {
		now = time.Now
	}
	s := &OfferStore{
		backend: backend,
		key:     key,
		now:     now,
		logger:  logger,
	}

	data, err := backend.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.offer = domain.NewOffer(now())
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load offer draft: %w", err)
	}

	var offer domain.Offer
	if err := json.Unmarshal(data, &offer); err != nil {
		// A corrupt snapshot must not block the wizard
		logger.Warn("Discarding unreadable offer draft",
			zap.String("key", key),
			zap.Error(err),
		)
		s.offer = domain.NewOffer(now())
		return s, nil
	}
	s.offer = offer
	return s, nil
}

// Get returns the current snapshot
func (s *OfferStore) Get() domain.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offer
}

// Update merges the partial update into the snapshot and persists the result.
// Selecting CASH financing sets the down payment to the full price in dollar mode.
func (s *OfferStore) Update(ctx context.Context, u domain.OfferUpdate) (domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.offer.Apply(u)
	if merged.FinanceType == domain.FinanceTypeCash && (u.FinanceType != nil || u.PurchasePrice != nil) {
		merged.DownPayment = merged.PurchasePrice
		merged.DownPaymentMode = domain.AmountModeDollar
	}
	if !merged.ExpiresAt.After(merged.SubmittedAt) {
		return s.offer, ErrInvalidExpiry
	}

	if err := s.persist(ctx, merged); err != nil {
		return s.offer, err
	}
	s.offer = merged
	return merged, nil
}

// Reset clears the persisted draft and restores the defaults
func (s *OfferStore) Reset(ctx context.Context) (domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil {
		return s.offer, fmt.Errorf("failed to clear offer draft: %w", err)
	}
	s.offer = domain.NewOffer(s.now())
	return s.offer, nil
}

func (s *OfferStore) persist(ctx context.Context, offer domain.Offer) error {
	data, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		s.logger.Error("Failed to persist offer draft",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}
