package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/straye-as/offer-workflow/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStorage implements Storage interface on the offer_drafts table
type DatabaseStorage struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDatabaseStorage(db *gorm.DB, logger *zap.Logger) *DatabaseStorage {
	return &DatabaseStorage{db: db, logger: logger}
}

// Put upserts the draft row
func (s *DatabaseStorage) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	draft := domain.OfferDraft{
		Key:       key,
		Payload:   data,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "draft_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&draft).Error
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *DatabaseStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var draft domain.OfferDraft
	err := s.db.WithContext(ctx).First(&draft, "draft_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return draft.Payload, nil
}

func (s *DatabaseStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&domain.OfferDraft{}, "draft_key = ?", key).Error
}

// DeleteOlderThan removes drafts that have not been written since cutoff
func (s *DatabaseStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("updated_at < ?", cutoff.UTC()).Delete(&domain.OfferDraft{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("Purged stale offer drafts", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
