package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/database"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by Get when nothing is stored under the key
	ErrNotFound = errors.New("draft not found")
	// ErrInvalidKey is returned for keys that could escape the storage namespace
	ErrInvalidKey = errors.New("invalid storage key")
)

// Storage persists offer draft snapshots under a single key per wizard session
type Storage interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// NewStorage creates a new storage instance based on configuration.
// For local mode, drafts are stored on the local filesystem.
// For azure mode, drafts are stored in Azure Blob Storage.
// For s3 mode, drafts are stored in an S3-compatible bucket.
// For redis mode, drafts are stored in Redis with an optional TTL.
// For database mode, drafts are stored in the offer_drafts table.
func NewStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Storage, error) {
	switch cfg.Storage.Mode {
	case "local":
		return NewLocalStorage(cfg.Storage.LocalBasePath)
	case "cloud", "azure":
		if cfg.Storage.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(ctx, cfg.Storage.CloudConnectionString, cfg.Storage.CloudContainer, logger)
	case "s3":
		return NewS3Storage(ctx, &cfg.Storage, logger)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return NewRedisStorage(client, cfg.Storage.DraftTTLDuration(), logger), nil
	case "database":
		db, err := database.NewDatabase(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewDatabaseStorage(db, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Storage.Mode)
	}
}

// LocalStorage implements Storage interface for local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key)+".json")
}

// Put writes the snapshot atomically so a crash never leaves a half-written draft
func (s *LocalStorage) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	fullPath := s.path(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".draft-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to replace draft: %w", err)
	}
	return nil
}

// Get reads a draft from local storage
func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return data, nil
}

// Delete deletes a draft from local storage
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := os.Remove(s.path(key)); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
