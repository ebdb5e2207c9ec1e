package storage

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ObjectStorage is the presigned-URL object store used for attachments
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ErrDisabled is returned by every operation when object storage is not configured
var ErrDisabled = shared.NewDomainError("INVALID_STATE", "Receipt attachments are not enabled")

// Disabled is the ObjectStorage used when storage.enabled is false
type Disabled struct{}

func (Disabled) GenerateUploadURL(context.Context, string, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, ErrDisabled
}

func (Disabled) GenerateDownloadURL(context.Context, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, ErrDisabled
}

func (Disabled) DeleteObject(context.Context, string) error {
	return ErrDisabled
}

func (Disabled) ObjectExists(context.Context, string) (bool, error) {
	return false, ErrDisabled
}

// IsDisabled reports whether err came from a Disabled store
func IsDisabled(err error) bool {
	return errors.Is(err, ErrDisabled)
}

// New returns the S3 store with its bucket ensured, or Disabled when storage is off
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	if !cfg.Enabled {
		logger.Info("Object storage disabled; receipt attachments unavailable")
		return Disabled{}, nil
	}
	s, err := NewS3ObjectStorage(ctx, &cfg, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info("Object storage ready", zap.String("bucket", s.Bucket()))
	return s, nil
}

var (
	_ ObjectStorage = (*S3ObjectStorage)(nil)
	_ ObjectStorage = Disabled{}
)
