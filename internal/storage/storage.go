package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"ri_query/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// Типы хранилищ
	StorageTypeLocal = "local"
	StorageTypeS3    = "s3"

	// Настройки retry
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

var (
	// ErrNotFound возвращается, когда файла с таким ключом нет.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidKey возвращается для ключей, которые хранилище не принимает.
	ErrInvalidKey = errors.New("invalid file key")
)

// Storage defines the interface for artifact storage operations
type Storage interface {
	// Save saves a file to storage
	Save(ctx context.Context, key string, reader io.Reader) error

	// Get retrieves a file from storage
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file from storage
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present
	Exists(ctx context.Context, key string) (bool, error)

	// GetMetadata returns size and modification time of a stored file
	GetMetadata(ctx context.Context, key string) (*FileMetadata, error)

	// ValidateKey checks a key against backend restrictions
	ValidateKey(key string) error
}

// FileMetadata метаданные файла
type FileMetadata struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type"`
}

// NewStorageFromConfig создает хранилище по конфигурации и оборачивает его в middleware.
func NewStorageFromConfig(cfg config.Config, logger *logrus.Logger) (Storage, error) {
	var (
		base Storage
		err  error
	)

	switch cfg.Storage.Type {
	case StorageTypeS3:
		base, err = NewS3Storage(S3Config{
			Region:         cfg.Storage.S3.Region,
			Bucket:         cfg.Storage.S3.Bucket,
			Endpoint:       cfg.Storage.S3.Endpoint,
			AccessKey:      cfg.Storage.S3.AccessKey,
			SecretKey:      cfg.Storage.S3.SecretKey,
			ForcePathStyle: true,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания S3 хранилища: %w", err)
		}

	case StorageTypeLocal:
		basePath, absErr := filepath.Abs(cfg.Storage.BasePath)
		if absErr != nil {
			return nil, fmt.Errorf("ошибка определения базового пути: %w", absErr)
		}
		base, err = NewLocalStorage(afero.NewOsFs(), LocalConfig{
			BasePath:    basePath,
			Permissions: 0755,
			CreateDirs:  true,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания локального хранилища: %w", err)
		}

	default:
		return nil, fmt.Errorf("неподдерживаемый тип хранилища: %s", cfg.Storage.Type)
	}

	return Wrap(base, logger), nil
}

// Wrap оборачивает хранилище в logging, retry и validation middleware.
func Wrap(storage Storage, logger *logrus.Logger) Storage {
	if logger != nil {
		storage = NewLoggingMiddleware(storage, logger)
	}
	storage = NewRetryMiddleware(storage, DefaultMaxRetries, DefaultRetryDelay, logger)
	return NewValidationMiddleware(storage, logger)
}
