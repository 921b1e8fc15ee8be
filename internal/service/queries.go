package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ri_query/internal/config"
	"ri_query/internal/domain/query"
	"ri_query/internal/models"
	"ri_query/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrInvalidInput помечает ошибки, вызванные данными пользователя.
var ErrInvalidInput = errors.New("invalid input")

// QueryService интерфейс генерации UPDATE-запросов
type QueryService interface {
	Generate(ctx context.Context, req GenerateRequest) (*models.Batch, error)
	GenerateFromSpreadsheet(ctx context.Context, spreadsheet io.Reader, date string, groupCodes []string) (*models.Batch, error)
	SaveArtifact(ctx context.Context, batch *models.Batch, key string) (string, error)
	OpenArtifact(ctx context.Context, key string) (io.ReadCloser, *storage.FileMetadata, error)
	DeleteArtifact(ctx context.Context, key string) error
}

// ColumnReader извлекает наборы колонок из таблицы
type ColumnReader interface {
	ReadColumns(r io.Reader) (query.ColumnSet, error)
}

// GenerateRequest параметры одного запуска генерации
type GenerateRequest struct {
	Columns    query.ColumnSet
	Date       string
	GroupCodes []string
}

// QueryServiceImpl реализация сервиса генерации
type QueryServiceImpl struct {
	builder       *query.Builder
	reader        ColumnReader
	storage       storage.Storage
	logger        *logrus.Logger
	maxGroupCodes int
}

// NewQueryService создает новый сервис генерации. maxGroupCodes <= 0 снимает ограничение.
func NewQueryService(
	builder *query.Builder,
	reader ColumnReader,
	storage storage.Storage,
	logger *logrus.Logger,
	maxGroupCodes int,
) *QueryServiceImpl {
	return &QueryServiceImpl{
		builder:       builder,
		reader:        reader,
		storage:       storage,
		logger:        logger,
		maxGroupCodes: maxGroupCodes,
	}
}

// NewQueryServiceFromConfig собирает сервис по конфигурации
func NewQueryServiceFromConfig(cfg config.Config, reader ColumnReader, storage storage.Storage, logger *logrus.Logger) QueryService {
	return NewQueryService(query.NewBuilder(cfg.Query.TableName), reader, storage, logger, cfg.Query.MaxGroupCodes)
}

// Generate строит пять запросов на каждый код группы
func (s *QueryServiceImpl) Generate(ctx context.Context, req GenerateRequest) (*models.Batch, error) {
	date, codes, err := s.validate(req.Date, req.GroupCodes)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, req.Columns, date, codes)
}

// GenerateFromSpreadsheet проверяет параметры, читает колонки и строит запросы
func (s *QueryServiceImpl) GenerateFromSpreadsheet(ctx context.Context, spreadsheet io.Reader, date string, groupCodes []string) (*models.Batch, error) {
	date, codes, err := s.validate(date, groupCodes)
	if err != nil {
		return nil, err
	}

	columns, err := s.reader.ReadColumns(spreadsheet)
	if err != nil {
		s.logger.WithError(err).Warn("Не удалось прочитать колонки из таблицы")
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return s.generate(ctx, columns, date, codes)
}

// SaveArtifact сохраняет текст запросов; пустой key генерирует новый ключ
func (s *QueryServiceImpl) SaveArtifact(ctx context.Context, batch *models.Batch, key string) (string, error) {
	if key == "" {
		key = ArtifactKey(batch)
	}

	if err := s.storage.Save(ctx, key, strings.NewReader(batch.Text())); err != nil {
		return "", fmt.Errorf("ошибка сохранения файла с запросами: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"artifact_key": key,
		"statements":   batch.Len(),
	}).Info("Файл с запросами сохранен")
	return key, nil
}

// OpenArtifact открывает сохраненный файл с запросами
func (s *QueryServiceImpl) OpenArtifact(ctx context.Context, key string) (io.ReadCloser, *storage.FileMetadata, error) {
	meta, err := s.storage.GetMetadata(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка получения файла с запросами: %w", err)
	}

	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка получения файла с запросами: %w", err)
	}
	return rc, meta, nil
}

// DeleteArtifact удаляет сохраненный файл с запросами
func (s *QueryServiceImpl) DeleteArtifact(ctx context.Context, key string) error {
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("ошибка удаления файла с запросами: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("ошибка удаления файла с запросами: %w", err)
	}

	s.logger.WithField("artifact_key", key).Info("Файл с запросами удален")
	return nil
}

// ArtifactKey возвращает ключ вида artifacts/<дата>/<uuid>.txt
func ArtifactKey(batch *models.Batch) string {
	return fmt.Sprintf("artifacts/%s/%s.txt", strings.ToUpper(batch.Date), uuid.NewString())
}

func (s *QueryServiceImpl) validate(date string, groupCodes []string) (string, []string, error) {
	date = strings.TrimSpace(date)
	if err := query.ValidateDate(date); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	codes := make([]string, len(groupCodes))
	for i, code := range groupCodes {
		codes[i] = strings.TrimSpace(code)
	}
	if err := query.ValidateGroupCodes(codes, s.maxGroupCodes); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return date, codes, nil
}

func (s *QueryServiceImpl) generate(ctx context.Context, columns query.ColumnSet, date string, codes []string) (*models.Batch, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"fic_mis_date": date,
		"group_codes":  codes,
	})

	if columns.Empty() {
		logger.Warn("В таблице нет ни одной колонки, запросы будут без присваиваний")
	}

	batch := models.NewBatch(date, codes)
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch.Append(s.builder.BuildAll(columns, query.Params{Date: date, GroupCode: code})...)
	}

	logger.WithField("statements", batch.Len()).Info("Запросы сгенерированы")
	return batch, nil
}
