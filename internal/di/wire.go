package di

import (
	"ri_query/internal/config"
	"ri_query/internal/infrastructure/spreadsheet"
	"ri_query/internal/logger"
	"ri_query/internal/server"
	"ri_query/internal/service"
	"ri_query/internal/storage"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

// Module собирает зависимости HTTP-сервиса генерации запросов.
var Module = fx.Options(
	fx.Provide(
		config.Load,
		newLogger,
		storage.NewStorageFromConfig,
		newColumnReader,
		service.NewQueryServiceFromConfig,
		newHTTPServer,
	),
)

func newLogger(cfg config.Config) *logrus.Logger {
	l := logger.New(cfg)
	l.WithField("config", cfg.String()).Info("Запуск сервиса генерации RI-запросов")
	return l
}

func newColumnReader(l *logrus.Logger) service.ColumnReader {
	return spreadsheet.NewXLSX(l)
}

func newHTTPServer(cfg config.Config, svc service.QueryService, l *logrus.Logger) server.HTTPServer {
	return server.NewServer(cfg, svc, l)
}
