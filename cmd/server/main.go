package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ri_query/internal/config"
	"ri_query/internal/di"
	"ri_query/internal/server"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		di.Module,

		// Хуки жизненного цикла
		fx.Invoke(registerLifecycleHooks),
	)

	runWithGracefulShutdown(app)
}

// registerLifecycleHooks настраивает хуки жизненного цикла приложения
func registerLifecycleHooks(
	srv server.HTTPServer,
	cfg config.Config,
	logger *logrus.Logger,
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Запуск HTTP сервера")
			go func() {
				if err := srv.Start(cfg.Server.Address); err != nil {
					logger.WithError(err).Error("Не удалось запустить HTTP сервер")
					if err := shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
						logger.WithError(err).Error("Не удалось инициировать остановку приложения")
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Завершение работы HTTP сервера")
			return srv.Shutdown(ctx)
		},
	})
}

// runWithGracefulShutdown обрабатывает жизненный цикл приложения с обработкой сигналов
func runWithGracefulShutdown(app *fx.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	startCtx, startCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer startCancel()

	if err := app.Start(startCtx); err != nil {
		logrus.WithError(err).Fatal("Не удалось запустить приложение")
	}

	exitCode := 0
	select {
	case <-quit:
		logrus.Info("Получен сигнал завершения работы")
	case sig := <-app.Wait():
		exitCode = sig.ExitCode
		logrus.WithField("exit_code", exitCode).Info("Приложение запросило остановку")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		logrus.WithError(err).Error("Ошибка при завершении работы")
		os.Exit(1)
	}

	logrus.Info("Сервис генерации запросов остановлен корректно")
	os.Exit(exitCode)
}
