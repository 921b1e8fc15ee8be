package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"ri_query/internal/config"
	"ri_query/internal/logger"
	"ri_query/internal/server"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type failingServer struct{}

func (failingServer) Start(string) error {
	return errors.New("listen tcp :8080: bind: address already in use")
}

func (failingServer) Shutdown(context.Context) error { return nil }

func TestStartFailureStopsApp(t *testing.T) {
	app := fxtest.New(t,
		fx.Supply(config.Config{}, logger.Discard()),
		fx.Provide(func() server.HTTPServer { return failingServer{} }),
		fx.Invoke(registerLifecycleHooks),
	)
	app.RequireStart()
	defer app.RequireStop()

	select {
	case sig := <-app.Wait():
		assert.Equal(t, 1, sig.ExitCode)
	case <-time.After(5 * time.Second):
		t.Fatal("app kept running after the HTTP server failed to start")
	}
}
