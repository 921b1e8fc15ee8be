package di

import (
	"testing"

	"ri_query/internal/server"

	"go.uber.org/fx"
)

func TestModuleGraph(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Invoke(func(server.HTTPServer) {}),
	)
	if err != nil {
		t.Fatalf("dependency graph is invalid: %v", err)
	}
}
