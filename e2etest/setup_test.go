package e2etest

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/status-im/token-supply/config"
	"github.com/status-im/token-supply/core"
)

// TestEnv represents a test environment
type TestEnv struct {
	App           *core.Application
	Config        *config.Config
	MockServer    *MockServer
	Context       context.Context
	CancelFunc    context.CancelFunc
	ServerBaseURL string
}

// SetupTest starts serve mode against a seeded mock mirror node and waits
// for the first monitor round
func SetupTest(t *testing.T) *TestEnv {
	ctx, cancel := context.WithCancel(context.Background())

	mockServer := NewMockServer()
	seedMockServer(mockServer)

	cfg := newTestConfig(mockServer.Host())
	if err := cfg.Validate(); err != nil {
		mockServer.Close()
		cancel()
		t.Fatalf("Invalid test config: %v", err)
	}

	app := core.Setup(cfg, zap.NewNop())
	updates := app.Monitor.SubscribeOnUpdate()
	defer updates.Cancel()

	if err := app.Registry.StartAll(ctx); err != nil {
		mockServer.Close()
		cancel()
		t.Fatalf("Failed to start services: %v", err)
	}

	env := &TestEnv{
		App:        app,
		Config:     cfg,
		MockServer: mockServer,
		Context:    ctx,
		CancelFunc: cancel,
	}

	_, port, err := net.SplitHostPort(app.Server.Addr())
	if err != nil {
		env.TearDown()
		t.Fatalf("Unexpected server address %q: %v", app.Server.Addr(), err)
	}
	env.ServerBaseURL = "http://127.0.0.1:" + port

	select {
	case <-updates.Chan():
	case <-time.After(10 * time.Second):
		env.TearDown()
		t.Fatal("Monitor did not complete its first round")
	}

	resp, err := http.Get(env.ServerBaseURL + "/health")
	if err != nil {
		env.TearDown()
		t.Fatalf("Server not responding: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		env.TearDown()
		t.Fatalf("Server returned unexpected status: %d", resp.StatusCode)
	}

	return env
}

// TearDown releases test environment resources
func (env *TestEnv) TearDown() {
	if env.App != nil {
		env.App.Registry.StopAll()
	}
	if env.MockServer != nil {
		env.MockServer.Close()
	}
	if env.CancelFunc != nil {
		env.CancelFunc()
	}
}
