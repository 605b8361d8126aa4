package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkarpova/storefront/internal/config"
	testhelpers "github.com/mkarpova/storefront/internal/test"
	"github.com/mkarpova/storefront/internal/worker"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestMonitor() *worker.CheckoutMonitor {
	return worker.NewCheckoutMonitor(&testhelpers.LedgerFacadeStub{}, 10*time.Millisecond, time.Hour, 10, testLogger())
}

func TestNewHTTPServer(t *testing.T) {
	router := gin.New()
	server := newHTTPServer(serverParams{
		Config: &config.Config{RunAddress: ":9999"},
		Router: router,
	})

	if server.Addr != ":9999" {
		t.Fatalf("unexpected address %q", server.Addr)
	}
	if server.Handler == nil {
		t.Fatal("expected router to be attached")
	}
}

func TestNewCheckoutMonitorUsesConfig(t *testing.T) {
	fixture := newFacadeFixture()
	fixture.repos.TransactionRepo.Stale = nil

	monitor := newCheckoutMonitor(workerParams{
		Facade: fixture.facade,
		Config: &config.Config{
			StalePollInterval: 10 * time.Millisecond,
			StaleCheckoutAge:  time.Hour,
			StaleBatchSize:    5,
		},
		Logger: testLogger(),
	})
	if monitor == nil {
		t.Fatal("expected monitor to be constructed")
	}

	monitor.Start(context.Background())
	monitor.Stop()
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	server := &http.Server{Addr: "127.0.0.1:0", Handler: gin.New()}
	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     server,
		Worker:     newTestMonitor(),
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	server := &http.Server{Addr: "bad addr"}
	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     server,
		Worker:     newTestMonitor(),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}
