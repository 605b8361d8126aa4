package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	testhelpers "github.com/mkarpova/storefront/internal/test"
)

func testRouterFacade() *testhelpers.StorefrontFacadeStub {
	return &testhelpers.StorefrontFacadeStub{}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSetupPublicRoutes(t *testing.T) {
	engine := Setup(testRouterFacade(), discardLogger())

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"a@b.co","password":"password123","first_name":"A","last_name":"B"}`)
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.co","password":"p"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
}

func TestSetupWebhookSkipsAuth(t *testing.T) {
	facade := testRouterFacade()
	engine := Setup(facade, discardLogger())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "sig")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("webhook: expected 200 without credentials, got %d", w.Code)
	}
	if len(facade.Payloads) != 1 || string(facade.Payloads[0]) != `{"id":"evt_1"}` {
		t.Fatalf("webhook payload not delivered raw: %+v", facade.Payloads)
	}
}

func TestSetupProtectedRoutesRequireAuth(t *testing.T) {
	engine := Setup(testRouterFacade(), discardLogger())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/orders/pay-on-delivery"},
		{http.MethodPost, "/api/orders/cash-on-delivery"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/o-1"},
		{http.MethodPatch, "/api/orders/o-1/status"},
		{http.MethodPatch, "/api/orders/o-1/cancel"},
		{http.MethodGet, "/api/products"},
		{http.MethodGet, "/api/products/p-1"},
		{http.MethodGet, "/api/addresses"},
		{http.MethodGet, "/api/addresses/a-1"},
	}
	for _, p := range paths {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestSetupAuthenticatedOrderFlow(t *testing.T) {
	engine := Setup(testRouterFacade(), discardLogger())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("orders list: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
