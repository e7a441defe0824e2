package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/handlers"
	"github.com/valeriaulyamaeva/fintrack/internal/routes"
)

func TestCORS(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials not allowed")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin was allowed")
	}
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	expect(t, e.do(http.MethodGet, "/healthz", nil, ""), http.StatusOK, nil)

	e.store.SetPingErr(errors.New("connection refused"))
	env := expect(t, e.do(http.MethodGet, "/healthz", nil, ""), http.StatusServiceUnavailable, nil)
	if env.Error != "database unavailable" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := handlers.NewLimiter(2, nil)
	l.SetLimiterClock(func() time.Time { return now })

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst should admit two requests")
	}
	if l.Allow("a") {
		t.Fatal("third request in the same instant was admitted")
	}
	if !l.Allow("b") {
		t.Fatal("clients share a bucket")
	}
	now = now.Add(500 * time.Millisecond)
	if !l.Allow("a") {
		t.Fatal("bucket did not refill")
	}
	if l.Allow("a") {
		t.Fatal("refilled more than rps allows")
	}
}

func TestAuthRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := handlers.NewLimiter(0.5, nil)
	limiter.SetLimiterClock(func() time.Time { return now })

	store := handlers.NewMockStore()
	h := handlers.NewHandler(store, auth.NewTokenManager(testSecret, time.Hour), handlers.CookieOptions{})
	e := &testEnv{t: t, store: store, handler: h, router: routes.SetupRouter(h, routes.Options{AuthLimiter: limiter})}

	login := map[string]any{"email": "nobody@example.com", "password": "password123"}
	expect(t, e.do(http.MethodPost, "/api/auth/login", login, ""), http.StatusUnauthorized, nil)
	expect(t, e.do(http.MethodPost, "/api/auth/login", login, ""), http.StatusTooManyRequests, nil)

	// Only register and login are throttled.
	expect(t, e.do(http.MethodPost, "/api/auth/logout", nil, ""), http.StatusOK, nil)

	now = now.Add(2 * time.Second)
	expect(t, e.do(http.MethodPost, "/api/auth/login", login, ""), http.StatusUnauthorized, nil)
}
