package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/handlers"
	"github.com/valeriaulyamaeva/fintrack/internal/routes"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const testSecret = "test-secret-test-secret-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   string          `json:"error"`
}

type testEnv struct {
	t       *testing.T
	store   *handlers.MockStore
	handler *handlers.Handler
	router  *gin.Engine
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := handlers.NewMockStore()
	h := handlers.NewHandler(store, auth.NewTokenManager(testSecret, time.Hour), handlers.CookieOptions{})
	r := routes.SetupRouter(h, routes.Options{AllowedOrigins: []string{"http://localhost:3000"}})
	return &testEnv{t: t, store: store, handler: h, router: r}
}

// do sends body as JSON and authenticates with token as a Bearer header.
func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			e.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// expect checks the status code and decodes the envelope, and data into dst
// when dst is not nil.
func expect(t *testing.T, w *httptest.ResponseRecorder, status int, dst any) envelope {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	if env.Success != (status < 400) {
		t.Fatalf("success=%v for status %d: %s", env.Success, status, w.Body.String())
	}
	if status >= 400 && env.Error == "" {
		t.Fatalf("error response without message: %s", w.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v (%s)", err, env.Data)
		}
	}
	return env
}

type session struct {
	token string
	user  models.User
}

func (e *testEnv) register(password string) session {
	e.t.Helper()
	body := models.RegisterRequest{
		Name:     gofakeit.Name(),
		Email:    fmt.Sprintf("%d.%s", time.Now().UnixNano(), gofakeit.Email()),
		Password: password,
	}
	var resp handlers.LoginResponse
	expect(e.t, e.do(http.MethodPost, "/api/auth/register", body, ""), http.StatusCreated, &resp)
	return session{token: resp.Token, user: *resp.User}
}

func (e *testEnv) newUser() session {
	return e.register("password123")
}

func (e *testEnv) newAdmin() session {
	s := e.newUser()
	if _, err := e.store.SetUserAdmin(context.Background(), s.user.ID, true); err != nil {
		e.t.Fatal(err)
	}
	s.user.IsAdmin = true
	return s
}

func itoa(n int) string { return strconv.Itoa(n) }

func decodeRaw(t *testing.T, raw json.RawMessage, dst any) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}
