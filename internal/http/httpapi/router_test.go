package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"vfxprompt/internal/cache"
	"vfxprompt/internal/domain"
	"vfxprompt/internal/http/handlers"
	"vfxprompt/internal/middleware"
	"vfxprompt/internal/subscription"
)

const testSecret = "router-secret"

type stubRoles map[string][]domain.Role

func (s stubRoles) ListRoles(_ context.Context, userID string) ([]domain.Role, error) {
	return s[userID], nil
}

func (s stubRoles) Grant(context.Context, string, domain.Role) error  { return nil }
func (s stubRoles) Revoke(context.Context, string, domain.Role) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	roles := stubRoles{"admin-1": {domain.RoleAdmin}}
	static := t.TempDir()
	if err := os.MkdirAll(filepath.Join(static, "uploads"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(static, "uploads", "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := &handlers.App{
		Logger: zerolog.Nop(),
		Repos:  domain.Repositories{Roles: roles},
		Subs:   subscription.NewService(roles, cache.NewMemoryStore(), 10, zerolog.Nop()),
	}
	return NewRouter(app, Options{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"http://localhost:5173"},
		DefaultLocale:  "en",
		StaticDir:      static,
		Logger:         zerolog.Nop(),
	}), static
}

func token(t *testing.T, sub string) string {
	t.Helper()
	tok, err := middleware.SignJWT(testSecret, middleware.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	return tok
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID")
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/me/subscription", nil)
	req.Header.Set("Accept-Language", "es-MX,es;q=0.9")
	rr := serve(h, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "unauthorized" || body.Error.Message != "Inicia sesión para continuar." {
		t.Fatalf("error = %+v", body.Error)
	}
	if got := rr.Header().Get("Content-Language"); got != "es" {
		t.Fatalf("Content-Language = %q", got)
	}
}

func TestSubscriptionWithToken(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/me/subscription", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "admin-1"))
	rr := serve(h, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rr.Code, rr.Body.String())
	}
	var sub domain.Subscription
	if err := json.NewDecoder(rr.Body).Decode(&sub); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.UserID != "admin-1" || !sub.IsAdmin || sub.Tier != domain.TierPro {
		t.Fatalf("subscription = %+v", sub)
	}
}

func TestRoleGroups(t *testing.T) {
	h, _ := newTestRouter(t)
	tests := []struct {
		name   string
		method string
		path   string
		user   string
		status int
	}{
		{name: "enhance freemium", method: http.MethodPost, path: "/v1/prompts/enhance", user: "user-1", status: http.StatusForbidden},
		{name: "variations freemium", method: http.MethodPost, path: "/v1/prompts/variations", user: "user-1", status: http.StatusForbidden},
		{name: "deep freemium", method: http.MethodPost, path: "/v1/analysis/deep", user: "user-1", status: http.StatusForbidden},
		{name: "create effect non-admin", method: http.MethodPost, path: "/v1/effects", user: "user-1", status: http.StatusForbidden},
		{name: "delete preset non-admin", method: http.MethodDelete, path: "/v1/presets/p1", user: "user-1", status: http.StatusForbidden},
		{name: "create effect anonymous", method: http.MethodPost, path: "/v1/effects", status: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			if tc.user != "" {
				req.Header.Set("Authorization", "Bearer "+token(t, tc.user))
			}
			if rr := serve(h, req); rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
		})
	}
}

func TestPreflight(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/v1/prompts/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := serve(h, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("missing CORS headers: %v", rr.Header())
	}
}

func TestStaticFiles(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/static/uploads/a.txt", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "hello" {
		t.Fatalf("static = %d %q", rr.Code, rr.Body.String())
	}
}

func TestOpenAPIDocument(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc.Paths["/v1/prompts/generate"]; !ok {
		t.Fatalf("paths = %v", doc.Paths)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", rr.Header().Get("ETag"))
	if again := serve(h, req); again.Code != http.StatusNotModified {
		t.Fatalf("revalidation status = %d, want 304", again.Code)
	}
}
