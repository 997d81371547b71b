package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bonattii/secrets-auth-project/internal/infra/config"
	"github.com/Bonattii/secrets-auth-project/internal/infra/security"
	"github.com/Bonattii/secrets-auth-project/internal/repository/memory"
	"github.com/Bonattii/secrets-auth-project/internal/usecase"
)

func newOAuthEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions, err := security.NewSessionManager("test-secret", "secrets", time.Hour)
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}

	federation := usecase.NewFederationService(memory.NewUserRepository(), nil)
	oauth := NewOAuthHandler(federation, sessions, config.GoogleSettings{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		CallbackURL:  "http://localhost:3000/auth/google/callback",
	}, nil)

	engine := gin.New()
	engine.SetHTMLTemplate(testTemplates(t))
	oauth.RegisterRoutes(engine)

	return engine
}

func TestBeginRedirectsToConsentWithState(t *testing.T) {
	engine := newOAuthEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.Contains(location, "accounts.google.com") {
		t.Fatalf("expected redirect to the provider, got %q", location)
	}
	if !strings.Contains(location, "state=") {
		t.Fatalf("expected a state parameter, got %q", location)
	}

	var state string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == stateCookie {
			state = cookie.Value
		}
	}
	if state == "" {
		t.Fatal("expected the state cookie to be set")
	}
	if !strings.Contains(location, "state="+state) {
		t.Fatal("state parameter must match the state cookie")
	}
}

func TestCallbackRejectsMismatchedState(t *testing.T) {
	engine := newOAuthEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=irrelevant", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "expected"})
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestCallbackWithoutCodeReturnsToLogin(t *testing.T) {
	engine := newOAuthEngine(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "abc"})
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}
