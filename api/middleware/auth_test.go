package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yaodigital/storefront-backend/internal/storefront"
	pkgauth "github.com/yaodigital/storefront-backend/pkg/auth"
	"github.com/yaodigital/storefront-backend/pkg/config"
)

type fakeChecker struct {
	sessions map[string]bool
	err      error
}

func (f *fakeChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.sessions[accessID], nil
}

func authTestJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "storefront-test", ExpirationMinutes: 5}
}

func mintToken(t *testing.T, jti string, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(authTestJWT(), time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsIdentity(t *testing.T) {
	userID := uuid.New()
	token := mintToken(t, "session-1", userID)
	checker := &fakeChecker{sessions: map[string]bool{"session-1": true}}

	var seen storefront.Identity
	handler := Auth(authTestJWT(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = storefront.IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if seen.UserID != userID {
		t.Fatalf("identity user %s, want %s", seen.UserID, userID)
	}
	if seen.Token != token {
		t.Fatal("identity must carry the raw token")
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token := mintToken(t, "session-1", uuid.New())
	checker := &fakeChecker{sessions: map[string]bool{}}

	called := false
	handler := Auth(authTestJWT(), checker, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if called {
		t.Fatal("handler must not run for a revoked session")
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(authTestJWT(), &fakeChecker{}, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}

func TestBearerAuthForwardsRawToken(t *testing.T) {
	var seen storefront.Identity
	handler := BearerAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = storefront.IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer upstream-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if seen.Token != "upstream-token" {
		t.Fatalf("identity token %q, want upstream-token", seen.Token)
	}
	if seen.UserID != uuid.Nil {
		t.Fatal("passthrough identity must not claim a user id")
	}
}
