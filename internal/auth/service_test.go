package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/internal/storefront"
	pkgauth "github.com/yaodigital/storefront-backend/pkg/auth"
	"github.com/yaodigital/storefront-backend/pkg/auth/session"
	"github.com/yaodigital/storefront-backend/pkg/config"
	"github.com/yaodigital/storefront-backend/pkg/db/models"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
	"github.com/yaodigital/storefront-backend/pkg/security"
)

type fakeProfiles struct {
	byEmail    map[string]*models.Profile
	byID       map[uuid.UUID]*models.Profile
	createErr  error
	lastLogins map[uuid.UUID]time.Time
	calls      int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		byEmail:    map[string]*models.Profile{},
		byID:       map[uuid.UUID]*models.Profile{},
		lastLogins: map[uuid.UUID]time.Time{},
	}
}

func (f *fakeProfiles) Create(_ context.Context, profile *models.Profile) error {
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	profile.ID = uuid.New()
	profile.CreatedAt = time.Now().UTC()
	f.byEmail[profile.Email] = profile
	f.byID[profile.ID] = profile
	return nil
}

func (f *fakeProfiles) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	f.calls++
	profile, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeProfiles) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.calls++
	profile, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeProfiles) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogins[id] = at
	return nil
}

type fakeSessions struct {
	tokens  map[string]string
	revoked []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.tokens[accessID] = token
	return token, nil
}

func (f *fakeSessions) Validate(_ context.Context, accessID, provided string) error {
	stored, ok := f.tokens[accessID]
	if !ok || stored != provided {
		return session.ErrInvalidRefreshToken
	}
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	delete(f.tokens, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 15,
	}
}

func newTestService(t *testing.T) (*Service, *fakeProfiles, *fakeSessions) {
	t.Helper()
	profiles := newFakeProfiles()
	sessions := newFakeSessions()
	svc, err := NewService(profiles, sessions, testJWTConfig(), config.PasswordConfig{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, profiles, sessions
}

func seedAccount(t *testing.T, profiles *fakeProfiles, email, password string) *models.Profile {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		Username:     "seeded",
		PasswordHash: hash,
		IsActive:     true,
	}
	profiles.byEmail[email] = profile
	profiles.byID[profile.ID] = profile
	return profile
}

func TestRegisterReturnsSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.Register(context.Background(), storefront.RegisterInput{
		Email:     "Ada@Example.com",
		Username:  "ada",
		Password:  "correct horse",
		FirstName: "Ada",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got.AccessToken == "" || got.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if got.User.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", got.User.Email)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), got.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != got.User.ID {
		t.Fatalf("token user %s, want %s", claims.UserID, got.User.ID)
	}
}

func TestRegisterMapsUniqueViolations(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
	}{
		{name: "email taken", constraint: "profiles_email_key"},
		{name: "username taken", constraint: "profiles_username_key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, profiles, _ := newTestService(t)
			profiles.createErr = fmt.Errorf(`duplicate key value violates unique constraint %q`, tc.constraint)

			_, err := svc.Register(context.Background(), storefront.RegisterInput{
				Email:    "ada@example.com",
				Username: "ada",
				Password: "correct horse",
			})
			if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
				t.Fatalf("expected conflict, got %v", err)
			}
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, profiles, _ := newTestService(t)
	seedAccount(t, profiles, "ada@example.com", "correct horse")

	cases := []struct {
		name  string
		input storefront.LoginInput
	}{
		{name: "unknown email", input: storefront.LoginInput{Email: "nobody@example.com", Password: "correct horse"}},
		{name: "wrong password", input: storefront.LoginInput{Email: "ada@example.com", Password: "wrong"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, profiles, _ := newTestService(t)
	profile := seedAccount(t, profiles, "ada@example.com", "correct horse")
	profile.IsActive = false

	_, err := svc.Login(context.Background(), storefront.LoginInput{Email: "ada@example.com", Password: "correct horse"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	svc, profiles, _ := newTestService(t)
	profile := seedAccount(t, profiles, "ada@example.com", "correct horse")

	got, err := svc.Login(context.Background(), storefront.LoginInput{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.User.ID != profile.ID {
		t.Fatalf("user id %s, want %s", got.User.ID, profile.ID)
	}
	if _, ok := profiles.lastLogins[profile.ID]; !ok {
		t.Fatal("last login was not recorded")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, profiles, sessions := newTestService(t)
	seedAccount(t, profiles, "ada@example.com", "correct horse")

	authed, err := svc.Login(context.Background(), storefront.LoginInput{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	ctx := storefront.WithIdentity(context.Background(), storefront.Identity{
		UserID: authed.User.ID,
		Token:  authed.AccessToken,
	})
	if err := svc.Logout(ctx, authed.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("expected one revoked session, got %d", len(sessions.revoked))
	}

	if err := svc.Logout(ctx, authed.RefreshToken); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized on reuse, got %v", err)
	}
}

func TestLogoutRejectsMismatchedRefreshToken(t *testing.T) {
	svc, profiles, sessions := newTestService(t)
	seedAccount(t, profiles, "ada@example.com", "correct horse")

	authed, err := svc.Login(context.Background(), storefront.LoginInput{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	ctx := storefront.WithIdentity(context.Background(), storefront.Identity{
		UserID: authed.User.ID,
		Token:  authed.AccessToken,
	})
	if err := svc.Logout(ctx, "not-the-refresh-token"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(sessions.revoked) != 0 {
		t.Fatal("session must not be revoked on mismatch")
	}
}

func TestCurrentUserRequiresIdentity(t *testing.T) {
	svc, profiles, _ := newTestService(t)

	_, err := svc.CurrentUser(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if profiles.calls != 0 {
		t.Fatalf("expected no repo calls, got %d", profiles.calls)
	}
}

func TestCurrentUserLoadsProfile(t *testing.T) {
	svc, profiles, _ := newTestService(t)
	first := "Ada"
	profile := seedAccount(t, profiles, "ada@example.com", "correct horse")
	profile.FirstName = &first

	ctx := storefront.WithIdentity(context.Background(), storefront.Identity{UserID: profile.ID, Token: "ignored"})
	got, err := svc.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.FirstName != "Ada" {
		t.Fatalf("first name %q, want Ada", got.FirstName)
	}
}
