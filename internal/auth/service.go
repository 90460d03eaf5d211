package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/auth"
	"github.com/yaodigital/storefront-backend/pkg/auth/session"
	"github.com/yaodigital/storefront-backend/pkg/config"
	"github.com/yaodigital/storefront-backend/pkg/db"
	"github.com/yaodigital/storefront-backend/pkg/db/models"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
	"github.com/yaodigital/storefront-backend/pkg/security"
)

type profileRepo interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Validate(ctx context.Context, accessID, provided string) error
	Revoke(ctx context.Context, accessID string) error
}

// Service implements account registration, login, logout, and the current
// user read for database mode.
type Service struct {
	profiles profileRepo
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	now      func() time.Time
}

var _ storefront.AuthService = (*Service)(nil)

// NewService builds the auth service.
func NewService(profiles profileRepo, sessions sessionManager, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (*Service, error) {
	if profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	if jwtCfg.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	return &Service{
		profiles: profiles,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		now:      time.Now,
	}, nil
}

func (s *Service) Register(ctx context.Context, input storefront.RegisterInput) (*storefront.AuthSession, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email, username, and password are required")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	profile := &models.Profile{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if name := strings.TrimSpace(input.FirstName); name != "" {
		profile.FirstName = &name
	}
	if name := strings.TrimSpace(input.LastName); name != "" {
		profile.LastName = &name
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		switch {
		case db.IsUniqueViolation(err, "profiles_email_key"):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		case db.IsUniqueViolation(err, "profiles_username_key"):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username is taken")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
	}

	return s.openSession(ctx, profile)
}

func (s *Service) Login(ctx context.Context, input storefront.LoginInput) (*storefront.AuthSession, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	if !profile.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	ok, err := security.VerifyPassword(input.Password, profile.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.profiles.TouchLastLogin(ctx, profile.ID, s.now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}

	return s.openSession(ctx, profile)
}

// Logout revokes the refresh session tied to the caller's access token. The
// refresh token must match the stored one.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	identity, err := storefront.RequireIdentity(ctx)
	if err != nil {
		return err
	}
	claims, err := auth.ParseAccessToken(s.jwtCfg, identity.Token)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "parse access token")
	}
	if err := s.sessions.Validate(ctx, claims.ID, refreshToken); err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate refresh token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *Service) CurrentUser(ctx context.Context) (*storefront.User, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	user := toUser(profile)
	return &user, nil
}

func (s *Service) openSession(ctx context.Context, profile *models.Profile) (*storefront.AuthSession, error) {
	accessID := session.NewAccessID()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, s.now().UTC(), auth.AccessTokenPayload{
		UserID:   profile.ID,
		Email:    profile.Email,
		Username: profile.Username,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create refresh session")
	}

	return &storefront.AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUser(profile),
	}, nil
}

func toUser(profile *models.Profile) storefront.User {
	user := storefront.User{
		ID:        profile.ID,
		Email:     profile.Email,
		Username:  profile.Username,
		CreatedAt: profile.CreatedAt,
	}
	if profile.FirstName != nil {
		user.FirstName = *profile.FirstName
	}
	if profile.LastName != nil {
		user.LastName = *profile.LastName
	}
	if profile.Phone != nil {
		user.Phone = *profile.Phone
	}
	if profile.Avatar != nil {
		user.Avatar = *profile.Avatar
	}
	return user
}
