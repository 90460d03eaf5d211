package storefront

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yaodigital/storefront-backend/pkg/config"
	"github.com/yaodigital/storefront-backend/pkg/errors"
)

func TestModeForIsDeterministic(t *testing.T) {
	withDB := &config.Config{DB: config.DBConfig{DSN: "postgres://localhost/storefront"}}
	withoutDB := &config.Config{API: config.APIConfig{BaseURL: "http://127.0.0.1:8000/api"}}

	for i := 0; i < 5; i++ {
		if got := ModeFor(withDB); got != ModeDatabase {
			t.Fatalf("expected database mode, got %s", got)
		}
		if got := ModeFor(withoutDB); got != ModeREST {
			t.Fatalf("expected rest mode, got %s", got)
		}
	}
}

func TestRequireIdentity(t *testing.T) {
	t.Run("missing identity", func(t *testing.T) {
		_, err := RequireIdentity(context.Background())
		if !errors.IsCode(err, errors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized error, got %v", err)
		}
	})

	t.Run("token only", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{Token: "bearer-token"})
		identity, err := RequireIdentity(ctx)
		if err != nil {
			t.Fatalf("require identity: %v", err)
		}
		if identity.Token != "bearer-token" {
			t.Fatalf("unexpected token %q", identity.Token)
		}
	})

	t.Run("user id required", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{Token: "bearer-token"})
		if _, err := RequireUserID(ctx); !errors.IsCode(err, errors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized for token-only identity, got %v", err)
		}

		userID := uuid.New()
		ctx = WithIdentity(context.Background(), Identity{UserID: userID})
		got, err := RequireUserID(ctx)
		if err != nil {
			t.Fatalf("require user id: %v", err)
		}
		if got != userID {
			t.Fatalf("expected %s, got %s", userID, got)
		}
	})
}

func TestIdentityFromContextIgnoresEmptyIdentity(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{})
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatalf("empty identity should not count as authenticated")
	}
}
