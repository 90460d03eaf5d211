package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/pkg/db/models"
)

func setupProfilesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	profiles := `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  phone TEXT,
  avatar TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(profiles).Error)
	return db
}

func newProfile(t *testing.T, db *gorm.DB, email, username string) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func TestRepositoryFindByEmail(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)

	seeded := newProfile(t, db, "ada@example.com", "ada")
	newProfile(t, db, "grace@example.com", "grace")

	got, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)
	assert.Equal(t, "ada", got.Username)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)

	seeded := newProfile(t, db, "ada@example.com", "ada")

	got, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateRejectsDuplicateEmail(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)

	newProfile(t, db, "ada@example.com", "ada")

	err := repo.Create(context.Background(), &models.Profile{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		Username:     "ada2",
		PasswordHash: "hash",
	})
	require.Error(t, err)
}

func TestRepositoryTouchLastLogin(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)

	seeded := newProfile(t, db, "ada@example.com", "ada")
	require.Nil(t, seeded.LastLoginAt)

	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(context.Background(), seeded.ID, at))

	got, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, got.LastLoginAt.Equal(at))
}
