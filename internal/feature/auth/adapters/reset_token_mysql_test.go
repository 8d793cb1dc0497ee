package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/usecase"
)

func setupResetTokenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.User{}, &entity.PasswordResetToken{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func seedResetToken(t *testing.T, db *gorm.DB, userID uint, token string, createdAt time.Time) *entity.PasswordResetToken {
	t.Helper()

	rt := &entity.PasswordResetToken{
		UserID:      userID,
		Token:       token,
		TokenExpiry: createdAt.Add(time.Hour),
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(rt).Error)
	return rt
}

func TestResetTokenMySQL_FindByToken(t *testing.T) {
	t.Run("finds an existing token", func(t *testing.T) {
		db := setupResetTokenDB(t)
		repo := NewResetTokenMySQL(db)
		seedResetToken(t, db, 1, "token-abc", time.Now())

		got, err := repo.FindByToken(context.Background(), "token-abc")

		require.NoError(t, err)
		assert.Equal(t, uint(1), got.UserID)
		assert.False(t, got.Used)
	})

	t.Run("unknown token is generically invalid", func(t *testing.T) {
		db := setupResetTokenDB(t)
		repo := NewResetTokenMySQL(db)

		_, err := repo.FindByToken(context.Background(), "missing")

		assert.ErrorIs(t, err, usecase.ErrResetTokenInvalid)
	})
}

func TestResetTokenMySQL_CountRecentByUser(t *testing.T) {
	db := setupResetTokenDB(t)
	repo := NewResetTokenMySQL(db)
	now := time.Now()

	seedResetToken(t, db, 1, "t1", now.Add(-10*time.Minute))
	seedResetToken(t, db, 1, "t2", now.Add(-30*time.Minute))
	seedResetToken(t, db, 1, "t3", now.Add(-2*time.Hour)) // ウィンドウ外
	seedResetToken(t, db, 2, "t4", now.Add(-5*time.Minute))

	count, err := repo.CountRecentByUser(context.Background(), 1, now.Add(-time.Hour))

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestResetTokenMySQL_MarkUsed(t *testing.T) {
	t.Run("marks the token used", func(t *testing.T) {
		db := setupResetTokenDB(t)
		repo := NewResetTokenMySQL(db)
		rt := seedResetToken(t, db, 1, "token-abc", time.Now())

		require.NoError(t, repo.MarkUsed(context.Background(), rt.ID))

		got, err := repo.FindByToken(context.Background(), "token-abc")
		require.NoError(t, err)
		assert.True(t, got.Used)
	})

	t.Run("unknown id is invalid", func(t *testing.T) {
		db := setupResetTokenDB(t)
		repo := NewResetTokenMySQL(db)

		err := repo.MarkUsed(context.Background(), 9999)

		assert.ErrorIs(t, err, usecase.ErrResetTokenInvalid)
	})
}
