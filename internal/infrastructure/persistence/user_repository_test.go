package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/community/backend/internal/domain/identity"
	"github.com/community/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := newSQLiteDatabase(t)
	ctx := context.Background()
	repo := NewGormUserRepository(db.DB)

	user, err := identity.NewUser("Volunteer@Example.org", "Vee", "secret123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))
	assert.Positive(t, user.ID)

	t.Run("find by normalized email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "volunteer@example.org")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.True(t, found.VerifyPassword("secret123"))
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Vee", found.DisplayName)

		_, err = repo.FindByID(ctx, user.ID+1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := identity.NewUser("volunteer@example.org", "Other", "secret456")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})
}

func TestGormSessionRepository(t *testing.T) {
	db := newSQLiteDatabase(t)
	ctx := context.Background()

	user, err := identity.NewUser("staff@example.org", "Staff", "secret123")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db.DB).Create(ctx, user))

	repo := NewGormSessionRepository(db.DB)
	live := identity.NewSession(user.ID, time.Hour, "test-agent", "127.0.0.1")
	expired := identity.NewSession(user.ID, -time.Hour, "test-agent", "127.0.0.1")
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, expired))

	found, err := repo.FindByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)
	assert.False(t, found.IsExpired(time.Now()))

	purged, err := repo.DeleteExpired(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, err = repo.FindByID(ctx, expired.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, live.ID))
	assert.ErrorIs(t, repo.Delete(ctx, live.ID), shared.ErrNotFound)
}
