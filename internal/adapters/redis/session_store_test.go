package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests are skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := domainauth.Session{
		ID:         "test-session-1",
		UserID:     "CT-19043",
		Name:       "Ayesha Khan",
		Email:      "ayesha@cloud.neduet.edu.pk",
		Role:       domainauth.RoleUndergrad,
		Department: "Computer Science",
		Semester:   5,
		ExpiresAt:  time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Name, retrieved.Name)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.Equal(t, session.Department, retrieved.Department)
	assert.Equal(t, session.Semester, retrieved.Semester)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_RefusesPartialSession(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	// Token without role.
	err := store.Save(ctx, domainauth.Session{
		ID:        "partial-1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)

	// Role without token.
	err = store.Save(ctx, domainauth.Session{
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)

	// Neither half was written.
	_, err = store.Get(ctx, "partial-1")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_MalformedRecordBehavesLikeAbsent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	// Corrupt the raw value behind the store's back.
	err := client.Set(ctx, "portal:session:corrupt", "{not json", time.Minute).Err()
	require.NoError(t, err)

	_, err = store.Get(ctx, "corrupt")
	assert.Equal(t, ErrNotFound, err)

	// The corrupted entry was cleaned up.
	exists, err := client.Exists(ctx, "portal:session:corrupt").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestSessionStore_DeleteIdempotent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-delete",
		UserID:    "EMP-100",
		Role:      domainauth.RoleCanteen,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, session))

	require.NoError(t, store.Delete(ctx, "test-session-delete"))
	_, err := store.Get(ctx, "test-session-delete")
	assert.Equal(t, ErrNotFound, err)

	// Second delete of the same (now absent) session is a no-op.
	require.NoError(t, store.Delete(ctx, "test-session-delete"))
	_, err = store.Get(ctx, "test-session-delete")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_ExpiredSessionNotReturned(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStoreWithPrefix(client, "portal:session:expiry:")
	ctx := context.Background()

	err := store.Save(ctx, domainauth.Session{
		ID:        "expired-1",
		UserID:    "CT-1",
		Role:      domainauth.RoleTeacher,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.Error(t, err, "saving an already-expired session is rejected")

	_, err = store.Get(ctx, "expired-1")
	assert.Equal(t, ErrNotFound, err)
}
