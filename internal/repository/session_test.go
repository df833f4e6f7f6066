package repo

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessionStorage(t *testing.T) (*RedisSessionStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionRedisStorage(client, zap.NewNop().Sugar()), mr
}

func TestSessionRoundTrip(t *testing.T) {
	storage, _ := newTestSessionStorage(t)
	ctx := context.Background()

	storage.StoreSession(ctx, "sess-1", "user-42")

	userID, ok := storage.GetUserIdBySession(ctx, "sess-1")
	require.True(t, ok)
	assert.Equal(t, "user-42", userID)
}

func TestSessionMissing(t *testing.T) {
	storage, _ := newTestSessionStorage(t)

	_, ok := storage.GetUserIdBySession(context.Background(), "nope")
	assert.False(t, ok)
}

func TestSessionDelete(t *testing.T) {
	storage, _ := newTestSessionStorage(t)
	ctx := context.Background()

	storage.StoreSession(ctx, "sess-2", "user-7")
	assert.True(t, storage.DeleteSession(ctx, "sess-2"))
	assert.False(t, storage.DeleteSession(ctx, "sess-2"))

	_, ok := storage.GetUserIdBySession(ctx, "sess-2")
	assert.False(t, ok)
}

func TestSessionExpires(t *testing.T) {
	storage, mr := newTestSessionStorage(t)
	ctx := context.Background()

	storage.StoreSession(ctx, "sess-3", "user-9")
	mr.FastForward(sessionTTL + 1)

	_, ok := storage.GetUserIdBySession(ctx, "sess-3")
	assert.False(t, ok)
}
