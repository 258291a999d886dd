package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore 需要本地Redis，设置BOOKREVIEW_TEST_REDIS_ADDR后运行
func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	addr := os.Getenv("BOOKREVIEW_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BOOKREVIEW_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return NewSessionStore(client)
}

func TestBlacklistKey_DoesNotContainToken(t *testing.T) {
	token := "eyJhbGciOiJIUzI1NiJ9.payload.signature"
	key := blacklistKey(token)

	assert.NotContains(t, key, token)
	assert.Equal(t, key, blacklistKey(token))
	assert.NotEqual(t, key, blacklistKey(token+"x"))
	assert.Equal(t, "bookreview:session:42", sessionKey(42))
}

func TestSessionStore_Redis(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	login := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSession(ctx, Session{UserID: 7, IP: "10.0.0.1", UserAgent: "curl", LoginAt: login}, time.Minute))

	sess, err := store.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", sess.IP)
	assert.True(t, login.Equal(sess.LoginAt))

	require.NoError(t, store.DeleteSession(ctx, 7))
	_, err = store.GetSession(ctx, 7)
	assert.Error(t, err)

	revoked, err := store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "tok", time.Minute))
	revoked, err = store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
}
