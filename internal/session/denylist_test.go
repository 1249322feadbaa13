package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func TestMemoryDenylist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now, advance := fixedClock(time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC))
	denylist := NewMemoryDenylist(now)

	require.NoError(t, denylist.Revoke(ctx, "tok-1", now().Add(time.Minute)))
	require.NoError(t, denylist.Revoke(ctx, "tok-past", now().Add(-time.Minute)))

	revoked, err := denylist.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = denylist.IsRevoked(ctx, "tok-past")
	require.NoError(t, err)
	require.False(t, revoked)

	advance(2 * time.Minute)
	revoked, err = denylist.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRedisDenylist(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	now, _ := fixedClock(time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC))
	denylist := NewRedisDenylist(client, "test:", now)

	require.NoError(t, denylist.Revoke(ctx, "tok-1", now().Add(time.Minute)))
	require.True(t, mr.Exists("test:tok-1"))
	require.Equal(t, time.Minute, mr.TTL("test:tok-1"))

	revoked, err := denylist.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = denylist.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	require.False(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = denylist.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "tok-old", now().Add(-time.Second)))
	require.False(t, mr.Exists("test:tok-old"))
}
