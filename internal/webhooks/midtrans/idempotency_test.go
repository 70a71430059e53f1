package midtranswebhook

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bayuwidodo/belanja-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T) *IdempotencyGuard {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewFromAddr(mr.Addr())
	t.Cleanup(func() { _ = client.Close() })

	guard, err := NewIdempotencyGuard(client, time.Minute)
	require.NoError(t, err)
	return guard
}

func TestCheckAndMarkFirstDelivery(t *testing.T) {
	guard := newGuard(t)

	seen, err := guard.CheckAndMark(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestCheckAndMarkDistinctNotifications(t *testing.T) {
	guard := newGuard(t)

	seen, err := guard.CheckAndMark(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(context.Background(), "tx-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestReleaseAllowsRetry(t *testing.T) {
	guard := newGuard(t)

	_, err := guard.CheckAndMark(context.Background(), "tx-1")
	require.NoError(t, err)
	require.NoError(t, guard.Release(context.Background(), "tx-1"))

	seen, err := guard.CheckAndMark(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestGuardValidation(t *testing.T) {
	guard := newGuard(t)

	_, err := guard.CheckAndMark(context.Background(), "")
	require.Error(t, err)

	_, err = NewIdempotencyGuard(nil, time.Minute)
	require.Error(t, err)
}
