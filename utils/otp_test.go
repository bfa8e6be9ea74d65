package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodeClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestConsumeCode(t *testing.T) {
	client, mr := newCodeClient(t)
	ctx := context.Background()

	require.NoError(t, StoreCode(ctx, client, "pwreset:a", "ABC234", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("pwreset:a:attempts"))

	assert.ErrorIs(t, ConsumeCode(ctx, client, "pwreset:a", "ZZZ234"), ErrCodeMismatch)
	require.NoError(t, ConsumeCode(ctx, client, "pwreset:a", "ABC234"))
	assert.ErrorIs(t, ConsumeCode(ctx, client, "pwreset:a", "ABC234"), ErrCodeNotFound)
	assert.False(t, mr.Exists("pwreset:a:attempts"))
}

func TestConsumeCodeLocksAfterMaxAttempts(t *testing.T) {
	client, mr := newCodeClient(t)
	ctx := context.Background()
	require.NoError(t, StoreCode(ctx, client, "pwreset:b", "ABC234", time.Minute))

	for i := 1; i < MaxCodeAttempts; i++ {
		assert.ErrorIs(t, ConsumeCode(ctx, client, "pwreset:b", "WRONG2"), ErrCodeMismatch)
	}
	assert.ErrorIs(t, ConsumeCode(ctx, client, "pwreset:b", "WRONG2"), ErrCodeAttemptsExceeded)

	// The right code no longer works once the guesses are used up.
	assert.ErrorIs(t, ConsumeCode(ctx, client, "pwreset:b", "ABC234"), ErrCodeNotFound)
	assert.False(t, mr.Exists("pwreset:b:attempts"))

	// A fresh code starts a fresh counter.
	require.NoError(t, StoreCode(ctx, client, "pwreset:b", "XYZ234", time.Minute))
	assert.ErrorIs(t, ConsumeCode(ctx, client, "pwreset:b", "WRONG2"), ErrCodeMismatch)
	require.NoError(t, ConsumeCode(ctx, client, "pwreset:b", "XYZ234"))
}
