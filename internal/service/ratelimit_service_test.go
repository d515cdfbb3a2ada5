package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimiter(t *testing.T) (*RateLimitService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	// Noon today keeps the EXPIREAT deadlines in the future for miniredis
	today := time.Now().UTC()
	noon := time.Date(today.Year(), today.Month(), today.Day(), 12, 0, 0, 0, time.UTC)

	svc := NewRateLimitServiceWithClient(client)
	svc.now = func() time.Time { return noon }
	return svc, mr
}

func TestRateLimitDaily(t *testing.T) {
	svc, mr := newTestRateLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		res, err := svc.CheckAndIncrement(ctx, "notaria-4", 2, 100)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, i, res.DailyUsed)
	}

	res, err := svc.CheckAndIncrement(ctx, "notaria-4", 2, 100)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 12*60*60, res.RetryAfterSecs)

	key := "ratelimit:daily:notaria-4:" + svc.now().Format("2006-01-02")
	count, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "2", count)
	assert.True(t, mr.TTL(key) > 0)
}

func TestRateLimitMonthly(t *testing.T) {
	svc, _ := newTestRateLimiter(t)
	ctx := context.Background()

	res, err := svc.CheckAndIncrement(ctx, "capturista", 10, 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = svc.CheckAndIncrement(ctx, "capturista", 10, 1)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 1, res.MonthlyUsed)

	// other clients have their own counters
	res, err = svc.CheckAndIncrement(ctx, "otro", 10, 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimitRedisDown(t *testing.T) {
	svc, mr := newTestRateLimiter(t)
	mr.Close()

	_, err := svc.CheckAndIncrement(context.Background(), "notaria-4", 10, 10)
	assert.Error(t, err)
	assert.Error(t, svc.Ping(context.Background()))
}
