package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFakeCache(t *testing.T) {
	ctx := context.Background()
	c := &FakeCache{}
	require.Panics(t, func() { c.Set(ctx, "k", 1, 0) })
	require.Panics(t, func() { c.SetNX(ctx, "k", 1, 0) })
	require.Panics(t, func() { c.Get(ctx, "k") })
	require.Panics(t, func() { c.GetDel(ctx, "k") })
	require.Panics(t, func() { c.Exists(ctx, "k") })
	require.NoError(t, c.Ping(ctx).Err())
	require.NoError(t, c.Close())

	called := map[string]bool{}
	c.SetFn = func(context.Context, string, any, time.Duration) *redis.StatusCmd {
		called["set"] = true
		return redis.NewStatusResult("OK", nil)
	}
	c.SetNXFn = func(context.Context, string, any, time.Duration) *redis.BoolCmd {
		called["setnx"] = true
		return redis.NewBoolResult(true, nil)
	}
	c.GetFn = func(context.Context, string) *redis.StringCmd {
		called["get"] = true
		return redis.NewStringResult("g", nil)
	}
	c.GetDelFn = func(context.Context, string) *redis.StringCmd {
		called["getdel"] = true
		return redis.NewStringResult("v", nil)
	}
	c.ExistsFn = func(context.Context, ...string) *redis.IntCmd {
		called["exists"] = true
		return redis.NewIntResult(1, nil)
	}
	c.PingFn = func(context.Context) *redis.StatusCmd { return redis.NewStatusResult("", errors.New("down")) }
	c.CloseFn = func() error { called["close"] = true; return errors.New("close") }

	require.Equal(t, "OK", c.Set(ctx, "k", 1, 0).Val())
	require.True(t, c.SetNX(ctx, "k", 1, 0).Val())
	require.Equal(t, "g", c.Get(ctx, "k").Val())
	require.Equal(t, "v", c.GetDel(ctx, "k").Val())
	require.Equal(t, int64(1), c.Exists(ctx, "k").Val())
	require.Error(t, c.Ping(ctx).Err())
	require.EqualError(t, c.Close(), "close")
	require.Len(t, called, 6)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := MemoryCache(func() time.Time { return now })

	ok, err := c.SetNX(ctx, "a", 42, time.Minute).Result()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.SetNX(ctx, "a", 43, time.Minute).Result()
	require.NoError(t, err)
	require.False(t, ok)

	n, err := c.Exists(ctx, "a", "b").Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	now = now.Add(2 * time.Minute)
	n, _ = c.Exists(ctx, "a").Result()
	require.Zero(t, n)

	require.NoError(t, c.Set(ctx, "r", "7", 0).Err())
	v, err := c.Get(ctx, "r").Result()
	require.NoError(t, err)
	require.Equal(t, "7", v)
	v, err = c.GetDel(ctx, "r").Result()
	require.NoError(t, err)
	require.Equal(t, "7", v)

	_, err = c.GetDel(ctx, "r").Result()
	require.ErrorIs(t, err, redis.Nil)
	_, err = c.Get(ctx, "r").Result()
	require.ErrorIs(t, err, redis.Nil)
}
