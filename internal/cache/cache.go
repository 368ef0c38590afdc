package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 定義快取操作介面
// 封裝 Redis 供 token 黑名單與重設密碼 token 使用
// 測試時可替換為 FakeCache
// ttl <= 0 表示不設過期
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type FakeCache struct {
	SetFn    func(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	SetNXFn  func(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd
	GetFn    func(ctx context.Context, key string) *redis.StringCmd
	GetDelFn func(ctx context.Context, key string) *redis.StringCmd
	ExistsFn func(ctx context.Context, keys ...string) *redis.IntCmd
	PingFn   func(ctx context.Context) *redis.StatusCmd
	CloseFn  func() error
}

// Set 執行 Fake 設定或 panic
func (f *FakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if f.SetFn != nil {
		return f.SetFn(ctx, key, value, ttl)
	}
	panic("unexpected Set")
}

// SetNX 執行 Fake 設定或 panic
func (f *FakeCache) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if f.SetNXFn != nil {
		return f.SetNXFn(ctx, key, value, ttl)
	}
	panic("unexpected SetNX")
}

// GetDel 執行 Fake 設定或 panic
func (f *FakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.GetFn != nil {
		return f.GetFn(ctx, key)
	}
	panic("unexpected Get")
}

func (f *FakeCache) GetDel(ctx context.Context, key string) *redis.StringCmd {
	if f.GetDelFn != nil {
		return f.GetDelFn(ctx, key)
	}
	panic("unexpected GetDel")
}

// Exists 執行 Fake 設定或 panic
func (f *FakeCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.ExistsFn != nil {
		return f.ExistsFn(ctx, keys...)
	}
	panic("unexpected Exists")
}

// Ping 未設定時視為連線正常
func (f *FakeCache) Ping(ctx context.Context) *redis.StatusCmd {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	return redis.NewStatusResult("PONG", nil)
}

// Close 執行 Fake 設定或 no-op
func (f *FakeCache) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}

// MemoryCache 是以 map 實作的 FakeCache，過期時間以 now 判斷
// 僅供測試使用
func MemoryCache(now func() time.Time) *FakeCache {
	type entry struct {
		val     string
		expires time.Time
	}
	var mu sync.Mutex
	data := map[string]entry{}
	alive := func(k string) (entry, bool) {
		e, ok := data[k]
		if !ok {
			return entry{}, false
		}
		if !e.expires.IsZero() && !now().Before(e.expires) {
			delete(data, k)
			return entry{}, false
		}
		return e, true
	}
	expiry := func(ttl time.Duration) time.Time {
		if ttl <= 0 {
			return time.Time{}
		}
		return now().Add(ttl)
	}
	return &FakeCache{
		SetFn: func(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
			mu.Lock()
			defer mu.Unlock()
			data[key] = entry{val: toString(value), expires: expiry(ttl)}
			return redis.NewStatusResult("OK", nil)
		},
		SetNXFn: func(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := alive(key); ok {
				return redis.NewBoolResult(false, nil)
			}
			data[key] = entry{val: toString(value), expires: expiry(ttl)}
			return redis.NewBoolResult(true, nil)
		},
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			mu.Lock()
			defer mu.Unlock()
			e, ok := alive(key)
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(e.val, nil)
		},
		GetDelFn: func(_ context.Context, key string) *redis.StringCmd {
			mu.Lock()
			defer mu.Unlock()
			e, ok := alive(key)
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			delete(data, key)
			return redis.NewStringResult(e.val, nil)
		},
		ExistsFn: func(_ context.Context, keys ...string) *redis.IntCmd {
			mu.Lock()
			defer mu.Unlock()
			var n int64
			for _, k := range keys {
				if _, ok := alive(k); ok {
					n++
				}
			}
			return redis.NewIntResult(n, nil)
		},
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}
