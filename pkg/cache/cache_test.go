package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestMemory(t *testing.T, opts ...MemoryOption) (*MemoryCache, *clock) {
	t.Helper()
	mc := NewMemoryCache(opts...)
	clk := &clock{t: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	mc.now = clk.now
	t.Cleanup(func() { _ = mc.Close() })
	return mc, clk
}

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t)

	_, err := mc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value := []byte(`{"a":1}`)
	require.NoError(t, mc.Set(ctx, "k", value, time.Minute))
	value[0] = 'x'

	got, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, mc.Delete(ctx, "k"))
	_, err = mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestMemory(t)

	require.NoError(t, mc.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, mc.Set(ctx, "default", []byte("2"), 0))

	clk.t = clk.t.Add(2 * time.Second)
	_, err := mc.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = mc.Get(ctx, "default")
	assert.NoError(t, err)

	clk.t = clk.t.Add(2 * time.Hour)
	mc.removeExpired()
	assert.Zero(t, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestMemory(t, WithMemoryMaxSize(2))

	require.NoError(t, mc.Set(ctx, "a", []byte("a"), time.Hour))
	clk.t = clk.t.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", []byte("b"), time.Hour))
	clk.t = clk.t.Add(time.Second)
	_, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	clk.t = clk.t.Add(time.Second)

	require.NoError(t, mc.Set(ctx, "c", []byte("c"), time.Hour))

	assert.Equal(t, 2, mc.Len())
	_, err = mc.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestLayeredCacheReadsThrough(t *testing.T) {
	ctx := context.Background()
	remote, _ := newTestMemory(t)
	lc := NewLayeredCache(remote, WithLayeredMemorySize(10), WithLayeredMemoryTTL(time.Minute))

	require.NoError(t, remote.Set(ctx, "k", []byte("v"), time.Hour))
	got, err := lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	// served from L1 after the remote copy is gone
	require.NoError(t, remote.Delete(ctx, "k"))
	got, err = lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	require.NoError(t, lc.Delete(ctx, "k"))
	_, err = lc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, lc.Set(ctx, "w", []byte("x"), time.Hour))
	got, err = remote.Get(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))

	assert.NoError(t, lc.Close())
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t)

	type payload struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}
	require.NoError(t, SetJSON(ctx, mc, "p", payload{Name: "hl", Value: 1.5}, time.Minute))

	got, err := GetJSON[payload](ctx, mc, "p")
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "hl", Value: 1.5}, got)

	require.NoError(t, mc.Set(ctx, "bad", []byte("{"), time.Minute))
	_, err = GetJSON[payload](ctx, mc, "bad")
	assert.Error(t, err)

	_, err = GetJSON[payload](ctx, Noop{}, "p")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "pair:hurst:abc", GenerateKey("pair:hurst", "abc"))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", HashKey([]byte("abc")))
}

func TestRedisConfigAndKeys(t *testing.T) {
	cfg := defaultRedisConfig()
	WithRedisAddr("cache:6380")(cfg)
	WithRedisDB(3)(cfg)
	WithRedisPool(4, 1, time.Second)(cfg)
	opts := cfg.options()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	rc := NewRedisCacheFromClient(client, "pairlink")
	defer rc.Close()

	assert.Equal(t, "pairlink:pair:abc", rc.wrapKey("pair:abc"))
	assert.Equal(t, []string{"pairlink:a", "pairlink:b"}, rc.wrapKeys("a", "b"))
	assert.Equal(t, "k", NewRedisCacheFromClient(client, "").wrapKey("k"))

	_, err := rc.Get(context.Background(), "pair:abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
