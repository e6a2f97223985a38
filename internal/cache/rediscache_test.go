package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisCache("redis://"+mr.Addr(), "test:report")
}

func TestRedisCachePutGet(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "wheels/requests.whl"); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	if err := c.Put(ctx, "wheels/requests.whl", []byte(`{"key":"wheels/requests.whl"}`), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, ok, err := c.Get(ctx, "wheels/requests.whl")
	if err != nil || !ok {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if string(data) != `{"key":"wheels/requests.whl"}` {
		t.Fatalf("data=%q", data)
	}
}

func TestRedisCacheKeysPrefixed(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCache("redis://"+mr.Addr(), "test:report")
	if err := c.Put(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !mr.Exists("test:report:k") {
		t.Fatalf("expected prefixed key, have %v", mr.Keys())
	}
}

func TestRedisCacheUnconfigured(t *testing.T) {
	c := NewRedisCache("", "")
	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error from unconfigured cache")
	}
	if err := c.Put(context.Background(), "k", nil, 0); err == nil {
		t.Fatalf("expected error from unconfigured cache")
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	var c Cache = NullCache{}
	if err := c.Put(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "k"); err != nil || ok {
		t.Fatalf("NullCache hit: ok=%v err=%v", ok, err)
	}
}
