package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type entry struct {
	URL string `json:"url"`
}

func TestCacheRoundTrip(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	c := New(client, "image", time.Minute)
	ctx := context.Background()

	var got entry
	found, err := c.Get(ctx, "paris", &got)
	if err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := c.Set(ctx, "paris", entry{URL: "https://img/paris.jpg"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !s.Exists("image:paris") {
		t.Fatalf("expected prefixed key in redis")
	}
	if ttl := s.TTL("image:paris"); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}

	found, err = c.Get(ctx, "paris", &got)
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if got.URL != "https://img/paris.jpg" {
		t.Fatalf("unexpected cached value %+v", got)
	}

	s.FastForward(2 * time.Minute)
	found, _ = c.Get(ctx, "paris", &got)
	if found {
		t.Fatalf("expected entry to expire")
	}
}

func TestCacheCorruptEntry(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	_ = s.Set("image:bad", "not-json")
	var got entry
	if _, err := New(client, "image", 0).Get(context.Background(), "bad", &got); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCacheWithoutRedis(t *testing.T) {
	c := New(nil, "image", time.Minute)
	var got entry
	found, err := c.Get(context.Background(), "x", &got)
	if found || err != nil {
		t.Fatalf("expected silent miss")
	}
	if err := c.Set(context.Background(), "x", entry{}); err != nil {
		t.Fatalf("expected silent set: %v", err)
	}

	var nilCache *Cache
	if found, _ := nilCache.Get(context.Background(), "x", &got); found {
		t.Fatalf("nil cache must miss")
	}
}
