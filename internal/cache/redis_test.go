package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/pkg/uid"
)

// Runs only against a live server: REDIS_ADDR=localhost:6379 go test ./internal/cache
func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	c, err := NewRedisCache(RedisConfig{Addr: addr, KeyPrefix: "storefront-test:" + uid.Short(8)})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "session", []byte(`{"username":"a"}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "session")
	if err != nil || string(got) != `{"username":"a"}` {
		t.Fatalf("get = %q, %v", got, err)
	}
	if err := c.Delete(ctx, "session"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "session"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
}
