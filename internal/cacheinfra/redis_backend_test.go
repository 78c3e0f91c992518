package cacheinfra

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set VOLUNTEERS_TEST_REDIS_ADDR to run these against a live server.
func newTestRedisBackend(t *testing.T) *RedisBackend {
	t.Helper()
	addr := os.Getenv("VOLUNTEERS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("VOLUNTEERS_TEST_REDIS_ADDR not set")
	}

	cfg := DefaultConfig()
	cfg.Namespace = "volunteers-test-" + time.Now().Format("150405.000000")
	rcfg := DefaultRedisConfig()
	rcfg.Addr = addr

	backend, err := NewRedisBackend(context.Background(), cfg, rcfg)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() {
		_ = backend.DeleteAll(context.Background())
		_ = backend.Close()
	})
	return backend
}

func TestNewRedisBackend_InvalidConfig(t *testing.T) {
	rcfg := DefaultRedisConfig()
	rcfg.Addr = ""
	if _, err := NewRedisBackend(context.Background(), DefaultConfig(), rcfg); err == nil {
		t.Fatal("expected error for missing address")
	}
}

func TestRedisBackend_RoundTrip(t *testing.T) {
	backend := newTestRedisBackend(t)
	ctx := context.Background()
	key := backend.prefix + "id:1"

	if _, ok, err := backend.Get(ctx, key); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := backend.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	value, ok, err := backend.Get(ctx, key)
	if err != nil || !ok || string(value) != "payload" {
		t.Fatalf("expected payload, got %q ok=%v err=%v", value, ok, err)
	}

	if err := backend.DeleteAll(ctx); err != nil {
		t.Fatalf("unexpected delete all error: %v", err)
	}
	if _, ok, _ := backend.Get(ctx, key); ok {
		t.Error("expected key to be removed by DeleteAll")
	}
}
