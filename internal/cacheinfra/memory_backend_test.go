package cacheinfra

import (
	"bytes"
	"context"
	"testing"
)

func newTestMemoryBackend(t *testing.T) *MemoryBackend {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Capacity = 100
	cfg.NumShards = 4
	backend, err := NewMemoryBackend(cfg)
	if err != nil {
		t.Fatalf("failed to create memory backend: %v", err)
	}
	return backend
}

func TestNewMemoryBackend_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 0
	if _, err := NewMemoryBackend(cfg); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestMemoryBackend_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	backend := newTestMemoryBackend(t)

	if _, ok, err := backend.Get(ctx, "volunteers:id:1"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := backend.Set(ctx, "volunteers:id:1", []byte("payload"), 0); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	value, ok, err := backend.Get(ctx, "volunteers:id:1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(value, []byte("payload")) {
		t.Errorf("unexpected value %q", value)
	}

	if err := backend.Delete(ctx, "volunteers:id:1", "volunteers:id:404"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "volunteers:id:1"); ok {
		t.Error("expected key to be gone after delete")
	}
}

func TestMemoryBackend_DeleteAllKeepsOtherNamespaces(t *testing.T) {
	ctx := context.Background()
	backend := newTestMemoryBackend(t)

	_ = backend.Set(ctx, "volunteers:id:1", []byte("a"), 0)
	_ = backend.Set(ctx, "volunteers:active-list", []byte("b"), 0)
	_ = backend.Set(ctx, "skills:name:cooking", []byte("c"), 0)

	if err := backend.DeleteAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, _ := backend.Get(ctx, "volunteers:id:1"); ok {
		t.Error("expected namespaced key to be removed")
	}
	if _, ok, _ := backend.Get(ctx, "volunteers:active-list"); ok {
		t.Error("expected namespaced key to be removed")
	}
	if _, ok, _ := backend.Get(ctx, "skills:name:cooking"); !ok {
		t.Error("expected key outside the namespace to survive")
	}
	if backend.Size() != 1 {
		t.Errorf("expected 1 remaining entry, got %d", backend.Size())
	}
}
