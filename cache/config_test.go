package cache

import (
	"context"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Backend != BackendMemory {
		t.Errorf("expected memory backend by default, got %q", cfg.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "memory", mutate: func(c *Config) {}},
		{name: "none ignores sizing", mutate: func(c *Config) { c.Backend = BackendNone; c.Capacity = 0 }},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "memcached" }, wantErr: true},
		{name: "memory with zero ttl", mutate: func(c *Config) { c.TTL = 0 }, wantErr: true},
		{name: "redis without address", mutate: func(c *Config) { c.Backend = BackendRedis; c.Redis.Addr = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewCacheService(t *testing.T) {
	ctx := context.Background()

	svc, err := NewCacheService(ctx, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Enabled() {
		t.Error("expected memory backed service to be enabled")
	}

	cfg := DefaultConfig()
	cfg.Backend = BackendNone
	svc, err = NewCacheService(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Enabled() {
		t.Error("expected none backend to yield a disabled service")
	}

	cfg = DefaultConfig()
	cfg.Capacity = -1
	if _, err := NewCacheService(ctx, cfg, nil); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}
