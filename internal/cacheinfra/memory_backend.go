package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryBackend keeps encoded cache entries in an in-process sturdyc client.
type MemoryBackend struct {
	client *sturdyc.Client[[]byte]
	prefix string
}

// NewMemoryBackend validates cfg and creates a sturdyc client from it.
//
// Capacity, NumShards, TTL and EvictionPercentage are passed to sturdyc.New.
// Missing-record storage and early refreshes stay disabled: a miss is never
// remembered and entries are only replaced through explicit fills.
func NewMemoryBackend(cfg Config) (*MemoryBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &MemoryBackend{client: client, prefix: namespacePrefix(cfg.Namespace)}, nil
}

// ToSturdycOptions converts the optional parts of Config to sturdyc options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// Get returns the entry stored under key.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.client.Get(key)
	return value, ok, nil
}

// Set stores value under key. The client wide TTL applies; ttl is ignored.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.client.Set(key, value)
	return nil
}

// Delete removes the given keys.
func (m *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.client.Delete(key)
	}
	return nil
}

// DeleteAll removes every key under the backend namespace.
func (m *MemoryBackend) DeleteAll(_ context.Context) error {
	for _, key := range m.client.ScanKeys() {
		if strings.HasPrefix(key, m.prefix) {
			m.client.Delete(key)
		}
	}
	return nil
}

// Size reports the number of entries currently held.
func (m *MemoryBackend) Size() int {
	return m.client.Size()
}
