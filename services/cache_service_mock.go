package services

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockCacheService is an in-memory CacheService for testing
type MockCacheService struct {
	entries map[string]mockCacheEntry
	mu      sync.RWMutex
}

type mockCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMockCacheService creates a new mock cache service
func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		entries: make(map[string]mockCacheEntry),
	}
}

// SetAsMockForTesting sets this mock as the global cache service instance
func (m *MockCacheService) SetAsMockForTesting() {
	SetCacheService(m)
}

// Get fetches a cached value, honoring expiry.
func (m *MockCacheService) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value with the given TTL.
func (m *MockCacheService) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = mockCacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes the given keys.
func (m *MockCacheService) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// DeletePrefix removes every key with the given prefix.
func (m *MockCacheService) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

// Len returns the number of live entries (for testing assertions)
func (m *MockCacheService) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
