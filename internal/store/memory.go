package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/serroba/shorturl/internal/shortener"
)

// MemoryStore is an in-memory, append-only implementation of shortener.Repository.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[shortener.ID]*shortener.ShortURL
	byOriginal map[string]shortener.ID
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[shortener.ID]*shortener.ShortURL),
		byOriginal: make(map[string]shortener.ID),
	}
}

func (m *MemoryStore) Insert(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[shortURL.ID]; ok {
		return fmt.Errorf("short url %d already exists", shortURL.ID)
	}

	entry := *shortURL
	m.byID[entry.ID] = &entry

	// First entry wins, matching a linear scan in insertion order.
	if _, ok := m.byOriginal[entry.OriginalURL]; !ok {
		m.byOriginal[entry.OriginalURL] = entry.ID
	}

	return nil
}

func (m *MemoryStore) FindByID(_ context.Context, id shortener.ID) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.byID[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	found := *entry

	return &found, nil
}

func (m *MemoryStore) FindByOriginal(_ context.Context, originalURL string) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byOriginal[originalURL]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	found := *m.byID[id]

	return &found, nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.byID)
}

// Ping reports the store as reachable; it lives in process memory.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
