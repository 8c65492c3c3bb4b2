package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/serroba/shorturl/internal/shortener"
	"github.com/serroba/shorturl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Insert(t *testing.T) {
	t.Run("inserts entry successfully", func(t *testing.T) {
		s := store.NewMemoryStore()

		err := s.Insert(context.Background(), &shortener.ShortURL{ID: 1, OriginalURL: "https://example.com"})

		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), &shortener.ShortURL{ID: 1, OriginalURL: "https://example.com"})

		err := s.Insert(context.Background(), &shortener.ShortURL{ID: 1, OriginalURL: "https://other.com"})

		require.Error(t, err)

		found, _ := s.FindByID(context.Background(), 1)
		assert.Equal(t, "https://example.com", found.OriginalURL)
	})

	t.Run("keeps first entry for an original url", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), &shortener.ShortURL{ID: 1, OriginalURL: "https://example.com"})
		_ = s.Insert(context.Background(), &shortener.ShortURL{ID: 2, OriginalURL: "https://example.com"})

		found, err := s.FindByOriginal(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, shortener.ID(1), found.ID)
	})

	t.Run("stored entry is not affected by caller mutation", func(t *testing.T) {
		s := store.NewMemoryStore()
		entry := &shortener.ShortURL{ID: 1, OriginalURL: "https://example.com"}
		_ = s.Insert(context.Background(), entry)

		entry.OriginalURL = "https://mutated.com"

		found, _ := s.FindByID(context.Background(), 1)
		assert.Equal(t, "https://example.com", found.OriginalURL)
	})
}

func TestMemoryStore_FindByID(t *testing.T) {
	t.Run("returns entry when found", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), &shortener.ShortURL{ID: 7, OriginalURL: "https://example.com"})

		found, err := s.FindByID(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", found.OriginalURL)
	})

	t.Run("returns ErrNotFound when id does not exist", func(t *testing.T) {
		s := store.NewMemoryStore()

		found, err := s.FindByID(context.Background(), 999999)

		assert.Nil(t, found)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_FindByOriginal(t *testing.T) {
	t.Run("returns ErrNotFound for unknown url", func(t *testing.T) {
		s := store.NewMemoryStore()

		found, err := s.FindByOriginal(context.Background(), "https://example.com")

		assert.Nil(t, found)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("matches exact string only", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Insert(context.Background(), &shortener.ShortURL{ID: 1, OriginalURL: "https://example.com"})

		_, err := s.FindByOriginal(context.Background(), "https://example.com/")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_Ping(t *testing.T) {
	assert.NoError(t, store.NewMemoryStore().Ping(context.Background()))
}

func TestCounter_Next(t *testing.T) {
	t.Run("starts at one and increments by one", func(t *testing.T) {
		c := store.NewCounter()

		for want := shortener.ID(1); want <= 5; want++ {
			got, err := c.Next(context.Background())

			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("never repeats under concurrent use", func(t *testing.T) {
		c := store.NewCounter()

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[shortener.ID]bool)
		)

		for range 50 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				id, _ := c.Next(context.Background())

				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}()
		}

		wg.Wait()

		assert.Len(t, seen, 50)
	})
}
