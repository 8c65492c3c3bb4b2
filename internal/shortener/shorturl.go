package shortener

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/serroba/shorturl/internal/validate"
)

var (
	// ErrNotFound is returned when no entry matches a lookup.
	ErrNotFound = errors.New("short url not found")
	// ErrInvalidURL is returned for any URL that fails validation.
	ErrInvalidURL = validate.ErrInvalidURL
)

// ID is the sequential numeric identifier of a short URL.
type ID int64

// ParseID parses a path segment into an ID. Anything that is not a positive
// base-10 integer yields ErrNotFound, since no entry could ever match it.
func ParseID(raw string) (ID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, ErrNotFound
	}

	return ID(n), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ShortURL represents a shortened URL entity.
type ShortURL struct {
	ID          ID
	OriginalURL string
	CreatedAt   time.Time
}

// Repository stores ShortURL entries. It is append-only.
type Repository interface {
	FindByID(ctx context.Context, id ID) (*ShortURL, error)
	FindByOriginal(ctx context.Context, originalURL string) (*ShortURL, error)

	// Insert appends an entry. Callers must have checked FindByOriginal first.
	Insert(ctx context.Context, shortURL *ShortURL) error
}

// Allocator hands out identifiers for new entries.
type Allocator interface {
	Next(ctx context.Context) (ID, error)
}
