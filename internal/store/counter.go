package store

import (
	"context"
	"sync/atomic"

	"github.com/serroba/shorturl/internal/shortener"
)

// Counter is a process-wide allocator starting at 1.
type Counter struct {
	last atomic.Int64
}

// NewCounter creates a counter whose first Next returns 1.
func NewCounter() *Counter {
	return &Counter{}
}

// Next returns the current value and advances the counter.
func (c *Counter) Next(_ context.Context) (shortener.ID, error) {
	return shortener.ID(c.last.Add(1)), nil
}

// Compile-time check.
var _ shortener.Allocator = (*Counter)(nil)
