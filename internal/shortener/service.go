package shortener

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/serroba/shorturl/internal/validate"
	"go.uber.org/zap"
)

// Validator checks a submitted URL before it is stored.
type Validator interface {
	Validate(ctx context.Context, candidate string) (*validate.ParsedURL, error)
}

// Service orchestrates validation, de-duplication and allocation.
type Service struct {
	// mu serializes find-or-insert so one original URL never gets two ids.
	mu        sync.Mutex
	validator Validator
	store     Repository
	allocator Allocator
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new shortener service.
func NewService(validator Validator, store Repository, allocator Allocator, logger *zap.Logger) *Service {
	return &Service{
		validator: validator,
		store:     store,
		allocator: allocator,
		logger:    logger,
		now:       time.Now,
	}
}

// Shorten validates candidate and returns its entry, creating one if the URL
// was never seen. created reports whether a new identifier was allocated.
func (s *Service) Shorten(ctx context.Context, candidate string) (shortURL *ShortURL, created bool, err error) {
	parsed, err := s.validator.Validate(ctx, candidate)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.FindByOriginal(ctx, parsed.Raw)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("find by original: %w", err)
	}

	id, err := s.allocator.Next(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("allocate id: %w", err)
	}

	shortURL = &ShortURL{
		ID:          id,
		OriginalURL: parsed.Raw,
		CreatedAt:   s.now(),
	}

	if err = s.store.Insert(ctx, shortURL); err != nil {
		return nil, false, fmt.Errorf("insert: %w", err)
	}

	s.logger.Info("url stored",
		zap.Int64("shortUrl", int64(shortURL.ID)),
		zap.String("originalUrl", shortURL.OriginalURL),
	)

	return shortURL, true, nil
}

// Resolve looks up the entry for a raw path identifier. Non-numeric input is
// reported as ErrNotFound.
func (s *Service) Resolve(ctx context.Context, rawID string) (*ShortURL, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	return s.store.FindByID(ctx, id)
}
