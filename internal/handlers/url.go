package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/ajg/form"
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturl/internal/analytics"
	"github.com/serroba/shorturl/internal/messaging"
	"github.com/serroba/shorturl/internal/metrics"
	"github.com/serroba/shorturl/internal/shortener"
	"go.uber.org/zap"
)

// Shortener is the domain service behind the URL endpoints.
type Shortener interface {
	Shorten(ctx context.Context, candidate string) (*shortener.ShortURL, bool, error)
	Resolve(ctx context.Context, rawID string) (*shortener.ShortURL, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	shortener  Shortener
	publishers analytics.Publishers
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	svc Shortener,
	publishers analytics.Publishers,
	m *metrics.Metrics,
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		shortener:  svc,
		publishers: publishers,
		metrics:    m,
		logger:     logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	input, err := decodeShortenInput(req.ContentType, req.Payload)
	if err != nil {
		h.logger.Debug("failed to decode body", zap.String("contentType", req.ContentType), zap.Error(err))

		return h.invalidURL(), nil
	}

	h.logger.Info("received url", zap.String("url", input.URL))

	if input.URL == "" {
		return h.invalidURL(), nil
	}

	shortURL, created, err := h.shortener.Shorten(ctx, input.URL)
	if err != nil {
		if errors.Is(err, shortener.ErrInvalidURL) {
			return h.invalidURL(), nil
		}

		h.logger.Error("failed to shorten url", zap.String("url", input.URL), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save url")
	}

	if created {
		h.metrics.URLsShortenedTotal.Inc()
		h.publishCreated(ctx, shortURL)
	} else {
		h.metrics.URLsDeduplicatedTotal.Inc()
	}

	resp := &CreateShortURLResponse{}
	resp.Body.OriginalURL = shortURL.OriginalURL
	resp.Body.ShortURL = int64(shortURL.ID)

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	shortURL, err := h.shortener.Resolve(ctx, req.ShortURL)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			h.logger.Info("short url not found", zap.String("shortUrl", req.ShortURL))
			h.metrics.NotFoundTotal.Inc()

			return notFound(), nil
		}

		h.logger.Error("failed to resolve short url", zap.String("shortUrl", req.ShortURL), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	h.metrics.RedirectsTotal.Inc()
	h.publishAccessed(ctx, shortURL)

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Location = shortURL.OriginalURL

	return resp, nil
}

func (h *URLHandler) invalidURL() *CreateShortURLResponse {
	h.metrics.InvalidURLsTotal.Inc()

	resp := &CreateShortURLResponse{}
	resp.Body.Error = ErrMsgInvalidURL

	return resp
}

// notFoundBody is pre-encoded because the redirect output type also carries
// bodiless 302s.
var notFoundBody = []byte(`{"error":"` + ErrMsgNotFound + `"}`)

func notFound() *RedirectResponse {
	return &RedirectResponse{
		Status:      http.StatusOK,
		ContentType: "application/json",
		Body:        notFoundBody,
	}
}

func (h *URLHandler) publishCreated(ctx context.Context, shortURL *shortener.ShortURL) {
	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLCreatedEvent{
		ShortURL:    int64(shortURL.ID),
		OriginalURL: shortURL.OriginalURL,
		CreatedAt:   shortURL.CreatedAt,
		RequestID:   meta.RequestID,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishers.URLCreated(messaging.WithCorrelationID(ctx, meta.RequestID), event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.Int64("shortUrl", event.ShortURL),
			zap.Error(err),
		)
	}
}

func (h *URLHandler) publishAccessed(ctx context.Context, shortURL *shortener.ShortURL) {
	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		ShortURL:    int64(shortURL.ID),
		OriginalURL: shortURL.OriginalURL,
		AccessedAt:  time.Now(),
		RequestID:   meta.RequestID,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
		Referrer:    meta.Referrer,
	}

	if err := h.publishers.URLAccessed(messaging.WithCorrelationID(ctx, meta.RequestID), event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.Int64("shortUrl", event.ShortURL),
			zap.Error(err),
		)
	}
}

// decodeShortenInput accepts JSON and form bodies. A missing content type
// is sniffed from the first byte.
func decodeShortenInput(contentType string, raw []byte) (*ShortenInput, error) {
	input := &ShortenInput{}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	isJSON := mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") ||
		(mediaType == "" && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")))

	if isJSON {
		if err = json.Unmarshal(raw, input); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}

		return input, nil
	}

	dec := form.NewDecoder(bytes.NewReader(raw))
	dec.IgnoreUnknownKeys(true)

	if err = dec.Decode(input); err != nil {
		return nil, fmt.Errorf("decode form body: %w", err)
	}

	return input, nil
}
