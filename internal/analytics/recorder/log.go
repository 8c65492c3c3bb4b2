package recorder

import (
	"context"

	"github.com/serroba/shorturl/internal/analytics"
	"go.uber.org/zap"
)

// Log is an analytics.Recorder that writes events to the structured log.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a new log-backed analytics recorder.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) RecordURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	l.logger.Info("url created event received",
		zap.Int64("shortUrl", event.ShortURL),
		zap.String("originalUrl", event.OriginalURL),
		zap.Time("createdAt", event.CreatedAt),
		zap.String("requestId", event.RequestID),
		zap.String("clientIp", event.ClientIP),
	)

	return nil
}

func (l *Log) RecordURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	l.logger.Info("url accessed event received",
		zap.Int64("shortUrl", event.ShortURL),
		zap.String("originalUrl", event.OriginalURL),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("requestId", event.RequestID),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// Compile-time check.
var _ analytics.Recorder = (*Log)(nil)
