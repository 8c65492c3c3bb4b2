package middleware

import (
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturl/internal/handlers"
	"github.com/serroba/shorturl/internal/metrics"
	"go.uber.org/zap"
)

// AccessLog logs every API request and records request metrics.
// It must run after RequestMeta to see the request ID.
func AccessLog(_ huma.API, m *metrics.Metrics, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		elapsed := time.Since(start)
		endpoint := operationPath(ctx)
		status := ctx.Status()

		m.HTTPRequestsTotal.WithLabelValues(ctx.Method(), endpoint, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(ctx.Method(), endpoint).Observe(elapsed.Seconds())

		meta := handlers.RequestMetaFromContext(ctx.Context())

		logger.Info("request",
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("requestId", meta.RequestID),
			zap.String("clientIp", meta.ClientIP),
		)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
