package response

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "requestLogger"

// RequestIDHeader carries the request id back to the caller
const RequestIDHeader = "X-Request-ID"

// Logger returns the request scoped logger stored by RequestLogger, or fallback
func Logger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

// WithLogger stores logger in ctx
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// RequestLogger returns a http middleware tagging each request with an id and a child logger
func RequestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With(
				zap.String("RequestID", requestID),
				zap.String("Method", r.Method),
				zap.String("Path", r.URL.Path),
			)
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), reqLogger)))
			reqLogger.Debug("Request served",
				zap.Duration("Duration", time.Since(start)),
			)
		})
	}
}
