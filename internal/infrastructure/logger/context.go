package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	tenantIDKey  contextKey = "tenant_id"
	userIDKey    contextKey = "user_id"
)

// WithContext attaches the logger to the context
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger attached to the context. Code running
// outside a request gets a no-op logger rather than a nil check.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// tag stores the value under key and attaches a logger enriched with the
// same field, so later FromContext calls carry it automatically
func tag(ctx context.Context, log *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	enriched := log.With(zap.String(string(key), value))
	return WithContext(ctx, enriched), enriched
}

// WithRequestID tags the context and logger with the request id
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, requestIDKey, requestID)
}

// WithTenantID tags the context and logger with the active tenant
func WithTenantID(ctx context.Context, log *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, tenantIDKey, tenantID)
}

// WithUserID tags the context and logger with the authenticated account
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, userIDKey, userID)
}

// GetRequestID returns the request id from the context, or ""
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// GetTenantID returns the tenant id from the context, or ""
func GetTenantID(ctx context.Context) string {
	return stringValue(ctx, tenantIDKey)
}

// GetUserID returns the user id from the context, or ""
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, userIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
