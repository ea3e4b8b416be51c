package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const (
	TraceIDKey    contextKey = "trace_id"
	TraceIDHeader            = "X-Trace-ID"
)

// TraceID takes the caller's X-Trace-ID or generates one, and exposes it on
// both the gin context and the request context.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(string(TraceIDKey), traceID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), TraceIDKey, traceID))
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}
