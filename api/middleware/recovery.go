package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"imageResizer/api/dto"
)

func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				traceID := GetTraceID(c.Request.Context())
				logger.Error("Panic recovered",
					zap.String("trace_id", traceID),
					zap.Any("error", err),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:   "Internal server error",
					TraceID: traceID,
				})
			}
		}()

		c.Next()
	}
}
