package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/emilythestrangee/devflow/backend/internal/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, echoed in the X-Request-Id
// header and attached to the request context for logging. An incoming
// header wins, then the trace id of an active span, then a fresh ULID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
				requestID = sc.TraceID().String()
			} else {
				requestID = ulid.Make().String()
			}
		}

		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
