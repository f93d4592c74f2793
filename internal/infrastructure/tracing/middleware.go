package tracing

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContextKey is the gin context key holding the request's trace id
const ContextKey = "trace_id"

// HTTPMiddleware creates Gin middleware for HTTP tracing
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID, parentID := Extract(c.Request.Header)
		ctx := WithTrace(c.Request.Context(), traceID, parentID)

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+name)
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.path", c.Request.URL.Path)
		if sid := c.Param("sid"); sid != "" {
			span.SetTag("session_id", sid)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextKey, string(span.TraceID))
		c.Header(HeaderTraceID, string(span.TraceID))
		c.Header(HeaderSpanID, string(span.SpanID))

		c.Next()

		status := c.Writer.Status()
		span.SetStatus(status)
		span.SetTag("http.status", strconv.Itoa(status))
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		} else if status >= http.StatusInternalServerError {
			span.SetError(fmt.Errorf("http status %d", status))
		}

		span.Finish()
		tracer.Submit(span)
	}
}
