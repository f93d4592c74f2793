/*
Package tracing provides lightweight request tracing for the desktop API.

Every HTTP request and WebSocket connection gets a span. Trace ids are
request ULIDs (req_...) and travel in the X-Trace-ID / X-Span-ID headers,
so deskctl can tie its calls to server log lines.

# Usage

	tracer := tracing.New("deskfolio", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "ws.stream")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

Completed spans are logged by a collector goroutine reading a 1000-span
buffer; spans submitted while the buffer is full are dropped with a warning.
*/
package tracing
