package middleware

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/shopping/internal/core/logger"
)

// RequestObserver receives one call per finished request.
type RequestObserver interface {
	ObserveRequest(route, method string, status int, duration time.Duration)
}

const maxResponseBodySize = 64 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if w.body.Len()+len(b) <= maxResponseBodySize {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseBodyWriter) WriteString(s string) (int, error) {
	if w.body.Len()+len(s) <= maxResponseBodySize {
		w.body.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

func levelForStatus(status int) logger.LogLevel {
	switch {
	case status >= 500:
		return logger.LogLevelError
	case status >= 400:
		return logger.LogLevelWarn
	default:
		return logger.LogLevelInfo
	}
}

func logHTTPRequest(ctx context.Context, c *gin.Context, body *bytes.Buffer, duration time.Duration) {
	status := c.Writer.Status()
	attrs := map[string]any{
		"http.method":      c.Request.Method,
		"http.path":        c.Request.URL.Path,
		"http.route":       c.FullPath(),
		"http.status_code": status,
		"http.duration_ms": duration.Milliseconds(),
		"http.client_ip":   c.ClientIP(),
	}

	if size, err := strconv.ParseInt(c.Request.Header.Get("Content-Length"), 10, 64); err == nil {
		attrs["http.request_size"] = size
	}
	if key := c.Request.Header.Get("Idempotency-Key"); key != "" {
		attrs["http.idempotency_key"] = key
	}

	// response bodies are only worth logging when something went wrong
	contentType := c.Writer.Header().Get("Content-Type")
	if status >= 400 && strings.Contains(contentType, "application/json") && body.Len() > 0 {
		attrs["http.response_body"] = body.String()
	}
	attrs["http.response_size"] = c.Writer.Size()

	logger.Log(ctx, logger.LogEntry{
		Level:      levelForStatus(status),
		Message:    "HTTP Request",
		Attributes: attrs,
	})
}

// LogRequest logs every request and reports it to observer when one is set.
func LogRequest(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		buf := bufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer bufferPool.Put(buf)
		c.Writer = &responseBodyWriter{ResponseWriter: c.Writer, body: buf}

		c.Next()

		duration := time.Since(start)
		logHTTPRequest(c.Request.Context(), c, buf, duration)
		if observer != nil {
			observer.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), duration)
		}
	}
}
