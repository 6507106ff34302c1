package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aq2208/gshop-api/internal/logging"
)

const (
	RequestIDHeader = "X-Request-Id"

	maxBody    = 1 << 20 // requests above this are cut off for handlers too
	logBodyCap = 4 << 10
	redacted   = "***redacted***"
)

// Checkout posts card fields; login posts the password.
var sensitiveKeys = map[string]bool{
	"password":      true,
	"authorization": true,
	"access_token":  true,
	"token":         true,
	"secret":        true,
	"cardnumber":    true,
	"cvv":           true,
	"expirydate":    true,
}

// errorBodyWriter keeps the start of the response so failed requests can log
// the error code the client saw.
type errorBodyWriter struct {
	gin.ResponseWriter
	head bytes.Buffer
}

func (w *errorBodyWriter) Write(b []byte) (int, error) {
	if room := logBodyCap - w.head.Len(); room > 0 {
		w.head.Write(b[:min(len(b), room)])
	}
	return w.ResponseWriter.Write(b)
}

func redactJSON(raw []byte) []byte {
	var doc any
	if len(raw) == 0 || json.Unmarshal(raw, &doc) != nil {
		return raw
	}
	scrubValue(doc)
	out, err := json.Marshal(doc)
	if err != nil {
		return raw
	}
	return out
}

func scrubValue(v any) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if sensitiveKeys[strings.ToLower(k)] {
				node[k] = redacted
				continue
			}
			scrubValue(child)
		}
	case []any:
		for _, child := range node {
			scrubValue(child)
		}
	}
}

func clip(b []byte) string {
	if len(b) > logBodyCap {
		return string(b[:logBodyCap]) + "...truncated..."
	}
	return string(b)
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}

// Logging writes one line per request and scopes a logger carrying the
// request id and cart session to the request context. JSON bodies are logged
// with sensitive fields masked; handlers still read the original bytes.
func Logging(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		l := base.With("req_id", reqID, "session", SessionID(c))
		logging.With(c, l)

		var reqBody string
		if c.Request.Body != nil && isJSON(c.ContentType()) {
			raw, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
			_ = c.Request.Body.Close()
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			reqBody = clip(redactJSON(raw))
		}

		w := &errorBodyWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}
		if reqBody != "" {
			attrs = append(attrs, slog.String("req_body", reqBody))
		}
		if status >= http.StatusBadRequest && isJSON(c.Writer.Header().Get("Content-Type")) {
			attrs = append(attrs, slog.String("resp_body", clip(redactJSON(w.head.Bytes()))))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		l.LogAttrs(c.Request.Context(), level, "http_request", attrs...)
	}
}
