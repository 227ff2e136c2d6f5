// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type logCtxKey struct{}

// Bodies longer than this are cut in debug logs.
const maxLoggedBody = 2048

// Header values replaced with a placeholder in debug logs (lower-case names).
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
}

// JSON fields whose values never reach the logs.
var sensitiveFields = map[string]bool{
	"senha":    true,
	"password": true,
	"token":    true,
}

// LoggingMiddleware puts a request-scoped logger (tagged with chi's request id)
// into the context and writes one start line and one completion line per request.
// The completion line carries the matched chi route pattern so that /niveis/4 and
// /niveis/9 group together. Bodies and headers are only logged at debug level.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(slog.String("req_id", chimiddleware.GetReqID(r.Context())))
			ctx := WithLogger(r.Context(), requestLogger)
			r = r.WithContext(ctx)

			requestLogger.Info("Request started", requestAttrs(r))

			debug := logger.Enabled(ctx, slog.LevelDebug)
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var reqBody []byte
			var respBody bytes.Buffer
			if debug {
				if r.Body != nil {
					reqBody, _ = io.ReadAll(r.Body)
					r.Body = io.NopCloser(bytes.NewReader(reqBody))
				}
				ww.Tee(&respBody)
			}

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			requestLogger.Log(ctx, levelForStatus(status), "Request completed",
				slog.Group("http",
					slog.Int("status", status),
					slog.String("route", routePattern(r)),
					slog.Int("bytes_out", ww.BytesWritten()),
				),
				slog.Float64("latency_ms", float64(time.Since(startTime).Microseconds())/1e3),
			)

			if debug {
				requestLogger.Debug("Request detail",
					slog.Any("headers", formatHeaders(r.Header)),
					slog.String("body", maskBody(string(reqBody))),
				)
				requestLogger.Debug("Response detail",
					slog.Int("status", status),
					slog.Any("headers", formatHeaders(ww.Header())),
					slog.String("body", maskBody(respBody.String())),
				)
			}
		})
	}
}

func requestAttrs(r *http.Request) slog.Attr {
	return slog.Group("http",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("user_agent", r.UserAgent()),
	)
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// routePattern is only known after chi has routed the request.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// GetLogger returns the request logger stored by LoggingMiddleware, or slog.Default().
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger stores logger in ctx. Used by tests and background work.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, logger)
}

func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			result[key] = "[SENSITIVE]"
		} else {
			result[key] = strings.Join(values, ", ")
		}
	}
	return result
}

// maskBody replaces credential values in a JSON object body and truncates long
// bodies. A body that is not a JSON object but mentions a credential field is
// dropped entirely.
func maskBody(body string) string {
	if body == "" {
		return body
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err == nil {
		masked := false
		for key := range fields {
			if sensitiveFields[strings.ToLower(key)] {
				fields[key] = json.RawMessage(`"[SENSITIVE]"`)
				masked = true
			}
		}
		if masked {
			if out, err := json.Marshal(fields); err == nil {
				body = string(out)
			}
		}
	} else {
		lower := strings.ToLower(body)
		for key := range sensitiveFields {
			if strings.Contains(lower, `"`+key+`"`) {
				return "[BODY CONTAINS CREDENTIALS]"
			}
		}
	}

	if len(body) > maxLoggedBody {
		return body[:maxLoggedBody] + "...(truncated)"
	}
	return body
}
