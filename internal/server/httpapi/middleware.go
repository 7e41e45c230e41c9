package httpapi

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/s3drop/internal/common"
	"github.com/dmitrijs2005/s3drop/internal/logging"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(common.RequestIDHeaderName)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(common.RequestIDHeaderName, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func Recovery(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error(r.Context(), "panic in handler",
						"error", err,
						"request_id", RequestIDFromContext(r.Context()),
						"stack", string(debug.Stack()))
					writeError(w, http.StatusInternalServerError, "Internal server error", common.ErrorInternal.Error())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := RequestIDFromContext(r.Context())
			logger.Info(r.Context(), "request started", "method", r.Method, "path", r.URL.Path, "request_id", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info(r.Context(), "request finished",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"request_id", requestID,
				"duration", time.Since(start))
		})
	}
}

// NewRouter wraps the upload handler with the request-id, logging and
// recovery middleware, outermost first.
func NewRouter(h *Handler, logger logging.Logger) http.Handler {
	var out http.Handler = h
	out = Recovery(logger)(out)
	out = Logging(logger)(out)
	out = RequestID(out)
	return out
}
