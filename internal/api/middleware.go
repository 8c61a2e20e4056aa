package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/applyscore/applyscore/internal/metrics"
)

// CORS wraps an http.Handler with CORS headers for the given origins.
// An empty list allows any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument logs every request and records it in m, labelled by the
// matched route pattern.
func Instrument(logger *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			route := r.Pattern
			if route == "" || route == "/" {
				route = "unmatched"
			}
			m.ObserveRequest(route, rec.status, elapsed)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", elapsed),
			)
		})
	}
}

// Recover turns a panicking handler into a 500 response.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error("handler panic",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", v),
						zap.Stack("stack"),
					)
					writeError(w, http.StatusInternalServerError, codeInternal, "An unexpected error occurred")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
