package catalogd

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs each request and records its metrics.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			took := time.Since(start)
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			requestDuration.WithLabelValues(route).Observe(took.Seconds())

			logger.Info("http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", rec.status,
				"remote", r.RemoteAddr,
				"took", took,
			)
		})
	}
}

// CORS allows the catalog API to be called from browser pages.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if strings.ToUpper(r.Method) == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
