package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/territory/pkg/metrics"
)

// MetricsMiddleware records the request count and duration of next under
// endpoint. Failed requests are also counted by the error code the handler
// answered with, so no_dataset and not_found can be told apart on a dashboard.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		elapsed := float64(time.Since(start).Microseconds()) / 1000
		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(rec.status), elapsed)
		if rec.status < http.StatusBadRequest {
			return
		}
		code := rec.errCode
		if code == "" {
			code = fallbackCode(rec.status)
		}
		metrics.RecordErrorByComponent("http", code)
	}
}

// fallbackCode names failures written without writeError.
func fallbackCode(status int) string {
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "client_error"
}

// statusRecorder remembers the status and error code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	errCode string
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// noteErrorCode tags w with code when it passes through MetricsMiddleware.
func noteErrorCode(w http.ResponseWriter, code string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.errCode = code
	}
}
