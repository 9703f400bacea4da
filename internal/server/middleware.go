package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"weatherfetcher/internal/metrics"
)

// HeaderXRequestID is the request correlation header.
const HeaderXRequestID = "X-Request-Id"

// RequestID assigns each request an id, reusing the caller's if present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
			r.Header.Set(HeaderXRequestID, reqID)
		}
		w.Header().Set(HeaderXRequestID, reqID)

		next.ServeHTTP(w, r)
	})
}

func requestIDFrom(r *http.Request) string {
	return r.Header.Get(HeaderXRequestID)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// AccessLog logs each served request and feeds the HTTP metrics.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(r.Method, r.URL.Path, sw.status, elapsed)

		zlog.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Int("bytes", sw.bytes).
			Dur("latency", elapsed).
			Str("remote_ip", r.RemoteAddr).
			Str("request_id", requestIDFrom(r)).
			Msg("http_request")
	})
}
