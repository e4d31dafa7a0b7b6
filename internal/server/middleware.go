package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/assetd/internal/models"
	"github.com/desertthunder/assetd/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	HeaderRequestID = "X-Request-ID"

	bodyTooManyRequests = "429: Too Many Requests"
	bodyServerError     = "500: Internal Server Error"
)

type requestIDKey struct{}

// RequestIDFrom returns the id stored by [RequestID], or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID reuses a well-formed incoming X-Request-ID or generates one, and echoes it on the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if _, err := uuid.Parse(id); err != nil {
				id = shared.GenerateID()
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// statusRecorder captures the status and byte count written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(p)
	s.bytes += int64(n)
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// AccessLog logs "<METHOD> <raw-url> -> <status>" after every response and hands a record to rec.
//
// rec may be nil. Access lines go through a child of logger pinned at INFO, so a
// configured level of warn or above cannot suppress them.
func AccessLog(logger *log.Logger, rec AccessRecorder) Middleware {
	access := accessLogger(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			if sw.status == 0 {
				sw.status = http.StatusOK
			}

			record := models.AccessRecord{
				Method:     r.Method,
				URL:        r.RequestURI,
				Status:     sw.status,
				Bytes:      sw.bytes,
				Duration:   time.Since(start),
				RemoteAddr: r.RemoteAddr,
				RequestID:  RequestIDFrom(r.Context()),
				CreatedAt:  start,
			}
			if record.URL == "" {
				record.URL = r.URL.RequestURI()
			}

			access.Info(record.Line(), "id", record.RequestID, "bytes", record.Bytes, "duration", record.Duration)

			if rec != nil {
				rec.Record(record)
			}
		})
	}
}

func accessLogger(logger *log.Logger) *log.Logger {
	if logger == nil {
		return shared.DiscardLogger()
	}
	child := logger.With()
	child.SetLevel(log.InfoLevel)
	return child
}

// Recover answers a panicking handler with a 500 when nothing has been written yet.
func Recover(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw, ok := w.(*statusRecorder)
			if !ok {
				sw = &statusRecorder{ResponseWriter: w}
			}

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("handler panic", "path", r.URL.Path, "panic", v)
				if sw.status == 0 {
					sw.Header().Set("Content-Type", "text/plain")
					sw.WriteHeader(http.StatusInternalServerError)
					sw.Write([]byte(bodyServerError))
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// RateLimit rejects requests with 429 once limiter runs dry. A nil limiter disables the check.
func RateLimit(limiter *rate.Limiter, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Debug(shared.ErrRateLimited.Error(), "path", r.URL.Path, "remote", r.RemoteAddr)
				w.Header().Set("Content-Type", "text/plain")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(bodyTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewLimiter builds a limiter from config, or nil when limiting is disabled.
func NewLimiter(cfg shared.ServerConfig) *rate.Limiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
}
