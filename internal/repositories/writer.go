package repositories

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/assetd/internal/models"
	"github.com/desertthunder/assetd/internal/shared"
)

const writeTimeout = 2 * time.Second

// AccessLogWriter queues records for a single background goroutine that stores them.
//
// It implements server.AccessRecorder.
type AccessLogWriter struct {
	repo    *AccessLogRepository
	logger  *log.Logger
	queue   chan models.AccessRecord
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	written atomic.Int64
}

// NewAccessLogWriter starts the drain goroutine. buffer is the queue capacity.
func NewAccessLogWriter(repo *AccessLogRepository, buffer int, logger *log.Logger) *AccessLogWriter {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	w := &AccessLogWriter{
		repo:   repo,
		logger: logger,
		queue:  make(chan models.AccessRecord, buffer),
		done:   make(chan struct{}),
	}
	go w.drain()
	return w
}

// Record enqueues rec, dropping it when the queue is full or the writer is closed.
func (w *AccessLogWriter) Record(rec models.AccessRecord) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.dropped.Add(1)
		return
	}

	select {
	case w.queue <- rec:
	default:
		w.dropped.Add(1)
	}
}

func (w *AccessLogWriter) drain() {
	defer close(w.done)
	for rec := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := w.repo.Create(ctx, &rec); err != nil {
			w.logger.Warn("failed to store access record", "url", rec.URL, "error", err)
		} else {
			w.written.Add(1)
		}
		cancel()
	}
}

// Close stops accepting records and waits until the queue is flushed.
func (w *AccessLogWriter) Close() error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.queue)
		w.mu.Unlock()
	})
	<-w.done

	if n := w.dropped.Load(); n > 0 {
		w.logger.Warn("access records dropped", "count", n)
	}
	return nil
}

// Dropped returns how many records were discarded.
func (w *AccessLogWriter) Dropped() int64 { return w.dropped.Load() }

// Written returns how many records were stored.
func (w *AccessLogWriter) Written() int64 { return w.written.Load() }
