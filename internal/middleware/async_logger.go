package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/logger"
	"github.com/guttosm/fare-offer-service/internal/metrics"
	"github.com/guttosm/fare-offer-service/internal/service"
)

// AsyncLoggerConfig holds configuration for the async log sink.
type AsyncLoggerConfig struct {
	// BufferSize is the number of entries that can wait for a flush.
	BufferSize int
	// BatchSize triggers a flush once this many entries are pending.
	BatchSize int
	// FlushInterval flushes pending entries even when the batch is not full.
	FlushInterval time.Duration
	// WriteTimeout bounds each bulk write.
	WriteTimeout time.Duration
}

// DefaultAsyncLoggerConfig returns the defaults used by the application.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:    1000,
		BatchSize:     50,
		FlushInterval: 2 * time.Second,
		WriteTimeout:  5 * time.Second,
	}
}

// AsyncLoggerStats is a snapshot of sink counters.
type AsyncLoggerStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// AsyncLogger buffers request and audit log entries and writes them to
// MongoDB in batches from a single goroutine. When the buffer is full new
// entries are dropped; request handling never waits on the database.
//
// A nil *AsyncLogger is valid and discards everything.
type AsyncLogger struct {
	loggingService service.LoggingService
	entries        chan *model.LogEntry
	done           chan struct{}
	stopOnce       sync.Once
	stopped        atomic.Bool
	wg             sync.WaitGroup

	batchSize     int
	flushInterval time.Duration
	writeTimeout  time.Duration

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

// NewAsyncLogger starts a sink writing through loggingService. It returns
// nil when loggingService is nil.
func NewAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if loggingService == nil {
		return nil
	}
	def := DefaultAsyncLoggerConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	al := &AsyncLogger{
		loggingService: loggingService,
		entries:        make(chan *model.LogEntry, cfg.BufferSize),
		done:           make(chan struct{}),
		batchSize:      cfg.BatchSize,
		flushInterval:  cfg.FlushInterval,
		writeTimeout:   cfg.WriteTimeout,
	}
	al.wg.Add(1)
	go al.run()
	return al
}

// Log enqueues entry. It reports false when the entry was dropped.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	if al == nil {
		return false
	}
	if al.stopped.Load() {
		al.drop()
		return false
	}

	select {
	case al.entries <- entry:
		al.enqueued.Add(1)
		return true
	default:
		al.drop()
		return false
	}
}

func (al *AsyncLogger) drop() {
	al.dropped.Add(1)
	metrics.RecordLogSinkEntries("dropped", 1)
}

// Stop flushes pending entries and stops the writer. It is safe to call more
// than once.
func (al *AsyncLogger) Stop() {
	if al == nil {
		return
	}
	al.stopOnce.Do(func() {
		al.stopped.Store(true)
		close(al.done)
		al.wg.Wait()
	})
}

// Stats returns the sink counters.
func (al *AsyncLogger) Stats() AsyncLoggerStats {
	if al == nil {
		return AsyncLoggerStats{}
	}
	return AsyncLoggerStats{
		Enqueued: al.enqueued.Load(),
		Dropped:  al.dropped.Load(),
		Written:  al.written.Load(),
		Failed:   al.failed.Load(),
	}
}

func (al *AsyncLogger) run() {
	defer al.wg.Done()

	ticker := time.NewTicker(al.flushInterval)
	defer ticker.Stop()

	batch := make([]*model.LogEntry, 0, al.batchSize)
	for {
		select {
		case entry := <-al.entries:
			batch = append(batch, entry)
			if len(batch) >= al.batchSize {
				batch = al.flush(batch)
			}
		case <-ticker.C:
			batch = al.flush(batch)
		case <-al.done:
			for {
				select {
				case entry := <-al.entries:
					batch = append(batch, entry)
					if len(batch) >= al.batchSize {
						batch = al.flush(batch)
					}
				default:
					al.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes batch and returns a fresh slice for the next one.
func (al *AsyncLogger) flush(batch []*model.LogEntry) []*model.LogEntry {
	if len(batch) == 0 {
		return batch
	}

	ctx, cancel := context.WithTimeout(context.Background(), al.writeTimeout)
	defer cancel()

	if err := al.loggingService.CreateLogs(ctx, batch); err != nil {
		al.failed.Add(int64(len(batch)))
		metrics.RecordLogSinkEntries("failed", len(batch))
		l := logger.Logger()
		l.Warn().Err(err).Int("entries", len(batch)).Msg("Failed to write request log batch")
	} else {
		al.written.Add(int64(len(batch)))
		metrics.RecordLogSinkEntries("written", len(batch))
	}
	return make([]*model.LogEntry, 0, al.batchSize)
}
