// Package recorder implements the asynchronous audit emitter. Events are
// enqueued on a bounded channel and written to storage by a background
// worker, so a slow store never delays returning an evaluation result.
package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"northgate/sentinel/pkg/audit"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// Buffer is the size of the async event channel.
	// Default: 1000.
	Buffer int

	// WriteTimeout bounds a single storage write and the wait for channel
	// space when the buffer is full.
	// Default: 5s.
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Buffer:       1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder is an audit.Emitter that persists events asynchronously.
type Recorder struct {
	storage audit.Storage
	config  *Config
	eventCh chan *audit.Event
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// New creates a recorder over the given storage backend and starts its
// background worker.
func New(storage audit.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		storage: storage,
		config:  config,
		eventCh: make(chan *audit.Event, config.Buffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"buffer", config.Buffer,
		"write_timeout", config.WriteTimeout,
	)
	return r
}

// Emit assigns the event an ID and enqueues it for async writing. It
// returns immediately unless the buffer is full, in which case it waits up
// to the write timeout (or the caller's deadline, whichever is sooner)
// before dropping the event with a *audit.RecorderError.
func (r *Recorder) Emit(ctx context.Context, event *audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now()
	}

	select {
	case r.eventCh <- event:
		return nil
	default:
	}

	// Buffer full: wait bounded rather than block the evaluation path.
	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case r.eventCh <- event:
		return nil
	case <-ctx.Done():
		r.logger.Warn("audit event dropped, caller cancelled",
			"event_id", event.ID, "device_id", event.DeviceID)
		return audit.NewRecorderError(event.ID, ctx.Err())
	case <-timer.C:
		r.logger.Error("audit event dropped, channel full",
			"event_id", event.ID,
			"device_id", event.DeviceID,
			"channel_capacity", r.config.Buffer,
		)
		return audit.NewRecorderError(event.ID, context.DeadlineExceeded)
	case <-r.done:
		return audit.NewRecorderError(event.ID, context.Canceled)
	}
}

// LastStatus returns the most recent status recorded for the device,
// straight from storage. Events still queued in the channel are not
// visible yet.
func (r *Recorder) LastStatus(ctx context.Context, deviceID string) (string, error) {
	return r.storage.LastStatus(ctx, deviceID)
}

// Pending returns the number of events waiting to be written.
func (r *Recorder) Pending() int {
	return len(r.eventCh)
}

// Close drains the queue, waits for pending writes and shuts the worker
// down.
func (r *Recorder) Close() error {
	r.logger.Info("shutting down audit recorder")
	close(r.done)
	r.wg.Wait()
	r.logger.Info("audit recorder shut down")
	return nil
}

// worker drains the event channel and writes events to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case event := <-r.eventCh:
			r.writeEvent(event)

		case <-r.done:
			// Drain what is already queued before exiting.
			for {
				select {
				case event := <-r.eventCh:
					r.writeEvent(event)
				default:
					return
				}
			}
		}
	}
}

// writeEvent writes a single event to storage.
func (r *Recorder) writeEvent(event *audit.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, event); err != nil {
		r.logger.Error("failed to store audit event",
			"event_id", event.ID,
			"device_id", event.DeviceID,
			"error", err,
		)
		return
	}

	r.logger.Info("status transition recorded",
		"event_id", event.ID,
		"device_id", event.DeviceID,
		"previous_status", event.PreviousStatus,
		"new_status", event.NewStatus,
		"violation_count", len(event.Violations),
	)
}
