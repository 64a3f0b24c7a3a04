// Package storage provides audit event storage backends: an in-memory
// store for tests and ephemeral deployments, and a SQLite store for
// durable single-instance deployments.
package storage

import (
	"context"
	"sync"

	"northgate/sentinel/pkg/audit"
)

// MemoryStorage is an in-memory audit.Storage. Events are kept in arrival
// order and lost on process exit. Safe for concurrent use.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []*audit.Event

	// lastStatus caches the most recent status per device so LastStatus
	// does not scan.
	lastStatus map[string]string
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{lastStatus: make(map[string]string)}
}

// Store appends an event.
func (s *MemoryStorage) Store(ctx context.Context, event *audit.Event) error {
	if err := ctx.Err(); err != nil {
		return audit.NewStorageError("memory", "store", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.lastStatus[event.DeviceID] = event.NewStatus
	return nil
}

// Query returns matching events, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, audit.NewStorageError("memory", "query", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*audit.Event
	for i := len(s.events) - 1; i >= 0; i-- {
		if matches(s.events[i], query) {
			matched = append(matched, s.events[i])
		}
	}

	return paginate(matched, query), nil
}

// LastStatus returns the most recent recorded status for the device.
func (s *MemoryStorage) LastStatus(ctx context.Context, deviceID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", audit.NewStorageError("memory", "last_status", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStatus[deviceID], nil
}

// Delete removes matching events and returns the count.
func (s *MemoryStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, audit.NewStorageError("memory", "delete", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*audit.Event
	var removed int64
	for _, e := range s.events {
		if matches(e, query) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return removed, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error { return nil }

// matches reports whether an event satisfies every filter in the query.
func matches(e *audit.Event, q *audit.Query) bool {
	if q == nil {
		return true
	}
	if q.DeviceID != "" && e.DeviceID != q.DeviceID {
		return false
	}
	if q.NewStatus != "" && e.NewStatus != q.NewStatus {
		return false
	}
	if q.StartTime != nil && e.EvaluatedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && e.EvaluatedAt.After(*q.EndTime) {
		return false
	}
	return true
}

// paginate applies offset and limit to an already-filtered slice.
func paginate(events []*audit.Event, q *audit.Query) []*audit.Event {
	if q == nil {
		return events
	}
	if q.Offset > 0 {
		if q.Offset >= len(events) {
			return nil
		}
		events = events[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(events) {
		events = events[:q.Limit]
	}
	return events
}
