package store

import (
	"context"
	"sort"
	"sync"

	"northgate/sentinel/pkg/posture"
)

// MemoryStore is an in-memory posture store. Records are lost on process
// exit. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*posture.Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*posture.Record)}
}

// Put stores the record as the device's current posture.
func (s *MemoryStore) Put(ctx context.Context, rec *posture.Record) error {
	if err := posture.Validate(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[rec.DeviceID]; ok && rec.ObservedAt.Before(existing.ObservedAt) {
		return &StaleRecordError{
			DeviceID: rec.DeviceID,
			Stored:   existing.ObservedAt,
			Got:      rec.ObservedAt,
		}
	}

	s.records[rec.DeviceID] = rec.Clone()
	return nil
}

// Get returns the device's current posture record.
func (s *MemoryStore) Get(ctx context.Context, deviceID string) (*posture.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[deviceID]
	if !ok {
		return nil, &NotFoundError{DeviceID: deviceID}
	}
	return rec.Clone(), nil
}

// List returns every device's current record, ordered by device ID.
func (s *MemoryStore) List(ctx context.Context) ([]*posture.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*posture.Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec.Clone())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].DeviceID < records[j].DeviceID
	})
	return records, nil
}

// Delete removes a device's record.
func (s *MemoryStore) Delete(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, deviceID)
	return nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error { return nil }
