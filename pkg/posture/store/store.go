// Package store persists the latest posture record per device. The
// collector submits snapshots continuously; the store keeps only the most
// recent one and enforces that ObservedAt never moves backwards for a
// device.
package store

import (
	"context"
	"fmt"
	"time"

	"northgate/sentinel/pkg/posture"
)

// Store is the persistence interface for posture records, latest-wins per
// device. Implementations must be safe for concurrent use.
type Store interface {
	// Put stores the record as the device's current posture. A record
	// older than the stored one is rejected with *StaleRecordError.
	Put(ctx context.Context, rec *posture.Record) error

	// Get returns the device's current posture record, or *NotFoundError.
	Get(ctx context.Context, deviceID string) (*posture.Record, error)

	// List returns the current record of every known device.
	List(ctx context.Context) ([]*posture.Record, error)

	// Delete removes a device's record. Deleting an unknown device is not
	// an error.
	Delete(ctx context.Context, deviceID string) error

	// Close releases backend resources.
	Close() error
}

// NotFoundError indicates no posture record exists for a device.
type NotFoundError struct {
	DeviceID string
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no posture record for device %s", e.DeviceID)
}

// StaleRecordError indicates a submitted record is older than the one
// already stored, violating per-device ObservedAt monotonicity.
type StaleRecordError struct {
	DeviceID string
	Stored   time.Time
	Got      time.Time
}

// Error returns the error message.
func (e *StaleRecordError) Error() string {
	return fmt.Sprintf("stale posture record for device %s: stored %s, got %s",
		e.DeviceID, e.Stored.Format(time.RFC3339), e.Got.Format(time.RFC3339))
}
