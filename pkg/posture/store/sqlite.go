package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"northgate/sentinel/pkg/posture"
)

// SQLiteStoreConfig configures the SQLite posture store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStore persists posture records in SQLite, one row per device,
// suitable for single-instance deployments that need records to survive
// restarts. Uses WAL mode for concurrent reads during writes.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a SQLite posture store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{DBPath: dbPath})
}

// NewSQLiteStoreWithConfig creates a SQLite posture store with custom
// configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		logger: slog.Default().With("component", "posture.store.sqlite"),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Info("SQLite posture store initialized", "path", cfg.DBPath)
	return s, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posture_records (
		device_id TEXT PRIMARY KEY,
		observed_at INTEGER NOT NULL,
		record TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posture_observed_at ON posture_records(observed_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Put stores the record as the device's current posture. The upsert only
// fires when the incoming ObservedAt is not older than the stored one, so
// out-of-order collector deliveries cannot roll a device backwards.
func (s *SQLiteStore) Put(ctx context.Context, rec *posture.Record) error {
	if err := posture.Validate(rec); err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal posture record: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO posture_records (device_id, observed_at, record)
		VALUES (?, ?, ?)
		ON CONFLICT (device_id) DO UPDATE SET
			observed_at = excluded.observed_at,
			record = excluded.record
		WHERE excluded.observed_at >= posture_records.observed_at
	`, rec.DeviceID, rec.ObservedAt.UnixNano(), string(payload))
	if err != nil {
		return fmt.Errorf("failed to store posture record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to store posture record: %w", err)
	}
	if affected == 0 {
		existing, err := s.Get(ctx, rec.DeviceID)
		if err != nil {
			return fmt.Errorf("failed to store posture record: %w", err)
		}
		return &StaleRecordError{
			DeviceID: rec.DeviceID,
			Stored:   existing.ObservedAt,
			Got:      rec.ObservedAt,
		}
	}

	return nil
}

// Get returns the device's current posture record.
func (s *SQLiteStore) Get(ctx context.Context, deviceID string) (*posture.Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT record FROM posture_records WHERE device_id = ?", deviceID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{DeviceID: deviceID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load posture record: %w", err)
	}

	var rec posture.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal posture record: %w", err)
	}
	return &rec, nil
}

// List returns every device's current record, ordered by device ID.
func (s *SQLiteStore) List(ctx context.Context) ([]*posture.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT record FROM posture_records ORDER BY device_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list posture records: %w", err)
	}
	defer rows.Close()

	var records []*posture.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan posture record: %w", err)
		}
		var rec posture.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal posture record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posture records: %w", err)
	}
	return records, nil
}

// Delete removes a device's record.
func (s *SQLiteStore) Delete(ctx context.Context, deviceID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM posture_records WHERE device_id = ?", deviceID)
	if err != nil {
		return fmt.Errorf("failed to delete posture record: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
