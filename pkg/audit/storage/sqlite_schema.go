package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
const Schema = `
-- Compliance transition events
CREATE TABLE IF NOT EXISTS audit_events (
    id TEXT PRIMARY KEY,
    device_id TEXT NOT NULL,

    -- Status transition
    previous_status TEXT NOT NULL,
    new_status TEXT NOT NULL,

    -- Timestamps
    evaluated_at TIMESTAMP NOT NULL,
    recorded_at TIMESTAMP NOT NULL,

    -- Evaluation inputs
    posture_fingerprint TEXT NOT NULL,
    policy_fingerprint TEXT NOT NULL,

    -- Violations present at transition time (JSON)
    violations TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_audit_device_id ON audit_events(device_id);
CREATE INDEX IF NOT EXISTS idx_audit_evaluated_at ON audit_events(evaluated_at);
CREATE INDEX IF NOT EXISTS idx_audit_new_status ON audit_events(new_status);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
