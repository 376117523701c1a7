package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// progress record set, the sync queue, and the stored session through
// wrapper types sharing one database connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.tracklight/data/progress.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tracklight", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "progress.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LocalStore returns a LocalStore interface backed by this store.
func (s *Store) LocalStore() driven.LocalStore {
	return &localStore{store: s}
}

// QueueStore returns a QueueStore interface backed by this store.
func (s *Store) QueueStore() driven.QueueStore {
	return &queueStore{store: s}
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Local Store ====================

// localStore implements driven.LocalStore.
type localStore struct {
	store *Store
}

var _ driven.LocalStore = (*localStore)(nil)

// LoadAll returns the complete persisted record set.
func (s *localStore) LoadAll(ctx context.Context) (domain.Snapshot, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT record_id, domain, entity_id, value, updated_at, completed_at
		FROM progress_records
	`)
	if err != nil {
		return nil, fmt.Errorf("querying progress records: %w", err)
	}
	defer rows.Close()

	snap := make(domain.Snapshot)
	for rows.Next() {
		rec, err := scanProgressRecord(rows)
		if err != nil {
			return nil, err
		}
		snap[rec.ID] = *rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress records: %w", err)
	}

	return snap, nil
}

// SaveAll atomically replaces the persisted record set with snap.
func (s *localStore) SaveAll(ctx context.Context, snap domain.Snapshot) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// The snapshot is the entire record set; stale rows must not survive.
	if _, err := tx.ExecContext(ctx, "DELETE FROM progress_records"); err != nil {
		return fmt.Errorf("clearing progress records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO progress_records (record_id, domain, entity_id, value, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range snap {
		if _, err := stmt.ExecContext(ctx, string(rec.ID), string(rec.Domain), rec.EntityID,
			rec.Value, formatTime(rec.UpdatedAt), formatTimePtr(rec.CompletedAt)); err != nil {
			return fmt.Errorf("saving progress record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Queue Store ====================

// queueStore implements driven.QueueStore.
type queueStore struct {
	store *Store
}

var _ driven.QueueStore = (*queueStore)(nil)

// Upsert stores or replaces the entry for its record id.
func (s *queueStore) Upsert(ctx context.Context, entry domain.SyncQueueEntry) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_queue
			(record_id, domain, entity_id, value, updated_at, completed_at,
			 attempt_count, last_attempt_at, enqueued_at, non_retryable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(record_id) DO UPDATE SET
			domain = excluded.domain,
			entity_id = excluded.entity_id,
			value = excluded.value,
			updated_at = excluded.updated_at,
			completed_at = excluded.completed_at,
			attempt_count = excluded.attempt_count,
			last_attempt_at = excluded.last_attempt_at,
			enqueued_at = excluded.enqueued_at,
			non_retryable = excluded.non_retryable
	`, string(entry.RecordID), string(entry.Payload.Domain), entry.Payload.EntityID,
		entry.Payload.Value, formatTime(entry.Payload.UpdatedAt), formatTimePtr(entry.Payload.CompletedAt),
		entry.AttemptCount, formatTimePtr(entry.LastAttemptAt), formatTime(entry.EnqueuedAt),
		boolToInt(entry.NonRetryable))

	if err != nil {
		return fmt.Errorf("saving queue entry: %w", err)
	}
	return nil
}

// Get retrieves the entry for a record id.
func (s *queueStore) Get(ctx context.Context, id domain.RecordID) (*domain.SyncQueueEntry, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT record_id, domain, entity_id, value, updated_at, completed_at,
		       attempt_count, last_attempt_at, enqueued_at, non_retryable
		FROM sync_queue WHERE record_id = ?
	`, string(id))

	return scanQueueEntryRow(row)
}

// Delete removes the entry for a record id.
func (s *queueStore) Delete(ctx context.Context, id domain.RecordID) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_queue WHERE record_id = ?", string(id))
	if err != nil {
		return fmt.Errorf("deleting queue entry: %w", err)
	}
	return nil
}

// List returns all queued entries, oldest first.
func (s *queueStore) List(ctx context.Context) ([]domain.SyncQueueEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT record_id, domain, entity_id, value, updated_at, completed_at,
		       attempt_count, last_attempt_at, enqueued_at, non_retryable
		FROM sync_queue
		ORDER BY enqueued_at, record_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying queue entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.SyncQueueEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		entry, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating queue entries: %w", err)
	}

	return entries, nil
}

// Depth returns the number of queued entries.
func (s *queueStore) Depth(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sync_queue").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting queue entries: %w", err)
	}
	return count, nil
}

// Clear removes every entry.
func (s *queueStore) Clear(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_queue")
	if err != nil {
		return fmt.Errorf("clearing queue: %w", err)
	}
	return nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Load returns the stored session.
func (s *sessionStore) Load(ctx context.Context) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT user_id, email, access_token, refresh_token, expires_at
		FROM sessions WHERE id = 1
	`)

	var sess domain.Session
	var expiresAt sql.NullString
	if err := row.Scan(&sess.UserID, &sess.Email, &sess.AccessToken,
		&sess.RefreshToken, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if expiresAt.Valid && expiresAt.String != "" {
		t, err := parseTime(expiresAt.String)
		if err != nil {
			return nil, err
		}
		sess.ExpiresAt = t
	}

	return &sess, nil
}

// Save stores or replaces the session.
func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, email, access_token, refresh_token, expires_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at
	`, session.UserID, session.Email, session.AccessToken, session.RefreshToken,
		formatNullableTime(session.ExpiresAt))

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (s *sessionStore) Clear(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = 1")
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// timeLayout is RFC 3339 with a fixed-width fraction. Stamps are stored
// in UTC, so the text ordering the queue's ORDER BY relies on matches
// chronological order, and the sub-second bumps that order rapid edits
// survive the round trip.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatTimePtr formats an optional timestamp, or returns nil for nil.
func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// formatNullableTime formats a time to RFC3339Nano string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseTime parses a stored RFC3339Nano timestamp.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// parseTimePtr parses a nullable timestamp column into an optional time.
func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanProgressRecord scans a progress record from *sql.Rows.
func scanProgressRecord(rows *sql.Rows) (*domain.ProgressRecord, error) {
	var rec domain.ProgressRecord
	var id, domainName, updatedAt string
	var completedAt sql.NullString

	if err := rows.Scan(&id, &domainName, &rec.EntityID, &rec.Value,
		&updatedAt, &completedAt); err != nil {
		return nil, fmt.Errorf("scanning progress record: %w", err)
	}

	rec.ID = domain.RecordID(id)
	rec.Domain = domain.Domain(domainName)

	t, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	rec.UpdatedAt = t

	completed, err := parseTimePtr(completedAt)
	if err != nil {
		return nil, err
	}
	rec.CompletedAt = completed

	return &rec, nil
}

// scanQueueEntry scans a queue entry from *sql.Rows.
func scanQueueEntry(rows *sql.Rows) (*domain.SyncQueueEntry, error) {
	var entry domain.SyncQueueEntry
	var id, domainName, updatedAt, enqueuedAt string
	var completedAt, lastAttemptAt sql.NullString
	var nonRetryable int

	if err := rows.Scan(&id, &domainName, &entry.Payload.EntityID, &entry.Payload.Value,
		&updatedAt, &completedAt, &entry.AttemptCount, &lastAttemptAt,
		&enqueuedAt, &nonRetryable); err != nil {
		return nil, fmt.Errorf("scanning queue entry: %w", err)
	}

	return buildQueueEntry(entry, id, domainName, updatedAt, enqueuedAt, completedAt, lastAttemptAt, nonRetryable)
}

// scanQueueEntryRow scans a queue entry from *sql.Row.
func scanQueueEntryRow(row *sql.Row) (*domain.SyncQueueEntry, error) {
	var entry domain.SyncQueueEntry
	var id, domainName, updatedAt, enqueuedAt string
	var completedAt, lastAttemptAt sql.NullString
	var nonRetryable int

	if err := row.Scan(&id, &domainName, &entry.Payload.EntityID, &entry.Payload.Value,
		&updatedAt, &completedAt, &entry.AttemptCount, &lastAttemptAt,
		&enqueuedAt, &nonRetryable); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning queue entry: %w", err)
	}

	return buildQueueEntry(entry, id, domainName, updatedAt, enqueuedAt, completedAt, lastAttemptAt, nonRetryable)
}

// buildQueueEntry finishes decoding the scanned columns into the entry.
func buildQueueEntry(
	entry domain.SyncQueueEntry,
	id, domainName, updatedAt, enqueuedAt string,
	completedAt, lastAttemptAt sql.NullString,
	nonRetryable int,
) (*domain.SyncQueueEntry, error) {
	entry.RecordID = domain.RecordID(id)
	entry.Payload.ID = entry.RecordID
	entry.Payload.Domain = domain.Domain(domainName)
	entry.NonRetryable = nonRetryable == 1

	t, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	entry.Payload.UpdatedAt = t

	t, err = parseTime(enqueuedAt)
	if err != nil {
		return nil, err
	}
	entry.EnqueuedAt = t

	completed, err := parseTimePtr(completedAt)
	if err != nil {
		return nil, err
	}
	entry.Payload.CompletedAt = completed

	attempt, err := parseTimePtr(lastAttemptAt)
	if err != nil {
		return nil, err
	}
	entry.LastAttemptAt = attempt

	return &entry, nil
}
