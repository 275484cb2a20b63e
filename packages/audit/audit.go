package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/runbookd/urimod/packages/module"
	"github.com/runbookd/urimod/packages/params"
)

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	ok          INTEGER NOT NULL,
	changed     INTEGER NOT NULL,
	elapsed_us  INTEGER NOT NULL,
	error       TEXT NOT NULL
)`

// Entry is one recorded invocation.
type Entry struct {
	ID         string
	StartedAt  time.Time
	Method     string
	URL        string
	StatusCode int
	OK         bool
	Changed    bool
	ElapsedUs  int64
	Error      string
}

// EntryFor builds the audit entry for a finished invocation, from the result
// on success or the error otherwise. RemoteError keeps its status code.
func EntryFor(spec *params.Spec, result *module.Result, runErr error) Entry {
	entry := Entry{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Method:    spec.Method,
		URL:       spec.URL,
	}

	if result != nil {
		entry.StatusCode = result.StatusCode
		entry.OK = result.OK
		entry.Changed = result.Changed
		entry.ElapsedUs = result.Elapsed
		return entry
	}

	if runErr != nil {
		entry.Error = runErr.Error()
		var remoteErr *module.RemoteError
		if errors.As(runErr, &remoteErr) {
			entry.StatusCode = remoteErr.StatusCode
		}
	}
	return entry
}

// Recorder appends invocation entries to a SQLite database.
type Recorder struct {
	db      *sql.DB
	timeout time.Duration
}

// Open opens or creates the audit database at path.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open audit database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot connect to audit database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot create audit table: %w", err)
	}

	return &Recorder{db: db, timeout: 5 * time.Second}, nil
}

func (r *Recorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record inserts one entry.
func (r *Recorder) Record(entry Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invocations (id, started_at, method, url, status_code, ok, changed, elapsed_us, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.StartedAt.Format(time.RFC3339Nano),
		entry.Method,
		entry.URL,
		entry.StatusCode,
		entry.OK,
		entry.Changed,
		entry.ElapsedUs,
		entry.Error,
	)
	if err != nil {
		return fmt.Errorf("cannot record invocation: %w", err)
	}
	return nil
}

// Entries returns the most recent entries, newest first.
func (r *Recorder) Entries(limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, method, url, status_code, ok, changed, elapsed_us, error
		 FROM invocations ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("cannot query invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var startedAt string
		if err := rows.Scan(&entry.ID, &startedAt, &entry.Method, &entry.URL,
			&entry.StatusCode, &entry.OK, &entry.Changed, &entry.ElapsedUs, &entry.Error); err != nil {
			return nil, fmt.Errorf("cannot scan invocation row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			entry.StartedAt = t
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}
