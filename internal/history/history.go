// Package history keeps a SQLite journal of project-root resolutions.
//
// The journal is a diagnostic trail. Nothing in it is read back into the
// resolver; the remembered root lives only in the running process.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql

	"github.com/go-ports/projroot/internal/models"
)

// DB wraps a *sql.DB with the path it was opened from.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the journal at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("history.Open createSchema: %w", err)
	}
	return d, nil
}

// Path returns the file the journal was opened from.
func (d *DB) Path() string { return d.path }

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (d *DB) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS resolutions (
			rowid       INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT UNIQUE NOT NULL,
			resolved_at TEXT NOT NULL,
			workspace   TEXT NOT NULL,
			document    TEXT,
			root        TEXT,
			strategy    TEXT,
			outcome     TEXT NOT NULL,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS resolutions_workspace ON resolutions(workspace, rowid)`,
	}
	for _, s := range stmts {
		if _, err := d.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// CRUD
// ---------------------------------------------------------------------------

// Record appends rec to the journal.
func (d *DB) Record(ctx context.Context, rec *models.Record) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO resolutions (id, resolved_at, workspace, document, root, strategy, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ResolvedAt.Format(time.RFC3339Nano), rec.Workspace,
		rec.Document, rec.Root, rec.Strategy, rec.Outcome, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("Record: %w", err)
	}
	return nil
}

// Limits applied by Recent.
const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 1000
)

// Recent returns up to limit records, newest first. A non-positive limit
// means DefaultRecentLimit; larger values are capped at MaxRecentLimit. An
// empty workspace returns records for every workspace.
func (d *DB) Recent(ctx context.Context, limit int, workspace string) ([]*models.Record, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	q := `SELECT id, resolved_at, workspace, document, root, strategy, outcome, error
	      FROM resolutions`
	args := make([]any, 0, 2)
	if workspace != "" {
		q += ` WHERE workspace = ?`
		args = append(args, workspace)
	}
	q += ` ORDER BY rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Record, 0, min(limit, 64))
	for rows.Next() {
		var (
			rec                              models.Record
			at                               string
			document, root, strategy, errMsg sql.NullString
		)
		if err := rows.Scan(&rec.ID, &at, &rec.Workspace, &document, &root, &strategy, &rec.Outcome, &errMsg); err != nil {
			return nil, fmt.Errorf("Recent scan: %w", err)
		}
		rec.ResolvedAt, _ = time.Parse(time.RFC3339Nano, at)
		rec.Document = document.String
		rec.Root = root.String
		rec.Strategy = strategy.String
		rec.Error = errMsg.String
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Count returns the number of journaled records.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resolutions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

// Clear deletes every record and returns how many were removed.
func (d *DB) Clear(ctx context.Context) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM resolutions`)
	if err != nil {
		return 0, fmt.Errorf("Clear: %w", err)
	}
	return res.RowsAffected()
}
