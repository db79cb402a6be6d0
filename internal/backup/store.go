// Package backup keeps snapshots of the edited files in a SQLite database
// so a failed or unwanted edit can be rolled back.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned for an unknown snapshot id.
var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);

CREATE TABLE IF NOT EXISTS snapshot_files (
	snapshot_id TEXT NOT NULL,
	path TEXT NOT NULL,
	content BLOB,
	PRIMARY KEY (snapshot_id, path)
) WITHOUT ROWID;
`

// Snapshot describes one stored backup.
type Snapshot struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	Paths     []string  `json:"paths"`
}

// Store is a snapshot database.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// Open opens (creating if needed) the store at dbPath. ":memory:" gives a
// private in-memory store.
func Open(dbPath string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// one connection: an in-memory database lives only as long as it does
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Snapshot stores files under a new snapshot id.
func (s *Store) Snapshot(ctx context.Context, label string, files map[string][]byte) (Snapshot, error) {
	snap := Snapshot{
		ID:        uuid.NewString(),
		Label:     label,
		CreatedAt: s.now().UTC(),
	}
	for p := range files {
		snap.Paths = append(snap.Paths, p)
	}
	sort.Strings(snap.Paths)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, label, created_at) VALUES (?, ?, ?)`,
		snap.ID, snap.Label, snap.CreatedAt.UnixNano()); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_files (snapshot_id, path, content) VALUES (?, ?, ?)`)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = stmt.Close() }()
	for _, p := range snap.Paths {
		content := files[p]
		if content == nil {
			content = []byte{}
		}
		if _, err := stmt.ExecContext(ctx, snap.ID, p, content); err != nil {
			return Snapshot{}, fmt.Errorf("insert file %s: %w", p, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}

	s.log.Debug().Str("snapshot", snap.ID).Str("label", label).Int("files", len(snap.Paths)).Msg("snapshot stored")
	return snap, nil
}

// Files returns the file contents of snapshot id.
func (s *Store) Files(ctx context.Context, id string) (map[string][]byte, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query snapshot %s: %w", id, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT path, content FROM snapshot_files WHERE snapshot_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query files of %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	files := make(map[string][]byte)
	for rows.Next() {
		var path string
		var content []byte
		if err := rows.Scan(&path, &content); err != nil {
			return nil, err
		}
		files[path] = content
	}
	return files, rows.Err()
}

// List returns the newest snapshots first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	query := `SELECT s.id, s.label, s.created_at, f.path
		FROM snapshots s LEFT JOIN snapshot_files f ON f.snapshot_id = s.id
		WHERE s.id IN (SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?)
		ORDER BY s.created_at DESC, s.rowid DESC, f.path`
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var (
			id, label string
			created   int64
			path      sql.NullString
		)
		if err := rows.Scan(&id, &label, &created, &path); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, Snapshot{ID: id, Label: label, CreatedAt: time.Unix(0, created).UTC()})
		}
		if path.Valid {
			last := &out[len(out)-1]
			last.Paths = append(last.Paths, path.String)
		}
	}
	return out, rows.Err()
}

// Prune deletes all but the keep newest snapshots and returns how many
// were deleted. keep <= 0 keeps nothing.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stale := `SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT -1 OFFSET ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_files WHERE snapshot_id IN (`+stale+`)`, keep); err != nil {
		return 0, fmt.Errorf("prune files: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Int("kept", keep).Msg("pruned snapshots")
	}
	return int(n), nil
}

// Resolve expands a unique id prefix to the full snapshot id.
func (s *Store) Resolve(ctx context.Context, prefix string) (string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM snapshots WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("resolve snapshot %s: %w", prefix, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch {
	case prefix == "" || len(ids) == 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case len(ids) > 1:
		return "", fmt.Errorf("snapshot prefix %q is ambiguous", prefix)
	}
	return ids[0], nil
}
