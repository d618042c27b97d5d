// Package store persists project snapshots in SQLite. The tree's wire
// format (flat path -> descriptor mapping) maps directly onto a files
// table keyed by (project, path); the entry point rides along in the
// projects table.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/preview-labs/prevu/api"
)

var ErrNotFound = errors.New("project not found")

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	name       TEXT PRIMARY KEY,
	entry      TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
	project TEXT NOT NULL,
	path    TEXT NOT NULL,
	kind    TEXT NOT NULL,
	name    TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (project, path)
);
`

// Store is a read-write project database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the project database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open project db %s: %w", path, err)
	}
	db.SetMaxOpenConns(2)

	// journal_mode=DELETE keeps the .db file self-contained on disk.
	if _, err := db.Exec("PRAGMA journal_mode=DELETE"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save writes one project's full snapshot, replacing any previous rows.
func (s *Store) Save(project, entry string, snap api.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixNano()
	if _, err := tx.Exec(
		"INSERT INTO projects (name, entry, updated_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(name) DO UPDATE SET entry = excluded.entry, updated_at = excluded.updated_at",
		project, entry, now,
	); err != nil {
		return fmt.Errorf("upsert project %s: %w", project, err)
	}

	if _, err := tx.Exec("DELETE FROM files WHERE project = ?", project); err != nil {
		return fmt.Errorf("clear files for %s: %w", project, err)
	}
	for path, d := range snap {
		if _, err := tx.Exec(
			"INSERT INTO files (project, path, kind, name, content) VALUES (?, ?, ?, ?, ?)",
			project, path, d.Kind, d.Name, d.Content,
		); err != nil {
			return fmt.Errorf("insert %s: %w", path, err)
		}
	}
	return tx.Commit()
}

// Load reads one project's snapshot and entry point.
func (s *Store) Load(project string) (api.Snapshot, string, error) {
	var entry string
	err := s.db.QueryRow("SELECT entry FROM projects WHERE name = ?", project).Scan(&entry)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("load project %s: %w", project, err)
	}

	rows, err := s.db.Query("SELECT path, kind, name, content FROM files WHERE project = ?", project)
	if err != nil {
		return nil, "", fmt.Errorf("load files for %s: %w", project, err)
	}
	defer func() { _ = rows.Close() }()

	snap := make(api.Snapshot)
	for rows.Next() {
		var d api.NodeDescriptor
		if err := rows.Scan(&d.Path, &d.Kind, &d.Name, &d.Content); err != nil {
			return nil, "", fmt.Errorf("scan file row: %w", err)
		}
		snap[d.Path] = d
	}
	return snap, entry, rows.Err()
}

// Projects lists every saved project name, newest first.
func (s *Store) Projects() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM projects ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes one project and all its files.
func (s *Store) Delete(project string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM files WHERE project = ?", project); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM projects WHERE name = ?", project)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}
