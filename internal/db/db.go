// Package db provides sqlite connection management and the repository
// backing the logbook server.
package db

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
)

func init() {
	// The modernc driver registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// schema is applied on every open; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT    NOT NULL UNIQUE,
	password_hash TEXT    NOT NULL,
	is_admin      INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT    NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS logbook_entries (
	id                TEXT    PRIMARY KEY,
	user_id           INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	tanggal           TEXT    NOT NULL,
	jam_mulai         TEXT    NOT NULL,
	jam_selesai       TEXT,
	judul_kegiatan    TEXT    NOT NULL,
	rincian_kegiatan  TEXT    NOT NULL,
	dokumen_pendukung TEXT,
	created_at        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_user ON logbook_entries(user_id);
CREATE INDEX IF NOT EXISTS idx_entries_order ON logbook_entries(tanggal, jam_mulai);
`

// DB wraps the sqlx connection with logbook-specific configuration.
type DB struct {
	*sqlx.DB
}

// Open opens the sqlite database at path, creating parent directories as
// needed. The connection uses WAL mode and enforces foreign keys; the
// schema is created if absent. Pass ":memory:" for an in-memory database.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrDatabase, "failed to create data directory", err)
			}
		}
	}

	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to open database", err)
	}

	// sqlite supports a single writer.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, errors.Wrap(errors.ErrDatabase, "failed to enable WAL mode", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		conn.Close()
		return nil, errors.Wrap(errors.ErrDatabase, "failed to enable foreign keys", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create schema", err)
	}

	return &DB{conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
