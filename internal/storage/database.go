package storage

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// dsn applies per-connection options. The PRAGMA in New only reaches the
// first pooled connection, so foreign keys are also requested here.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS commits (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			hash TEXT NOT NULL UNIQUE,
			group_name TEXT NOT NULL,
			parent_hash TEXT,
			message TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL,
			document_count INTEGER NOT NULL,
			FOREIGN KEY (parent_hash) REFERENCES commits(hash)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_commits_group_seq ON commits (group_name, seq);`,
		`CREATE TABLE IF NOT EXISTS deployments (
			group_name TEXT PRIMARY KEY,
			active_commit_hash TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			FOREIGN KEY (active_commit_hash) REFERENCES commits(hash)
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
