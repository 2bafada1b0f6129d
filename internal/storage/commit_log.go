package storage

import (
	"context"
	"database/sql"

	"github.com/athaapa/clamp/internal/clamperr"
)

// CommitLog is the metadata log: commit lineage plus deployment pointers.
// Append and SetDeployment are each atomic but not atomic together.
type CommitLog struct {
	*CommitRepo
	*DeploymentRepo

	db *sql.DB
}

// NewCommitLog creates a CommitLog over a migrated database.
func NewCommitLog(db *sql.DB) *CommitLog {
	return &CommitLog{
		CommitRepo:     NewCommitRepo(db),
		DeploymentRepo: NewDeploymentRepo(db),
		db:             db,
	}
}

// Open opens the database at path, migrates it and returns a CommitLog.
func Open(path string) (*CommitLog, error) {
	db, err := New(path)
	if err != nil {
		return nil, clamperr.StorageFailed("open database", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, clamperr.StorageFailed("migrate database", err)
	}
	return NewCommitLog(db), nil
}

// Close closes the underlying database.
func (l *CommitLog) Close() error {
	return l.db.Close()
}

// PurgeGroup deletes a group's pointer and all of its commits. It is an
// administrative operation; the group's vector records are left untouched.
func (l *CommitLog) PurgeGroup(ctx context.Context, group string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return clamperr.StorageFailed("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM deployments WHERE group_name = ?", group); err != nil {
		return clamperr.StorageFailed("delete deployment", err)
	}
	// Children reference parents, so newest rows go first.
	rows, err := tx.QueryContext(ctx, "SELECT hash FROM commits WHERE group_name = ? ORDER BY seq DESC", group)
	if err != nil {
		return clamperr.StorageFailed("list commits", err)
	}
	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			_ = rows.Close()
			return clamperr.StorageFailed("scan commit", err)
		}
		hashes = append(hashes, h)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return clamperr.StorageFailed("list commits", err)
	}

	for _, h := range hashes {
		if _, err := tx.ExecContext(ctx, "DELETE FROM commits WHERE hash = ?", h); err != nil {
			return clamperr.StorageFailed("delete commit", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return clamperr.StorageFailed("commit transaction", err)
	}
	return nil
}
