package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/athaapa/clamp/internal/clamperr"
)

// DeploymentRepo stores the active-commit pointer of each group.
type DeploymentRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewDeploymentRepo creates a new DeploymentRepo.
func NewDeploymentRepo(db *sql.DB) *DeploymentRepo {
	return &DeploymentRepo{db: db, now: time.Now}
}

// GetDeployment returns the pointer for group.
func (r *DeploymentRepo) GetDeployment(ctx context.Context, group string) (*Deployment, error) {
	var d Deployment
	var updatedAt int64

	err := r.db.QueryRowContext(ctx,
		"SELECT group_name, active_commit_hash, updated_at FROM deployments WHERE group_name = ?", group,
	).Scan(&d.Group, &d.ActiveCommitHash, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, clamperr.NoDeploymentFor(group)
	}
	if err != nil {
		return nil, clamperr.StorageFailed("query deployment", err)
	}

	d.UpdatedAt = time.UnixMilli(updatedAt)
	return &d, nil
}

// SetDeployment points group at commitHash. The commit must exist and belong
// to group; the check and the write share one transaction.
func (r *DeploymentRepo) SetDeployment(ctx context.Context, group, commitHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return clamperr.StorageFailed("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var owner string
	err = tx.QueryRowContext(ctx, "SELECT group_name FROM commits WHERE hash = ?", commitHash).Scan(&owner)
	if err == sql.ErrNoRows {
		return clamperr.CommitNotFound(commitHash)
	}
	if err != nil {
		return clamperr.StorageFailed("query commit", err)
	}
	if owner != group {
		return clamperr.Mismatch(commitHash, group, owner)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO deployments (group_name, active_commit_hash, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (group_name) DO UPDATE SET
		 active_commit_hash = excluded.active_commit_hash, updated_at = excluded.updated_at`,
		group, commitHash, r.now().UnixMilli(),
	)
	if err != nil {
		return clamperr.StorageFailed("upsert deployment", err)
	}

	if err := tx.Commit(); err != nil {
		return clamperr.StorageFailed("commit transaction", err)
	}
	return nil
}
