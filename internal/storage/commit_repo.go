package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/athaapa/clamp/internal/clamperr"
)

// CommitRepo provides append-only access to commit records.
type CommitRepo struct {
	db *sql.DB
}

// NewCommitRepo creates a new CommitRepo.
func NewCommitRepo(db *sql.DB) *CommitRepo {
	return &CommitRepo{db: db}
}

const commitColumns = "hash, group_name, parent_hash, message, author, timestamp, document_count"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommit(row rowScanner) (*Commit, error) {
	var c Commit
	var parent sql.NullString
	if err := row.Scan(&c.Hash, &c.Group, &parent, &c.Message, &c.Author, &c.Timestamp, &c.DocumentCount); err != nil {
		return nil, err
	}
	c.ParentHash = parent.String
	return &c, nil
}

// Append records a new commit. A set ParentHash must name an existing commit
// of the same group.
func (r *CommitRepo) Append(ctx context.Context, commit *Commit) error {
	if commit.Hash == "" {
		return clamperr.Invalid("hash", "commit hash is empty")
	}
	if commit.Group == "" {
		return clamperr.Invalid("group", "group is empty")
	}

	if commit.ParentHash != "" {
		parent, err := r.Get(ctx, commit.ParentHash)
		if errors.Is(err, clamperr.NotFound) {
			return clamperr.Invalid("parent_hash", "parent commit does not exist")
		}
		if err != nil {
			return err
		}
		if parent.Group != commit.Group {
			return clamperr.Invalid("parent_hash", fmt.Sprintf("parent commit belongs to group %q", parent.Group))
		}
	}

	var parent sql.NullString
	if commit.ParentHash != "" {
		parent = sql.NullString{String: commit.ParentHash, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO commits ("+commitColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		commit.Hash, commit.Group, parent, commit.Message, commit.Author, commit.Timestamp, commit.DocumentCount,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return clamperr.Invalid("hash", "commit already exists")
		}
		return clamperr.StorageFailed("insert commit", err)
	}

	return nil
}

// Get returns the commit with the given hash.
func (r *CommitRepo) Get(ctx context.Context, hash string) (*Commit, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+commitColumns+" FROM commits WHERE hash = ?", hash)
	commit, err := scanCommit(row)
	if err == sql.ErrNoRows {
		return nil, clamperr.CommitNotFound(hash)
	}
	if err != nil {
		return nil, clamperr.StorageFailed("query commit", err)
	}
	return commit, nil
}

// head returns the hash of the most recently appended commit of group, or ""
// when the group has no commits.
func (r *CommitRepo) head(ctx context.Context, group string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		"SELECT hash FROM commits WHERE group_name = ? ORDER BY seq DESC LIMIT 1", group,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", clamperr.StorageFailed("query group head", err)
	}
	return hash, nil
}

// History walks the parent chain from the group's head, newest first, yielding
// at most limit commits (all of them when limit <= 0). Each step reads one
// row; ranging again starts over from the current head.
func (r *CommitRepo) History(ctx context.Context, group string, limit int) iter.Seq2[*Commit, error] {
	return func(yield func(*Commit, error) bool) {
		hash, err := r.head(ctx, group)
		if err != nil {
			yield(nil, err)
			return
		}

		seen := make(map[string]bool)
		for n := 0; hash != "" && (limit <= 0 || n < limit); n++ {
			if seen[hash] {
				yield(nil, clamperr.StorageFailed("walk history", fmt.Errorf("cycle at commit %s", hash)))
				return
			}
			seen[hash] = true

			commit, err := r.Get(ctx, hash)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(commit, nil) {
				return
			}
			hash = commit.ParentHash
		}
	}
}

// CountCommits returns the number of commits recorded for group.
func (r *CommitRepo) CountCommits(ctx context.Context, group string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM commits WHERE group_name = ?", group).Scan(&n)
	if err != nil {
		return 0, clamperr.StorageFailed("count commits", err)
	}
	return n, nil
}

// ListGroups returns every group with at least one commit, sorted by name.
func (r *CommitRepo) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT group_name FROM commits ORDER BY group_name")
	if err != nil {
		return nil, clamperr.StorageFailed("list groups", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	groups := make([]string, 0)
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, clamperr.StorageFailed("scan group", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, clamperr.StorageFailed("list groups", err)
	}
	return groups, nil
}

// AnyGroup makes FindByPrefix search the commits of every group.
const AnyGroup = ""

// FindByPrefix resolves a full or abbreviated hash within group, or across
// all groups when group is AnyGroup. An ambiguous prefix is a validation
// failure.
func (r *CommitRepo) FindByPrefix(ctx context.Context, group, prefix string) (*Commit, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, clamperr.Invalid("hash", "commit hash is empty")
	}
	for _, ch := range prefix {
		if !strings.ContainsRune("0123456789abcdef", ch) {
			return nil, clamperr.Invalid("hash", "commit hash must be hexadecimal")
		}
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+commitColumns+" FROM commits WHERE (? = '' OR group_name = ?) AND substr(hash, 1, ?) = ? ORDER BY seq DESC LIMIT 2",
		group, group, len(prefix), prefix,
	)
	if err != nil {
		return nil, clamperr.StorageFailed("query commit prefix", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var matches []*Commit
	for rows.Next() {
		c, err := scanCommit(rows)
		if err != nil {
			return nil, clamperr.StorageFailed("scan commit", err)
		}
		matches = append(matches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, clamperr.StorageFailed("query commit prefix", err)
	}

	switch len(matches) {
	case 0:
		return nil, clamperr.CommitNotFound(prefix)
	case 1:
		return matches[0], nil
	default:
		return nil, clamperr.Invalid("hash", fmt.Sprintf("prefix %q is ambiguous", prefix))
	}
}
