// Package service implements version control over a vector store.
//
// The Engine coordinates two stores that fail independently: the vector store
// holding tagged documents and the metadata log holding commits and
// deployment pointers. It takes no locks. Two writers ingesting into or
// rolling back the same group at the same time can interleave their steps and
// leave more than one commit active; callers serialize writes per group.
package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_commit_log.go -package=mocks github.com/athaapa/clamp/internal/service CommitLog
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_version_control.go -package=mocks github.com/athaapa/clamp/internal/service VersionControl

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/athaapa/clamp/internal/clamperr"
	"github.com/athaapa/clamp/internal/contextutil"
	"github.com/athaapa/clamp/internal/identity"
	"github.com/athaapa/clamp/internal/metrics"
	"github.com/athaapa/clamp/internal/storage"
	"github.com/athaapa/clamp/internal/vectorstore"
)

// DefaultHistoryLimit is used when History is called with a non-positive limit.
const DefaultHistoryLimit = 10

// CommitLog is the metadata log as seen by the engine.
type CommitLog interface {
	Append(ctx context.Context, commit *storage.Commit) error
	Get(ctx context.Context, hash string) (*storage.Commit, error)
	History(ctx context.Context, group string, limit int) iter.Seq2[*storage.Commit, error]
	GetDeployment(ctx context.Context, group string) (*storage.Deployment, error)
	SetDeployment(ctx context.Context, group, commitHash string) error
	CountCommits(ctx context.Context, group string) (int, error)
	ListGroups(ctx context.Context) ([]string, error)
	FindByPrefix(ctx context.Context, group, prefix string) (*storage.Commit, error)
	PurgeGroup(ctx context.Context, group string) error
}

// VersionControl is the engine surface used by the HTTP handlers and the CLI.
type VersionControl interface {
	Ingest(ctx context.Context, req IngestRequest) (string, error)
	Rollback(ctx context.Context, collection, group, commitHash string) error
	History(ctx context.Context, group string, limit int) ([]*storage.Commit, error)
	Status(ctx context.Context, collection, group string) (*Status, error)
	Deployment(ctx context.Context, group string) (*storage.Deployment, error)
	ActiveFilter(ctx context.Context, group string) (vectorstore.Predicate, error)
	Groups(ctx context.Context) ([]string, error)
	ResolveCommit(ctx context.Context, group, ref string) (*storage.Commit, error)
	Purge(ctx context.Context, collection, group string) error
	Search(ctx context.Context, collection, group string, vector []float32, k int) ([]vectorstore.SearchResult, error)
}

// IngestRequest describes one batch of documents to commit.
type IngestRequest struct {
	Collection string
	Group      string
	Documents  []vectorstore.Document
	Message    string
	Author     string
}

// Status summarizes a group's deployment.
type Status struct {
	Group        string
	ActiveCommit string
	Commit       *storage.Commit
	UpdatedAt    time.Time
	// DocumentCount is the number of active documents in the collection.
	DocumentCount int
	TotalCommits  int
	// TotalDocuments counts every version of the group's documents.
	TotalDocuments int
}

// Engine implements VersionControl.
type Engine struct {
	log          CommitLog
	store        vectorstore.VectorStore
	clock        func() time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics
	historyLimit int
}

var _ VersionControl = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for commit timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics records operation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithHistoryLimit overrides DefaultHistoryLimit.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

// NewEngine creates an Engine over a commit log and a vector store.
func NewEngine(commitLog CommitLog, store vectorstore.VectorStore, opts ...Option) *Engine {
	e := &Engine{
		log:          commitLog,
		store:        store,
		clock:        time.Now,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) getLogger(ctx context.Context) *slog.Logger {
	if e.logger != nil && contextutil.LoggerFromContext(ctx) == slog.Default() {
		return e.logger
	}
	return contextutil.LoggerFromContext(ctx)
}

// Ingest uploads documents as a new commit of the group and makes it active.
//
// The steps run in order: upload, deactivate the previous commit, append the
// commit, advance the pointer. A failed upload records nothing. A failed
// deactivation still records the commit and returns its hash together with
// an inconsistent VectorStore error.
func (e *Engine) Ingest(ctx context.Context, req IngestRequest) (hash string, err error) {
	start := time.Now()
	defer func() { e.metrics.ObserveOperation("ingest", start, err) }()

	logger := e.getLogger(ctx).With("group", req.Group, "collection", req.Collection)

	if err := validateIngest(req); err != nil {
		logger.WarnContext(ctx, "invalid ingest request", "error", err)
		return "", err
	}

	parent := ""
	deployment, err := e.log.GetDeployment(ctx, req.Group)
	switch {
	case err == nil:
		parent = deployment.ActiveCommitHash
	case errors.Is(err, clamperr.NoDeployment):
	default:
		return "", err
	}

	docs := withIDs(req.Documents)
	timestamp := e.clock().UnixMilli()
	hash = identity.ComputeHash(req.Group, parent, req.Message, docs, timestamp)
	logger = logger.With("commit", identity.Short(hash))

	if err := e.store.Upload(ctx, req.Collection, taggedPoints(docs, req.Group, hash)); err != nil {
		logger.ErrorContext(ctx, "failed to upload documents", "error", err)
		return "", clamperr.UploadFailed(req.Collection, err)
	}
	e.metrics.AddDocuments(len(docs))

	// Documents are in the store; finish the sequence even if ctx is cancelled.
	mctx := context.WithoutCancel(ctx)

	var toggleErr error
	if parent != "" {
		if err := e.store.SetActive(mctx, req.Collection, req.Group, parent, false); err != nil {
			toggleErr = clamperr.ToggleFailed(req.Collection, parent, clamperr.StageDeactivatingPrevious, err)
			logger.ErrorContext(ctx, "failed to deactivate previous commit", "previous", identity.Short(parent), "error", err)
			e.metrics.Inconsistent("ingest", string(clamperr.StageDeactivatingPrevious))
		}
	}

	commit := &storage.Commit{
		Hash:          hash,
		Group:         req.Group,
		ParentHash:    parent,
		Message:       req.Message,
		Author:        req.Author,
		Timestamp:     timestamp,
		DocumentCount: len(docs),
	}
	// A failed write keeps toggleErr so the caller still learns that the
	// previous commit is active too.
	recordFailed := func(stage clamperr.Stage, cause error) error {
		logger.ErrorContext(ctx, "failed to record commit", "stage", stage, "error", cause)
		e.metrics.Inconsistent("ingest", string(stage))
		return errors.Join(clamperr.RecordFailed(req.Group, hash, stage, cause), toggleErr)
	}
	if err := e.log.Append(mctx, commit); err != nil {
		return "", recordFailed(clamperr.StageAppendingCommit, err)
	}
	if err := e.log.SetDeployment(mctx, req.Group, hash); err != nil {
		return "", recordFailed(clamperr.StageUpdatingPointer, err)
	}

	if toggleErr != nil {
		return hash, toggleErr
	}

	logger.InfoContext(ctx, "ingested commit", "documents", len(docs), "parent", identity.Short(parent))
	return hash, nil
}

func validateIngest(req IngestRequest) error {
	if req.Group == "" {
		return clamperr.Invalid("group", "group is empty")
	}
	if req.Collection == "" {
		return clamperr.Invalid("collection", "collection is empty")
	}
	if len(req.Documents) == 0 {
		return clamperr.EmptyDocuments()
	}
	for i, doc := range req.Documents {
		if len(doc.Vector) == 0 {
			return clamperr.MissingVector(i)
		}
	}
	return nil
}

// withIDs copies docs, generating a UUID for every document without an ID.
func withIDs(docs []vectorstore.Document) []vectorstore.Document {
	out := make([]vectorstore.Document, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		out[i] = doc
	}
	return out
}

func taggedPoints(docs []vectorstore.Document, group, hash string) []vectorstore.Point {
	points := make([]vectorstore.Point, len(docs))
	for i, doc := range docs {
		meta := make(map[string]any, len(doc.Payload)+3)
		maps.Copy(meta, doc.Payload)
		meta[vectorstore.FieldGroup] = group
		meta[vectorstore.FieldCommit] = hash
		meta[vectorstore.FieldActive] = true

		points[i] = vectorstore.Point{ID: doc.ID, Vec: doc.Vector, Meta: meta}
	}
	return points
}

// Rollback makes commitHash the active commit of group.
//
// Preconditions are checked before anything is mutated. Once the target has
// been activated, any failure is reported as RollbackFailure naming the
// stage; nothing is retried or undone.
func (e *Engine) Rollback(ctx context.Context, collection, group, commitHash string) (err error) {
	start := time.Now()
	defer func() { e.metrics.ObserveOperation("rollback", start, err) }()

	logger := e.getLogger(ctx).With("group", group, "collection", collection, "commit", identity.Short(commitHash))

	target, err := e.log.Get(ctx, commitHash)
	if err != nil {
		return err
	}
	if target.Group != group {
		return clamperr.Mismatch(commitHash, group, target.Group)
	}

	deployment, err := e.log.GetDeployment(ctx, group)
	if err != nil {
		return err
	}
	previous := deployment.ActiveCommitHash
	if previous == commitHash {
		logger.InfoContext(ctx, "already at commit")
		return nil
	}

	mctx := context.WithoutCancel(ctx)
	fail := func(stage clamperr.Stage, cause error) error {
		logger.ErrorContext(ctx, "rollback failed", "stage", stage, "previous", identity.Short(previous), "error", cause)
		e.metrics.Inconsistent("rollback", string(stage))
		return clamperr.RollbackFailed(commitHash, stage, cause)
	}

	if err := e.store.SetActive(mctx, collection, group, commitHash, true); err != nil {
		return fail(clamperr.StageActivatingTarget, err)
	}
	if err := e.store.SetActive(mctx, collection, group, previous, false); err != nil {
		return fail(clamperr.StageDeactivatingPrevious, err)
	}
	if err := e.log.SetDeployment(mctx, group, commitHash); err != nil {
		return fail(clamperr.StageUpdatingPointer, err)
	}

	logger.InfoContext(ctx, "rolled back", "previous", identity.Short(previous))
	return nil
}

// History returns up to limit commits of group, newest first.
func (e *Engine) History(ctx context.Context, group string, limit int) ([]*storage.Commit, error) {
	if limit <= 0 {
		limit = e.historyLimit
	}

	commits := make([]*storage.Commit, 0, limit)
	for commit, err := range e.log.History(ctx, group, limit) {
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	if len(commits) == 0 {
		return nil, clamperr.GroupNotFound(group)
	}
	return commits, nil
}

// Status reports the active commit of group and its document counts.
func (e *Engine) Status(ctx context.Context, collection, group string) (st *Status, err error) {
	start := time.Now()
	defer func() { e.metrics.ObserveOperation("status", start, err) }()

	deployment, err := e.log.GetDeployment(ctx, group)
	if err != nil {
		return nil, err
	}
	commit, err := e.log.Get(ctx, deployment.ActiveCommitHash)
	if err != nil {
		return nil, err
	}
	totalCommits, err := e.log.CountCommits(ctx, group)
	if err != nil {
		return nil, err
	}

	active, err := e.store.Count(ctx, collection, vectorstore.ActiveFilter(group))
	if err != nil {
		return nil, clamperr.CountFailed(collection, err)
	}
	total, err := e.store.Count(ctx, collection, vectorstore.GroupFilter(group))
	if err != nil {
		return nil, clamperr.CountFailed(collection, err)
	}
	e.metrics.SetActiveDocuments(group, active)

	return &Status{
		Group:          group,
		ActiveCommit:   deployment.ActiveCommitHash,
		Commit:         commit,
		UpdatedAt:      deployment.UpdatedAt,
		DocumentCount:  active,
		TotalCommits:   totalCommits,
		TotalDocuments: total,
	}, nil
}

// Deployment returns group's deployment pointer without touching the vector store.
func (e *Engine) Deployment(ctx context.Context, group string) (*storage.Deployment, error) {
	return e.log.GetDeployment(ctx, group)
}

// ActiveFilter returns the predicate selecting group's active documents.
// The group must have a deployment.
func (e *Engine) ActiveFilter(ctx context.Context, group string) (vectorstore.Predicate, error) {
	if _, err := e.log.GetDeployment(ctx, group); err != nil {
		return vectorstore.Predicate{}, err
	}
	return vectorstore.ActiveFilter(group), nil
}

// Groups lists every group with at least one commit.
func (e *Engine) Groups(ctx context.Context) ([]string, error) {
	return e.log.ListGroups(ctx)
}

// ResolveCommit finds a commit by full or abbreviated hash, preferring
// commits of group. A ref matching only another group's commit resolves to
// that commit, so Rollback can report the group mismatch.
func (e *Engine) ResolveCommit(ctx context.Context, group, ref string) (*storage.Commit, error) {
	commit, err := e.log.FindByPrefix(ctx, group, ref)
	if errors.Is(err, clamperr.NotFound) {
		return e.log.FindByPrefix(ctx, storage.AnyGroup, ref)
	}
	return commit, err
}

// Purge deactivates every stored document of group, whichever commit it
// belongs to, then deletes the group's commits and deployment pointer. The
// documents stay in the vector store.
func (e *Engine) Purge(ctx context.Context, collection, group string) (err error) {
	start := time.Now()
	defer func() { e.metrics.ObserveOperation("purge", start, err) }()

	logger := e.getLogger(ctx).With("group", group, "collection", collection)

	if group == "" {
		return clamperr.Invalid("group", "group is empty")
	}
	n, err := e.log.CountCommits(ctx, group)
	if err != nil {
		return err
	}
	if n == 0 {
		return clamperr.GroupNotFound(group)
	}

	if err := e.store.Deactivate(ctx, collection, vectorstore.GroupFilter(group)); err != nil {
		logger.ErrorContext(ctx, "failed to deactivate group", "error", err)
		return &clamperr.Error{Kind: clamperr.VectorStore, Op: "deactivate group documents", Group: group, Collection: collection, Err: err, Index: -1}
	}
	if err := e.log.PurgeGroup(context.WithoutCancel(ctx), group); err != nil {
		logger.ErrorContext(ctx, "failed to purge commit log", "error", err)
		return err
	}

	logger.InfoContext(ctx, "purged group", "commits", n)
	return nil
}

// Search runs a similarity query limited to group's active documents.
func (e *Engine) Search(ctx context.Context, collection, group string, vector []float32, k int) ([]vectorstore.SearchResult, error) {
	if len(vector) == 0 {
		return nil, clamperr.Invalid("vector", "query vector is empty")
	}
	if k <= 0 {
		return nil, clamperr.Invalid("k", "k must be greater than 0")
	}
	pred, err := e.ActiveFilter(ctx, group)
	if err != nil {
		return nil, err
	}
	results, err := e.store.Search(ctx, collection, vector, k, pred)
	if err != nil {
		return nil, &clamperr.Error{Kind: clamperr.VectorStore, Op: "search documents", Collection: collection, Err: err, Index: -1}
	}
	return results, nil
}
