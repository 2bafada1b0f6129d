package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/athaapa/clamp/internal/clamperr"
	"github.com/athaapa/clamp/internal/contextutil"
	"github.com/athaapa/clamp/internal/docfile"
	"github.com/athaapa/clamp/internal/render"
	"github.com/athaapa/clamp/internal/service"
	"github.com/athaapa/clamp/internal/storage"
	"github.com/athaapa/clamp/internal/vectorstore"
)

const maxBodyBytes = 32 << 20

// GroupHandler serves the per-group version-control routes.
type GroupHandler struct {
	vc                service.VersionControl
	defaultCollection string
}

// NewGroupHandler creates a new GroupHandler. defaultCollection is used when a
// request does not name a collection.
func NewGroupHandler(vc service.VersionControl, defaultCollection string) *GroupHandler {
	return &GroupHandler{vc: vc, defaultCollection: defaultCollection}
}

// GroupsResponse lists known groups.
//
// swagger:model GroupsResponse
type GroupsResponse struct {
	Groups []string `json:"groups"`
}

// CommitResponse is one commit of a history listing.
//
// swagger:model CommitResponse
type CommitResponse struct {
	Hash        string `json:"hash"`
	ParentHash  string `json:"parent_hash,omitempty"`
	Group       string `json:"group"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	MessageHTML string `json:"message_html,omitempty"`
	Author      string `json:"author,omitempty"`
	// Timestamp in Unix milliseconds.
	Timestamp     int64  `json:"timestamp"`
	Time          string `json:"time"`
	DocumentCount int    `json:"document_count"`
	Active        bool   `json:"active"`
}

// HistoryResponse lists commits newest first.
//
// swagger:model HistoryResponse
type HistoryResponse struct {
	Group   string           `json:"group"`
	Commits []CommitResponse `json:"commits"`
}

// IngestResponse is returned after a successful ingest.
//
// swagger:model IngestResponse
type IngestResponse struct {
	Commit        string `json:"commit"`
	Group         string `json:"group"`
	Collection    string `json:"collection"`
	DocumentCount int    `json:"document_count"`
	// Warning is set when the commit was recorded but the previous version
	// could not be deactivated.
	Warning string `json:"warning,omitempty"`
}

// StatusResponse summarizes a group's deployment.
//
// swagger:model StatusResponse
type StatusResponse struct {
	Group          string          `json:"group"`
	Collection     string          `json:"collection"`
	ActiveCommit   string          `json:"active_commit"`
	Commit         *CommitResponse `json:"commit,omitempty"`
	UpdatedAt      string          `json:"updated_at"`
	DocumentCount  int             `json:"document_count"`
	TotalCommits   int             `json:"total_commits"`
	TotalDocuments int             `json:"total_documents"`
}

// RollbackRequest names the commit to restore. Commit may be abbreviated.
//
// swagger:model RollbackRequest
type RollbackRequest struct {
	Commit     string `json:"commit"`
	Collection string `json:"collection,omitempty"`
}

// RollbackResponse is returned after a rollback.
//
// swagger:model RollbackResponse
type RollbackResponse struct {
	Group        string `json:"group"`
	ActiveCommit string `json:"active_commit"`
}

// FilterCondition is one condition in the vector store's filter syntax.
type FilterCondition struct {
	Key   string         `json:"key"`
	Match map[string]any `json:"match,omitempty"`
	Range map[string]any `json:"range,omitempty"`
}

// FilterResponse is the active-document predicate of a group.
//
// swagger:model FilterResponse
type FilterResponse struct {
	Must []FilterCondition `json:"must"`
}

// SearchRequest is a similarity query restricted to active documents.
//
// swagger:model SearchRequest
type SearchRequest struct {
	Vector     []float32 `json:"vector"`
	K          int       `json:"k,omitempty"`
	Collection string    `json:"collection,omitempty"`
}

// SearchResultResponse is one search hit.
type SearchResultResponse struct {
	ID      string         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// SearchResponse lists search hits, best first.
//
// swagger:model SearchResponse
type SearchResponse struct {
	Results []SearchResultResponse `json:"results"`
}

func (h *GroupHandler) collection(c string) string {
	if c != "" {
		return c
	}
	return h.defaultCollection
}

// List handles GET /api/groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groups, err := h.vc.Groups(ctx)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	if groups == nil {
		groups = []string{}
	}
	writeJSON(ctx, w, http.StatusOK, GroupsResponse{Groups: groups})
}

// Ingest handles POST /api/groups/{group}/commits. The body is a document
// batch in JSON.
func (h *GroupHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	group := chi.URLParam(r, "group")

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	batch, err := docfile.Parse(data)
	if err != nil {
		logger.WarnContext(ctx, "invalid ingest body", "error", err)
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	collection := h.collection(batch.Collection)
	hash, err := h.vc.Ingest(ctx, service.IngestRequest{
		Collection: collection,
		Group:      group,
		Documents:  batch.VectorDocuments(),
		Message:    batch.Message,
		Author:     batch.Author,
	})
	if hash == "" {
		handleServiceError(ctx, w, err)
		return
	}

	resp := IngestResponse{
		Commit:        hash,
		Group:         group,
		Collection:    collection,
		DocumentCount: len(batch.Documents),
	}
	if err != nil {
		logger.WarnContext(ctx, "ingest committed with warning", "commit", hash, "error", err)
		resp.Warning = err.Error()
	}
	writeJSON(ctx, w, http.StatusCreated, resp)
}

// History handles GET /api/groups/{group}/commits?limit=N.
func (h *GroupHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group := chi.URLParam(r, "group")

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	commits, err := h.vc.History(ctx, group, limit)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	// A group without a deployment still has a history.
	var active string
	if d, err := h.vc.Deployment(ctx, group); err == nil {
		active = d.ActiveCommitHash
	}

	resp := HistoryResponse{Group: group, Commits: make([]CommitResponse, 0, len(commits))}
	for _, c := range commits {
		resp.Commits = append(resp.Commits, commitResponse(ctx, c, active))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Status handles GET /api/groups/{group}/status?collection=C.
func (h *GroupHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group := chi.URLParam(r, "group")
	collection := h.collection(r.URL.Query().Get("collection"))

	st, err := h.vc.Status(ctx, collection, group)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp := StatusResponse{
		Group:          st.Group,
		Collection:     collection,
		ActiveCommit:   st.ActiveCommit,
		UpdatedAt:      st.UpdatedAt.UTC().Format(time.RFC3339),
		DocumentCount:  st.DocumentCount,
		TotalCommits:   st.TotalCommits,
		TotalDocuments: st.TotalDocuments,
	}
	if st.Commit != nil {
		c := commitResponse(ctx, st.Commit, st.ActiveCommit)
		resp.Commit = &c
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Rollback handles POST /api/groups/{group}/rollback.
func (h *GroupHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group := chi.URLParam(r, "group")

	var req RollbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Commit == "" {
		handleServiceError(ctx, w, clamperr.Invalid("commit", "commit is required"))
		return
	}

	target, err := h.vc.ResolveCommit(ctx, group, req.Commit)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	if err := h.vc.Rollback(ctx, h.collection(req.Collection), group, target.Hash); err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, RollbackResponse{Group: group, ActiveCommit: target.Hash})
}

// Purge handles DELETE /api/groups/{group}?collection=C.
func (h *GroupHandler) Purge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group := chi.URLParam(r, "group")

	if err := h.vc.Purge(ctx, h.collection(r.URL.Query().Get("collection")), group); err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Filter handles GET /api/groups/{group}/filter.
func (h *GroupHandler) Filter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group := chi.URLParam(r, "group")

	pred, err := h.vc.ActiveFilter(ctx, group)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, filterResponse(pred))
}

// Search handles POST /api/groups/{group}/search.
func (h *GroupHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group := chi.URLParam(r, "group")

	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.K == 0 {
		req.K = 10
	}

	results, err := h.vc.Search(ctx, h.collection(req.Collection), group, req.Vector, req.K)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	resp := SearchResponse{Results: make([]SearchResultResponse, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, SearchResultResponse{ID: res.PointID, Score: res.Score, Payload: res.Meta})
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func commitResponse(ctx context.Context, c *storage.Commit, active string) CommitResponse {
	html, err := render.MessageHTML(c.Message)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to render commit message", "commit", c.Hash, "error", err)
	}
	return CommitResponse{
		Hash:          c.Hash,
		ParentHash:    c.ParentHash,
		Group:         c.Group,
		Subject:       render.Subject(c.Message),
		Message:       c.Message,
		MessageHTML:   html,
		Author:        c.Author,
		Timestamp:     c.Timestamp,
		Time:          time.UnixMilli(c.Timestamp).UTC().Format(time.RFC3339),
		DocumentCount: c.DocumentCount,
		Active:        c.Hash == active,
	}
}

func filterResponse(pred vectorstore.Predicate) FilterResponse {
	resp := FilterResponse{Must: make([]FilterCondition, 0, len(pred.Must))}
	for _, c := range pred.Must {
		fc := FilterCondition{Key: c.Field}
		if c.Range != nil {
			fc.Range = map[string]any{}
			if c.Range.Gte != nil {
				fc.Range["gte"] = *c.Range.Gte
			}
			if c.Range.Lte != nil {
				fc.Range["lte"] = *c.Range.Lte
			}
		} else {
			fc.Match = map[string]any{"value": c.Value}
		}
		resp.Must = append(resp.Must, fc)
	}
	return resp
}
