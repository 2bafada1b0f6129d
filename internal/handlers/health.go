package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/athaapa/clamp/internal/contextutil"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        HealthChecker
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectorStore HealthChecker) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// swagger:route GET /api/health healthCheck
//
// Returns 200 OK if the vector store answers, 503 Service Unavailable otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"vector_store": "ok"}
	var issues []string

	if h.vectorStore != nil {
		if err := h.vectorStore.Health(checkCtx); err != nil {
			logger.WarnContext(ctx, "vector store health check failed", "error", err)
			checks["vector_store"] = "error"
			issues = append(issues, "vector_store_unavailable")
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}
