package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/athaapa/clamp/internal/clamperr"
	"github.com/athaapa/clamp/internal/contextutil"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
	// Kind is the error category, e.g. "not found".
	Kind string `json:"kind,omitempty"`
	// Stage is the step a multi-store mutation failed at.
	Stage string `json:"stage,omitempty"`
	// Inconsistent is set when the vector store and the commit log may disagree.
	Inconsistent bool `json:"inconsistent,omitempty"`
}

// statusFor maps an error kind to an HTTP status code.
func statusFor(kind clamperr.Kind) int {
	switch kind {
	case clamperr.Validation:
		return http.StatusBadRequest
	case clamperr.NotFound, clamperr.NoDeployment:
		return http.StatusNotFound
	case clamperr.GroupMismatch:
		return http.StatusConflict
	case clamperr.VectorStore:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError maps engine errors to HTTP status codes and responses.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var cerr *clamperr.Error
	if !errors.As(err, &cerr) {
		logger.ErrorContext(ctx, "unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	status := statusFor(cerr.Kind)
	if status >= http.StatusInternalServerError || cerr.Inconsistent {
		logger.ErrorContext(ctx, "request failed", "error", err, "stage", cerr.Stage, "inconsistent", cerr.Inconsistent)
	} else {
		logger.WarnContext(ctx, "request rejected", "error", err)
	}

	writeError(w, status, ErrorResponse{
		Error:        err.Error(),
		Kind:         string(cerr.Kind),
		Stage:        string(cerr.Stage),
		Inconsistent: cerr.Inconsistent,
	})
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes v as a JSON response.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
