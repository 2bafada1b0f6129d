package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/mock/gomock"

	"github.com/athaapa/clamp/internal/metrics"
	"github.com/athaapa/clamp/internal/service/mocks"
)

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(&Deps{VersionControl: mocks.NewMockVersionControl(ctrl)})
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vc := mocks.NewMockVersionControl(ctrl)
	vc.EXPECT().Groups(gomock.Any()).Return([]string{"faq"}, nil).AnyTimes()

	router := NewRouter(&Deps{VersionControl: vc, DefaultCollection: "docs"})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/groups",
			method:     http.MethodGet,
			path:       "/api/groups",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/groups/{group}/commits exists",
			method:     http.MethodPost,
			path:       "/api/groups/faq/commits",
			wantStatus: http.StatusBadRequest, // Bad request due to empty body, but route exists
		},
		{
			name:       "POST /api/groups/{group}/rollback exists",
			method:     http.MethodPost,
			path:       "/api/groups/faq/rollback",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "DELETE /api/groups/{group}/commits method not allowed",
			method:     http.MethodDelete,
			path:       "/api/groups/faq/commits",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "metrics disabled without gatherer",
			method:     http.MethodGet,
			path:       "/metrics",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.AddDocuments(3)

	router := NewRouter(&Deps{VersionControl: mocks.NewMockVersionControl(ctrl), Gatherer: reg})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %v, want %v", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "clamp_documents_uploaded_total") {
		t.Errorf("GET /metrics body missing clamp metrics:\n%s", w.Body.String())
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(&Deps{VersionControl: mocks.NewMockVersionControl(ctrl)})

	req := httptest.NewRequest(http.MethodPost, "/api/groups/faq/commits", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Check CORS headers are present
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
