package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for version-control operations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	DocumentsUploaded prometheus.Counter
	InconsistentTotal *prometheus.CounterVec
	ActiveDocuments   *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clamp_operations_total",
				Help: "Total number of version-control operations",
			},
			[]string{"operation", "status"},
		),

		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clamp_operation_duration_seconds",
				Help:    "Duration of version-control operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		DocumentsUploaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clamp_documents_uploaded_total",
				Help: "Total number of documents uploaded by ingests",
			},
		),

		InconsistentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clamp_inconsistent_failures_total",
				Help: "Failures that may leave the vector store and metadata log disagreeing",
			},
			[]string{"operation", "stage"},
		),

		ActiveDocuments: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "clamp_active_documents",
				Help: "Active document count per group, as of the last status query",
			},
			[]string{"group"},
		),
	}
}

// ObserveOperation records the outcome and duration of one operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// AddDocuments counts uploaded documents.
func (m *Metrics) AddDocuments(n int) {
	if m == nil {
		return
	}
	m.DocumentsUploaded.Add(float64(n))
}

// Inconsistent counts a failure that left the stores possibly out of sync.
func (m *Metrics) Inconsistent(operation, stage string) {
	if m == nil {
		return
	}
	m.InconsistentTotal.WithLabelValues(operation, stage).Inc()
}

// SetActiveDocuments records the active document count of a group.
func (m *Metrics) SetActiveDocuments(group string, n int) {
	if m == nil {
		return
	}
	m.ActiveDocuments.WithLabelValues(group).Set(float64(n))
}
