package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks github.com/athaapa/clamp/internal/vectorstore VectorStore

import "context"

// Reserved payload fields attached to every uploaded document.
const (
	FieldGroup  = "__clamp_group"
	FieldCommit = "__clamp_ver"
	FieldActive = "__clamp_active"
)

// Document is a caller-supplied record to be versioned.
// ID may be empty, a decimal integer, or a UUID string.
type Document struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore is the capability the version-control engine needs from a
// vector database.
type VectorStore interface {
	// Upload inserts points into the collection.
	Upload(ctx context.Context, collection string, points []Point) error

	// SetActive sets the active flag on every record of a group's commit.
	SetActive(ctx context.Context, collection, group, commitHash string, active bool) error

	// Deactivate clears the active flag on every record matching pred.
	Deactivate(ctx context.Context, collection string, pred Predicate) error

	// Count returns the number of records matching pred.
	Count(ctx context.Context, collection string, pred Predicate) (int, error)

	// Search performs a similarity search restricted to records matching pred.
	Search(ctx context.Context, collection string, query []float32, k int, pred Predicate) ([]SearchResult, error)
}
