package vectorstore

import (
	"context"
	"fmt"
	"maps"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore. It backs tests and the CLI demo.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Point
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Point)}
}

// Upload stores copies of the points, replacing any with the same ID.
func (m *MemoryStore) Upload(ctx context.Context, collection string, points []Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]Point)
		m.collections[collection] = coll
	}
	for _, p := range points {
		if p.ID == "" {
			return fmt.Errorf("point without id")
		}
		coll[p.ID] = Point{
			ID:   p.ID,
			Vec:  append([]float32(nil), p.Vec...),
			Meta: maps.Clone(p.Meta),
		}
	}
	return nil
}

// SetActive sets the active flag on every point of the group's commit.
func (m *MemoryStore) SetActive(ctx context.Context, collection, group, commitHash string, active bool) error {
	m.setActive(collection, CommitFilter(group, commitHash), active)
	return nil
}

// Deactivate clears the active flag on every point matching pred.
func (m *MemoryStore) Deactivate(ctx context.Context, collection string, pred Predicate) error {
	m.setActive(collection, pred, false)
	return nil
}

func (m *MemoryStore) setActive(collection string, pred Predicate, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.collections[collection] {
		if !pred.Matches(p.Meta) {
			continue
		}
		if p.Meta == nil {
			p.Meta = make(map[string]any)
		}
		p.Meta[FieldActive] = active
		m.collections[collection][id] = p
	}
}

// Count returns the number of points matching pred.
func (m *MemoryStore) Count(ctx context.Context, collection string, pred Predicate) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, p := range m.collections[collection] {
		if pred.Matches(p.Meta) {
			n++
		}
	}
	return n, nil
}

// Search ranks matching points by cosine similarity and returns the top k.
func (m *MemoryStore) Search(ctx context.Context, collection string, query []float32, k int, pred Predicate) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]SearchResult, 0)
	for _, p := range m.collections[collection] {
		if !pred.Matches(p.Meta) {
			continue
		}
		results = append(results, SearchResult{
			PointID: p.ID,
			Score:   cosine(query, p.Vec),
			Meta:    maps.Clone(p.Meta),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PointID < results[j].PointID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Points returns copies of the points matching pred, ordered by ID.
func (m *MemoryStore) Points(collection string, pred Predicate) []Point {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Point
	for _, p := range m.collections[collection] {
		if pred.Matches(p.Meta) {
			out = append(out, Point{
				ID:   p.ID,
				Vec:  append([]float32(nil), p.Vec...),
				Meta: maps.Clone(p.Meta),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
