package vectorstore

import (
	"context"
	"testing"
)

func tagged(id, group, commit string, active bool, vec ...float32) Point {
	return Point{
		ID:  id,
		Vec: vec,
		Meta: map[string]any{
			FieldGroup:  group,
			FieldCommit: commit,
			FieldActive: active,
		},
	}
}

func TestMemoryStore_SetActiveAndCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Upload(ctx, "docs", []Point{
		tagged("1", "faq", "c1", true, 1, 0),
		tagged("2", "faq", "c1", true, 0, 1),
		tagged("3", "faq", "c2", false, 1, 1),
		tagged("4", "blog", "c1", true, 1, 0),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if n, _ := store.Count(ctx, "docs", ActiveFilter("faq")); n != 2 {
		t.Errorf("active faq = %d, want 2", n)
	}

	if err := store.SetActive(ctx, "docs", "faq", "c1", false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if err := store.SetActive(ctx, "docs", "faq", "c2", true); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	if n, _ := store.Count(ctx, "docs", ActiveFilter("faq")); n != 1 {
		t.Errorf("active faq after toggle = %d, want 1", n)
	}
	// Same commit hash in another group is untouched.
	if n, _ := store.Count(ctx, "docs", ActiveFilter("blog")); n != 1 {
		t.Errorf("active blog = %d, want 1", n)
	}
	if n, _ := store.Count(ctx, "docs", GroupFilter("faq")); n != 3 {
		t.Errorf("total faq = %d, want 3", n)
	}
	if n, _ := store.Count(ctx, "other", Predicate{}); n != 0 {
		t.Errorf("unknown collection count = %d, want 0", n)
	}
}

func TestMemoryStore_Deactivate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Upload(ctx, "docs", []Point{
		tagged("1", "faq", "c1", true, 1, 0),
		tagged("2", "faq", "c2", true, 0, 1),
		tagged("3", "blog", "c1", true, 1, 1),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if err := store.Deactivate(ctx, "docs", GroupFilter("faq")); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if n, _ := store.Count(ctx, "docs", ActiveFilter("faq")); n != 0 {
		t.Errorf("active faq = %d, want 0", n)
	}
	if n, _ := store.Count(ctx, "docs", GroupFilter("faq")); n != 2 {
		t.Errorf("total faq = %d, want 2", n)
	}
	if n, _ := store.Count(ctx, "docs", ActiveFilter("blog")); n != 1 {
		t.Errorf("active blog = %d, want 1", n)
	}
}

func TestMemoryStore_UploadCopiesPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := tagged("1", "faq", "c1", true, 1, 0)
	if err := store.Upload(ctx, "docs", []Point{p}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	p.Meta[FieldActive] = false

	if n, _ := store.Count(ctx, "docs", ActiveFilter("faq")); n != 1 {
		t.Error("mutating caller payload after upload changed stored record")
	}
}

func TestMemoryStore_UploadRejectsEmptyID(t *testing.T) {
	store := NewMemoryStore()
	err := store.Upload(context.Background(), "docs", []Point{{Vec: []float32{1}}})
	if err == nil {
		t.Error("Upload() with empty id should fail")
	}
}

func TestMemoryStore_Search(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_ = store.Upload(ctx, "docs", []Point{
		tagged("1", "faq", "c1", true, 1, 0),
		tagged("2", "faq", "c1", true, 0.9, 0.1),
		tagged("3", "faq", "c1", true, 0, 1),
		tagged("4", "faq", "c0", false, 1, 0),
	})

	results, err := store.Search(ctx, "docs", []float32{1, 0}, 2, ActiveFilter("faq"))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].PointID != "1" || results[1].PointID != "2" {
		t.Errorf("order = %s,%s, want 1,2", results[0].PointID, results[1].PointID)
	}
	for _, r := range results {
		if r.Meta[FieldActive] != true {
			t.Errorf("result %s is not active", r.PointID)
		}
	}

	if _, err := store.Search(ctx, "docs", []float32{1, 0}, 0, Predicate{}); err == nil {
		t.Error("Search() with k=0 should return error")
	}
}

func TestMemoryStore_Points(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Upload(ctx, "docs", []Point{
		tagged("b", "faq", "c1", true, 1),
		tagged("a", "faq", "c1", true, 1),
		tagged("c", "faq", "c2", false, 1),
	})

	got := store.Points("docs", CommitFilter("faq", "c1"))
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("Points() = %v, want a,b", got)
	}
}
