package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/athaapa/clamp/internal/identity"
	"github.com/athaapa/clamp/internal/service"
	"github.com/athaapa/clamp/internal/storage"
	"github.com/athaapa/clamp/internal/vectorstore"
)

const demoCollection = "demo"

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through ingest, rollback and status against an in-memory store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.MkdirTemp("", "clamp-demo-")
			if err != nil {
				return err
			}
			defer func() {
				_ = os.RemoveAll(dir)
			}()
			return a.runDemo(cmd.Context(), filepath.Join(dir, "demo.sqlite"))
		},
	}
}

func (a *app) runDemo(ctx context.Context, dbPath string) error {
	commitLog, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = commitLog.Close()
	}()

	store := vectorstore.NewMemoryStore()
	engine := service.NewEngine(commitLog, store)
	const group = "faq"

	a.printf("1. Ingest two documents into %q\n", group)
	v1, err := engine.Ingest(ctx, service.IngestRequest{
		Collection: demoCollection,
		Group:      group,
		Message:    "Initial FAQ",
		Documents: []vectorstore.Document{
			{ID: "1", Vector: []float32{1, 0, 0}, Payload: map[string]any{"q": "What is clamp?"}},
			{ID: "2", Vector: []float32{0, 1, 0}, Payload: map[string]any{"q": "How do I roll back?"}},
		},
	})
	if err != nil {
		return err
	}
	a.printf("   committed %s\n", identity.Short(v1))
	if err := a.demoStatus(ctx, engine, group); err != nil {
		return err
	}

	a.printf("2. Ingest a revised version with three documents\n")
	v2, err := engine.Ingest(ctx, service.IngestRequest{
		Collection: demoCollection,
		Group:      group,
		Message:    "Expand FAQ",
		Documents: []vectorstore.Document{
			{ID: "3", Vector: []float32{1, 0, 0}, Payload: map[string]any{"q": "What is clamp, really?"}},
			{ID: "4", Vector: []float32{0, 1, 0}, Payload: map[string]any{"q": "How do I roll back safely?"}},
			{ID: "5", Vector: []float32{0, 0, 1}, Payload: map[string]any{"q": "Where is history kept?"}},
		},
	})
	if err != nil {
		return err
	}
	a.printf("   committed %s (parent %s)\n", identity.Short(v2), identity.Short(v1))
	if err := a.demoStatus(ctx, engine, group); err != nil {
		return err
	}

	a.printf("3. Roll back to %s\n", identity.Short(v1))
	if err := engine.Rollback(ctx, demoCollection, group, v1); err != nil {
		return err
	}
	if err := a.demoStatus(ctx, engine, group); err != nil {
		return err
	}

	a.printf("4. History\n")
	commits, err := engine.History(ctx, group, 0)
	if err != nil {
		return err
	}
	for _, c := range commits {
		a.printf("   %s  %s\n", identity.Short(c.Hash), subjectOrPlaceholder(c.Message))
	}

	a.printf("5. Search the active version\n")
	results, err := engine.Search(ctx, demoCollection, group, []float32{1, 0, 0}, 1)
	if err != nil {
		return err
	}
	for _, r := range results {
		a.printf("   %s %.2f %v\n", r.PointID, r.Score, r.Meta["q"])
	}
	return nil
}

func (a *app) demoStatus(ctx context.Context, engine *service.Engine, group string) error {
	st, err := engine.Status(ctx, demoCollection, group)
	if err != nil {
		return err
	}
	a.printf("   active %s: %d active of %d stored documents, %d commits\n",
		identity.Short(st.ActiveCommit), st.DocumentCount, st.TotalDocuments, st.TotalCommits)
	return nil
}
