// Package main provides the clamp CLI: commit, history, status and rollback
// for document groups stored in a vector database.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/athaapa/clamp/internal/config"
	"github.com/athaapa/clamp/internal/contextutil"
	"github.com/athaapa/clamp/internal/service"
	"github.com/athaapa/clamp/internal/storage"
	"github.com/athaapa/clamp/internal/vectorstore"
)

// storeOpener connects to the vector store. The returned func releases it.
type storeOpener func(ctx context.Context, cfg *config.Config) (vectorstore.VectorStore, func() error, error)

// app carries state shared by every subcommand.
type app struct {
	cfg       *config.Config
	openStore storeOpener
	in        io.Reader
	out       io.Writer

	dbPath    string
	qdrantURL string
	verbose   bool

	commitLog  *storage.CommitLog
	store      vectorstore.VectorStore
	closeStore func() error
}

func openQdrant(ctx context.Context, cfg *config.Config) (vectorstore.VectorStore, func() error, error) {
	store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	return store, store.Close, nil
}

func newApp() *app {
	return &app{
		openStore: openQdrant,
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "clamp",
		Short: "Git-like version control for vector database collections",
		Long: `Clamp keeps every ingest of a document group as a commit. Old versions
stay in the vector store with their active flag cleared, so a rollback
flips flags instead of moving data.

Environment variables:
  CLAMP_DB_PATH      commit log location (default: ~/.clamp/db.sqlite)
  QDRANT_URL         Qdrant HTTP URL (default: http://localhost:6333)
  QDRANT_COLLECTION  default collection (default: documents)
  LOG_LEVEL          debug, info, warn or error (default: info)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.dbPath, "db-path", "", "path to the commit log database")
	root.PersistentFlags().StringVar(&a.qdrantURL, "qdrant-url", "", "Qdrant HTTP URL")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log engine activity to stderr")

	root.AddCommand(
		newInitCmd(a),
		newIngestCmd(a),
		newHistoryCmd(a),
		newStatusCmd(a),
		newRollbackCmd(a),
		newGroupsCmd(a),
		newPurgeCmd(a),
		newDemoCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.dbPath != "" {
		a.cfg.DBPath = a.dbPath
	}
	if a.qdrantURL != "" {
		a.cfg.QdrantURL = a.qdrantURL
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	cmd.SetContext(contextutil.WithLogger(cmd.Context(), logger))
	return nil
}

// engine opens the commit log and the vector store on first use.
func (a *app) engine(ctx context.Context) (*service.Engine, error) {
	if a.commitLog == nil {
		commitLog, err := storage.Open(a.cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.commitLog = commitLog
	}
	if a.store == nil {
		store, closeStore, err := a.openStore(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		a.store, a.closeStore = store, closeStore
	}
	return service.NewEngine(a.commitLog, a.store, service.WithHistoryLimit(a.cfg.HistoryLimit)), nil
}

func (a *app) close() {
	if a.closeStore != nil {
		_ = a.closeStore()
	}
	if a.commitLog != nil {
		_ = a.commitLog.Close()
	}
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func main() {
	a := newApp()
	defer a.close()

	root := newRootCmd(a)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		a.close()
		os.Exit(1)
	}
}
