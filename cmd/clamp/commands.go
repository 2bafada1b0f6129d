package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/athaapa/clamp/internal/clamperr"
	"github.com/athaapa/clamp/internal/docfile"
	"github.com/athaapa/clamp/internal/identity"
	"github.com/athaapa/clamp/internal/render"
	"github.com/athaapa/clamp/internal/service"
)

const timeFormat = "2006-01-02 15:04:05"

// collectionEnsurer is implemented by stores that can create collections.
type collectionEnsurer interface {
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
}

func newInitCmd(a *app) *cobra.Command {
	var vectorSize int
	var collection string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the commit log and, with --vector-size, the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.engine(ctx); err != nil {
				return err
			}
			a.printf("Initialized commit log at %s\n", a.cfg.DBPath)

			if vectorSize == 0 {
				vectorSize = a.cfg.QdrantVectorSize
			}
			if vectorSize <= 0 {
				return nil
			}
			ensurer, ok := a.store.(collectionEnsurer)
			if !ok {
				return nil
			}
			name := a.collection(collection)
			if err := ensurer.EnsureCollection(ctx, name, vectorSize); err != nil {
				return err
			}
			a.printf("Collection %q ready (vector size %d)\n", name, vectorSize)
			return nil
		},
	}
	cmd.Flags().IntVar(&vectorSize, "vector-size", 0, "create the collection with this vector size")
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "collection name")
	return cmd
}

func newIngestCmd(a *app) *cobra.Command {
	var file, message, author, collection string

	cmd := &cobra.Command{
		Use:   "ingest GROUP --file FILE",
		Short: "Commit a batch of documents as the new version of a group",
		Long: `Uploads every document of FILE tagged with a new commit, deactivates
the previous version and moves the group's deployment to the new commit.

FILE is YAML or JSON: either a list of {id, vector, payload} entries or a
mapping with message, author, collection and documents keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			group := args[0]

			batch, err := docfile.Load(file)
			if err != nil {
				return err
			}
			if message != "" {
				batch.Message = message
			}
			if author != "" {
				batch.Author = author
			}
			if collection != "" {
				batch.Collection = collection
			}

			engine, err := a.engine(ctx)
			if err != nil {
				return err
			}
			hash, err := engine.Ingest(ctx, service.IngestRequest{
				Collection: a.collection(batch.Collection),
				Group:      group,
				Documents:  batch.VectorDocuments(),
				Message:    batch.Message,
				Author:     batch.Author,
			})
			if hash == "" {
				return err
			}

			a.printf("Committed %s to %s (%d documents)\n", identity.Short(hash), group, len(batch.Documents))
			if err != nil {
				a.printf("Warning: %v\n", err)
				a.printf("Documents of the previous version may still be active.\n")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON document batch")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message (overrides the file)")
	cmd.Flags().StringVar(&author, "author", "", "commit author")
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "collection name")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history GROUP",
		Short: "Show the commits of a group, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			group := args[0]

			engine, err := a.engine(ctx)
			if err != nil {
				return err
			}
			commits, err := engine.History(ctx, group, limit)
			if err != nil {
				return err
			}

			var active string
			if d, err := engine.Deployment(ctx, group); err == nil {
				active = d.ActiveCommitHash
			}

			for _, c := range commits {
				marker := " "
				if c.Hash == active {
					marker = "*"
				}
				a.printf("%s %s  %s  %4d docs  %s\n",
					marker,
					identity.Short(c.Hash),
					time.UnixMilli(c.Timestamp).Format(timeFormat),
					c.DocumentCount,
					subjectOrPlaceholder(c.Message),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits (default from HISTORY_LIMIT)")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "status GROUP",
		Short: "Show the active commit of a group and its document counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			group := args[0]

			engine, err := a.engine(ctx)
			if err != nil {
				return err
			}
			st, err := engine.Status(ctx, a.collection(collection), group)
			if err != nil {
				return err
			}

			a.printf("Group:            %s\n", st.Group)
			a.printf("Active commit:    %s\n", st.ActiveCommit)
			if st.Commit != nil {
				a.printf("Message:          %s\n", subjectOrPlaceholder(st.Commit.Message))
				a.printf("Committed:        %s\n", time.UnixMilli(st.Commit.Timestamp).Format(timeFormat))
			}
			a.printf("Deployed:         %s\n", st.UpdatedAt.Format(timeFormat))
			a.printf("Active documents: %d\n", st.DocumentCount)
			a.printf("Total documents:  %d\n", st.TotalDocuments)
			a.printf("Total commits:    %d\n", st.TotalCommits)
			return nil
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "collection name")
	return cmd
}

func newRollbackCmd(a *app) *cobra.Command {
	var collection string
	var force bool

	cmd := &cobra.Command{
		Use:   "rollback GROUP COMMIT",
		Short: "Make an earlier commit the active version of a group",
		Long: `Activates the documents of COMMIT, deactivates the current version and
moves the deployment pointer. COMMIT may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			group, ref := args[0], args[1]

			engine, err := a.engine(ctx)
			if err != nil {
				return err
			}
			target, err := engine.ResolveCommit(ctx, group, ref)
			if err != nil {
				return err
			}
			if target.Group != group {
				// Rejected before anything is touched.
				return engine.Rollback(ctx, a.collection(collection), group, target.Hash)
			}

			current, err := engine.Deployment(ctx, group)
			if err != nil {
				return err
			}
			if current.ActiveCommitHash == target.Hash {
				a.printf("Warning: %s is already the active commit of %s\n", identity.Short(target.Hash), group)
				return nil
			}

			if !force {
				ok, err := a.confirm(fmt.Sprintf("Roll back %s from %s to %s (%s)?",
					group, identity.Short(current.ActiveCommitHash), identity.Short(target.Hash), subjectOrPlaceholder(target.Message)))
				if err != nil {
					return err
				}
				if !ok {
					a.printf("Aborted.\n")
					return nil
				}
			}

			if err := engine.Rollback(ctx, a.collection(collection), group, target.Hash); err != nil {
				if clamperr.IsInconsistent(err) {
					a.printf("Rollback stopped at stage %s; re-run the rollback to converge.\n", clamperr.StageOf(err))
				}
				return err
			}
			a.printf("Rolled back %s to %s\n", group, identity.Short(target.Hash))
			return nil
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "collection name")
	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	return cmd
}

func newGroupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups with at least one commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, err := a.engine(ctx)
			if err != nil {
				return err
			}
			groups, err := engine.Groups(ctx)
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				a.printf("No groups yet. Run `clamp ingest GROUP --file FILE` to create one.\n")
				return nil
			}
			for _, g := range groups {
				a.printf("%s\n", g)
			}
			return nil
		},
	}
}

func newPurgeCmd(a *app) *cobra.Command {
	var collection string
	var force bool

	cmd := &cobra.Command{
		Use:   "purge GROUP",
		Short: "Deactivate a group's documents and delete its history",
		Long: `Clears the active flag on every stored document of the group and removes
the group's commits and deployment pointer from the commit log. The documents
themselves stay in the vector store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			group := args[0]

			engine, err := a.engine(ctx)
			if err != nil {
				return err
			}
			if !force {
				ok, err := a.confirm(fmt.Sprintf("Delete the history of %s?", group))
				if err != nil {
					return err
				}
				if !ok {
					a.printf("Aborted.\n")
					return nil
				}
			}

			if err := engine.Purge(ctx, a.collection(collection), group); err != nil {
				return err
			}
			a.printf("Purged %s\n", group)
			return nil
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "collection name")
	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) collection(c string) string {
	if c != "" {
		return c
	}
	return a.cfg.QdrantCollection
}

// confirm asks a yes/no question on the app's input. Anything but y or yes is no.
func (a *app) confirm(question string) (bool, error) {
	a.printf("%s [y/N] ", question)
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func subjectOrPlaceholder(message string) string {
	if s := render.Subject(message); s != "" {
		return s
	}
	return "(no message)"
}
