package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/athaapa/clamp/internal/clamperr"
	"github.com/athaapa/clamp/internal/service"
	"github.com/athaapa/clamp/internal/service/mocks"
	"github.com/athaapa/clamp/internal/storage"
	"github.com/athaapa/clamp/internal/vectorstore"
	vsmocks "github.com/athaapa/clamp/internal/vectorstore/mocks"
)

func fixedClock() time.Time { return time.UnixMilli(1700000000000) }

func TestEngine_Ingest_StepOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockCommitLog(ctrl)
	store := vsmocks.NewMockVectorStore(ctrl)
	engine := service.NewEngine(log, store, service.WithClock(fixedClock))

	prev := "prev-hash"
	gomock.InOrder(
		log.EXPECT().GetDeployment(gomock.Any(), "g").Return(&storage.Deployment{Group: "g", ActiveCommitHash: prev}, nil),
		store.EXPECT().Upload(gomock.Any(), "docs", gomock.Len(1)).Return(nil),
		store.EXPECT().SetActive(gomock.Any(), "docs", "g", prev, false).Return(nil),
		log.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *storage.Commit) error {
			if c.ParentHash != prev || c.Timestamp != 1700000000000 || c.DocumentCount != 1 {
				t.Errorf("Append() commit = %+v", c)
			}
			return nil
		}),
		log.EXPECT().SetDeployment(gomock.Any(), "g", gomock.Any()).Return(nil),
	)

	hash, err := engine.Ingest(context.Background(), service.IngestRequest{
		Collection: "docs",
		Group:      "g",
		Documents:  []vectorstore.Document{{ID: "1", Vector: []float32{1}}},
		Message:    "m",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("Ingest() hash = %q, want 64 chars", hash)
	}
}

func TestEngine_Ingest_FirstCommitSkipsDeactivation(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockCommitLog(ctrl)
	store := vsmocks.NewMockVectorStore(ctrl)
	engine := service.NewEngine(log, store, service.WithClock(fixedClock))

	log.EXPECT().GetDeployment(gomock.Any(), "g").Return(nil, clamperr.NoDeploymentFor("g"))
	store.EXPECT().Upload(gomock.Any(), "docs", gomock.Any()).Return(nil)
	log.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	log.EXPECT().SetDeployment(gomock.Any(), "g", gomock.Any()).Return(nil)

	_, err := engine.Ingest(context.Background(), service.IngestRequest{
		Collection: "docs",
		Group:      "g",
		Documents:  []vectorstore.Document{{ID: "1", Vector: []float32{1}}},
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
}

func TestEngine_Ingest_LogFailuresAfterUpload(t *testing.T) {
	tests := []struct {
		name      string
		appendErr error
		setErr    error
		wantStage clamperr.Stage
	}{
		{name: "append fails", appendErr: errors.New("disk full"), wantStage: clamperr.StageAppendingCommit},
		{name: "pointer fails", setErr: errors.New("locked"), wantStage: clamperr.StageUpdatingPointer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			log := mocks.NewMockCommitLog(ctrl)
			store := vsmocks.NewMockVectorStore(ctrl)
			engine := service.NewEngine(log, store, service.WithClock(fixedClock))

			log.EXPECT().GetDeployment(gomock.Any(), "g").Return(nil, clamperr.NoDeploymentFor("g"))
			store.EXPECT().Upload(gomock.Any(), "docs", gomock.Any()).Return(nil)
			log.EXPECT().Append(gomock.Any(), gomock.Any()).Return(tt.appendErr)
			if tt.appendErr == nil {
				log.EXPECT().SetDeployment(gomock.Any(), "g", gomock.Any()).Return(tt.setErr)
			}

			_, err := engine.Ingest(context.Background(), service.IngestRequest{
				Collection: "docs",
				Group:      "g",
				Documents:  []vectorstore.Document{{ID: "1", Vector: []float32{1}}},
			})
			if !errors.Is(err, clamperr.Storage) {
				t.Fatalf("Ingest() error = %v, want Storage", err)
			}
			if got := clamperr.StageOf(err); got != tt.wantStage {
				t.Errorf("stage = %v, want %v", got, tt.wantStage)
			}
			if !clamperr.IsInconsistent(err) {
				t.Error("failure after upload should be flagged inconsistent")
			}
		})
	}
}

func TestEngine_Ingest_RecordFailureKeepsToggleError(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockCommitLog(ctrl)
	store := vsmocks.NewMockVectorStore(ctrl)
	engine := service.NewEngine(log, store, service.WithClock(fixedClock))

	log.EXPECT().GetDeployment(gomock.Any(), "g").Return(&storage.Deployment{Group: "g", ActiveCommitHash: "prev"}, nil)
	store.EXPECT().Upload(gomock.Any(), "docs", gomock.Any()).Return(nil)
	store.EXPECT().SetActive(gomock.Any(), "docs", "g", "prev", false).Return(errors.New("timeout"))
	log.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	hash, err := engine.Ingest(context.Background(), service.IngestRequest{
		Collection: "docs",
		Group:      "g",
		Documents:  []vectorstore.Document{{ID: "1", Vector: []float32{1}}},
	})
	if hash != "" {
		t.Errorf("Ingest() hash = %q, want empty", hash)
	}
	if !errors.Is(err, clamperr.Storage) {
		t.Fatalf("Ingest() error = %v, want Storage", err)
	}
	if !errors.Is(err, clamperr.VectorStore) {
		t.Errorf("Ingest() error = %v, want the deactivation failure too", err)
	}
	if got := clamperr.StageOf(err); got != clamperr.StageAppendingCommit {
		t.Errorf("stage = %v, want %v", got, clamperr.StageAppendingCommit)
	}
	if !strings.Contains(err.Error(), string(clamperr.StageDeactivatingPrevious)) {
		t.Errorf("Ingest() error = %q, want it to name %s", err, clamperr.StageDeactivatingPrevious)
	}
}

func TestEngine_Purge_DeactivatesByGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockCommitLog(ctrl)
	store := vsmocks.NewMockVectorStore(ctrl)
	engine := service.NewEngine(log, store)

	gomock.InOrder(
		log.EXPECT().CountCommits(gomock.Any(), "g").Return(2, nil),
		store.EXPECT().Deactivate(gomock.Any(), "docs", vectorstore.GroupFilter("g")).Return(errors.New("unavailable")),
	)

	err := engine.Purge(context.Background(), "docs", "g")
	if !errors.Is(err, clamperr.VectorStore) {
		t.Fatalf("Purge() error = %v, want VectorStore", err)
	}
}

func TestEngine_Ingest_StorageErrorBeforeUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockCommitLog(ctrl)
	store := vsmocks.NewMockVectorStore(ctrl)
	engine := service.NewEngine(log, store)

	log.EXPECT().GetDeployment(gomock.Any(), "g").Return(nil, clamperr.StorageFailed("query deployment", errors.New("io")))

	_, err := engine.Ingest(context.Background(), service.IngestRequest{
		Collection: "docs",
		Group:      "g",
		Documents:  []vectorstore.Document{{ID: "1", Vector: []float32{1}}},
	})
	if !errors.Is(err, clamperr.Storage) {
		t.Fatalf("Ingest() error = %v, want Storage", err)
	}
	if clamperr.IsInconsistent(err) {
		t.Error("failure before upload should not be flagged inconsistent")
	}
}

func TestEngine_Rollback_PointerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockCommitLog(ctrl)
	store := vsmocks.NewMockVectorStore(ctrl)
	engine := service.NewEngine(log, store)

	gomock.InOrder(
		log.EXPECT().Get(gomock.Any(), "target").Return(&storage.Commit{Hash: "target", Group: "g"}, nil),
		log.EXPECT().GetDeployment(gomock.Any(), "g").Return(&storage.Deployment{Group: "g", ActiveCommitHash: "current"}, nil),
		store.EXPECT().SetActive(gomock.Any(), "docs", "g", "target", true).Return(nil),
		store.EXPECT().SetActive(gomock.Any(), "docs", "g", "current", false).Return(nil),
		log.EXPECT().SetDeployment(gomock.Any(), "g", "target").Return(errors.New("database is locked")),
	)

	err := engine.Rollback(context.Background(), "docs", "g", "target")
	if !errors.Is(err, clamperr.RollbackFailure) {
		t.Fatalf("Rollback() error = %v, want RollbackFailure", err)
	}
	if got := clamperr.StageOf(err); got != clamperr.StageUpdatingPointer {
		t.Errorf("stage = %v, want %v", got, clamperr.StageUpdatingPointer)
	}
}

func TestEngine_Status_CountFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockCommitLog(ctrl)
	store := vsmocks.NewMockVectorStore(ctrl)
	engine := service.NewEngine(log, store)

	log.EXPECT().GetDeployment(gomock.Any(), "g").Return(&storage.Deployment{Group: "g", ActiveCommitHash: "c"}, nil)
	log.EXPECT().Get(gomock.Any(), "c").Return(&storage.Commit{Hash: "c", Group: "g"}, nil)
	log.EXPECT().CountCommits(gomock.Any(), "g").Return(1, nil)
	store.EXPECT().Count(gomock.Any(), "docs", vectorstore.ActiveFilter("g")).Return(0, errors.New("unavailable"))

	_, err := engine.Status(context.Background(), "docs", "g")
	if !errors.Is(err, clamperr.VectorStore) {
		t.Fatalf("Status() error = %v, want VectorStore", err)
	}
}
