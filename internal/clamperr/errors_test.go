package clamperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_IsKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "empty documents", err: EmptyDocuments(), want: Validation},
		{name: "missing vector", err: MissingVector(3), want: Validation},
		{name: "commit not found", err: CommitNotFound("abc"), want: NotFound},
		{name: "group mismatch", err: Mismatch("abc", "g", "h"), want: GroupMismatch},
		{name: "no deployment", err: NoDeploymentFor("g"), want: NoDeployment},
		{name: "storage", err: StorageFailed("insert commit", errors.New("disk full")), want: Storage},
		{name: "upload", err: UploadFailed("docs", errors.New("timeout")), want: VectorStore},
		{name: "rollback", err: RollbackFailed("abc", StageActivatingTarget, errors.New("boom")), want: RollbackFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.want)
			}
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_WrappedKindStillMatches(t *testing.T) {
	err := fmt.Errorf("handler: %w", Mismatch("abc", "g", "h"))

	if !errors.Is(err, GroupMismatch) {
		t.Fatal("wrapped error should match GroupMismatch")
	}
	if errors.Is(err, NotFound) {
		t.Error("wrapped error should not match NotFound")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("errors.As should find *Error")
	}
	if e.ExpectedGroup != "g" || e.ActualGroup != "h" {
		t.Errorf("groups = %q/%q, want g/h", e.ExpectedGroup, e.ActualGroup)
	}
}

func TestError_UnwrapCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := UploadFailed("docs", cause)

	if !errors.Is(err, cause) {
		t.Error("UploadFailed should wrap its cause")
	}
	if !strings.Contains(err.Error(), `collection "docs"`) {
		t.Errorf("Error() = %q, want collection named", err.Error())
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "missing vector names index",
			err:  MissingVector(0),
			want: []string{"validation failure", "document 0", "field vector"},
		},
		{
			name: "mismatch names both groups",
			err:  Mismatch("0123456789abcdef", "g", "h"),
			want: []string{`expected group "g", got "h"`, "commit 01234567"},
		},
		{
			name: "rollback names stage",
			err:  RollbackFailed("0123456789abcdef", StageDeactivatingPrevious, errors.New("boom")),
			want: []string{"rollback failure", "stage deactivating_previous", ": boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, part := range tt.want {
				if !strings.Contains(msg, part) {
					t.Errorf("Error() = %q, missing %q", msg, part)
				}
			}
		})
	}
}

func TestIsInconsistent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("x"), want: false},
		{name: "validation", err: EmptyDocuments(), want: false},
		{name: "upload before mutation", err: UploadFailed("c", errors.New("x")), want: false},
		{name: "toggle during ingest", err: ToggleFailed("c", "h", StageDeactivatingPrevious, errors.New("x")), want: true},
		{name: "rollback failure", err: RollbackFailed("h", StageUpdatingPointer, errors.New("x")), want: true},
		{name: "record after upload", err: RecordFailed("g", "h", StageAppendingCommit, errors.New("x")), want: true},
		{name: "wrapped rollback failure", err: fmt.Errorf("cli: %w", RollbackFailed("h", StageActivatingTarget, nil)), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInconsistent(tt.err); got != tt.want {
				t.Errorf("IsInconsistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStageOf(t *testing.T) {
	err := fmt.Errorf("wrap: %w", RollbackFailed("h", StageDeactivatingPrevious, nil))
	if got := StageOf(err); got != StageDeactivatingPrevious {
		t.Errorf("StageOf() = %v, want %v", got, StageDeactivatingPrevious)
	}
	if got := StageOf(errors.New("x")); got != "" {
		t.Errorf("StageOf(plain) = %v, want empty", got)
	}
}
