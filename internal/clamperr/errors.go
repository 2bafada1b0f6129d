// Package clamperr defines the error taxonomy shared by the commit log, the
// vector store adapters and the version-control engine.
//
// Every failure is an *Error. Its Kind is the tag: match a specific kind with
// errors.Is(err, clamperr.NotFound), or any core error with errors.As.
package clamperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error. A Kind is itself an error so it can be used as an
// errors.Is target.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	// Validation means the caller's input is malformed. No store was touched.
	Validation Kind = "validation failure"
	// NotFound means a referenced commit is absent.
	NotFound Kind = "not found"
	// GroupMismatch means a commit exists but belongs to a different group.
	GroupMismatch Kind = "group mismatch"
	// NoDeployment means the group has never been ingested into.
	NoDeployment Kind = "no deployment"
	// Storage means the metadata log failed to read or write.
	Storage Kind = "storage failure"
	// VectorStore means an upload, toggle or count against the vector store failed.
	VectorStore Kind = "vector store failure"
	// RollbackFailure means a rollback was partially applied.
	RollbackFailure Kind = "rollback failure"
)

// Stage names a step of a multi-store mutation.
type Stage string

const (
	StageActivatingTarget     Stage = "activating_target"
	StageDeactivatingPrevious Stage = "deactivating_previous"
	StageUpdatingPointer      Stage = "updating_pointer"
	StageAppendingCommit      Stage = "appending_commit"
)

// Error is the single error type returned across clamp components.
type Error struct {
	Kind Kind
	// Op describes the failed operation, e.g. "upload documents".
	Op string

	Group      string
	CommitHash string
	Collection string

	// Field and Index identify the offending input of a validation failure.
	// Index is -1 when no document index applies.
	Field string
	Index int

	ExpectedGroup string
	ActualGroup   string

	// Stage is set when the failure happened after a store was mutated.
	Stage Stage

	// Inconsistent reports that the two stores may disagree until a caller
	// reconciles them.
	Inconsistent bool

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}

	var details []string
	switch e.Kind {
	case GroupMismatch:
		details = append(details, fmt.Sprintf("expected group %q, got %q", e.ExpectedGroup, e.ActualGroup))
	case Validation:
		if e.Index >= 0 {
			details = append(details, fmt.Sprintf("document %d", e.Index))
		}
		if e.Field != "" {
			details = append(details, "field "+e.Field)
		}
	}
	if e.Group != "" && e.Kind != GroupMismatch {
		details = append(details, fmt.Sprintf("group %q", e.Group))
	}
	if e.CommitHash != "" {
		details = append(details, "commit "+short(e.CommitHash))
	}
	if e.Collection != "" {
		details = append(details, fmt.Sprintf("collection %q", e.Collection))
	}
	if e.Stage != "" {
		details = append(details, "stage "+string(e.Stage))
	}
	if len(details) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(details, ", "))
		b.WriteString(")")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches a Kind target against the error's tag.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StageOf returns the stage of the first *Error in err's chain.
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// IsInconsistent reports whether err may have left the vector store and the
// metadata log disagreeing. These errors are never retried by clamp.
func IsInconsistent(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Inconsistent || e.Kind == RollbackFailure
	}
	return false
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
