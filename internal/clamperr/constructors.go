package clamperr

// EmptyDocuments reports an ingest with no documents.
func EmptyDocuments() *Error {
	return &Error{Kind: Validation, Op: "document list is empty", Field: "documents", Index: -1}
}

// MissingVector reports the first document without a vector.
func MissingVector(index int) *Error {
	return &Error{Kind: Validation, Op: "document is missing a vector", Field: "vector", Index: index}
}

// Invalid reports a malformed argument.
func Invalid(field, msg string) *Error {
	return &Error{Kind: Validation, Op: msg, Field: field, Index: -1}
}

// CommitNotFound reports an unknown commit hash.
func CommitNotFound(hash string) *Error {
	return &Error{Kind: NotFound, Op: "commit does not exist", CommitHash: hash, Index: -1}
}

// GroupNotFound reports a group without any commits.
func GroupNotFound(group string) *Error {
	return &Error{Kind: NoDeployment, Op: "group has no commits", Group: group, Index: -1}
}

// Mismatch reports a commit that belongs to another group.
func Mismatch(hash, expected, actual string) *Error {
	return &Error{
		Kind:          GroupMismatch,
		Op:            "commit belongs to another group",
		CommitHash:    hash,
		ExpectedGroup: expected,
		ActualGroup:   actual,
		Index:         -1,
	}
}

// NoDeploymentFor reports a group that has never been ingested into.
func NoDeploymentFor(group string) *Error {
	return &Error{Kind: NoDeployment, Op: "group has no deployment", Group: group, Index: -1}
}

// StorageFailed wraps a metadata log I/O error.
func StorageFailed(op string, err error) *Error {
	return &Error{Kind: Storage, Op: op, Err: err, Index: -1}
}

// UploadFailed wraps a failed document upload. Nothing was recorded.
func UploadFailed(collection string, err error) *Error {
	return &Error{Kind: VectorStore, Op: "upload documents", Collection: collection, Err: err, Index: -1}
}

// ToggleFailed wraps a failed active-flag update during ingest.
func ToggleFailed(collection, hash string, stage Stage, err error) *Error {
	return &Error{
		Kind:         VectorStore,
		Op:           "toggle active flag",
		Collection:   collection,
		CommitHash:   hash,
		Stage:        stage,
		Inconsistent: true,
		Err:          err,
		Index:        -1,
	}
}

// CountFailed wraps a failed count query.
func CountFailed(collection string, err error) *Error {
	return &Error{Kind: VectorStore, Op: "count documents", Collection: collection, Err: err, Index: -1}
}

// RollbackFailed reports a partially applied rollback.
func RollbackFailed(hash string, stage Stage, err error) *Error {
	return &Error{
		Kind:         RollbackFailure,
		Op:           "rollback partially applied",
		CommitHash:   hash,
		Stage:        stage,
		Inconsistent: true,
		Err:          err,
		Index:        -1,
	}
}

// RecordFailed wraps a metadata log write that failed after documents were
// already uploaded.
func RecordFailed(group, hash string, stage Stage, err error) *Error {
	return &Error{
		Kind:         Storage,
		Op:           "record commit",
		Group:        group,
		CommitHash:   hash,
		Stage:        stage,
		Inconsistent: true,
		Err:          err,
		Index:        -1,
	}
}
