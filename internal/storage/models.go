package storage

import "time"

// Commit is an immutable record of one ingest into a group.
type Commit struct {
	Hash          string // 64-char hex content hash
	Group         string
	ParentHash    string // empty for the first commit of a group
	Message       string
	Author        string
	Timestamp     int64 // unix milliseconds; informational, the parent chain orders history
	DocumentCount int
}

// Deployment points a group at its active commit.
type Deployment struct {
	Group            string
	ActiveCommitHash string
	UpdatedAt        time.Time
}
