// Package analytics derives advisory aggregate metrics from repository
// history and status snapshots, behind a time-boxed cache.
package analytics

import (
	"time"
)

// Recognized metric keys in Snapshot.Metrics.
const (
	MetricTotalCommits   = "total_commits"
	MetricActiveBranch   = "active_branch"
	MetricLastCommitTime = "last_commit_time"
	MetricOwnership      = "ownership"
	MetricCoupling       = "coupling"
	MetricRiskyFiles     = "risky_files"
)

// CommitSample is the point-in-time commit data analytics is computed from.
// It is a value copy; the worker never touches the live repository handle.
type CommitSample struct {
	ID          string
	Author      string
	AuthorEmail string
	When        time.Time
	Files       []string
}

// Input is a point-in-time view of already-computed repository data.
type Input struct {
	Branch     string
	Commits    []CommitSample // ordered by commit time, descending
	DirtyFiles []string
	Clean      bool
}

// OwnershipEntry is one author's share of the sampled history.
type OwnershipEntry struct {
	Author  string  `json:"author"`
	Email   string  `json:"email"`
	Commits int     `json:"commits"`
	Share   float64 `json:"share"`
}

// RiskyFile flags a file whose churn makes it a likely defect hotspot.
type RiskyFile struct {
	Path  string  `json:"path"`
	Churn int     `json:"churn"`
	Score float64 `json:"score"`
}

// CouplingMatrix counts how often two files changed in the same commit.
type CouplingMatrix map[string]map[string]int

// Snapshot is an immutable analytics result. Values in Metrics are best
// effort: callers must treat them as advisory, possibly defaulted.
type Snapshot struct {
	ComputedAt time.Time      `json:"computed_at"`
	Metrics    map[string]any `json:"metrics"`
}
