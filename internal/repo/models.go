package repo

import (
	"time"
)

// BranchKind distinguishes local heads from remote-tracking refs.
type BranchKind string

const (
	BranchLocal  BranchKind = "local"
	BranchRemote BranchKind = "remote"
)

// BranchState describes one branch. Refreshed after any operation that can
// move HEAD.
type BranchState struct {
	Name      string     `json:"name"`
	IsCurrent bool       `json:"is_current"`
	Kind      BranchKind `json:"kind"`
}

// StatusFlag is a bitset describing how a file differs across the
// HEAD/index/worktree comparison.
type StatusFlag uint16

const (
	FlagIndexNew StatusFlag = 1 << iota
	FlagIndexModified
	FlagIndexDeleted
	FlagIndexRenamed
	FlagWorktreeNew
	FlagWorktreeModified
	FlagWorktreeDeleted
)

// FileChange is a single path with its status flags.
type FileChange struct {
	Path  string     `json:"path"`
	Flags StatusFlag `json:"status_flags"`
}

// StatusSnapshot is the three-way diff between HEAD, the index and the
// working tree. The three sets are disjoint: a path appears in at most one.
type StatusSnapshot struct {
	Staged    []FileChange `json:"staged"`
	Unstaged  []FileChange `json:"unstaged"`
	Untracked []FileChange `json:"untracked"`
	Clean     bool         `json:"clean"`
}

// Signature is an author or committer identity at a point in time.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"time"`
}

// CommitRecord is an immutable value representation of one commit.
type CommitRecord struct {
	ID          string    `json:"id"`
	ShortID     string    `json:"short_id"`
	Author      Signature `json:"author"`
	Committer   Signature `json:"committer"`
	Message     string    `json:"message"`
	Summary     string    `json:"summary"`
	ParentCount int       `json:"parent_count"`
	Verified    bool      `json:"verified"`
}
