package repo

import (
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v6"
)

// StatusReader classifies working tree paths into staged, unstaged and
// untracked sets.
type StatusReader struct{}

func NewStatusReader() *StatusReader {
	return &StatusReader{}
}

// Read builds a StatusSnapshot from the worktree. Each path lands in exactly
// one set: index changes win over worktree changes.
func (r *StatusReader) Read(wt *git.Worktree) (StatusSnapshot, error) {
	st, err := wt.Status()
	if err != nil {
		return StatusSnapshot{}, fmt.Errorf("%w: %w", ErrStatus, err)
	}

	snap := StatusSnapshot{}
	for path, fs := range st {
		flags := statusFlags(fs)
		change := FileChange{Path: path, Flags: flags}
		switch {
		case fs.Worktree == git.Untracked:
			snap.Untracked = append(snap.Untracked, change)
		case indexChanged(fs.Staging):
			snap.Staged = append(snap.Staged, change)
		case worktreeChanged(fs.Worktree):
			snap.Unstaged = append(snap.Unstaged, change)
		}
	}

	sortChanges(snap.Staged)
	sortChanges(snap.Unstaged)
	sortChanges(snap.Untracked)
	snap.Clean = len(snap.Staged) == 0 && len(snap.Unstaged) == 0 && len(snap.Untracked) == 0
	return snap, nil
}

func indexChanged(code git.StatusCode) bool {
	switch code {
	case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied:
		return true
	}
	return false
}

func worktreeChanged(code git.StatusCode) bool {
	switch code {
	case git.Modified, git.Deleted, git.Renamed:
		return true
	}
	return false
}

func statusFlags(fs *git.FileStatus) StatusFlag {
	var flags StatusFlag
	switch fs.Staging {
	case git.Added:
		flags |= FlagIndexNew
	case git.Modified, git.Copied:
		flags |= FlagIndexModified
	case git.Deleted:
		flags |= FlagIndexDeleted
	case git.Renamed:
		flags |= FlagIndexRenamed
	}
	switch fs.Worktree {
	case git.Untracked:
		flags |= FlagWorktreeNew
	case git.Modified, git.Renamed:
		flags |= FlagWorktreeModified
	case git.Deleted:
		flags |= FlagWorktreeDeleted
	}
	return flags
}

func sortChanges(changes []FileChange) {
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
}
