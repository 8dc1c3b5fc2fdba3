package repo

import "errors"

var (
	// ErrNoRepositoryOpen is returned by every operation that needs a
	// repository handle when none is open.
	ErrNoRepositoryOpen = errors.New("no repository is open")

	// ErrRepository covers open, init and generic repository failures.
	ErrRepository = errors.New("repository operation failed")

	// ErrStatus covers failures while reading the working tree status.
	ErrStatus = errors.New("failed to read status")

	// ErrCommit covers failures while creating a commit.
	ErrCommit = errors.New("commit failed")

	// ErrNothingToCommit is returned when the index holds no staged changes.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrCheckoutWouldOverwrite is returned when switching branches would
	// clobber uncommitted local modifications.
	ErrCheckoutWouldOverwrite = errors.New("checkout would overwrite local changes")

	// ErrMergeConflict is returned when a merge or pull cannot complete
	// without manual conflict resolution.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrSecretDetected blocks a commit whose staged content matches a
	// known secret pattern.
	ErrSecretDetected = errors.New("potential secret detected in staged changes")

	// ErrNetwork covers remote transport failures on clone, push and pull.
	ErrNetwork = errors.New("network operation failed")

	// ErrBranchNotFound is returned when a named branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrBranchExists is returned when creating a branch whose name is taken.
	ErrBranchExists = errors.New("branch already exists")
)
