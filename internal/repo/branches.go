package repo

import (
	"errors"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"go.uber.org/zap"
)

// BranchManager implements branch listing and lifecycle on an open
// repository handle.
type BranchManager struct {
	logger *zap.Logger
}

func NewBranchManager(logger *zap.Logger) *BranchManager {
	return &BranchManager{logger: logger}
}

// List returns local branches followed by remote-tracking branches, each
// group sorted by name. Exactly one local branch carries IsCurrent on a
// repository with a born HEAD.
func (m *BranchManager) List(repository *git.Repository) ([]BranchState, error) {
	var current string
	if head, err := repository.Head(); err == nil && head.Name().IsBranch() {
		current = head.Name().Short()
	}

	var local, remote []BranchState

	branches, err := repository.Branches()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		local = append(local, BranchState{
			Name:      name,
			IsCurrent: name == current,
			Kind:      BranchLocal,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	refs, err := repository.References()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() {
			return nil
		}
		remote = append(remote, BranchState{
			Name: ref.Name().Short(),
			Kind: BranchRemote,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	sortBranches(local)
	sortBranches(remote)
	return append(local, remote...), nil
}

// Create adds a new local branch pointing at startPoint, or at HEAD when
// startPoint is empty. The current branch is not switched.
func (m *BranchManager) Create(repository *git.Repository, name, startPoint string) error {
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := repository.Reference(refName, false); err == nil {
		return fmt.Errorf("%w: %s", ErrBranchExists, name)
	}

	var target plumbing.Hash
	if startPoint == "" {
		head, err := repository.Head()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRepository, err)
		}
		target = head.Hash()
	} else {
		hash, err := repository.ResolveRevision(plumbing.Revision(startPoint))
		if err != nil {
			return fmt.Errorf("%w: cannot resolve %q: %w", ErrRepository, startPoint, err)
		}
		target = *hash
	}

	if err := repository.Storer.SetReference(plumbing.NewHashReference(refName, target)); err != nil {
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
	m.logger.Info("branch created", zap.String("branch", name), zap.String("target", target.String()))
	return nil
}

// Checkout switches the working tree to the named local branch. It never
// discards local modifications.
func (m *BranchManager) Checkout(wt *git.Worktree, name string) error {
	err := wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.ErrUnstagedChanges):
		return fmt.Errorf("%w: %w", ErrCheckoutWouldOverwrite, err)
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	default:
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
}

// Merge fast-forwards the current branch to the named branch. Histories
// that have diverged are reported as a conflict instead of producing a
// merge commit.
func (m *BranchManager) Merge(repository *git.Repository, name string) error {
	ref, err := repository.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("%w: %s", ErrBranchNotFound, name)
		}
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}

	err = repository.Merge(*ref, git.MergeOptions{Strategy: git.FastForwardMerge})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.ErrFastForwardMergeNotPossible):
		return fmt.Errorf("%w: %s cannot be fast-forwarded", ErrMergeConflict, name)
	default:
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
}

// Delete removes a local branch. Deleting the current branch is rejected.
func (m *BranchManager) Delete(repository *git.Repository, name string) error {
	if head, err := repository.Head(); err == nil && head.Name().Short() == name {
		return fmt.Errorf("%w: cannot delete the current branch %s", ErrRepository, name)
	}

	refName := plumbing.NewBranchReferenceName(name)
	if _, err := repository.Reference(refName, false); err != nil {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	}
	if err := repository.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
	m.logger.Info("branch deleted", zap.String("branch", name))
	return nil
}

func sortBranches(branches []BranchState) {
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
}
