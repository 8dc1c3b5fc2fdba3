// Package repo owns the exclusive repository handle and exposes every
// repository operation behind a single mutex-guarded façade.
package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"go.uber.org/zap"

	"github.com/forgeworks/repocore/internal/analytics"
	"github.com/forgeworks/repocore/internal/events"
	"github.com/forgeworks/repocore/internal/secscan"
	"github.com/forgeworks/repocore/internal/vault"
)

// Service is the single owner of the repository handle. All operations
// serialize through its mutex; at most one repository is open at a time.
type Service struct {
	cfg     Config
	logger  *zap.Logger
	bus     *events.Bus
	scanner *secscan.Scanner
	cache   *analytics.Cache

	status   *StatusReader
	history  *CommitGraphReader
	branches *BranchManager
	remote   *RemoteSync

	mu            sync.Mutex
	repository    *git.Repository
	worktree      *git.Worktree
	path          string
	currentBranch string
	hasChanges    bool
	modifiedFiles []string
	secrets       vault.Store
}

func NewService(
	cfg Config,
	secrets vault.Store,
	scanner *secscan.Scanner,
	cache *analytics.Cache,
	bus *events.Bus,
	logger *zap.Logger,
) *Service {
	cfg = cfg.withDefaults()
	creds := NewVaultCredentials(secrets, logger)
	return &Service{
		cfg:      cfg,
		logger:   logger,
		bus:      bus,
		scanner:  scanner,
		cache:    cache,
		secrets:  secrets,
		status:   NewStatusReader(),
		history:  NewCommitGraphReader(logger),
		branches: NewBranchManager(logger),
		remote:   NewRemoteSync(creds, logger),
	}
}

// Open attaches the service to an existing repository at path, closing any
// previously open one first.
func (s *Service) Open(path string) error {
	s.mu.Lock()
	err := s.openLocked(path)
	s.mu.Unlock()

	observeOperation("open", err)
	if err != nil {
		s.bus.PublishOperation("open", false, err.Error())
		return err
	}
	s.logger.Info("repository opened", zap.String("path", path))
	s.bus.Publish(events.KindRepositoryChanged, events.RepositoryChanged{Path: path})
	s.bus.PublishOperation("open", true, "repository opened")
	// Opening seeds the analytics cache synchronously so the first reads
	// after open see a snapshot instead of defaults.
	if !s.cache.Fresh() {
		s.cache.ComputeNow(s.buildAnalyticsInput())
	}
	return nil
}

// Init creates a new repository at path, installs the pre-commit secret
// hook and opens the result.
func (s *Service) Init(path string) error {
	s.mu.Lock()
	err := s.initLocked(path)
	s.mu.Unlock()

	observeOperation("init", err)
	if err != nil {
		s.bus.PublishOperation("init", false, err.Error())
		return err
	}
	s.logger.Info("repository initialized", zap.String("path", path))
	s.bus.Publish(events.KindRepositoryChanged, events.RepositoryChanged{Path: path})
	s.bus.PublishOperation("init", true, "repository initialized")
	return nil
}

// Clone fetches the repository at url into path and opens it. A non-empty
// token is stored in the secret vault before the transfer so the clone and
// later pushes authenticate the same way.
func (s *Service) Clone(ctx context.Context, url, path, token string) error {
	s.mu.Lock()
	err := s.cloneLocked(ctx, url, path, token)
	s.mu.Unlock()

	observeOperation("clone", err)
	if err != nil {
		s.bus.PublishOperation("clone", false, err.Error())
		return err
	}
	s.logger.Info("repository cloned", zap.String("url", url), zap.String("path", path))
	s.bus.Publish(events.KindRepositoryChanged, events.RepositoryChanged{Path: path})
	s.bus.PublishOperation("clone", true, "repository cloned")
	s.maybeRecomputeAnalytics()
	return nil
}

// Close releases the repository handle and resets cached analytics.
// Closing with no open repository is a no-op.
func (s *Service) Close() {
	s.mu.Lock()
	wasOpen := s.repository != nil
	s.closeLocked()
	s.mu.Unlock()

	if !wasOpen {
		return
	}
	s.cache.Reset()
	s.logger.Info("repository closed")
	s.bus.Publish(events.KindStatusChanged, StatusSnapshot{Clean: true})
	s.bus.Publish(events.KindCommitsChanged, nil)
}

// Path returns the filesystem path of the open repository, or empty.
func (s *Service) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// CurrentBranch returns the short name of the checked out branch, or empty.
func (s *Service) CurrentBranch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBranch
}

// GetStatus reads the working tree status and refreshes the cached change
// state as a side effect. With no open repository it returns an empty
// snapshot together with ErrNoRepositoryOpen.
func (s *Service) GetStatus() (StatusSnapshot, error) {
	s.mu.Lock()
	if s.worktree == nil {
		s.mu.Unlock()
		return StatusSnapshot{Clean: true}, ErrNoRepositoryOpen
	}
	snap, err := s.status.Read(s.worktree)
	var changed bool
	if err == nil {
		changed = s.applyStatusLocked(snap)
	}
	s.mu.Unlock()

	if err != nil {
		return StatusSnapshot{}, err
	}
	if changed {
		s.bus.Publish(events.KindStatusChanged, snap)
	}
	return snap, nil
}

// GetCommitHistory returns up to limit commits from HEAD, newest first.
// A non-positive limit falls back to the configured default. With no open
// repository the history is empty, not an error.
func (s *Service) GetCommitHistory(limit int) ([]CommitRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repository == nil {
		return []CommitRecord{}, nil
	}
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	return s.history.History(s.repository, limit)
}

// StageFile adds a path, relative to the repository root, to the index.
func (s *Service) StageFile(path string) error {
	s.mu.Lock()
	err := s.requireOpenLocked()
	if err == nil {
		if _, addErr := s.worktree.Add(path); addErr != nil {
			err = fmt.Errorf("%w: staging %s: %w", ErrRepository, path, addErr)
		}
	}
	s.mu.Unlock()

	observeOperation("stage", err)
	if err != nil {
		s.bus.PublishOperation("stage", false, err.Error())
		return err
	}
	s.publishStatusChanged()
	s.bus.PublishOperation("stage", true, "staged "+path)
	return nil
}

// UnstageFile restores a path in the index to its HEAD state, leaving the
// working tree untouched.
func (s *Service) UnstageFile(path string) error {
	s.mu.Lock()
	err := s.requireOpenLocked()
	if err == nil {
		restoreErr := s.worktree.Restore(&git.RestoreOptions{Staged: true, Files: []string{path}})
		if restoreErr != nil {
			err = fmt.Errorf("%w: unstaging %s: %w", ErrRepository, path, restoreErr)
		}
	}
	s.mu.Unlock()

	observeOperation("unstage", err)
	if err != nil {
		s.bus.PublishOperation("unstage", false, err.Error())
		return err
	}
	s.publishStatusChanged()
	s.bus.PublishOperation("unstage", true, "unstaged "+path)
	return nil
}

// CommitChanges records the staged changes as a new commit. Every staged
// file is scanned for secret patterns first; any finding blocks the commit.
// An empty index is rejected with ErrNothingToCommit.
func (s *Service) CommitChanges(message, author string) (CommitRecord, error) {
	s.mu.Lock()
	record, err := s.commitLocked(message, author)
	s.mu.Unlock()

	observeOperation("commit", err)
	if err != nil {
		s.bus.PublishOperation("commit", false, err.Error())
		return CommitRecord{}, err
	}
	s.logger.Info("commit created", zap.String("commit", record.ShortID), zap.String("summary", record.Summary))
	s.publishStatusChanged()
	s.bus.Publish(events.KindCommitsChanged, nil)
	s.bus.PublishOperation("commit", true, "committed "+record.ShortID)
	s.maybeRecomputeAnalytics()
	return record, nil
}

// Push uploads a branch to a remote. Empty arguments fall back to the
// configured default remote and the current branch.
func (s *Service) Push(ctx context.Context, remote, branch string) error {
	s.mu.Lock()
	err := s.requireOpenLocked()
	if err == nil {
		remote, branch = s.remoteTargetLocked(remote, branch)
		err = s.remote.Push(ctx, s.repository, remote, branch)
	}
	s.mu.Unlock()

	observeOperation("push", err)
	if err != nil {
		s.bus.PublishOperation("push", false, err.Error())
		return err
	}
	s.bus.PublishOperation("push", true, fmt.Sprintf("pushed %s to %s", branch, remote))
	return nil
}

// Pull fetches and fast-forwards the current branch from a remote.
func (s *Service) Pull(ctx context.Context, remote, branch string) error {
	s.mu.Lock()
	err := s.requireOpenLocked()
	if err == nil {
		remote, branch = s.remoteTargetLocked(remote, branch)
		err = s.remote.Pull(ctx, s.worktree, remote, branch)
		if err == nil {
			s.refreshBranchLocked()
		}
	}
	s.mu.Unlock()

	observeOperation("pull", err)
	if err != nil {
		s.bus.PublishOperation("pull", false, err.Error())
		return err
	}
	s.bus.Publish(events.KindCommitsChanged, nil)
	s.publishStatusChanged()
	s.bus.PublishOperation("pull", true, fmt.Sprintf("pulled %s from %s", branch, remote))
	s.maybeRecomputeAnalytics()
	return nil
}

// GetBranches lists local and remote-tracking branches.
func (s *Service) GetBranches() ([]BranchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repository == nil {
		return nil, ErrNoRepositoryOpen
	}
	return s.branches.List(s.repository)
}

// CreateBranch adds a local branch at startPoint, or at HEAD when
// startPoint is empty, without switching to it.
func (s *Service) CreateBranch(name, startPoint string) error {
	s.mu.Lock()
	err := s.requireOpenLocked()
	if err == nil {
		err = s.branches.Create(s.repository, name, startPoint)
	}
	s.mu.Unlock()

	observeOperation("create_branch", err)
	if err != nil {
		s.bus.PublishOperation("create_branch", false, err.Error())
		return err
	}
	s.bus.PublishOperation("create_branch", true, "created branch "+name)
	return nil
}

// CheckoutBranch switches the working tree to the named branch. Local
// modifications that would be overwritten abort the switch.
func (s *Service) CheckoutBranch(name string) error {
	s.mu.Lock()
	err := s.requireOpenLocked()
	if err == nil {
		err = s.branches.Checkout(s.worktree, name)
		if err == nil {
			s.refreshBranchLocked()
		}
	}
	s.mu.Unlock()

	observeOperation("checkout", err)
	if err != nil {
		s.bus.PublishOperation("checkout", false, err.Error())
		return err
	}
	s.publishStatusChanged()
	s.bus.Publish(events.KindCommitsChanged, nil)
	s.bus.PublishOperation("checkout", true, "checked out "+name)
	s.maybeRecomputeAnalytics()
	return nil
}

// MergeBranch fast-forwards the current branch to the named branch.
func (s *Service) MergeBranch(name string) error {
	s.mu.Lock()
	err := s.requireOpenLocked()
	if err == nil {
		err = s.branches.Merge(s.repository, name)
		if err == nil {
			s.refreshBranchLocked()
		}
	}
	s.mu.Unlock()

	observeOperation("merge", err)
	if err != nil {
		s.bus.PublishOperation("merge", false, err.Error())
		return err
	}
	s.bus.Publish(events.KindCommitsChanged, nil)
	s.publishStatusChanged()
	s.bus.PublishOperation("merge", true, "merged "+name)
	s.maybeRecomputeAnalytics()
	return nil
}

// DeleteBranch removes a local branch other than the current one.
func (s *Service) DeleteBranch(name string) error {
	s.mu.Lock()
	err := s.requireOpenLocked()
	if err == nil {
		err = s.branches.Delete(s.repository, name)
	}
	s.mu.Unlock()

	observeOperation("delete_branch", err)
	if err != nil {
		s.bus.PublishOperation("delete_branch", false, err.Error())
		return err
	}
	s.bus.PublishOperation("delete_branch", true, "deleted branch "+name)
	return nil
}

// checkForChanges is the monitor tick. A tick that cannot take the lock
// immediately is dropped; the next one observes the settled state.
func (s *Service) checkForChanges() {
	if !s.mu.TryLock() {
		return
	}
	if s.worktree == nil {
		s.mu.Unlock()
		return
	}
	snap, err := s.status.Read(s.worktree)
	var changed bool
	if err == nil {
		changed = s.applyStatusLocked(snap)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("change monitor status read failed", zap.Error(err))
		return
	}
	if changed {
		s.logger.Debug("working tree changed", zap.Bool("clean", snap.Clean))
		s.bus.Publish(events.KindStatusChanged, snap)
	}
}

// ModifiedFiles returns the paths last observed as dirty.
func (s *Service) ModifiedFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.modifiedFiles)
}

// publishStatusChanged reads a fresh snapshot and publishes it, so every
// status.changed event carries a StatusSnapshot payload regardless of which
// operation raised it.
func (s *Service) publishStatusChanged() {
	s.mu.Lock()
	if s.worktree == nil {
		s.mu.Unlock()
		return
	}
	snap, err := s.status.Read(s.worktree)
	if err == nil {
		s.applyStatusLocked(snap)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("status read for notification failed", zap.Error(err))
		return
	}
	s.bus.Publish(events.KindStatusChanged, snap)
}

func (s *Service) requireOpenLocked() error {
	if s.repository == nil {
		return ErrNoRepositoryOpen
	}
	return nil
}

func (s *Service) openLocked(path string) error {
	s.closeLocked()

	repository, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", ErrRepository, path, err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}

	s.repository = repository
	s.worktree = wt
	s.path = path
	s.refreshBranchLocked()
	return nil
}

func (s *Service) initLocked(path string) error {
	s.closeLocked()

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
	repository, err := git.PlainInit(path, false)
	if err != nil {
		return fmt.Errorf("%w: initializing %s: %w", ErrRepository, path, err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
	if err := secscan.InstallHook(path); err != nil {
		return fmt.Errorf("%w: installing pre-commit hook: %w", ErrRepository, err)
	}

	s.repository = repository
	s.worktree = wt
	s.path = path
	s.refreshBranchLocked()
	return nil
}

func (s *Service) cloneLocked(ctx context.Context, url, path, token string) error {
	s.closeLocked()

	if token != "" {
		if err := s.secrets.Set(ctx, vault.ServiceGitHub, vault.KeyToken, token); err != nil {
			return fmt.Errorf("%w: storing access token: %w", ErrRepository, err)
		}
	}
	auth, err := s.remote.Auth(ctx)
	if err != nil {
		return err
	}

	repository, err := git.PlainCloneContext(ctx, path, &git.CloneOptions{
		URL:  url,
		Auth: auth,
	})
	if err != nil {
		return fmt.Errorf("%w: cloning %s: %w", ErrNetwork, url, err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}

	s.repository = repository
	s.worktree = wt
	s.path = path
	s.refreshBranchLocked()
	return nil
}

func (s *Service) closeLocked() {
	s.repository = nil
	s.worktree = nil
	s.path = ""
	s.currentBranch = ""
	s.hasChanges = false
	s.modifiedFiles = nil
}

func (s *Service) commitLocked(message, author string) (CommitRecord, error) {
	if err := s.requireOpenLocked(); err != nil {
		return CommitRecord{}, err
	}

	snap, err := s.status.Read(s.worktree)
	if err != nil {
		return CommitRecord{}, err
	}
	if len(snap.Staged) == 0 {
		return CommitRecord{}, ErrNothingToCommit
	}
	if err := s.scanStagedLocked(snap.Staged); err != nil {
		return CommitRecord{}, err
	}

	hash, err := s.worktree.Commit(message, &git.CommitOptions{
		Author: s.signature(author),
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return CommitRecord{}, ErrNothingToCommit
		}
		return CommitRecord{}, fmt.Errorf("%w: %w", ErrCommit, err)
	}

	commit, err := s.repository.CommitObject(hash)
	if err != nil {
		return CommitRecord{}, fmt.Errorf("%w: %w", ErrCommit, err)
	}
	s.refreshBranchLocked()
	return convertCommit(commit), nil
}

// scanStagedLocked runs the secret scanner over the index blob of every
// staged file. The commit writes the index, not the working tree, so the
// scan must read the same content: a secret staged and then scrubbed from
// the on-disk copy is still caught, and a secret only present on disk does
// not block a clean index. Deletions have no content to scan.
func (s *Service) scanStagedLocked(staged []FileChange) error {
	idx, err := s.repository.Storer.Index()
	if err != nil {
		return fmt.Errorf("%w: reading index: %w", ErrCommit, err)
	}

	for _, change := range staged {
		if change.Flags&FlagIndexDeleted != 0 {
			continue
		}
		entry, err := idx.Entry(change.Path)
		if err != nil {
			s.logger.Debug("staged path missing from index", zap.String("path", change.Path), zap.Error(err))
			continue
		}
		content, err := s.blobContent(entry.Hash)
		if err != nil {
			return fmt.Errorf("%w: reading staged blob for %s: %w", ErrCommit, change.Path, err)
		}
		if findings := s.scanner.Scan(content); len(findings) > 0 {
			s.logger.Warn("commit blocked by secret scan",
				zap.String("path", change.Path),
				zap.String("pattern", findings[0].MatchedPattern),
				zap.Int("findings", len(findings)))
			return fmt.Errorf("%w: %s matches %s", ErrSecretDetected, change.Path, findings[0].MatchedPattern)
		}
	}
	return nil
}

func (s *Service) blobContent(hash plumbing.Hash) (string, error) {
	blob, err := s.repository.BlobObject(hash)
	if err != nil {
		return "", err
	}
	reader, err := blob.Reader()
	if err != nil {
		return "", err
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (s *Service) signature(author string) *object.Signature {
	name, email := s.cfg.IdentityName, s.cfg.IdentityEmail
	if author != "" {
		if open := strings.Index(author, "<"); open >= 0 && strings.HasSuffix(author, ">") {
			name = strings.TrimSpace(author[:open])
			email = strings.TrimSpace(author[open+1 : len(author)-1])
		} else {
			name = strings.TrimSpace(author)
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

func (s *Service) remoteTargetLocked(remote, branch string) (string, string) {
	if remote == "" {
		remote = s.cfg.DefaultRemote
	}
	if branch == "" {
		branch = s.currentBranch
	}
	return remote, branch
}

func (s *Service) refreshBranchLocked() {
	s.currentBranch = ""
	if s.repository == nil {
		return
	}
	head, err := s.repository.Head()
	if err != nil {
		return
	}
	if head.Name().IsBranch() {
		s.currentBranch = head.Name().Short()
	}
}

// applyStatusLocked updates the cached dirty state from a fresh snapshot
// and reports whether it differs from the previous observation.
func (s *Service) applyStatusLocked(snap StatusSnapshot) bool {
	files := make([]string, 0, len(snap.Staged)+len(snap.Unstaged)+len(snap.Untracked))
	for _, sets := range [][]FileChange{snap.Staged, snap.Unstaged, snap.Untracked} {
		for _, change := range sets {
			files = append(files, change.Path)
		}
	}
	slices.Sort(files)

	dirty := !snap.Clean
	changed := dirty != s.hasChanges || !slices.Equal(files, s.modifiedFiles)
	s.hasChanges = dirty
	s.modifiedFiles = files
	return changed
}
