package repo

import (
	"context"
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v6"
	gitconfig "github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
	"go.uber.org/zap"

	"github.com/forgeworks/repocore/internal/vault"
)

// CredentialProvider resolves the authentication to use for remote
// operations. A nil AuthMethod with a nil error means unauthenticated
// access.
type CredentialProvider interface {
	Resolve(ctx context.Context) (transport.AuthMethod, error)
}

// VaultCredentials reads an access token from the secret store and turns it
// into HTTP basic auth the way hosting providers expect token auth.
type VaultCredentials struct {
	secrets vault.Store
	logger  *zap.Logger
}

func NewVaultCredentials(secrets vault.Store, logger *zap.Logger) *VaultCredentials {
	return &VaultCredentials{secrets: secrets, logger: logger}
}

func (c *VaultCredentials) Resolve(ctx context.Context) (transport.AuthMethod, error) {
	token, err := c.secrets.Get(ctx, vault.ServiceGitHub, vault.KeyToken)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: resolving credentials: %w", ErrNetwork, err)
	}
	return &http.BasicAuth{Username: "token", Password: token}, nil
}

// RemoteSync performs push and pull against a configured remote.
type RemoteSync struct {
	creds  CredentialProvider
	logger *zap.Logger
}

func NewRemoteSync(creds CredentialProvider, logger *zap.Logger) *RemoteSync {
	return &RemoteSync{creds: creds, logger: logger}
}

// Auth resolves the credentials used for remote transport.
func (s *RemoteSync) Auth(ctx context.Context) (transport.AuthMethod, error) {
	return s.creds.Resolve(ctx)
}

// Push uploads the named local branch to the remote. An up-to-date remote
// is a success.
func (s *RemoteSync) Push(ctx context.Context, repository *git.Repository, remote, branch string) error {
	auth, err := s.creds.Resolve(ctx)
	if err != nil {
		return err
	}

	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	err = repository.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       auth,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	default:
		return fmt.Errorf("%w: push to %s: %w", ErrNetwork, remote, err)
	}
}

// Pull fetches and fast-forwards the current branch from the remote.
// Diverged histories surface as a merge conflict.
func (s *RemoteSync) Pull(ctx context.Context, wt *git.Worktree, remote, branch string) error {
	auth, err := s.creds.Resolve(ctx)
	if err != nil {
		return err
	}

	opts := &git.PullOptions{
		RemoteName: remote,
		Auth:       auth,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	err = wt.PullContext(ctx, opts)
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return fmt.Errorf("%w: %w", ErrMergeConflict, err)
	default:
		return fmt.Errorf("%w: pull from %s: %w", ErrNetwork, remote, err)
	}
}
