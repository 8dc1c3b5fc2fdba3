// Package github integrates the repository service with the GitHub API for
// pull request listing and creation. Credentials live in the secret vault;
// this package never persists a token itself.
package github

import (
	"context"
	"errors"
	"fmt"

	gh "github.com/google/go-github/v68/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/forgeworks/repocore/internal/vault"
)

var (
	// ErrNotConfigured is returned when no GitHub token has been stored.
	ErrNotConfigured = errors.New("github integration is not configured")

	// ErrRequestFailed covers GitHub API call failures.
	ErrRequestFailed = errors.New("github request failed")
)

// Service talks to GitHub on behalf of the repository service. Clients are
// built per call from the stored token so a reconfiguration takes effect
// immediately.
type Service struct {
	cfg     Config
	secrets vault.Store
	logger  *zap.Logger

	// newClient is swappable in tests.
	newClient func(token string) *gh.Client
}

func NewService(cfg Config, secrets vault.Store, logger *zap.Logger) *Service {
	return &Service{
		cfg:     cfg,
		secrets: secrets,
		logger:  logger,
		newClient: func(token string) *gh.Client {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
			return gh.NewClient(oauth2.NewClient(context.Background(), ts))
		},
	}
}

// Configure stores the access token and username in the vault, replacing
// any previous credentials.
func (s *Service) Configure(ctx context.Context, token, username string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrNotConfigured)
	}
	if err := s.secrets.Set(ctx, vault.ServiceGitHub, vault.KeyToken, token); err != nil {
		return fmt.Errorf("storing github token: %w", err)
	}
	if username != "" {
		if err := s.secrets.Set(ctx, vault.ServiceGitHub, vault.KeyUsername, username); err != nil {
			return fmt.Errorf("storing github username: %w", err)
		}
	}
	s.logger.Info("github integration configured", zap.String("username", username))
	return nil
}

// Configured reports whether a token is available.
func (s *Service) Configured(ctx context.Context) bool {
	_, err := s.secrets.Get(ctx, vault.ServiceGitHub, vault.KeyToken)
	return err == nil
}

// ListPullRequests returns open pull requests for the configured project.
func (s *Service) ListPullRequests(ctx context.Context) ([]PullRequest, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	prs, _, err := client.PullRequests.List(ctx, s.cfg.Owner, s.cfg.Repository, &gh.PullRequestListOptions{
		State: "open",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing pull requests: %w", ErrRequestFailed, err)
	}

	result := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		result = append(result, convertPullRequest(pr))
	}
	return result, nil
}

// CreatePullRequest opens a pull request from head into base.
func (s *Service) CreatePullRequest(ctx context.Context, req NewPullRequest) (PullRequest, error) {
	client, err := s.client(ctx)
	if err != nil {
		return PullRequest{}, err
	}

	created, _, err := client.PullRequests.Create(ctx, s.cfg.Owner, s.cfg.Repository, &gh.NewPullRequest{
		Title: gh.Ptr(req.Title),
		Body:  gh.Ptr(req.Body),
		Head:  gh.Ptr(req.Head),
		Base:  gh.Ptr(req.Base),
	})
	if err != nil {
		return PullRequest{}, fmt.Errorf("%w: creating pull request: %w", ErrRequestFailed, err)
	}

	s.logger.Info("pull request created",
		zap.Int("number", created.GetNumber()),
		zap.String("head", req.Head),
		zap.String("base", req.Base))
	return convertPullRequest(created), nil
}

func (s *Service) client(ctx context.Context) (*gh.Client, error) {
	token, err := s.secrets.Get(ctx, vault.ServiceGitHub, vault.KeyToken)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("%w: reading token: %w", ErrRequestFailed, err)
	}
	return s.newClient(token), nil
}

func convertPullRequest(pr *gh.PullRequest) PullRequest {
	return PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     pr.GetState(),
		Author:    pr.GetUser().GetLogin(),
		URL:       pr.GetHTMLURL(),
		CreatedAt: pr.GetCreatedAt().Time,
	}
}
