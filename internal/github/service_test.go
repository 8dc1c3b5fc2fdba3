package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/forgeworks/repocore/internal/vault"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store, err := vault.NewBadgerStore(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := NewService(Config{Owner: "forgeworks", Repository: "repocore"}, store, logger)
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		base, _ := url.Parse(server.URL + "/")
		svc.newClient = func(string) *gh.Client {
			client := gh.NewClient(nil)
			client.BaseURL = base
			return client
		}
	}
	return svc
}

func TestService_ConfigureStoresCredentials(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	assert.False(t, svc.Configured(ctx))
	require.NoError(t, svc.Configure(ctx, "token-value", "octocat"))
	assert.True(t, svc.Configured(ctx))
}

func TestService_ConfigureRejectsEmptyToken(t *testing.T) {
	svc := newTestService(t, nil)

	err := svc.Configure(context.Background(), "", "octocat")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestService_ListPullRequestsWithoutToken(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.ListPullRequests(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestService_ListPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/forgeworks/repocore/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"number": 7, "title": "Add caching", "state": "open",
			 "user": {"login": "octocat"}, "html_url": "https://example.com/pull/7",
			 "created_at": "2026-01-05T10:00:00Z"}
		]`))
	})

	svc := newTestService(t, mux)
	require.NoError(t, svc.Configure(context.Background(), "token-value", ""))

	prs, err := svc.ListPullRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, 7, prs[0].Number)
	assert.Equal(t, "Add caching", prs[0].Title)
	assert.Equal(t, "open", prs[0].State)
	assert.Equal(t, "octocat", prs[0].Author)
	assert.Equal(t, "https://example.com/pull/7", prs[0].URL)
}

func TestService_CreatePullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/forgeworks/repocore/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 12, "title": "Feature work", "state": "open",
			"user": {"login": "octocat"}, "html_url": "https://example.com/pull/12"}`))
	})

	svc := newTestService(t, mux)
	require.NoError(t, svc.Configure(context.Background(), "token-value", ""))

	pr, err := svc.CreatePullRequest(context.Background(), NewPullRequest{
		Title: "Feature work",
		Body:  "Adds the feature.",
		Head:  "feature",
		Base:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, pr.Number)
	assert.Equal(t, "Feature work", pr.Title)
}

func TestService_ListPullRequestsAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "boom"}`, http.StatusInternalServerError)
	})

	svc := newTestService(t, mux)
	require.NoError(t, svc.Configure(context.Background(), "token-value", ""))

	_, err := svc.ListPullRequests(context.Background())
	require.ErrorIs(t, err, ErrRequestFailed)
}
