package repo

import (
	"errors"
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/storer"
	"go.uber.org/zap"
)

const shortIDLength = 7

// CommitGraphReader walks the commit graph from HEAD in reverse
// chronological order.
type CommitGraphReader struct {
	logger *zap.Logger
}

func NewCommitGraphReader(logger *zap.Logger) *CommitGraphReader {
	return &CommitGraphReader{logger: logger}
}

// History returns up to limit commits reachable from HEAD, newest first.
// A repository with no commits yields an empty slice.
func (r *CommitGraphReader) History(repository *git.Repository, limit int) ([]CommitRecord, error) {
	records, _, err := r.walk(repository, limit, false)
	return records, err
}

// HistoryWithFiles additionally collects the set of paths touched by each
// commit. files[i] belongs to records[i]. Diff failures on individual
// commits degrade to an empty file list.
func (r *CommitGraphReader) HistoryWithFiles(repository *git.Repository, limit int) ([]CommitRecord, [][]string, error) {
	return r.walk(repository, limit, true)
}

func (r *CommitGraphReader) walk(repository *git.Repository, limit int, withFiles bool) ([]CommitRecord, [][]string, error) {
	if _, err := repository.Head(); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []CommitRecord{}, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	iter, err := repository.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	defer iter.Close()

	records := make([]CommitRecord, 0, limit)
	var files [][]string
	err = iter.ForEach(func(c *object.Commit) error {
		records = append(records, convertCommit(c))
		if withFiles {
			files = append(files, r.commitFiles(c))
		}
		if len(records) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	return records, files, nil
}

func (r *CommitGraphReader) commitFiles(c *object.Commit) []string {
	stats, err := c.Stats()
	if err != nil {
		r.logger.Debug("failed to diff commit", zap.String("commit", c.Hash.String()), zap.Error(err))
		return nil
	}
	paths := make([]string, 0, len(stats))
	for _, st := range stats {
		paths = append(paths, st.Name)
	}
	return paths
}

func convertCommit(c *object.Commit) CommitRecord {
	id := c.Hash.String()
	return CommitRecord{
		ID:      id,
		ShortID: id[:shortIDLength],
		Author: Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Committer: Signature{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
			When:  c.Committer.When,
		},
		Message:     c.Message,
		Summary:     commitSummary(c.Message),
		ParentCount: c.NumParents(),
		Verified:    true,
	}
}

func commitSummary(message string) string {
	summary, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(summary)
}
