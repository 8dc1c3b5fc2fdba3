package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCommits() []CommitSample {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	return []CommitSample{
		{ID: "c3", Author: "Alice", AuthorEmail: "alice@example.com", When: base.Add(2 * time.Hour), Files: []string{"a.go", "b.go"}},
		{ID: "c2", Author: "Bob", AuthorEmail: "bob@example.com", When: base.Add(time.Hour), Files: []string{"a.go"}},
		{ID: "c1", Author: "Alice", AuthorEmail: "alice@example.com", When: base, Files: []string{"a.go", "c.go"}},
	}
}

func TestComputeMetrics_BasicKeys(t *testing.T) {
	in := Input{Branch: "main", Commits: sampleCommits(), Clean: true}

	metrics := computeMetrics(in)

	assert.Equal(t, 3, metrics[MetricTotalCommits])
	assert.Equal(t, "main", metrics[MetricActiveBranch])
	assert.Equal(t, in.Commits[0].When, metrics[MetricLastCommitTime])
}

func TestComputeMetrics_EmptyHistory(t *testing.T) {
	metrics := computeMetrics(Input{Branch: "main"})

	assert.Equal(t, 0, metrics[MetricTotalCommits])
	assert.Equal(t, time.Time{}, metrics[MetricLastCommitTime])
	assert.Empty(t, metrics[MetricOwnership])
	assert.Empty(t, metrics[MetricRiskyFiles])
}

func TestComputeOwnership_SharesSumToOne(t *testing.T) {
	entries := computeOwnership(sampleCommits())

	require.Len(t, entries, 2)
	assert.Equal(t, "alice@example.com", entries[0].Email)
	assert.Equal(t, 2, entries[0].Commits)
	assert.InDelta(t, 2.0/3.0, entries[0].Share, 1e-9)

	total := 0.0
	for _, e := range entries {
		total += e.Share
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestComputeCoupling_PairwiseCounts(t *testing.T) {
	matrix := computeCoupling(sampleCommits())

	assert.Equal(t, 1, matrix["a.go"]["b.go"])
	assert.Equal(t, 1, matrix["b.go"]["a.go"])
	assert.Equal(t, 1, matrix["a.go"]["c.go"])
	assert.Zero(t, matrix["b.go"]["c.go"])
}

func TestComputeRiskyFiles_ChurnRanked(t *testing.T) {
	in := Input{Commits: sampleCommits()}

	files := computeRiskyFiles(in)

	require.NotEmpty(t, files)
	assert.Equal(t, "a.go", files[0].Path)
	assert.Equal(t, 3, files[0].Churn)
	assert.InDelta(t, 1.0, files[0].Score, 1e-9)
}

func TestComputeRiskyFiles_DirtyFileBump(t *testing.T) {
	in := Input{
		Commits:    sampleCommits(),
		DirtyFiles: []string{"c.go"},
	}

	files := computeRiskyFiles(in)

	var bGo, cGo RiskyFile
	for _, f := range files {
		switch f.Path {
		case "b.go":
			bGo = f
		case "c.go":
			cGo = f
		}
	}

	// b.go and c.go have identical churn; the dirty one must rank higher.
	require.Equal(t, bGo.Churn, cGo.Churn)
	assert.Greater(t, cGo.Score, bGo.Score)
}
