package analytics

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

const riskyFileLimit = 10

func computeMetrics(in Input) map[string]any {
	metrics := map[string]any{
		MetricTotalCommits: len(in.Commits),
		MetricActiveBranch: in.Branch,
	}

	if len(in.Commits) > 0 {
		metrics[MetricLastCommitTime] = in.Commits[0].When
	} else {
		metrics[MetricLastCommitTime] = time.Time{}
	}

	metrics[MetricOwnership] = computeOwnership(in.Commits)
	metrics[MetricCoupling] = computeCoupling(in.Commits)
	metrics[MetricRiskyFiles] = computeRiskyFiles(in)

	return metrics
}

// computeOwnership distributes the sampled history across authors by
// commit count, largest share first.
func computeOwnership(commits []CommitSample) []OwnershipEntry {
	if len(commits) == 0 {
		return []OwnershipEntry{}
	}

	byAuthor := lo.GroupBy(commits, func(c CommitSample) string { return c.AuthorEmail })

	entries := lo.MapToSlice(byAuthor, func(email string, authored []CommitSample) OwnershipEntry {
		return OwnershipEntry{
			Author:  authored[0].Author,
			Email:   email,
			Commits: len(authored),
			Share:   float64(len(authored)) / float64(len(commits)),
		}
	})

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Commits != entries[j].Commits {
			return entries[i].Commits > entries[j].Commits
		}
		return entries[i].Email < entries[j].Email
	})

	return entries
}

// computeCoupling counts pairwise co-changes: two files are coupled once
// for every commit that touches both.
func computeCoupling(commits []CommitSample) CouplingMatrix {
	matrix := make(CouplingMatrix)

	for _, commit := range commits {
		files := lo.Uniq(commit.Files)
		sort.Strings(files)

		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				addCoupling(matrix, files[i], files[j])
				addCoupling(matrix, files[j], files[i])
			}
		}
	}

	return matrix
}

func addCoupling(matrix CouplingMatrix, a, b string) {
	row, ok := matrix[a]
	if !ok {
		row = make(map[string]int)
		matrix[a] = row
	}
	row[b]++
}

// computeRiskyFiles ranks files by churn in the sampled window. A file
// that is also currently dirty gets a score bump: recent history plus an
// uncommitted edit is the riskiest combination this model can see.
func computeRiskyFiles(in Input) []RiskyFile {
	if len(in.Commits) == 0 {
		return []RiskyFile{}
	}

	churn := make(map[string]int)
	for _, commit := range in.Commits {
		for _, file := range lo.Uniq(commit.Files) {
			churn[file]++
		}
	}

	dirty := lo.SliceToMap(in.DirtyFiles, func(path string) (string, struct{}) {
		return path, struct{}{}
	})

	files := lo.MapToSlice(churn, func(path string, count int) RiskyFile {
		score := float64(count) / float64(len(in.Commits))
		if _, ok := dirty[path]; ok {
			score = min(score+0.25, 1.0)
		}
		return RiskyFile{
			Path:  path,
			Churn: count,
			Score: score,
		}
	})

	sort.Slice(files, func(i, j int) bool {
		if files[i].Score != files[j].Score {
			return files[i].Score > files[j].Score
		}
		return files[i].Path < files[j].Path
	})

	if len(files) > riskyFileLimit {
		files = files[:riskyFileLimit]
	}

	return files
}
