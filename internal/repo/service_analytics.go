package repo

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/forgeworks/repocore/internal/analytics"
)

const (
	defaultQualityScore = 0.8
	defaultImpactScore  = 0.5
	impactFanoutScale   = 10
)

// maybeRecomputeAnalytics hands a point-in-time input to the analytics
// cache when the current snapshot has gone stale. The recompute itself runs
// off the owner goroutine on copied data.
func (s *Service) maybeRecomputeAnalytics() {
	if s.cache.Fresh() {
		return
	}
	s.cache.Recompute(s.buildAnalyticsInput())
}

func (s *Service) buildAnalyticsInput() analytics.Input {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repository == nil {
		return analytics.Input{Clean: true}
	}

	records, files, err := s.history.HistoryWithFiles(s.repository, s.cfg.HistoryLimit)
	if err != nil {
		s.logger.Warn("analytics history walk failed", zap.Error(err))
		return analytics.Input{Branch: s.currentBranch, Clean: !s.hasChanges}
	}

	commits := make([]analytics.CommitSample, len(records))
	for i, record := range records {
		var touched []string
		if i < len(files) {
			touched = files[i]
		}
		commits[i] = analytics.CommitSample{
			ID:          record.ID,
			Author:      record.Author.Name,
			AuthorEmail: record.Author.Email,
			When:        record.Author.When,
			Files:       touched,
		}
	}
	return analytics.Input{
		Branch:     s.currentBranch,
		Commits:    commits,
		DirtyFiles: slices.Clone(s.modifiedFiles),
		Clean:      !s.hasChanges,
	}
}

// GetCodeMetrics returns the latest analytics metric map. Values are
// advisory; before the first computation the map is empty.
func (s *Service) GetCodeMetrics() map[string]any {
	s.maybeRecomputeAnalytics()
	snap := s.cache.Snapshot()
	if snap == nil {
		return map[string]any{}
	}
	return maps.Clone(snap.Metrics)
}

// GetChangeImpact estimates the blast radius of changing a file from its
// co-change coupling row. Unknown files get a neutral default.
func (s *Service) GetChangeImpact(path string) map[string]any {
	result := map[string]any{
		"path":         path,
		"impact":       defaultImpactScore,
		"dependencies": []string{},
	}
	row := s.couplingRow(path)
	if row == nil {
		return result
	}

	deps := slices.Sorted(maps.Keys(row))
	impact := float64(len(deps)) / impactFanoutScale
	if impact > 1.0 {
		impact = 1.0
	}
	result["impact"] = impact
	result["dependencies"] = deps
	return result
}

// PredictQualityScore returns a heuristic quality score in [0, 1] for a
// file. Files flagged as risky score lower; unknown files get a neutral
// default.
func (s *Service) PredictQualityScore(path string) float64 {
	for _, risky := range s.IdentifyRiskyFiles() {
		if risky.Path == path {
			return 1.0 - risky.Score/2
		}
	}
	return defaultQualityScore
}

// GetOwnershipData returns per-author commit shares over the sampled
// history.
func (s *Service) GetOwnershipData() []analytics.OwnershipEntry {
	s.maybeRecomputeAnalytics()
	snap := s.cache.Snapshot()
	if snap == nil {
		return []analytics.OwnershipEntry{}
	}
	if entries, ok := snap.Metrics[analytics.MetricOwnership].([]analytics.OwnershipEntry); ok {
		return entries
	}
	return []analytics.OwnershipEntry{}
}

// GetCouplingMatrix returns pairwise co-change counts over the sampled
// history.
func (s *Service) GetCouplingMatrix() analytics.CouplingMatrix {
	s.maybeRecomputeAnalytics()
	snap := s.cache.Snapshot()
	if snap == nil {
		return analytics.CouplingMatrix{}
	}
	if matrix, ok := snap.Metrics[analytics.MetricCoupling].(analytics.CouplingMatrix); ok {
		return matrix
	}
	return analytics.CouplingMatrix{}
}

// IdentifyRiskyFiles returns churn-ranked defect hotspots.
func (s *Service) IdentifyRiskyFiles() []analytics.RiskyFile {
	s.maybeRecomputeAnalytics()
	snap := s.cache.Snapshot()
	if snap == nil {
		return []analytics.RiskyFile{}
	}
	if risky, ok := snap.Metrics[analytics.MetricRiskyFiles].([]analytics.RiskyFile); ok {
		return risky
	}
	return []analytics.RiskyFile{}
}

func (s *Service) couplingRow(path string) map[string]int {
	matrix := s.GetCouplingMatrix()
	return matrix[path]
}
