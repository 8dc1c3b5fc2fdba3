package insights

import (
	"time"

	"github.com/forgeworks/repocore/internal/analytics"
)

type SnapshotResponse struct {
	ComputedAt time.Time      `json:"computed_at"`
	Metrics    map[string]any `json:"metrics"`
}

type OwnershipResponse struct {
	Entries []analytics.OwnershipEntry `json:"entries"`
}

type RiskyFilesResponse struct {
	Files []analytics.RiskyFile `json:"files"`
}

type QualityResponse struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}
