package ports

import (
	"context"

	"sharpestat/domain/core"
	"sharpestat/domain/sharpe"
)

// StatisticsRepository persists completed analysis runs. The statistics core
// never touches storage itself; this port is implemented by an external
// collaborator (adapters/postgres).
type StatisticsRepository interface {
	// SaveRun stores a run envelope and all of its per-strategy statistics.
	SaveRun(ctx context.Context, run *sharpe.AnalysisRun) error

	// GetRun loads a run envelope with its statistics.
	GetRun(ctx context.Context, runID core.RunID) (*sharpe.AnalysisRun, error)

	// ListRuns returns run IDs, most recent first.
	ListRuns(ctx context.Context, limit int) ([]core.RunID, error)
}
