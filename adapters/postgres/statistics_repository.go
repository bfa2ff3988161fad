// Package postgres persists analysis runs. It is the external collaborator
// the statistics core hands completed records to; nothing inside the core
// depends on it.
package postgres

import (
	"context"
	"fmt"
	"time"

	"sharpestat/domain/core"
	"sharpestat/domain/sharpe"
	"sharpestat/ports"

	"github.com/jmoiron/sqlx"
)

// Schema creates the tables this repository needs. Kept here rather than in a
// migration tool because the schema is two tables deep.
const Schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id          TEXT PRIMARY KEY,
	created_at      TIMESTAMPTZ NOT NULL,
	avg_correlation DOUBLE PRECISION NOT NULL,
	expected_max_sr DOUBLE PRECISION NOT NULL,
	num_trials      INTEGER NOT NULL,
	num_simulations INTEGER NOT NULL,
	seed            BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sharpe_statistics (
	run_id      TEXT NOT NULL REFERENCES analysis_runs(run_id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	strategy    TEXT NOT NULL,
	sr          DOUBLE PRECISION NOT NULL,
	sr_p_value  DOUBLE PRECISION NOT NULL,
	ann_sr      DOUBLE PRECISION NOT NULL,
	psr         DOUBLE PRECISION NOT NULL,
	dsr         DOUBLE PRECISION NOT NULL,
	hlz_p_value DOUBLE PRECISION NOT NULL,
	class       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, strategy)
);
`

// StatisticsRepositoryImpl implements ports.StatisticsRepository for PostgreSQL
type StatisticsRepositoryImpl struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new PostgreSQL statistics repository
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepositoryImpl {
	return &StatisticsRepositoryImpl{db: db}
}

var _ ports.StatisticsRepository = (*StatisticsRepositoryImpl)(nil)

// EnsureSchema creates the repository tables if they do not exist.
func (r *StatisticsRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// SaveRun stores a run envelope and all of its per-strategy statistics in one
// transaction.
func (r *StatisticsRepositoryImpl) SaveRun(ctx context.Context, run *sharpe.AnalysisRun) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (run_id, created_at, avg_correlation, expected_max_sr, num_trials, num_simulations, seed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.RunID.String(), run.CreatedAt.Time(), run.AvgCorrelation, run.ExpectedMaxSR, run.NumTrials, run.NumSimulations, run.Seed)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}

	for i, st := range run.Statistics {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sharpe_statistics (run_id, position, strategy, sr, sr_p_value, ann_sr, psr, dsr, hlz_p_value, class)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, run.RunID.String(), i, st.Strategy.String(), st.SR, st.SRPValue, st.AnnSR, st.PSR, st.DSR, st.HLZPValue, st.Class)
		if err != nil {
			return fmt.Errorf("insert statistics for %s: %w", st.Strategy, err)
		}
	}

	return tx.Commit()
}

// runRow mirrors the analysis_runs table for scanning.
type runRow struct {
	RunID          string    `db:"run_id"`
	CreatedAt      time.Time `db:"created_at"`
	AvgCorrelation float64   `db:"avg_correlation"`
	ExpectedMaxSR  float64   `db:"expected_max_sr"`
	NumTrials      int       `db:"num_trials"`
	NumSimulations int       `db:"num_simulations"`
	Seed           int64     `db:"seed"`
}

// statisticsRow mirrors the sharpe_statistics table for scanning.
type statisticsRow struct {
	Strategy  string  `db:"strategy"`
	SR        float64 `db:"sr"`
	SRPValue  float64 `db:"sr_p_value"`
	AnnSR     float64 `db:"ann_sr"`
	PSR       float64 `db:"psr"`
	DSR       float64 `db:"dsr"`
	HLZPValue float64 `db:"hlz_p_value"`
	Class     string  `db:"class"`
}

// GetRun loads a run envelope with its statistics in panel order.
func (r *StatisticsRepositoryImpl) GetRun(ctx context.Context, runID core.RunID) (*sharpe.AnalysisRun, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT run_id, created_at, avg_correlation, expected_max_sr, num_trials, num_simulations, seed
		FROM analysis_runs
		WHERE run_id = $1
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	var statRows []statisticsRow
	err = r.db.SelectContext(ctx, &statRows, `
		SELECT strategy, sr, sr_p_value, ann_sr, psr, dsr, hlz_p_value, class
		FROM sharpe_statistics
		WHERE run_id = $1
		ORDER BY position
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("load statistics for %s: %w", runID, err)
	}

	run := &sharpe.AnalysisRun{
		RunID:          core.RunID(row.RunID),
		CreatedAt:      core.Timestamp(row.CreatedAt),
		AvgCorrelation: row.AvgCorrelation,
		ExpectedMaxSR:  row.ExpectedMaxSR,
		NumTrials:      row.NumTrials,
		NumSimulations: row.NumSimulations,
		Seed:           row.Seed,
		Statistics:     make([]sharpe.Statistics, len(statRows)),
	}
	for i, sr := range statRows {
		run.Statistics[i] = sharpe.Statistics{
			Strategy:  core.StrategyKey(sr.Strategy),
			SR:        sr.SR,
			SRPValue:  sr.SRPValue,
			AnnSR:     sr.AnnSR,
			PSR:       sr.PSR,
			DSR:       sr.DSR,
			HLZPValue: sr.HLZPValue,
			Class:     sr.Class,
		}
	}

	return run, nil
}

// ListRuns returns run IDs, most recent first.
func (r *StatisticsRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]core.RunID, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `
		SELECT run_id FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	out := make([]core.RunID, len(ids))
	for i, id := range ids {
		out[i] = core.RunID(id)
	}
	return out, nil
}
