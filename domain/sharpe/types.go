package sharpe

import (
	"sharpestat/domain/core"
)

// Statistics is the per-strategy scoring record. It is created once per
// analysis run and immutable after computation; persistence belongs to the
// caller's collaborators, not the statistics core.
type Statistics struct {
	Strategy core.StrategyKey `json:"strategy" db:"strategy"`

	// SR is the non-annualized sample Sharpe ratio.
	SR float64 `json:"sr" db:"sr"`
	// SRPValue is the one-tailed p-value of SR under a Student-t null.
	SRPValue float64 `json:"sr_p_value" db:"sr_p_value"`
	// AnnSR is the autocorrelation-adjusted annualized Sharpe ratio (Lo 2002).
	AnnSR float64 `json:"ann_sr" db:"ann_sr"`
	// PSR is the Probabilistic Sharpe Ratio against a zero benchmark.
	PSR float64 `json:"psr" db:"psr"`
	// DSR is the Deflated Sharpe Ratio: PSR against the expected maximum SR
	// of the trials searched.
	DSR float64 `json:"dsr" db:"dsr"`
	// HLZPValue is the Harvey-Liu-Zhu multiple-testing-adjusted p-value.
	HLZPValue float64 `json:"hlz_p_value" db:"hlz_p_value"`

	// Class is an opaque pass-through label supplied by the caller
	// (e.g. a strategy-classification tag). Never interpreted here.
	Class string `json:"class,omitempty" db:"class"`
}

// AnalysisRun is the envelope for one full cross-sectional scoring pass.
type AnalysisRun struct {
	RunID     core.RunID     `json:"run_id" db:"run_id"`
	CreatedAt core.Timestamp `json:"created_at" db:"created_at"`

	// Cross-sectional aggregates shared by every strategy's deflation.
	AvgCorrelation float64 `json:"avg_correlation" db:"avg_correlation"`
	ExpectedMaxSR  float64 `json:"expected_max_sr" db:"expected_max_sr"`
	NumTrials      int     `json:"num_trials" db:"num_trials"`
	NumSimulations int     `json:"num_simulations" db:"num_simulations"`
	Seed           int64   `json:"seed" db:"seed"`

	Statistics []Statistics `json:"statistics"`
}
