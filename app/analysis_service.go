// Package app composes the statistics adapters into full analysis runs.
package app

import (
	"context"
	"fmt"
	"sync"

	"sharpestat/adapters/stats/deflation"
	"sharpestat/adapters/stats/haircut"
	sharpecalc "sharpestat/adapters/stats/sharpe"
	"sharpestat/domain/core"
	"sharpestat/domain/returns"
	"sharpestat/domain/sharpe"

	"golang.org/x/sync/semaphore"
)

// AnalysisConfig controls one cross-sectional scoring run.
type AnalysisConfig struct {
	// PeriodsPerYear is the sampling frequency of every series in the panel,
	// e.g. 52 for weekly returns.
	PeriodsPerYear int
	// NumSimulations is the Monte-Carlo depth of the HLZ haircut.
	NumSimulations int
	// Seed drives every random draw; identical seeds reproduce identical runs.
	Seed int64
	// MaxParallel caps concurrent per-strategy haircut evaluations.
	MaxParallel int64
}

// DefaultAnalysisConfig mirrors the calibration the original study ran with.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		PeriodsPerYear: 52,
		NumSimulations: 1000,
		Seed:           42,
		MaxParallel:    4,
	}
}

// AnalysisService orchestrates CoreStatistics, the DeflationEngine and the
// HaircutSimulator over one returns panel. All components are pure functions
// over immutable inputs; the service only sequences them and shares the
// cross-sectional scalars that every strategy's deflation depends on.
type AnalysisService struct {
	calc      *sharpecalc.Calculator
	deflation *deflation.Engine
	haircut   *haircut.Simulator
	config    AnalysisConfig
}

// NewAnalysisService wires the three statistics components together.
func NewAnalysisService(calc *sharpecalc.Calculator, defl *deflation.Engine, sim *haircut.Simulator, config AnalysisConfig) *AnalysisService {
	return &AnalysisService{
		calc:      calc,
		deflation: defl,
		haircut:   sim,
		config:    config,
	}
}

// Analyze scores every strategy in the panel: SR, its p-value, the Lo
// annualized SR, PSR, DSR against the shared expected-maximum-SR benchmark,
// and the HLZ multiple-testing-adjusted p-value. classes carries optional
// pass-through labels keyed by strategy; unknown keys are ignored.
func (s *AnalysisService) Analyze(ctx context.Context, panel *returns.Panel, classes map[core.StrategyKey]string) (*sharpe.AnalysisRun, error) {
	if err := panel.Validate(); err != nil {
		return nil, err
	}

	keys := panel.Strategies()
	numTrials := panel.NumStrategies()
	length := panel.Length()

	records := make([]sharpe.Statistics, len(keys))
	srPerStrategy := make([]float64, len(keys))

	for i, key := range keys {
		rets, ok := panel.Series(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrUnknownStrategy, key)
		}

		sr := s.calc.EstimatedSharpeRatio(rets)
		srPerStrategy[i] = sr

		records[i] = sharpe.Statistics{
			Strategy: key,
			SR:       sr,
			SRPValue: s.calc.SharpeRatioPValue(sr, length),
			AnnSR:    s.calc.AnnualizedSharpeRatio(rets, s.config.PeriodsPerYear),
			PSR:      s.deflation.ProbabilisticSharpeRatio(rets, sr, 0),
			Class:    classes[key],
		}
	}

	// Cross-sectional aggregates, computed once and shared by every strategy.
	avgCorrelation, err := s.calc.EqualWeightedAverageCorrelation(panel)
	if err != nil {
		return nil, fmt.Errorf("average correlation: %w", err)
	}

	expectedMaxSR, err := s.deflation.ExpectedMaximumSharpeRatio(panel, srPerStrategy)
	if err != nil {
		return nil, fmt.Errorf("expected maximum SR: %w", err)
	}

	for i := range keys {
		rets, _ := panel.Series(keys[i])
		records[i].DSR = s.deflation.DeflatedSharpeRatio(rets, records[i].SR, expectedMaxSR)
	}

	// The haircut dominates run time, so strategies are scored in parallel.
	// They all share one cached simulation panel; only the BHY insertion and
	// median differ per strategy.
	sem := semaphore.NewWeighted(s.config.MaxParallel)
	var wg sync.WaitGroup
	hlzErrs := make([]error, len(keys))

	for i := range keys {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				hlzErrs[i] = err
				return
			}
			defer sem.Release(1)

			p, err := s.haircut.HLZPValue(ctx, records[i].AnnSR, s.config.PeriodsPerYear, length,
				avgCorrelation, numTrials, s.config.NumSimulations, s.config.Seed)
			if err != nil {
				hlzErrs[i] = err
				return
			}
			records[i].HLZPValue = p
		}(i)
	}
	wg.Wait()

	for _, err := range hlzErrs {
		if err != nil {
			return nil, fmt.Errorf("hlz p-value: %w", err)
		}
	}

	return &sharpe.AnalysisRun{
		RunID:          core.RunID(core.NewID()),
		CreatedAt:      core.Now(),
		AvgCorrelation: avgCorrelation,
		ExpectedMaxSR:  expectedMaxSR,
		NumTrials:      numTrials,
		NumSimulations: s.config.NumSimulations,
		Seed:           s.config.Seed,
		Statistics:     records,
	}, nil
}
