package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sharpestat/adapters/stats/deflation"
	"sharpestat/adapters/stats/haircut"
	sharpecalc "sharpestat/adapters/stats/sharpe"
	"sharpestat/domain/core"
	"sharpestat/domain/returns"
	"sharpestat/internal/rng"
	"sharpestat/internal/testkit"
)

func newService(config AnalysisConfig) *AnalysisService {
	calc := sharpecalc.NewCalculator()
	return NewAnalysisService(
		calc,
		deflation.NewEngine(calc),
		haircut.NewSimulator(calc, rng.NewAdapter()),
		config,
	)
}

func testConfig() AnalysisConfig {
	config := DefaultAnalysisConfig()
	config.NumSimulations = 50
	return config
}

// Power-of-two fixture values keep every sum exact in float64, so the
// orthogonality of the phase-shifted deviation cycles survives the mean
// subtraction inside the correlation estimate.
const (
	testDrift = 0.001953125 // 2^-9
	testVol   = 0.015625    // 2^-6
)

// driftedSeries layers a constant drift over a four-period deviation cycle.
// Two series built with different phases have exactly zero correlation, which
// keeps the cross-sectional aggregates of the fixture analytic.
func driftedSeries(length int, drift, vol float64, phase int) returns.Series {
	s := make(returns.Series, length)
	for i := range s {
		s[i] = drift
		switch (i + phase) % 4 {
		case 0:
			s[i] += vol
		case 2:
			s[i] -= vol
		}
	}
	return s
}

func threeStrategyPanel(t *testing.T) *returns.Panel {
	t.Helper()

	panel := returns.NewPanel()
	require.NoError(t, panel.Add("winner", driftedSeries(104, testDrift, testVol, 0)))
	require.NoError(t, panel.Add("flat", testkit.ZeroSeries(104)))
	require.NoError(t, panel.Add("loser", driftedSeries(104, -testDrift, testVol, 1)))
	return panel
}

func TestAnalyze_ThreeStrategyPanel(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte-Carlo haircut is slow")
	}

	svc := newService(testConfig())
	classes := map[core.StrategyKey]string{
		"winner": "momentum",
		"loser":  "reversal",
	}

	run, err := svc.Analyze(context.Background(), threeStrategyPanel(t), classes)
	require.NoError(t, err)

	require.Len(t, run.Statistics, 3)
	require.Equal(t, 3, run.NumTrials)
	require.NotEmpty(t, run.RunID)

	byKey := make(map[core.StrategyKey]int, len(run.Statistics))
	for i, s := range run.Statistics {
		byKey[s.Strategy] = i
	}
	winner := run.Statistics[byKey["winner"]]
	flat := run.Statistics[byKey["flat"]]
	loser := run.Statistics[byKey["loser"]]

	require.Greater(t, winner.SR, 0.0)
	require.Zero(t, flat.SR)
	require.Less(t, loser.SR, 0.0)

	// Constant-zero series short-circuits every downstream statistic.
	require.Zero(t, flat.AnnSR)
	require.Zero(t, flat.PSR)

	// The flat strategy contributes no correlation pair, and the phase-shifted
	// winner/loser deviations are orthogonal by construction.
	require.Zero(t, run.AvgCorrelation)

	for _, s := range run.Statistics {
		require.GreaterOrEqual(t, s.SRPValue, 0.0, "strategy %s", s.Strategy)
		require.LessOrEqual(t, s.SRPValue, 1.0, "strategy %s", s.Strategy)
		require.GreaterOrEqual(t, s.PSR, 0.0, "strategy %s", s.Strategy)
		require.LessOrEqual(t, s.PSR, 1.0, "strategy %s", s.Strategy)
		require.GreaterOrEqual(t, s.DSR, 0.0, "strategy %s", s.Strategy)
		require.LessOrEqual(t, s.DSR, 1.0, "strategy %s", s.Strategy)
		require.GreaterOrEqual(t, s.HLZPValue, 0.0, "strategy %s", s.Strategy)
		require.LessOrEqual(t, s.HLZPValue, 1.0, "strategy %s", s.Strategy)
	}

	// Deflating against the expected maximum of the trials never helps.
	require.LessOrEqual(t, winner.DSR, winner.PSR)
	require.Greater(t, winner.SR, loser.SR)

	require.Equal(t, "momentum", winner.Class)
	require.Equal(t, "reversal", loser.Class)
	require.Empty(t, flat.Class)
}

func TestAnalyze_DeterministicAcrossRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte-Carlo haircut is slow")
	}

	ctx := context.Background()

	run1, err := newService(testConfig()).Analyze(ctx, threeStrategyPanel(t), nil)
	require.NoError(t, err)
	run2, err := newService(testConfig()).Analyze(ctx, threeStrategyPanel(t), nil)
	require.NoError(t, err)

	require.Equal(t, run1.AvgCorrelation, run2.AvgCorrelation)
	require.Equal(t, run1.ExpectedMaxSR, run2.ExpectedMaxSR)
	require.Len(t, run2.Statistics, len(run1.Statistics))
	for i := range run1.Statistics {
		require.Equal(t, run1.Statistics[i].Strategy, run2.Statistics[i].Strategy)
		require.Equal(t, run1.Statistics[i].SR, run2.Statistics[i].SR)
		require.Equal(t, run1.Statistics[i].HLZPValue, run2.Statistics[i].HLZPValue,
			"strategy %s", run1.Statistics[i].Strategy)
	}

	// Envelopes stay distinct even when the numbers agree.
	require.NotEqual(t, run1.RunID, run2.RunID)
}

func TestAnalyze_RejectsEmptyPanel(t *testing.T) {
	svc := newService(testConfig())

	_, err := svc.Analyze(context.Background(), returns.NewPanel(), nil)
	require.ErrorIs(t, err, core.ErrEmptyPanel)
}

func TestAnalyze_AllZeroPanelFails(t *testing.T) {
	svc := newService(testConfig())

	panel := returns.NewPanel()
	require.NoError(t, panel.Add("a", testkit.ZeroSeries(104)))
	require.NoError(t, panel.Add("b", testkit.ZeroSeries(104)))

	_, err := svc.Analyze(context.Background(), panel, nil)
	require.ErrorIs(t, err, core.ErrNoValidPairs)
}

func TestAnalyze_ContextCancellation(t *testing.T) {
	svc := newService(testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, threeStrategyPanel(t), nil)
	require.Error(t, err)
}
