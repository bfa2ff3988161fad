// Package haircut implements the Harvey-Liu-Zhu multiple-testing haircut: a
// calibrated Monte-Carlo simulation of the population of strategy trials,
// converted to p-values and adjusted with the Benjamini-Hochberg-Yekutieli
// step-down procedure. The median across simulations of the adjusted value is
// the multiple-testing-adjusted p-value of the strategy under test.
package haircut

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	sharpecalc "sharpestat/adapters/stats/sharpe"
	"sharpestat/ports"

	"github.com/montanaflynn/stats"
)

// panelKey identifies a reusable p-value panel. The panel distribution
// depends only on these inputs, never on the individual strategy.
type panelKey struct {
	avgCorrelation float64
	numTrials      int
	numSimulations int
	seed           int64
}

// Simulator runs the HLZ haircut. The p-value panel cache is read-mostly and
// mutex-guarded; a duplicate generation on a race would be wasteful but
// harmless, partial state is never visible.
type Simulator struct {
	calc *sharpecalc.Calculator
	rng  ports.RNGPort

	mu    sync.Mutex
	cache map[panelKey][][]float64
}

// NewSimulator creates a haircut simulator with a shared panel cache.
func NewSimulator(calc *sharpecalc.Calculator, rng ports.RNGPort) *Simulator {
	return &Simulator{
		calc:  calc,
		rng:   rng,
		cache: make(map[panelKey][][]float64),
	}
}

// HLZPValue is the single externally-consumed entry point: the
// multiple-testing-adjusted p-value of one strategy's annualized Sharpe
// ratio, given the cross-sectional average correlation and the number of
// trials actually searched.
//
// The calibration is native to monthly data, so the observed Sharpe ratio is
// rescaled first: monthly observations = floor(returnsLength*12/periods),
// monthly SR = annualized SR / sqrt(12).
func (s *Simulator) HLZPValue(ctx context.Context, annualizedSR float64, periodsPerYear, returnsLength int, avgCorrelation float64, numTrials, numSimulations int, seed int64) (float64, error) {
	monthlyObservations := int(math.Floor(float64(returnsLength) * 12 / float64(periodsPerYear)))
	monthlySR := annualizedSR / math.Sqrt(12)

	srPValue := s.calc.SharpeRatioPValue(monthlySR, monthlyObservations)

	pPanel, err := s.pValuePanel(ctx, avgCorrelation, numTrials, numSimulations, seed)
	if err != nil {
		return 0, err
	}

	return s.AdjustedPValue(pPanel, srPValue)
}

// pValuePanel returns the cached panel for the key, generating it on first
// use. Every strategy in a run shares the same panel: the simulated universe
// depends only on the cross-section, and regenerating it per strategy would
// repeat the dominant cost of the whole analysis.
func (s *Simulator) pValuePanel(ctx context.Context, avgCorrelation float64, numTrials, numSimulations int, seed int64) ([][]float64, error) {
	key := panelKey{
		avgCorrelation: avgCorrelation,
		numTrials:      numTrials,
		numSimulations: numSimulations,
		seed:           seed,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if panel, ok := s.cache[key]; ok {
		return panel, nil
	}

	params, err := SimulationParametersFor(avgCorrelation, numTrials)
	if err != nil {
		return nil, err
	}

	streamName := fmt.Sprintf("hlz-panel/%g/%d/%d", avgCorrelation, numTrials, numSimulations)
	src, err := s.rng.SeededSource(ctx, streamName, seed)
	if err != nil {
		return nil, err
	}

	tPanel, err := s.GenerateTStatPanel(params, numSimulations, src)
	if err != nil {
		return nil, err
	}

	panel := s.TStatToPValuePanel(tPanel, numTrials)
	s.cache[key] = panel
	return panel, nil
}

// AdjustedPValue inserts the strategy's p-value into every simulated row at
// its correct rank, runs the BHY adjustment over the augmented vector and
// reads off the adjusted value at the insertion rank. The median across
// simulation rows makes the estimate robust to Monte-Carlo noise.
func (s *Simulator) AdjustedPValue(pValuePanel [][]float64, strategyPValue float64) (float64, error) {
	perSimulation := make([]float64, len(pValuePanel))

	for i, row := range pValuePanel {
		sorted := make([]float64, len(row))
		copy(sorted, row)
		sort.Float64s(sorted)

		idx := sort.SearchFloat64s(sorted, strategyPValue)

		augmented := make([]float64, 0, len(sorted)+1)
		augmented = append(augmented, sorted[:idx]...)
		augmented = append(augmented, strategyPValue)
		augmented = append(augmented, sorted[idx:]...)

		perSimulation[i] = BHYAdjustment(augmented)[idx]
	}

	return stats.Median(perSimulation)
}
