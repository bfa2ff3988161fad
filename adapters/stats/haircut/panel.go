package haircut

import (
	"math"
	"math/rand/v2"

	"sharpestat/domain/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Fixed constants of the HLZ mixture model: monthly strategy volatility and
// the number of monthly observations behind each simulated trial.
const (
	simMonthlyObservations = 240
)

var simMonthlyVolatility = 0.15 / math.Sqrt(12)

// GenerateTStatPanel builds a numSimulations x TotalNumTrials matrix of
// absolute t-statistics under the HLZ mixture model. Each simulation row is a
// correlated zero-mean shock vector drawn from a Toeplitz equicorrelation
// matrix scaled to a covariance, plus a per-cell "true effect": a Bernoulli
// gate with success probability 1-ProbZeroMean times an exponential magnitude
// with scale Lambda.
//
// All randomness flows from src, so identical parameters and an identical
// source reproduce the panel bit for bit.
func (s *Simulator) GenerateTStatPanel(params SimulationParameters, numSimulations int, src rand.Source) ([][]float64, error) {
	n := params.TotalNumTrials

	cellScale := simMonthlyVolatility * simMonthlyVolatility / simMonthlyObservations
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, cellScale)
		for j := i + 1; j < n; j++ {
			cov.SetSym(i, j, params.Rho*cellScale)
		}
	}

	normal, ok := distmv.NewNormal(make([]float64, n), cov, src)
	if !ok {
		// A calibration or input bug, not a transient condition.
		return nil, core.ErrNotPositiveDefinite
	}

	uniform := rand.New(src)
	exponential := distuv.Exponential{Rate: 1 / params.Lambda, Src: src}
	denominator := simMonthlyVolatility / math.Sqrt(simMonthlyObservations)

	panel := make([][]float64, numSimulations)
	shock := make([]float64, n)
	for i := range panel {
		normal.Rand(shock)

		row := make([]float64, n)
		for j := 0; j < n; j++ {
			trueEffect := 0.0
			magnitude := exponential.Rand()
			if uniform.Float64() > params.ProbZeroMean {
				trueEffect = magnitude
			}
			row[j] = math.Abs(trueEffect+shock[j]) / denominator
		}
		panel[i] = row
	}

	return panel, nil
}

// TStatToPValuePanel converts each simulation row into one-tailed p-values
// 1-Phi(t), keeping only the first numTrials-1 columns: the universe of
// "other trials" excluding the strategy under test.
func (s *Simulator) TStatToPValuePanel(tStatPanel [][]float64, numTrials int) [][]float64 {
	width := numTrials - 1
	if width < 0 {
		width = 0
	}

	pPanel := make([][]float64, len(tStatPanel))
	for i, row := range tStatPanel {
		pRow := make([]float64, width)
		for j := 0; j < width; j++ {
			pRow[j] = 1 - distuv.UnitNormal.CDF(row[j])
		}
		pPanel[i] = pRow
	}

	return pPanel
}
