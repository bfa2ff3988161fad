package haircut

import (
	"math"

	"sharpestat/domain/core"
)

// SimulationParameters drives one HLZ Monte-Carlo invocation. Rho,
// ProbZeroMean and Lambda are interpolated from the calibration table;
// TotalNumTrials is derived separately as an integer so the simulated
// universe is always at least as large as the real trial count.
type SimulationParameters struct {
	Rho            float64
	TotalNumTrials int
	ProbZeroMean   float64
	Lambda         float64
}

// calibrationRow is one empirical row published by Harvey, Liu and Zhu.
type calibrationRow struct {
	rho          float64
	totalTrials  float64
	probZeroMean float64
	lambda       float64
}

var calibrationTable = [5]calibrationRow{
	{rho: 0.0, totalTrials: 1295, probZeroMean: 3.9660 * 0.1, lambda: 5.4995 * 0.001},
	{rho: 0.2, totalTrials: 1377, probZeroMean: 4.4589 * 0.1, lambda: 5.5508 * 0.001},
	{rho: 0.4, totalTrials: 1476, probZeroMean: 4.8604 * 0.1, lambda: 5.5413 * 0.001},
	{rho: 0.6, totalTrials: 1773, probZeroMean: 5.9902 * 0.1, lambda: 5.5512 * 0.001},
	{rho: 0.8, totalTrials: 3109, probZeroMean: 8.3901 * 0.1, lambda: 5.5956 * 0.001},
}

// SimulationParametersFor interpolates the calibration table at the observed
// average correlation and derives the simulated universe size for numTrials
// real trials. Correlations outside [0,1] are rejected outright; values above
// the last breakpoint extrapolate from the 0.6-0.8 bracket, as in the
// published calibration.
func SimulationParametersFor(avgCorrelation float64, numTrials int) (SimulationParameters, error) {
	if avgCorrelation < 0 || avgCorrelation > 1 {
		return SimulationParameters{}, core.NewCorrelationRangeError(avgCorrelation)
	}

	lo, hi := bracket(avgCorrelation)
	loRow, hiRow := calibrationTable[lo], calibrationTable[hi]

	span := hiRow.rho - loRow.rho
	loWeight := (hiRow.rho - avgCorrelation) / span
	hiWeight := (avgCorrelation - loRow.rho) / span

	// Phase one: interpolate the continuous fields.
	rho := loWeight*loRow.rho + hiWeight*hiRow.rho
	probZeroMean := loWeight*loRow.probZeroMean + hiWeight*hiRow.probZeroMean
	lambda := loWeight*loRow.lambda + hiWeight*hiRow.lambda
	baselineTrials := loWeight*loRow.totalTrials + hiWeight*hiRow.totalTrials

	// Phase two: derive the integer trial count from the interpolated
	// baseline, guaranteeing totalNumTrials > numTrials.
	total := derivedTotalTrials(numTrials, baselineTrials)

	return SimulationParameters{
		Rho:            rho,
		TotalNumTrials: total,
		ProbZeroMean:   probZeroMean,
		Lambda:         lambda,
	}, nil
}

// bracket returns the calibration rows surrounding the correlation.
func bracket(corr float64) (lo, hi int) {
	switch {
	case corr < 0.2:
		return 0, 1
	case corr < 0.4:
		return 1, 2
	case corr < 0.6:
		return 2, 3
	default:
		return 3, 4
	}
}

// derivedTotalTrials scales the interpolated baseline count to the smallest
// multiple that exceeds the requested number of real trials.
func derivedTotalTrials(numTrials int, baseline float64) int {
	return int(math.Floor(float64(numTrials)/baseline+1) * math.Floor(baseline+1))
}
