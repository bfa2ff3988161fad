// Package deflation implements the Probabilistic and Deflated Sharpe Ratios:
// the estimation-uncertainty correction of a sample Sharpe ratio (skew and
// kurtosis aware) and its deflation against the expected maximum Sharpe ratio
// of the number of effectively independent trials searched.
package deflation

import (
	"math"

	sharpecalc "sharpestat/adapters/stats/sharpe"
	"sharpestat/domain/returns"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// eulerGamma is the Euler-Mascheroni constant used by the extreme-value
// approximation of the expected maximum of correlated normal estimates.
const eulerGamma = 0.57721566490153286060

// Engine computes PSR, DSR and their cross-sectional inputs. Stateless; safe
// for concurrent use.
type Engine struct {
	calc *sharpecalc.Calculator
}

// NewEngine creates a deflation engine on top of the base Sharpe calculator.
func NewEngine(calc *sharpecalc.Calculator) *Engine {
	return &Engine{calc: calc}
}

// SharpeRatioStdDev estimates the standard deviation of the sample Sharpe
// ratio, corrected for sample skewness and excess kurtosis:
//
//	sqrt((1 - skew*SR + (kurtosis-1)/4 * SR^2) / (T-1))
//
// A degenerate series yields NaN, which ProbabilisticSharpeRatio maps to 0.
func (e *Engine) SharpeRatioStdDev(rets returns.Series, sr float64) float64 {
	skew := stat.Skew(rets, nil)
	kurtosis := stat.ExKurtosis(rets, nil)
	t := float64(len(rets))

	return math.Sqrt((1 - skew*sr + (kurtosis-1)/4*sr*sr) / (t - 1))
}

// ProbabilisticSharpeRatio is the probability that the true Sharpe ratio
// exceeds the benchmark, given estimation uncertainty from non-normal,
// finite-sample returns.
func (e *Engine) ProbabilisticSharpeRatio(rets returns.Series, sr, benchmark float64) float64 {
	sd := e.SharpeRatioStdDev(rets, sr)

	// all-zeroes series
	if math.IsNaN(sd) {
		return 0
	}

	return distuv.UnitNormal.CDF((sr - benchmark) / sd)
}

// EstimatedIndependentTrials interpolates between the fully-correlated
// (1 trial) and fully-independent (N trials) extremes using the panel's
// average pairwise correlation. The ceiling biases toward fewer independent
// trials and therefore a slightly lower, more conservative DSR.
func (e *Engine) EstimatedIndependentTrials(panel *returns.Panel) (int, error) {
	corr, err := e.calc.EqualWeightedAverageCorrelation(panel)
	if err != nil {
		return 0, err
	}

	n := float64(panel.NumStrategies())
	return int(math.Ceil(corr + (1-corr)*n)), nil
}

// ExpectedMaximumSharpeRatio is the extreme-value approximation to the
// expected maximum of N_eff correlated normal Sharpe-ratio estimates, where
// srPerStrategy holds the non-annualized SR of every strategy in the panel.
func (e *Engine) ExpectedMaximumSharpeRatio(panel *returns.Panel, srPerStrategy []float64) (float64, error) {
	nEff, err := e.EstimatedIndependentTrials(panel)
	if err != nil {
		return 0, err
	}

	variance := stat.Variance(srPerStrategy, nil)
	n := float64(nEff)

	return math.Sqrt(variance) * (
		(1-eulerGamma)*distuv.UnitNormal.Quantile(1-1/n) +
			eulerGamma*distuv.UnitNormal.Quantile(1-1/(n*math.E))), nil
}

// DeflatedSharpeRatio is the PSR evaluated at the multiple-testing-corrected
// benchmark, usually ExpectedMaximumSharpeRatio over the trials searched.
func (e *Engine) DeflatedSharpeRatio(rets returns.Series, sr, expectedMaxSR float64) float64 {
	return e.ProbabilisticSharpeRatio(rets, sr, expectedMaxSR)
}
