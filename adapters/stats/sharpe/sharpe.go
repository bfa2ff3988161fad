// Package sharpe implements the base Sharpe-ratio estimators: the sample
// Sharpe ratio, its Lo (2002) autocorrelation-adjusted annualization, and the
// one-tailed Student-t p-value of an observed Sharpe ratio.
package sharpe

import (
	"math"

	"sharpestat/domain/returns"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Calculator computes per-strategy Sharpe statistics. Stateless; safe for
// concurrent use.
type Calculator struct{}

// NewCalculator creates a new Sharpe calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// EstimatedSharpeRatio returns the sample mean divided by the Bessel-corrected
// sample standard deviation, with a zero risk-free rate. A constant-zero
// series returns 0 rather than 0/0.
func (c *Calculator) EstimatedSharpeRatio(rets returns.Series) float64 {
	mean := stat.Mean(rets, nil)
	std := stat.StdDev(rets, nil)

	if mean == 0 && std == 0 {
		return 0
	}

	return mean / std
}

// AnnualizedSharpeRatio applies the Lo (2002) autocorrelation correction,
// equation 22, to the sample Sharpe ratio. periodsPerYear is the sampling
// frequency of the series, e.g. 52 for weekly returns.
func (c *Calculator) AnnualizedSharpeRatio(rets returns.Series, periodsPerYear int) float64 {
	sr := c.EstimatedSharpeRatio(rets)

	// A constant series has undefined autocorrelation; short-circuit before
	// dividing by a zero variance.
	if sr == 0 {
		return 0
	}

	annualMultiplier := math.Sqrt(float64(periodsPerYear))

	rho := c.LagOneAutocorrelation(rets)
	q := float64(periodsPerYear)

	autocorrMultiplier := math.Pow(
		1+(2*rho/(1-rho))*(1-(1-math.Pow(rho, q))/(q*(1-rho))),
		-0.5,
	)

	return annualMultiplier * autocorrMultiplier * sr
}

// LagOneAutocorrelation is the Pearson correlation between the series and
// itself shifted by one observation.
func (c *Calculator) LagOneAutocorrelation(rets returns.Series) float64 {
	n := len(rets)
	if n < 2 {
		return 0
	}
	return stat.Correlation(rets[:n-1], rets[1:], nil)
}

// SharpeRatioPValue converts a Sharpe ratio into a one-tailed p-value via the
// t-statistic sr*sqrt(n) under a Student-t null with n-1 degrees of freedom.
// p(sr=0) is exactly 0.5 and p decreases monotonically in sr.
func (c *Calculator) SharpeRatioPValue(sr float64, numObservations int) float64 {
	t := c.SharpeRatioTStatistic(sr, numObservations)

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(numObservations - 1)}
	return 1 - dist.CDF(t)
}

// SharpeRatioTStatistic transforms a Sharpe ratio into its t-statistic.
func (c *Calculator) SharpeRatioTStatistic(sr float64, numObservations int) float64 {
	return sr * math.Sqrt(float64(numObservations))
}
