// Package testkit generates deterministic synthetic return panels for tests.
package testkit

import (
	"fmt"
	"math/rand/v2"

	"sharpestat/domain/core"
	"sharpestat/domain/returns"
)

// Config describes a synthetic panel: a cross-section of noisy strategies
// with a fixed drift and volatility, generated from a fixed seed.
type Config struct {
	Strategies int
	Length     int
	Seed       int64
	Drift      float64
	Volatility float64
}

// DefaultConfig is a small weekly panel: two years of observations.
func DefaultConfig() Config {
	return Config{
		Strategies: 5,
		Length:     104,
		Seed:       42,
		Drift:      0.001,
		Volatility: 0.01,
	}
}

// Generate builds a panel of independent Gaussian return series.
func Generate(cfg Config) (*returns.Panel, error) {
	if cfg.Strategies < 1 || cfg.Length < 2 {
		return nil, fmt.Errorf("invalid panel config: %d strategies, %d observations", cfg.Strategies, cfg.Length)
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0x9e3779b97f4a7c15))

	panel := returns.NewPanel()
	for i := 0; i < cfg.Strategies; i++ {
		key := core.StrategyKey(fmt.Sprintf("strategy_%02d", i+1))
		series := make(returns.Series, cfg.Length)
		for t := range series {
			series[t] = cfg.Drift + cfg.Volatility*rng.NormFloat64()
		}
		if err := panel.Add(key, series); err != nil {
			return nil, err
		}
	}
	return panel, nil
}

// DriftSeries builds a series with exact mean and standard deviation shape:
// alternating drift +/- vol keeps the sample mean at drift and the sample
// standard deviation near vol without randomness.
func DriftSeries(length int, drift, vol float64) returns.Series {
	series := make(returns.Series, length)
	for t := range series {
		if t%2 == 0 {
			series[t] = drift + vol
		} else {
			series[t] = drift - vol
		}
	}
	return series
}

// ZeroSeries builds a constant-zero series, the degenerate case every
// statistic must guard against.
func ZeroSeries(length int) returns.Series {
	return make(returns.Series, length)
}
