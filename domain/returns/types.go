package returns

import (
	"sharpestat/domain/core"
)

// Series is an ordered sequence of per-period returns for one strategy,
// in the original sampling frequency.
type Series []float64

// IsAllZero reports whether every observation in the series is exactly zero.
// Constant-zero series have undefined correlation and a 0/0 Sharpe ratio, so
// the statistics layer treats them as degenerate.
func (s Series) IsAllZero() bool {
	for _, r := range s {
		if r != 0 {
			return false
		}
	}
	return true
}

// Panel is one backtest run's full cross-section: an equal-length returns
// series per strategy. It is read-only to the statistics core; iteration
// order is the insertion order of the strategies.
type Panel struct {
	keys   []core.StrategyKey
	series map[core.StrategyKey]Series
	length int
}

// NewPanel builds a validated panel from strategy keys and their series.
// All series must share the same length T >= 2 and keys must be unique.
func NewPanel() *Panel {
	return &Panel{series: make(map[core.StrategyKey]Series)}
}

// Add appends one strategy's series to the panel.
func (p *Panel) Add(key core.StrategyKey, s Series) error {
	if _, exists := p.series[key]; exists {
		return core.ErrDuplicateStrategy
	}
	if len(s) < 2 {
		return core.NewSeriesTooShortError(key.String(), len(s))
	}
	if len(p.keys) == 0 {
		p.length = len(s)
	} else if len(s) != p.length {
		return core.NewRaggedPanelError(key.String(), len(s), p.length)
	}

	// Defensive copy; the caller owns its slice.
	owned := make(Series, len(s))
	copy(owned, s)

	p.keys = append(p.keys, key)
	p.series[key] = owned
	return nil
}

// Strategies returns the strategy keys in insertion order.
func (p *Panel) Strategies() []core.StrategyKey {
	out := make([]core.StrategyKey, len(p.keys))
	copy(out, p.keys)
	return out
}

// Series returns the returns series for a strategy.
func (p *Panel) Series(key core.StrategyKey) (Series, bool) {
	s, ok := p.series[key]
	return s, ok
}

// NumStrategies returns the number of strategies in the panel.
func (p *Panel) NumStrategies() int {
	return len(p.keys)
}

// Length returns the number of observations T shared by all series.
func (p *Panel) Length() int {
	return p.length
}

// Validate checks the panel is usable for cross-sectional statistics.
func (p *Panel) Validate() error {
	if len(p.keys) == 0 {
		return core.ErrEmptyPanel
	}
	return nil
}
