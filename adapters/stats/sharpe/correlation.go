package sharpe

import (
	"sharpestat/domain/core"
	"sharpestat/domain/returns"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// EqualWeightedAverageCorrelation computes the mean pairwise Pearson
// correlation across all strategy pairs in the panel. Strategies whose series
// are identically zero are excluded, since their correlation is undefined.
//
// The pairwise matrix is computed in one gonum CorrelationMatrix call with
// strategies as columns; the average is 2*sum over the ordered-pair count of
// the valid strategies, i.e. the plain mean over unordered pairs.
//
// Fewer than two valid strategies leave zero pairs to average, which is an
// ErrNoValidPairs failure rather than a silent NaN.
func (c *Calculator) EqualWeightedAverageCorrelation(panel *returns.Panel) (float64, error) {
	if err := panel.Validate(); err != nil {
		return 0, err
	}

	var valid []returns.Series
	for _, key := range panel.Strategies() {
		s, _ := panel.Series(key)
		if s.IsAllZero() {
			continue
		}
		valid = append(valid, s)
	}

	k := len(valid)
	if k < 2 {
		return 0, core.ErrNoValidPairs
	}

	t := panel.Length()
	m := mat.NewDense(t, k, nil)
	for j, s := range valid {
		for i, r := range s {
			m.Set(i, j, r)
		}
	}

	corr := mat.NewSymDense(k, nil)
	stat.CorrelationMatrix(corr, m, nil)

	sum := 0.0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			sum += corr.At(i, j)
		}
	}

	numOrderedPairs := k * (k - 1)
	return 2 * sum / float64(numOrderedPairs), nil
}
