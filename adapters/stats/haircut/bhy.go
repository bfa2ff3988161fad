package haircut

import "math"

// BHYAdjustment applies the Benjamini-Hochberg-Yekutieli step-down multiple
// testing adjustment to p-values sorted in ascending order. The last adjusted
// value equals the last input; walking backwards, each earlier value is
// min(next adjusted, p*n*C_n/(rank)), so the output is non-decreasing by
// index.
func BHYAdjustment(pValuesAsc []float64) []float64 {
	n := len(pValuesAsc)
	adjusted := make([]float64, n)
	if n == 0 {
		return adjusted
	}

	// C_n = sum_{k=1..n} 1/k
	normalizingConstant := 0.0
	for k := 1; k <= n; k++ {
		normalizingConstant += 1 / float64(k)
	}

	adjusted[n-1] = pValuesAsc[n-1]
	for i := n - 2; i >= 0; i-- {
		multiplier := float64(n) * normalizingConstant / float64(i+1)
		adjusted[i] = math.Min(adjusted[i+1], pValuesAsc[i]*multiplier)
	}

	return adjusted
}
