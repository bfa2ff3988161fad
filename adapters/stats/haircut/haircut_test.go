package haircut

import (
	"context"
	"math"
	"testing"

	"sharpestat/domain/core"
)

func TestAdjustedPValue_SingleRowKnownValue(t *testing.T) {
	sim := newSimulator()

	// Insertion at rank 1: augmented vector {0.1, 0.15, 0.2, 0.3}.
	pPanel := [][]float64{{0.3, 0.1, 0.2}}
	got, err := sim.AdjustedPValue(pPanel, 0.15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c4 := 1 + 0.5 + 1.0/3 + 0.25
	want := BHYAdjustment([]float64{0.1, 0.15, 0.2, 0.3})[1]
	if math.Abs(got-want) > 1e-15 {
		t.Fatalf("expected %.15f, got %.15f", want, got)
	}

	// Sanity: the known value is min over the step-down chain.
	chain := math.Min(0.3, math.Min(0.2*4*c4/3, 0.15*4*c4/2))
	if math.Abs(want-chain) > 1e-15 {
		t.Fatalf("BHY chain mismatch: %.15f vs %.15f", want, chain)
	}
}

func TestAdjustedPValue_MedianAcrossRows(t *testing.T) {
	sim := newSimulator()

	// Three rows whose adjusted values at the insertion rank differ; the
	// result must be their median, not their mean.
	pPanel := [][]float64{
		{0.5, 0.6, 0.7},
		{0.01, 0.02, 0.03},
		{0.2, 0.3, 0.4},
	}

	got, err := sim.AdjustedPValue(pPanel, 0.15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	perRow := make([]float64, len(pPanel))
	for i, row := range pPanel {
		sorted := append([]float64(nil), row...)
		// rows are already ascending in this fixture
		idx := 0
		for idx < len(sorted) && sorted[idx] < 0.15 {
			idx++
		}
		augmented := append(append(append([]float64(nil), sorted[:idx]...), 0.15), sorted[idx:]...)
		perRow[i] = BHYAdjustment(augmented)[idx]
	}

	// median of three values
	lo := math.Min(perRow[0], math.Min(perRow[1], perRow[2]))
	hi := math.Max(perRow[0], math.Max(perRow[1], perRow[2]))
	want := perRow[0] + perRow[1] + perRow[2] - lo - hi

	if math.Abs(got-want) > 1e-15 {
		t.Fatalf("expected median %.15f, got %.15f", want, got)
	}
}

func TestHLZPValue_RangeAndDeterminism(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte-Carlo panel generation is slow")
	}

	ctx := context.Background()

	const (
		annSR          = 0.8
		periodsPerYear = 52
		returnsLength  = 104
		avgCorrelation = 0.2
		numTrials      = 10
		numSimulations = 25
		seed           = int64(42)
	)

	p1, err := newSimulator().HLZPValue(ctx, annSR, periodsPerYear, returnsLength, avgCorrelation, numTrials, numSimulations, seed)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if p1 < 0 || p1 > 1 {
		t.Fatalf("HLZ p-value out of [0,1]: %g", p1)
	}

	// Fresh simulator, same seed: bit-identical result.
	p2, err := newSimulator().HLZPValue(ctx, annSR, periodsPerYear, returnsLength, avgCorrelation, numTrials, numSimulations, seed)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("same seed must reproduce the HLZ p-value exactly: %.17g vs %.17g", p1, p2)
	}
}

func TestHLZPValue_CachedPanelReuse(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte-Carlo panel generation is slow")
	}

	ctx := context.Background()
	sim := newSimulator()

	// Two strategies from the same cross-section share one panel; the cache
	// must hold exactly one entry afterwards.
	if _, err := sim.HLZPValue(ctx, 0.8, 52, 104, 0.2, 10, 25, 42); err != nil {
		t.Fatalf("first strategy: %v", err)
	}
	if _, err := sim.HLZPValue(ctx, 0.3, 52, 104, 0.2, 10, 25, 42); err != nil {
		t.Fatalf("second strategy: %v", err)
	}

	sim.mu.Lock()
	entries := len(sim.cache)
	sim.mu.Unlock()
	if entries != 1 {
		t.Fatalf("expected one cached panel, got %d", entries)
	}
}

func TestHLZPValue_RejectsInvalidCorrelation(t *testing.T) {
	_, err := newSimulator().HLZPValue(context.Background(), 0.8, 52, 104, 1.5, 10, 5, 42)
	if !core.IsStatisticalError(err) {
		t.Fatalf("expected statistical error for correlation 1.5, got %v", err)
	}
}
