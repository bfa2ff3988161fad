package ports

import (
	"context"
	"math/rand/v2"
)

// RNGPort provides seeded random sources for deterministic simulation.
// Sources are math/rand/v2 so they plug directly into gonum's distuv and
// distmv Src fields.
type RNGPort interface {
	// SeededSource creates a deterministic random source for a named operation
	SeededSource(ctx context.Context, name string, seed int64) (rand.Source, error)

	// Stream creates a deterministic source for a specific run/stage/key
	// combination. Identical inputs always yield an identical stream, which is
	// what makes Monte-Carlo results reproducible across runs and safe to
	// compute in parallel.
	Stream(ctx context.Context, runID, stageName, key string, baseSeed int64) (rand.Source, error)
}
