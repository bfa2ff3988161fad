// Package rng implements ports.RNGPort with deterministic, name-derived
// PCG sources.
package rng

import (
	"context"
	"math/rand/v2"

	"sharpestat/ports"
)

// Adapter derives reproducible random sources from hashed stream names.
type Adapter struct{}

// NewAdapter creates a deterministic RNG adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

var _ ports.RNGPort = (*Adapter)(nil)

// SeededSource creates a deterministic random source for a named operation
func (a *Adapter) SeededSource(ctx context.Context, name string, seed int64) (rand.Source, error) {
	return rand.NewPCG(uint64(seed), uint64(hashString(name))), nil
}

// Stream creates a deterministic source for a run/stage/key combination.
// The seed mixes every component so distinct strategies or stages never
// share a stream, while identical inputs always reproduce the same draws.
func (a *Adapter) Stream(ctx context.Context, runID, stageName, key string, baseSeed int64) (rand.Source, error) {
	mixed := uint64(baseSeed)
	if runID != "" {
		mixed = mixed*31 + uint64(hashString(runID))
	}
	if stageName != "" {
		mixed = mixed*31 + uint64(hashString(stageName))
	}
	if key != "" {
		mixed = mixed*31 + uint64(hashString(key))
	}
	return rand.NewPCG(uint64(baseSeed), mixed), nil
}

// hashString creates a simple hash for deterministic seeding (djb2)
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
