package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Panel validation errors
	ErrEmptyPanel        = errors.New("returns panel is empty")
	ErrSeriesTooShort    = errors.New("returns series too short")
	ErrRaggedPanel       = errors.New("returns panel series differ in length")
	ErrDuplicateStrategy = errors.New("duplicate strategy key")
	ErrUnknownStrategy   = errors.New("unknown strategy key")

	// Statistical errors
	ErrNoValidPairs        = errors.New("no valid strategy pairs for average correlation")
	ErrCorrelationRange    = errors.New("returns correlation must be between 0 and 1")
	ErrNotPositiveDefinite = errors.New("simulation covariance matrix is not positive definite")
)

// Error constructors with context

func NewSeriesTooShortError(strategy string, length int) error {
	return fmt.Errorf("%w: strategy %s has %d observations, need at least 2", ErrSeriesTooShort, strategy, length)
}

func NewRaggedPanelError(strategy string, got, want int) error {
	return fmt.Errorf("%w: strategy %s has %d observations, panel has %d", ErrRaggedPanel, strategy, got, want)
}

func NewCorrelationRangeError(corr float64) error {
	return fmt.Errorf("%w: got %g", ErrCorrelationRange, corr)
}

// Error checking helpers

func IsPanelError(err error) bool {
	return errors.Is(err, ErrEmptyPanel) ||
		errors.Is(err, ErrSeriesTooShort) ||
		errors.Is(err, ErrRaggedPanel) ||
		errors.Is(err, ErrDuplicateStrategy) ||
		errors.Is(err, ErrUnknownStrategy)
}

func IsStatisticalError(err error) bool {
	return errors.Is(err, ErrNoValidPairs) ||
		errors.Is(err, ErrCorrelationRange) ||
		errors.Is(err, ErrNotPositiveDefinite)
}
