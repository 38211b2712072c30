package cluster

import (
	"errors"
	"fmt"
)

const (
	// DefaultCap bounds how many terms enter pairwise comparison.
	// The comparison is quadratic, so the cap keeps one analysis of a
	// large vocabulary from monopolizing the process.
	DefaultCap = 3000

	// DefaultThreshold is the minimum similarity for two terms to be
	// considered variants of each other.
	DefaultThreshold = 0.85

	// MinThreshold is the lowest threshold operators may configure.
	// Below this the graph degenerates into one giant cluster of
	// unrelated vocabulary.
	MinThreshold = 0.70
)

var (
	// ErrInvalidCap indicates a non-positive term cap.
	ErrInvalidCap = errors.New("invalid term cap")

	// ErrInvalidThreshold indicates a threshold outside [0.70, 1.00].
	ErrInvalidThreshold = errors.New("invalid similarity threshold")
)

// Config controls a clustering run.
type Config struct {
	// Cap is the maximum number of terms analyzed, by descending frequency.
	Cap int

	// Threshold is the minimum similarity for linking two terms.
	Threshold float64
}

// DefaultConfig returns the standard clustering configuration.
func DefaultConfig() Config {
	return Config{
		Cap:       DefaultCap,
		Threshold: DefaultThreshold,
	}
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	if c.Cap <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCap, c.Cap)
	}
	if c.Threshold < MinThreshold || c.Threshold > 1.0 {
		return fmt.Errorf("%w: %.2f not in [%.2f, 1.00]", ErrInvalidThreshold, c.Threshold, MinThreshold)
	}
	return nil
}
