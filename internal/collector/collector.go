// Package collector defines the Collector interface and provides
// implementations for the host metric families reported by the agent.
package collector

import (
	"context"
	"errors"
	"math"
)

// ErrDisabled marks a result for a collector that was switched off in the
// configuration and therefore never invoked.
var ErrDisabled = errors.New("collector disabled")

// Collector is the interface that all metric collectors must implement.
// Each collector gathers a specific metric family.
type Collector interface {
	// Name returns the unique identifier for this collector. It matches the
	// field name the family is reported under.
	Name() string

	// Collect gathers the metric data and returns it. A non-nil error means
	// the family is absent for this cycle.
	Collect(ctx context.Context) (interface{}, error)

	// IsAvailable checks if this collector can run on the current platform.
	// Collectors that return false will not be registered.
	IsAvailable() bool
}

const (
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// round2 rounds v to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toMB(b uint64) float64 { return round2(float64(b) / bytesPerMB) }

func toGB(b uint64) float64 { return round2(float64(b) / bytesPerGB) }
