package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/checklogs/agent/internal/models"
)

// entry pairs a collector with its configuration gate.
type entry struct {
	collector Collector
	enabled   bool
}

// Registry manages the registered collectors and runs them one after another
// in registration order.
type Registry struct {
	entries []entry
	logger  *zap.Logger
}

// NewRegistry creates a new collector registry with the given logger.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		entries: make([]entry, 0),
		logger:  logger,
	}
}

// Register adds a collector if it's available on the current platform.
// Unavailable collectors are logged and skipped. A disabled collector is kept
// so that its absence is reported, but it is never invoked.
func (r *Registry) Register(c Collector, enabled bool) {
	if !c.IsAvailable() {
		r.logger.Warn("Collector not available, skipping", zap.String("name", c.Name()))
		return
	}
	r.entries = append(r.entries, entry{collector: c, enabled: enabled})
	r.logger.Info("Registered collector",
		zap.String("name", c.Name()),
		zap.Bool("enabled", enabled))
}

// CollectAll invokes every enabled collector exactly once and returns one
// result per registered collector. Failures are logged and reported as
// absent results; they never stop the remaining collectors.
func (r *Registry) CollectAll(ctx context.Context) []models.CollectorResult {
	results := make([]models.CollectorResult, 0, len(r.entries))
	for _, e := range r.entries {
		name := e.collector.Name()
		if !e.enabled {
			results = append(results, models.CollectorResult{Name: name, Error: ErrDisabled})
			continue
		}

		data, err := r.run(ctx, e.collector)
		if err != nil {
			r.logger.Error("Collection failed",
				zap.String("collector", name),
				zap.Error(err))
			results = append(results, models.CollectorResult{Name: name, Error: err})
			continue
		}
		results = append(results, models.CollectorResult{Name: name, Data: data})
	}
	return results
}

// run calls a single collector and converts a panic into an error.
func (r *Registry) run(ctx context.Context, c Collector) (data interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			data, err = nil, fmt.Errorf("collector panicked: %v", p)
		}
	}()
	data, err = c.Collect(ctx)
	if err == nil && data == nil {
		err = fmt.Errorf("collector %s returned no data", c.Name())
	}
	return data, err
}

// Collectors returns a copy of all registered collectors.
func (r *Registry) Collectors() []Collector {
	result := make([]Collector, len(r.entries))
	for i, e := range r.entries {
		result[i] = e.collector
	}
	return result
}
