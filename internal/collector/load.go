// Load average collector: 1, 5 and 15 minute run-queue averages.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/load"

	"github.com/checklogs/agent/internal/models"
	"github.com/checklogs/agent/internal/platform"
)

// LoadCollector collects system load averages.
type LoadCollector struct {
	platform platform.Platform
	avg      func(ctx context.Context) (*load.AvgStat, error)
}

// NewLoadCollector creates a new load average collector. The platform decides
// whether load averages exist on this OS.
func NewLoadCollector(p platform.Platform) *LoadCollector {
	return &LoadCollector{
		platform: p,
		avg:      load.AvgWithContext,
	}
}

// Name returns the collector identifier.
func (c *LoadCollector) Name() string { return "load" }

// Collect reads the three load averages.
func (c *LoadCollector) Collect(ctx context.Context) (interface{}, error) {
	a, err := c.avg(ctx)
	if err != nil {
		return nil, err
	}
	return models.LoadSample{
		Load1:  round2(a.Load1),
		Load5:  round2(a.Load5),
		Load15: round2(a.Load15),
	}, nil
}

// IsAvailable returns false on platforms without a load average concept.
func (c *LoadCollector) IsAvailable() bool {
	return c.platform != nil && c.platform.HasLoadAverage()
}
