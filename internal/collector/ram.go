// RAM usage collector: physical and swap memory in megabytes.
// Uses gopsutil for cross-platform memory metrics.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/checklogs/agent/internal/models"
)

// RAMCollector collects RAM and swap usage metrics.
type RAMCollector struct {
	virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swap    func(ctx context.Context) (*mem.SwapMemoryStat, error)
}

// NewRAMCollector creates a new memory collector.
func NewRAMCollector() *RAMCollector {
	return &RAMCollector{
		virtual: mem.VirtualMemoryWithContext,
		swap:    mem.SwapMemoryWithContext,
	}
}

// Name returns the collector identifier.
func (c *RAMCollector) Name() string { return "ram" }

// Collect gathers physical and swap memory usage. Cached and buffer figures
// are zero on platforms that do not distinguish them.
func (c *RAMCollector) Collect(ctx context.Context) (interface{}, error) {
	v, err := c.virtual(ctx)
	if err != nil {
		return nil, err
	}
	s, err := c.swap(ctx)
	if err != nil {
		return nil, err
	}

	return models.RAMSample{
		TotalMB:      toMB(v.Total),
		UsedMB:       toMB(v.Used),
		FreeMB:       toMB(v.Free),
		AvailableMB:  toMB(v.Available),
		UsagePercent: round2(v.UsedPercent),
		CachedMB:     toMB(v.Cached),
		BuffersMB:    toMB(v.Buffers),
		SwapTotalMB:  toMB(s.Total),
		SwapUsedMB:   toMB(s.Used),
	}, nil
}

// IsAvailable returns true: memory metrics are available on all platforms.
func (c *RAMCollector) IsAvailable() bool { return true }
