// System uptime collector: seconds since last boot and the boot timestamp.
// Uses gopsutil host for boot time information.
package collector

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/checklogs/agent/internal/models"
)

// UptimeCollector collects system uptime.
type UptimeCollector struct {
	bootTime func(ctx context.Context) (uint64, error)
	now      func() time.Time
}

// NewUptimeCollector creates a new uptime collector.
func NewUptimeCollector() *UptimeCollector {
	return &UptimeCollector{
		bootTime: host.BootTimeWithContext,
		now:      time.Now,
	}
}

// Name returns the collector identifier.
func (c *UptimeCollector) Name() string { return "uptime" }

// Collect returns seconds since boot alongside the boot time itself.
func (c *UptimeCollector) Collect(ctx context.Context) (interface{}, error) {
	boot, err := c.bootTime(ctx)
	if err != nil {
		return nil, err
	}
	bootTime := int64(boot)
	uptime := c.now().Unix() - bootTime
	if uptime < 0 {
		uptime = 0
	}
	return models.UptimeSample{
		UptimeSeconds: uptime,
		BootTime:      bootTime,
	}, nil
}

// IsAvailable returns true: boot time is available on all platforms.
func (c *UptimeCollector) IsAvailable() bool { return true }
