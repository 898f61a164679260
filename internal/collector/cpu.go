// CPU usage collector: overall utilization plus a user/system/idle/iowait
// breakdown measured over a short window.
// Uses gopsutil for cross-platform CPU metrics.
package collector

import (
	"context"
	"errors"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/checklogs/agent/internal/models"
)

// defaultCPUWindow is how long the collector waits between the two CPU time
// readings.
const defaultCPUWindow = time.Second

// CPUCollector collects CPU usage metrics.
type CPUCollector struct {
	window time.Duration
	times  func(ctx context.Context) (cpu.TimesStat, error)
}

// NewCPUCollector creates a new CPU collector with the default one second
// measurement window.
func NewCPUCollector() *CPUCollector {
	return &CPUCollector{
		window: defaultCPUWindow,
		times:  aggregateTimes,
	}
}

// Name returns the collector identifier.
func (c *CPUCollector) Name() string { return "cpu" }

// Collect reads cumulative CPU times, blocks for the measurement window and
// reads them again. All percentages are derived from the delta.
func (c *CPUCollector) Collect(ctx context.Context) (interface{}, error) {
	before, err := c.times(ctx)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(c.window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	after, err := c.times(ctx)
	if err != nil {
		return nil, err
	}

	return cpuBreakdown(before, after), nil
}

// IsAvailable returns true: CPU metrics are available on all platforms.
func (c *CPUCollector) IsAvailable() bool { return true }

func aggregateTimes(ctx context.Context) (cpu.TimesStat, error) {
	stats, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(stats) == 0 {
		return cpu.TimesStat{}, errors.New("no aggregate cpu times reported")
	}
	return stats[0], nil
}

// totalTime sums every state the kernel accounts for. Guest time is already
// included in User on Linux, so it is left out.
func totalTime(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait +
		t.Irq + t.Softirq + t.Steal
}

// cpuBreakdown converts two cumulative readings into percentages of the
// elapsed window. Platforms without iowait accounting report 0 for it.
func cpuBreakdown(before, after cpu.TimesStat) models.CPUSample {
	total := totalTime(after) - totalTime(before)
	if total <= 0 {
		return models.CPUSample{IdlePercent: 100}
	}

	pct := func(a, b float64) float64 {
		d := a - b
		if d < 0 {
			d = 0
		}
		return d / total * 100
	}

	user := pct(after.User, before.User)
	system := pct(after.System, before.System)
	idle := pct(after.Idle, before.Idle)
	iowait := pct(after.Iowait, before.Iowait)

	usage := 100 - idle - iowait
	if usage < 0 {
		usage = 0
	}

	return models.CPUSample{
		UsagePercent:  round2(usage),
		UserPercent:   round2(user),
		SystemPercent: round2(system),
		IdlePercent:   round2(idle),
		IOWaitPercent: round2(iowait),
	}
}
