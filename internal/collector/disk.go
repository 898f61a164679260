// Disk usage collector: per-mount capacity and inode usage.
// Uses gopsutil for cross-platform disk metrics.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/checklogs/agent/internal/models"
)

// DiskCollector collects disk usage metrics per mount point.
type DiskCollector struct {
	logger     *zap.Logger
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDiskCollector creates a new disk collector.
func NewDiskCollector(logger *zap.Logger) *DiskCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskCollector{
		logger:     logger,
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
	}
}

// Name returns the collector identifier.
func (c *DiskCollector) Name() string { return "disk" }

// Collect gathers disk usage data for all mounted partitions.
// A mount whose usage cannot be read is skipped; only a failure to list the
// partitions fails the collection.
func (c *DiskCollector) Collect(ctx context.Context) (interface{}, error) {
	partitions, err := c.partitions(ctx, false)
	if err != nil {
		return nil, err
	}

	results := make([]models.DiskSample, 0, len(partitions))
	for _, p := range partitions {
		usage, err := c.usage(ctx, p.Mountpoint)
		if err != nil {
			c.logger.Debug("Skipping inaccessible mount",
				zap.String("mount", p.Mountpoint),
				zap.Error(err))
			continue
		}

		results = append(results, models.DiskSample{
			MountPoint:    p.Mountpoint,
			Device:        p.Device,
			Filesystem:    p.Fstype,
			TotalGB:       toGB(usage.Total),
			UsedGB:        toGB(usage.Used),
			FreeGB:        toGB(usage.Free),
			UsagePercent:  round2(usage.UsedPercent),
			InodesTotal:   usage.InodesTotal,
			InodesUsed:    usage.InodesUsed,
			InodesPercent: round2(usage.InodesUsedPercent),
		})
	}

	return results, nil
}

// IsAvailable returns true: disk metrics are available on all platforms.
func (c *DiskCollector) IsAvailable() bool { return true }
