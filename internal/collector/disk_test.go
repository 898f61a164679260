package collector

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/require"

	"github.com/checklogs/agent/internal/models"
)

func TestDiskCollector_SkipsInaccessibleMounts(t *testing.T) {
	c := NewDiskCollector(nil)
	c.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
			{Device: "/dev/sdb1", Mountpoint: "/secret", Fstype: "xfs"},
			{Device: "/dev/sdc1", Mountpoint: "/data", Fstype: "ext4"},
		}, nil
	}
	c.usage = func(_ context.Context, path string) (*disk.UsageStat, error) {
		if path == "/secret" {
			return nil, &fs.PathError{Op: "statfs", Path: path, Err: fs.ErrPermission}
		}
		return &disk.UsageStat{
			Path:              path,
			Total:             100 * bytesPerGB,
			Used:              25 * bytesPerGB,
			Free:              75 * bytesPerGB,
			UsedPercent:       25.0,
			InodesTotal:       1000,
			InodesUsed:        10,
			InodesUsedPercent: 1.0,
		}, nil
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)

	got := data.([]models.DiskSample)
	require.Len(t, got, 2)
	require.Equal(t, models.DiskSample{
		MountPoint:    "/",
		Device:        "/dev/sda1",
		Filesystem:    "ext4",
		TotalGB:       100,
		UsedGB:        25,
		FreeGB:        75,
		UsagePercent:  25,
		InodesTotal:   1000,
		InodesUsed:    10,
		InodesPercent: 1,
	}, got[0])
	require.Equal(t, "/data", got[1].MountPoint)
}

func TestDiskCollector_AllMountsDenied(t *testing.T) {
	c := NewDiskCollector(nil)
	c.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{{Mountpoint: "/a"}, {Mountpoint: "/b"}}, nil
	}
	c.usage = func(context.Context, string) (*disk.UsageStat, error) {
		return nil, fs.ErrPermission
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Empty(t, data.([]models.DiskSample))
}

func TestDiskCollector_EnumerationFailure(t *testing.T) {
	c := NewDiskCollector(nil)
	c.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return nil, errors.New("cannot read mount table")
	}

	data, err := c.Collect(context.Background())
	require.Error(t, err)
	require.Nil(t, data)
}

func TestToGB_Rounding(t *testing.T) {
	require.Equal(t, 1.5, toGB(3*bytesPerGB/2))
	require.Equal(t, 0.33, toGB(bytesPerGB/3))
	require.Equal(t, 0.0, toGB(0))
}
