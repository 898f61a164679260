// Top N processes collector: the most CPU-intensive processes on the host.
// Uses gopsutil for cross-platform process listing.
package collector

import (
	"context"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/checklogs/agent/internal/models"
)

const (
	// unknownUser is reported when the process owner cannot be resolved.
	unknownUser = "unknown"

	// cmdlineArgs is how many leading command line arguments are kept.
	cmdlineArgs = 3
)

// normalizedStatuses maps raw gopsutil status strings to a consistent set of
// values across platforms.
var normalizedStatuses = map[string]string{
	"running":    "running",
	"sleep":      "sleeping",
	"sleeping":   "sleeping",
	"idle":       "idle",
	"stop":       "stopped",
	"stopped":    "stopped",
	"zombie":     "zombie",
	"wait":       "waiting",
	"lock":       "locked",
	"blocked":    "disk-sleep",
	"disk-sleep": "disk-sleep",
	"dead":       "dead",
}

// normalizeStatus maps a raw status to its display value. An empty status
// (common on Windows) is inferred from CPU activity.
func normalizeStatus(raw string, cpuPct float64) string {
	if raw != "" {
		key := strings.ToLower(strings.TrimSpace(raw))
		if mapped, ok := normalizedStatuses[key]; ok {
			return mapped
		}
		return key
	}
	if cpuPct > 0 {
		return "running"
	}
	return "idle"
}

// procHandle is the subset of *process.Process the collector reads.
type procHandle interface {
	PID() int32
	NameWithContext(ctx context.Context) (string, error)
	CmdlineSliceWithContext(ctx context.Context) ([]string, error)
	CPUPercentWithContext(ctx context.Context) (float64, error)
	MemoryInfoWithContext(ctx context.Context) (*process.MemoryInfoStat, error)
	MemoryPercentWithContext(ctx context.Context) (float32, error)
	StatusWithContext(ctx context.Context) ([]string, error)
	UsernameWithContext(ctx context.Context) (string, error)
}

// gopsutilProc adapts *process.Process to procHandle.
type gopsutilProc struct {
	*process.Process
}

func (p gopsutilProc) PID() int32 { return p.Pid }

func listProcesses(ctx context.Context) ([]procHandle, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	handles := make([]procHandle, 0, len(procs))
	for _, p := range procs {
		handles = append(handles, gopsutilProc{p})
	}
	return handles, nil
}

// ProcessCollector collects the top N processes by CPU usage.
type ProcessCollector struct {
	topN   int
	logger *zap.Logger
	list   func(ctx context.Context) ([]procHandle, error)
}

// NewProcessCollector creates a new process collector that returns the top N
// processes sorted by CPU usage descending.
func NewProcessCollector(topN int, logger *zap.Logger) *ProcessCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessCollector{
		topN:   topN,
		logger: logger,
		list:   listProcesses,
	}
}

// Name returns the collector identifier.
func (c *ProcessCollector) Name() string { return "processes" }

// Collect gathers the top N processes sorted by CPU usage descending.
// A process that exits or denies access mid-scan is skipped; only a failure
// to enumerate the process table fails the collection.
func (c *ProcessCollector) Collect(ctx context.Context) (interface{}, error) {
	procs, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	samples := make([]models.ProcessSample, 0, len(procs))
	for _, p := range procs {
		sample, err := readProcess(ctx, p)
		if err != nil {
			c.logger.Debug("Skipping process",
				zap.Int32("pid", p.PID()),
				zap.Error(err))
			continue
		}
		samples = append(samples, sample)
	}

	return topByCPU(samples, c.topN), nil
}

// IsAvailable returns true: process listing is available on all platforms.
func (c *ProcessCollector) IsAvailable() bool { return true }

// readProcess snapshots a single process. Name, CPU and memory are required;
// command line, status and owner degrade to defaults.
func readProcess(ctx context.Context, p procHandle) (models.ProcessSample, error) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return models.ProcessSample{}, err
	}
	cpuPct, err := p.CPUPercentWithContext(ctx)
	if err != nil {
		return models.ProcessSample{}, err
	}
	memInfo, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return models.ProcessSample{}, err
	}
	memPct, err := p.MemoryPercentWithContext(ctx)
	if err != nil {
		return models.ProcessSample{}, err
	}

	var cmdline string
	if args, err := p.CmdlineSliceWithContext(ctx); err == nil {
		cmdline = joinArgs(args)
	}

	var rawStatus string
	if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
		rawStatus = status[0]
	}

	username, err := p.UsernameWithContext(ctx)
	if err != nil || username == "" {
		username = unknownUser
	}

	var rss uint64
	if memInfo != nil {
		rss = memInfo.RSS
	}

	return models.ProcessSample{
		PID:        p.PID(),
		Name:       name,
		Cmdline:    cmdline,
		CPUPercent: round2(cpuPct),
		RAMMB:      toMB(rss),
		RAMPercent: round2(float64(memPct)),
		Status:     normalizeStatus(rawStatus, cpuPct),
		Username:   username,
	}, nil
}

// joinArgs keeps the first few command line arguments, space-joined.
func joinArgs(args []string) string {
	if len(args) > cmdlineArgs {
		args = args[:cmdlineArgs]
	}
	return strings.Join(args, " ")
}

// topByCPU sorts samples by CPU percent descending and keeps the first n.
// Equal CPU values keep their enumeration order.
func topByCPU(samples []models.ProcessSample, n int) []models.ProcessSample {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].CPUPercent > samples[j].CPUPercent
	})
	if n >= 0 && len(samples) > n {
		samples = samples[:n]
	}
	return samples
}
