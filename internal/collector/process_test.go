package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/require"

	"github.com/checklogs/agent/internal/models"
)

type fakeProc struct {
	pid      int32
	name     string
	cmdline  []string
	cpu      float64
	rss      uint64
	memPct   float32
	status   []string
	username string

	nameErr    error
	cpuErr     error
	memErr     error
	userErr    error
	cmdlineErr error
	statusErr  error
}

func (p *fakeProc) PID() int32 { return p.pid }

func (p *fakeProc) NameWithContext(context.Context) (string, error) { return p.name, p.nameErr }

func (p *fakeProc) CmdlineSliceWithContext(context.Context) ([]string, error) {
	return p.cmdline, p.cmdlineErr
}

func (p *fakeProc) CPUPercentWithContext(context.Context) (float64, error) { return p.cpu, p.cpuErr }

func (p *fakeProc) MemoryInfoWithContext(context.Context) (*process.MemoryInfoStat, error) {
	if p.memErr != nil {
		return nil, p.memErr
	}
	return &process.MemoryInfoStat{RSS: p.rss}, nil
}

func (p *fakeProc) MemoryPercentWithContext(context.Context) (float32, error) {
	return p.memPct, p.memErr
}

func (p *fakeProc) StatusWithContext(context.Context) ([]string, error) {
	return p.status, p.statusErr
}

func (p *fakeProc) UsernameWithContext(context.Context) (string, error) {
	return p.username, p.userErr
}

func newTestProcessCollector(topN int, procs ...*fakeProc) *ProcessCollector {
	c := NewProcessCollector(topN, nil)
	c.list = func(context.Context) ([]procHandle, error) {
		handles := make([]procHandle, len(procs))
		for i, p := range procs {
			handles[i] = p
		}
		return handles, nil
	}
	return c
}

func TestProcessCollector_TopN(t *testing.T) {
	cpus := []float64{12.5, 3, 99.1, 45, 0.5, 7.25, 60, 1, 33.3, 20}
	procs := make([]*fakeProc, len(cpus))
	for i, cpu := range cpus {
		procs[i] = &fakeProc{pid: int32(i + 1), name: "proc", cpu: cpu, username: "root", status: []string{"running"}}
	}

	data, err := newTestProcessCollector(3, procs...).Collect(context.Background())
	require.NoError(t, err)

	got := data.([]models.ProcessSample)
	require.Len(t, got, 3)
	require.Equal(t, []int32{3, 7, 4}, []int32{got[0].PID, got[1].PID, got[2].PID})
	require.Equal(t, []float64{99.1, 60, 45}, []float64{got[0].CPUPercent, got[1].CPUPercent, got[2].CPUPercent})
}

func TestProcessCollector_FewerThanTopN(t *testing.T) {
	data, err := newTestProcessCollector(10,
		&fakeProc{pid: 1, name: "a", cpu: 1},
		&fakeProc{pid: 2, name: "b", cpu: 2},
	).Collect(context.Background())
	require.NoError(t, err)

	got := data.([]models.ProcessSample)
	require.Len(t, got, 2)
	require.Equal(t, int32(2), got[0].PID)
}

func TestProcessCollector_SkipsVanishedAndDenied(t *testing.T) {
	data, err := newTestProcessCollector(10,
		&fakeProc{pid: 1, name: "ok", cpu: 5, username: "alice"},
		&fakeProc{pid: 2, nameErr: process.ErrorProcessNotRunning},
		&fakeProc{pid: 3, name: "denied", cpuErr: errors.New("permission denied")},
		&fakeProc{pid: 4, name: "gone", memErr: process.ErrorProcessNotRunning},
		&fakeProc{pid: 5, name: "anon", cpu: 1, userErr: errors.New("permission denied")},
	).Collect(context.Background())
	require.NoError(t, err)

	got := data.([]models.ProcessSample)
	require.Len(t, got, 2)
	require.Equal(t, "ok", got[0].Name)
	require.Equal(t, "alice", got[0].Username)
	require.Equal(t, "anon", got[1].Name)
	require.Equal(t, "unknown", got[1].Username)
}

func TestProcessCollector_EnumerationFailure(t *testing.T) {
	c := NewProcessCollector(10, nil)
	c.list = func(context.Context) ([]procHandle, error) {
		return nil, errors.New("no /proc")
	}

	data, err := c.Collect(context.Background())
	require.Error(t, err)
	require.Nil(t, data)
}

func TestReadProcess_Fields(t *testing.T) {
	p := &fakeProc{
		pid:      42,
		name:     "python3",
		cmdline:  []string{"/usr/bin/python3", "-m", "http.server", "8080"},
		cpu:      12.3456,
		rss:      150 * 1024 * 1024,
		memPct:   1.23456,
		status:   []string{"sleep"},
		username: "www-data",
	}

	got, err := readProcess(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, models.ProcessSample{
		PID:        42,
		Name:       "python3",
		Cmdline:    "/usr/bin/python3 -m http.server",
		CPUPercent: 12.35,
		RAMMB:      150,
		RAMPercent: 1.23,
		Status:     "sleeping",
		Username:   "www-data",
	}, got)
}

func TestReadProcess_UnreadableCmdline(t *testing.T) {
	p := &fakeProc{pid: 7, name: "kthreadd", cmdlineErr: errors.New("denied"), statusErr: errors.New("not implemented")}

	got, err := readProcess(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, "", got.Cmdline)
	require.Equal(t, "idle", got.Status)
	require.Equal(t, "unknown", got.Username)
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		cpu  float64
		want string
	}{
		{"running", 0, "running"},
		{"sleep", 0, "sleeping"},
		{"stop", 0, "stopped"},
		{"zombie", 0, "zombie"},
		{"Blocked", 0, "disk-sleep"},
		{"parked", 0, "parked"},
		{"", 2.5, "running"},
		{"", 0, "idle"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeStatus(tt.raw, tt.cpu))
		})
	}
}

func TestTopByCPU_StableTies(t *testing.T) {
	samples := []models.ProcessSample{
		{PID: 1, CPUPercent: 5},
		{PID: 2, CPUPercent: 10},
		{PID: 3, CPUPercent: 5},
		{PID: 4, CPUPercent: 5},
	}
	got := topByCPU(samples, 3)
	require.Equal(t, []int32{2, 1, 3}, []int32{got[0].PID, got[1].PID, got[2].PID})
}
