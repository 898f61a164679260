// Package models defines the metric data structures used throughout the agent.
// These structures are serialized to JSON and sent to the collector in a single
// UDP datagram per cycle.
package models

// Snapshot represents a single point-in-time collection of all system metrics.
// Families that were disabled or failed to collect are nil and omitted from
// the encoded payload.
type Snapshot struct {
	APIKey     string `json:"api_key"`
	ServerName string `json:"server_name"`
	Timestamp  int64  `json:"timestamp"`

	CPU       *CPUSample      `json:"cpu,omitempty"`
	RAM       *RAMSample      `json:"ram,omitempty"`
	Disk      []DiskSample    `json:"disk,omitempty"`
	Load      *LoadSample     `json:"load,omitempty"`
	Uptime    *UptimeSample   `json:"uptime,omitempty"`
	Processes []ProcessSample `json:"processes,omitempty"`
}

// Identity labels every snapshot sent by this agent.
type Identity struct {
	APIKey     string
	ServerName string
}

// CPUSample is the CPU utilization breakdown over one measurement window.
type CPUSample struct {
	UsagePercent  float64 `json:"usage_percent"`
	UserPercent   float64 `json:"user_percent"`
	SystemPercent float64 `json:"system_percent"`
	IdlePercent   float64 `json:"idle_percent"`
	IOWaitPercent float64 `json:"iowait_percent"`
}

// RAMSample reports physical and swap memory in megabytes.
type RAMSample struct {
	TotalMB      float64 `json:"total_mb"`
	UsedMB       float64 `json:"used_mb"`
	FreeMB       float64 `json:"free_mb"`
	AvailableMB  float64 `json:"available_mb"`
	UsagePercent float64 `json:"usage_percent"`
	CachedMB     float64 `json:"cached_mb"`
	BuffersMB    float64 `json:"buffers_mb"`
	SwapTotalMB  float64 `json:"swap_total_mb"`
	SwapUsedMB   float64 `json:"swap_used_mb"`
}

// DiskSample represents usage for a single mounted filesystem.
type DiskSample struct {
	MountPoint    string  `json:"mount_point"`
	Device        string  `json:"device"`
	Filesystem    string  `json:"filesystem"`
	TotalGB       float64 `json:"total_gb"`
	UsedGB        float64 `json:"used_gb"`
	FreeGB        float64 `json:"free_gb"`
	UsagePercent  float64 `json:"usage_percent"`
	InodesTotal   uint64  `json:"inodes_total"`
	InodesUsed    uint64  `json:"inodes_used"`
	InodesPercent float64 `json:"inodes_percent"`
}

// LoadSample holds the 1, 5 and 15 minute load averages.
type LoadSample struct {
	Load1  float64 `json:"load_1min"`
	Load5  float64 `json:"load_5min"`
	Load15 float64 `json:"load_15min"`
}

// UptimeSample holds seconds since boot and the boot time as a Unix timestamp.
type UptimeSample struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	BootTime      int64 `json:"boot_time"`
}

// ProcessSample represents a single process's resource usage.
type ProcessSample struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	Cmdline    string  `json:"cmdline"`
	CPUPercent float64 `json:"cpu_percent"`
	RAMMB      float64 `json:"ram_mb"`
	RAMPercent float64 `json:"ram_percent"`
	Status     string  `json:"status"`
	Username   string  `json:"username"`
}

// CollectorResult holds the output of a single collector run. Data is nil
// when the family is absent; Err carries the diagnostic when there is one.
type CollectorResult struct {
	Name  string
	Data  interface{}
	Error error
}

// Absent reports whether the collector produced no sample.
func (r CollectorResult) Absent() bool {
	return r.Data == nil
}
