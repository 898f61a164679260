//go:build windows

package platform

// WindowsPlatform implements Platform for Windows systems.
type WindowsPlatform struct{}

// New creates a new Windows platform instance.
func New() Platform {
	return &WindowsPlatform{}
}

// Name returns the platform identifier.
func (p *WindowsPlatform) Name() string { return "windows" }

// HasLoadAverage returns false. gopsutil emulates a load average on Windows
// from processor queue length samples, which is not the same metric.
func (p *WindowsPlatform) HasLoadAverage() bool { return false }
