//go:build !windows

package platform

// UnixPlatform is the Platform for Linux, macOS and the BSDs.
type UnixPlatform struct{}

// New creates the platform instance for non-Windows systems.
func New() Platform {
	return &UnixPlatform{}
}

// Name returns the platform identifier.
func (p *UnixPlatform) Name() string { return "unix" }

// HasLoadAverage returns true: every supported Unix reports load averages.
func (p *UnixPlatform) HasLoadAverage() bool { return true }
