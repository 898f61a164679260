// Package platform provides an OS abstraction layer for the few facts about
// the host that gopsutil does not answer by itself.
package platform

// Platform describes OS-specific capabilities.
type Platform interface {
	// HasLoadAverage reports whether the OS maintains run-queue load averages.
	HasLoadAverage() bool

	// Name returns the platform name (windows, unix).
	Name() string
}
