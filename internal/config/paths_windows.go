//go:build windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	return []string{
		filepath.Join(os.Getenv("LOCALAPPDATA"), "CheckLogs", "agent.yaml"),
		filepath.Join(os.Getenv("ProgramData"), "CheckLogs", "agent.yaml"),
	}
}
