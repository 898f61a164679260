//go:build !windows

// Package service runs the agent loop for the host's process model. On macOS
// and Linux the agent is a foreground process stopped by signals; init
// systems such as systemd deliver SIGTERM.
package service

import (
	"context"

	"go.uber.org/zap"
)

// AgentService runs the agent in the foreground.
type AgentService struct {
	logger  *zap.Logger
	startFn func(ctx context.Context)
}

// New creates a service wrapper. startFn must block until its context is
// cancelled.
func New(logger *zap.Logger, startFn func(ctx context.Context)) *AgentService {
	return &AgentService{
		logger:  logger,
		startFn: startFn,
	}
}

// IsWindowsService always returns false on non-Windows platforms.
func IsWindowsService() bool {
	return false
}

// Run executes the agent until SIGINT or SIGTERM.
func (s *AgentService) Run() error {
	runForeground(s.logger, s.startFn)
	return nil
}
