//go:build !windows

package service

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_ReturnsOnSIGINT(t *testing.T) {
	started := make(chan struct{})
	stopped := make(chan struct{})
	s := New(zap.NewNop(), func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(stopped)
	})

	errc := make(chan error, 1)
	go func() { errc <- s.Run() }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("agent loop did not start")
	}
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after SIGINT")
	}
	<-stopped
}

func TestRun_ReturnsWhenLoopExits(t *testing.T) {
	err := New(zap.NewNop(), func(context.Context) {}).Run()
	require.NoError(t, err)
}
