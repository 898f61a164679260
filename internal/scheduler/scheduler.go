// Package scheduler implements the periodic collection loop. Each cycle
// assembles a snapshot and hands it to the transmitter; the next cycle starts
// one full interval after the previous one finished.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/checklogs/agent/internal/config"
	"github.com/checklogs/agent/internal/models"
)

// cycleTimeout bounds a single assemble-and-send cycle.
const cycleTimeout = 30 * time.Second

// ErrCyclePanic wraps a panic recovered from inside a cycle.
var ErrCyclePanic = errors.New("cycle panicked")

// State is the lifecycle state of the scheduler loop.
type State int32

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SnapshotAssembler produces the snapshot for one cycle.
type SnapshotAssembler interface {
	Assemble(ctx context.Context, now time.Time) models.Snapshot
}

// Transmitter delivers a snapshot and reports how many bytes were sent.
type Transmitter interface {
	Send(ctx context.Context, snapshot models.Snapshot) (int, error)
}

// CycleResult is the outcome of one cycle.
type CycleResult struct {
	Started time.Time
	Bytes   int
	Err     error
}

// OK reports whether the snapshot was handed to the network.
func (r CycleResult) OK() bool { return r.Err == nil }

// Scheduler drives periodic assembly and transmission.
type Scheduler struct {
	assembler   SnapshotAssembler
	transmitter Transmitter
	interval    time.Duration
	logger      *zap.Logger
	now         func() time.Time

	state atomic.Int32
}

// New creates a new Scheduler with the given assembler, transmitter, config and logger.
func New(assembler SnapshotAssembler, transmitter Transmitter, cfg *config.Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		assembler:   assembler,
		transmitter: transmitter,
		interval:    cfg.Collection.Interval.Duration,
		logger:      logger,
		now:         time.Now,
	}
	s.state.Store(int32(Stopped))
	return s
}

// State returns the current loop state. Safe for concurrent use. A scheduler
// reports Stopped until Start is called; Start enters Running before its
// first cycle and returns to Stopped when it exits.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Start runs cycles until the context is cancelled. The first cycle runs
// immediately. Cancellation is observed before each cycle and during the
// sleep between cycles; a cycle that has started always runs to completion.
func (s *Scheduler) Start(ctx context.Context) {
	s.state.Store(int32(Running))
	defer s.state.Store(int32(Stopped))

	for {
		if ctx.Err() != nil {
			return
		}

		s.report(s.RunCycle(ctx))

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// RunCycle assembles and transmits one snapshot. It never panics; a panic
// inside assembly or transmission is returned as an ErrCyclePanic result.
// The cycle ignores cancellation of ctx and is bounded by cycleTimeout.
func (s *Scheduler) RunCycle(ctx context.Context) (result CycleResult) {
	result.Started = s.now()

	cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cycleTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			result.Err = fmt.Errorf("%w: %v", ErrCyclePanic, p)
		}
	}()

	snapshot := s.assembler.Assemble(cycleCtx, result.Started)
	result.Bytes, result.Err = s.transmitter.Send(cycleCtx, snapshot)
	return result
}

func (s *Scheduler) report(r CycleResult) {
	switch {
	case r.OK():
		s.logger.Debug("Metrics collected and sent",
			zap.Int("bytes", r.Bytes),
			zap.Duration("took", time.Since(r.Started)))
	case errors.Is(r.Err, ErrCyclePanic):
		s.logger.Error("Cycle failed", zap.Error(r.Err))
	default:
		s.logger.Warn("Failed to send metrics", zap.Error(r.Err))
	}
}
