// Package world runs the simulation side of the daemon: a set of shards,
// each driving its own event scheduler from a real-time tick loop, plus the
// session registry and the periodic bookkeeping units the world schedules on
// itself.
package world

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/event"
)

// A Shard is one simulation partition. It owns one event.Scheduler and the
// only goroutine that may touch it. Other goroutines observe a shard through
// the published clock and pending-count snapshots.
type Shard struct {
	name  string
	tick  time.Duration
	sched *event.Scheduler
	setup func(*event.Scheduler)
	beat  func(name string)
	log   *zap.Logger

	clock   atomic.Uint64
	pending atomic.Int64
}

// NewShard creates a shard. setup, if non-nil, runs on the shard goroutine
// before the first tick and seeds the scheduler with the shard's initial
// units. beat, if non-nil, is called after every tick.
func NewShard(
	name string,
	tick time.Duration,
	setup func(*event.Scheduler),
	beat func(name string),
	log *zap.Logger,
) *Shard {
	return &Shard{
		name:  name,
		tick:  tick,
		sched: event.NewScheduler(),
		setup: setup,
		beat:  beat,
		log:   log.Named(name),
	}
}

// Name returns the shard name.
func (s *Shard) Name() string {
	return s.name
}

// Clock returns the virtual clock published after the latest tick.
func (s *Shard) Clock() event.Ticks {
	return event.Ticks(s.clock.Load())
}

// PendingUnits returns the pending-unit count published after the latest
// tick.
func (s *Shard) PendingUnits() int {
	return int(s.pending.Load())
}

// Run drives the shard until ctx is cancelled. Each tick converts measured
// wall time to whole virtual milliseconds, carrying the sub-millisecond
// remainder into the next tick, and advances the scheduler by that amount.
// On exit the scheduler is closed, cancelling every pending unit.
func (s *Shard) Run(ctx context.Context) {
	if s.setup != nil {
		s.setup(s.sched)
	}
	s.publish()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.log.Info("shard running", zap.Duration("tick", s.tick))

	last := time.Now()
	var remainder time.Duration

	for {
		select {
		case <-ctx.Done():
			s.sched.Close()
			s.publish()
			s.log.Info("shard stopped",
				zap.Uint64("clock", uint64(s.sched.Now())))
			return

		case now := <-ticker.C:
			spent := now.Sub(last) + remainder
			ticks := spent / time.Millisecond
			remainder = spent - ticks*time.Millisecond
			last = now

			s.sched.Advance(event.Ticks(ticks))
			s.publish()

			if s.beat != nil {
				s.beat(s.name)
			}
		}
	}
}

func (s *Shard) publish() {
	s.clock.Store(uint64(s.sched.Now()))
	s.pending.Store(int64(s.sched.Pending()))
}
