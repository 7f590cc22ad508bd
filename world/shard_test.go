package world

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/event"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// countingUnit is safe to observe from the test goroutine while the shard
// loop dispatches it.
type countingUnit struct {
	event.UnitBase

	handled   atomic.Int64
	cancelled atomic.Int64
}

func (u *countingUnit) Handle(now, elapsed event.Ticks) event.Disposition {
	u.handled.Add(1)
	return event.Consume
}

func (u *countingUnit) OnCancel(now event.Ticks) {
	u.cancelled.Add(1)
}

var _ = Describe("Shard", func() {
	It("should advance its clock and dispatch due units", func() {
		unit := &countingUnit{}
		setup := func(s *event.Scheduler) {
			s.Schedule(unit, s.TimeFromNow(1))
		}

		shard := NewShard("shard-00", time.Millisecond, setup, nil, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			shard.Run(ctx)
			close(done)
		}()

		Eventually(func() int64 { return unit.handled.Load() }).
			Should(Equal(int64(1)))
		Eventually(func() uint64 { return uint64(shard.Clock()) }).
			Should(BeNumerically(">", 0))

		cancel()
		Eventually(done).Should(BeClosed())
	})

	It("should cancel pending units on shutdown", func() {
		unit := &countingUnit{}
		setup := func(s *event.Scheduler) {
			s.Schedule(unit, s.TimeFromNow(1_000_000))
		}

		shard := NewShard("shard-00", time.Millisecond, setup, nil, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			shard.Run(ctx)
			close(done)
		}()

		Eventually(func() int { return shard.PendingUnits() }).
			Should(Equal(1))

		cancel()
		Eventually(done).Should(BeClosed())

		Expect(unit.cancelled.Load()).To(Equal(int64(1)))
		Expect(unit.handled.Load()).To(Equal(int64(0)))
		Expect(shard.PendingUnits()).To(Equal(0))
	})

	It("should report heartbeats after every tick", func() {
		var beats atomic.Int64
		beat := func(name string) {
			beats.Add(1)
		}

		shard := NewShard("shard-00", time.Millisecond, nil, beat, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			shard.Run(ctx)
			close(done)
		}()

		Eventually(func() int64 { return beats.Load() }).
			Should(BeNumerically(">", 2))

		cancel()
		Eventually(done).Should(BeClosed())
	})
})
