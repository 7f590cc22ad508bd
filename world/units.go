package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/event"
)

// durationTicks converts a wall duration to virtual ticks at the 1ms tick
// granularity the shard loops use. Durations under one tick round up to 1.
func durationTicks(d time.Duration) event.Ticks {
	t := event.Ticks(d / time.Millisecond)
	if t == 0 {
		t = 1
	}
	return t
}

// uptimeUnit periodically persists the run's uptime and session count. On
// cancellation (world halt) it writes one final record.
type uptimeUnit struct {
	event.UnitBase

	world  *World
	sink   UptimeSink
	sched  *event.Scheduler
	period event.Ticks
}

func newUptimeUnit(
	w *World,
	sink UptimeSink,
	sched *event.Scheduler,
	period time.Duration,
) *uptimeUnit {
	return &uptimeUnit{
		world:  w,
		sink:   sink,
		sched:  sched,
		period: durationTicks(period),
	}
}

func (u *uptimeUnit) Handle(now, elapsed event.Ticks) event.Disposition {
	u.record()
	u.sched.Reschedule(u, u.sched.TimeFromNow(u.period))
	return event.Retain
}

func (u *uptimeUnit) OnCancel(now event.Ticks) {
	u.record()
}

func (u *uptimeUnit) record() {
	err := u.sink.RecordUptime(
		u.world.RunID(), u.world.Uptime(), u.world.SessionCount())
	if err != nil {
		u.world.log.Warn("uptime record failed", zap.Error(err))
	}
}

// sessionSweepUnit periodically expires sessions that have not been touched
// within the configured timeout.
type sessionSweepUnit struct {
	event.UnitBase

	world   *World
	sched   *event.Scheduler
	timeout time.Duration
	period  event.Ticks
}

func newSessionSweepUnit(
	w *World,
	sched *event.Scheduler,
	timeout time.Duration,
) *sessionSweepUnit {
	return &sessionSweepUnit{
		world:   w,
		sched:   sched,
		timeout: timeout,
		period:  durationTicks(timeout / 4),
	}
}

func (u *sessionSweepUnit) Handle(now, elapsed event.Ticks) event.Disposition {
	u.world.expireIdleSessions(u.timeout)
	u.sched.Reschedule(u, u.sched.TimeFromNow(u.period))
	return event.Retain
}
