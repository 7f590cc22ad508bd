// Package event implements the per-shard deferred-work scheduler that the
// world simulation runs on. Every simulated entity and every subsystem tick
// schedules delayed or repeating work here instead of owning a goroutine or
// a timer.
package event

// Ticks is a value of the virtual clock. The clock is a logical counter
// advanced only by the driving tick loop; this codebase treats one tick as
// one millisecond of simulated time, but the scheduler itself does not care.
type Ticks uint64

// Disposition is returned by Unit.Handle to settle who owns the unit after
// the callback.
type Disposition int

const (
	// Consume hands the unit to the scheduler for retirement. The unit is
	// never invoked again.
	Consume Disposition = iota

	// Retain returns ownership to the caller. The scheduler drops every
	// reference to the unit; the caller must not let the scheduler touch it
	// again unless it is re-registered.
	Retain
)

// A Unit is a cancellable piece of deferred work owned by a Scheduler from
// registration until it is retired or handed back.
type Unit interface {
	// Handle runs the unit's work once it comes due. now is the scheduler
	// clock after the advance that made the unit due; elapsed is the tick
	// delta of that advance. Handle is never called after the unit's
	// cancellation latch is set.
	Handle(now, elapsed Ticks) Disposition

	// OnCancel runs when the unit is cancelled. The scheduler calls it at
	// most once per unit, and never after Handle has been called.
	OnCancel(now Ticks)

	// SafeToDrop reports whether the scheduler may retire the unit during a
	// non-forced drain. Units with pending external side effects return
	// false to stay queued until a later pass.
	SafeToDrop() bool

	// RequestCancel sets the cancellation latch. Only the unit's owner and
	// the scheduler's HaltAll call it.
	RequestCancel()

	// CancelRequested reports the cancellation latch.
	CancelRequested() bool

	// EnqueuedAt returns the clock value recorded when the unit was
	// registered.
	EnqueuedAt() Ticks

	// SetEnqueuedAt records the registration time. Called by the scheduler.
	SetEnqueuedAt(t Ticks)

	// DueAt returns the absolute clock value at which the unit becomes
	// eligible for dispatch.
	DueAt() Ticks

	// SetDueAt records the due time. Called by the scheduler.
	SetDueAt(t Ticks)
}

// UnitBase provides the bookkeeping half of the Unit contract. Concrete
// units embed it and implement Handle; OnCancel and SafeToDrop have
// overridable defaults.
type UnitBase struct {
	cancelRequested bool
	enqueuedAt      Ticks
	dueAt           Ticks
}

// RequestCancel sets the cancellation latch. The next dispatch or drain
// delivers OnCancel instead of Handle.
func (u *UnitBase) RequestCancel() {
	u.cancelRequested = true
}

// CancelRequested reports the cancellation latch.
func (u *UnitBase) CancelRequested() bool {
	return u.cancelRequested
}

// EnqueuedAt returns the clock value at registration.
func (u *UnitBase) EnqueuedAt() Ticks {
	return u.enqueuedAt
}

// SetEnqueuedAt records the registration time.
func (u *UnitBase) SetEnqueuedAt(t Ticks) {
	u.enqueuedAt = t
}

// DueAt returns the absolute due time.
func (u *UnitBase) DueAt() Ticks {
	return u.dueAt
}

// SetDueAt records the due time.
func (u *UnitBase) SetDueAt(t Ticks) {
	u.dueAt = t
}

// OnCancel does nothing.
func (u *UnitBase) OnCancel(now Ticks) {}

// SafeToDrop returns true.
func (u *UnitBase) SafeToDrop() bool {
	return true
}
