package event

import "container/heap"

// State is the lifecycle stage of a pending entry.
type State int

const (
	// StateActive marks a unit that is queued and still eligible for its
	// Handle callback.
	StateActive State = iota

	// StateCancelled marks a unit that already received OnCancel but was
	// retained by a non-forced drain because it was not drop-safe yet.
	StateCancelled

	// StateRetired marks a unit the scheduler is done with.
	StateRetired
)

// A Scheduler owns a time-ordered set of pending Units and a private
// virtual clock. One scheduler belongs to exactly one tick loop; none of
// its methods are safe for concurrent use. Re-entrant Schedule calls from
// inside a dispatched unit's own Handle are supported.
type Scheduler struct {
	clock   Ticks
	pending entryHeap
	seq     uint64
	halting bool
}

type entry struct {
	unit  Unit
	dueAt Ticks
	seq   uint64
	state State
}

// NewScheduler creates a Scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	s := new(Scheduler)
	s.pending = make(entryHeap, 0)
	return s
}

// Schedule registers a unit to run at the absolute clock value dueAt,
// recording the current clock as the unit's enqueue time. Ownership of the
// unit transfers to the scheduler. A dueAt at or before the current clock
// makes the unit eligible on the next Advance.
//
// Registration stays open after HaltAll; callers tearing a scheduler down
// can consult Halting.
func (s *Scheduler) Schedule(u Unit, dueAt Ticks) {
	u.SetEnqueuedAt(s.clock)
	s.insert(u, dueAt)
}

// Reschedule registers a unit without touching its recorded enqueue time.
// Self-repeating units use it so EnqueuedAt keeps naming their original
// registration.
func (s *Scheduler) Reschedule(u Unit, dueAt Ticks) {
	s.insert(u, dueAt)
}

func (s *Scheduler) insert(u Unit, dueAt Ticks) {
	u.SetDueAt(dueAt)
	s.seq++
	heap.Push(&s.pending, &entry{unit: u, dueAt: dueAt, seq: s.seq})
}

// Advance moves the clock forward by elapsed ticks and dispatches every
// pending unit whose due time is at or before the new clock, ordered by due
// time and then by registration order. Each unit is removed from the
// pending set before its callback runs, so callbacks may register further
// units on this scheduler, including units due within the same Advance.
func (s *Scheduler) Advance(elapsed Ticks) {
	s.clock += elapsed

	for len(s.pending) > 0 && s.pending[0].dueAt <= s.clock {
		e := heap.Pop(&s.pending).(*entry)
		s.dispatch(e, elapsed)
	}
}

func (s *Scheduler) dispatch(e *entry, elapsed Ticks) {
	u := e.unit
	e.unit = nil

	switch {
	case e.state == StateCancelled:
		// OnCancel was already delivered by a non-forced HaltAll.
		e.state = StateRetired
	case u.CancelRequested():
		u.OnCancel(s.clock)
		e.state = StateRetired
	default:
		if u.Handle(s.clock, elapsed) == Retain {
			// Ownership reverts to the caller.
			return
		}
		e.state = StateRetired
	}
}

// HaltAll cancels every pending unit: the cancellation latch is set and
// OnCancel delivered once per unit. With force, the pending set is cleared
// unconditionally. Without force, units that are not drop-safe stay queued
// in StateCancelled for a later HaltAll or Advance to retire; no second
// OnCancel is ever delivered to them.
func (s *Scheduler) HaltAll(force bool) {
	s.halting = true

	kept := s.pending[:0]
	for _, e := range s.pending {
		if e.state == StateActive {
			e.unit.RequestCancel()
			e.unit.OnCancel(s.clock)
			e.state = StateCancelled
		}

		if force || e.unit.SafeToDrop() {
			e.state = StateRetired
			e.unit = nil
			continue
		}

		kept = append(kept, e)
	}

	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = kept
	heap.Init(&s.pending)
}

// Close force-halts the scheduler. Every pending unit receives OnCancel and
// is retired; no unit outlives a closed scheduler.
func (s *Scheduler) Close() {
	s.HaltAll(true)
}

// TimeFromNow converts a tick offset into the absolute due time Schedule
// expects.
func (s *Scheduler) TimeFromNow(offset Ticks) Ticks {
	return s.clock + offset
}

// Now returns the scheduler's clock.
func (s *Scheduler) Now() Ticks {
	return s.clock
}

// Pending returns the number of queued units.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Halting reports whether HaltAll has been called on this scheduler.
func (s *Scheduler) Halting() bool {
	return s.halting
}

type entryHeap []*entry

// Len returns the number of pending entries.
func (h entryHeap) Len() int {
	return len(h)
}

// Less orders entries by due time, breaking ties by insertion order.
func (h entryHeap) Less(i, j int) bool {
	if h[i].dueAt == h[j].dueAt {
		return h[i].seq < h[j].seq
	}
	return h[i].dueAt < h[j].dueAt
}

// Swap exchanges two entries.
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds an entry to the heap.
func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(*entry))
}

// Pop removes and returns the entry due next.
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return e
}
