package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/event"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UptimeUnit", func() {
	var (
		w     *World
		sink  *fakeSink
		sched *event.Scheduler
		unit  *uptimeUnit
	)

	BeforeEach(func() {
		w = New(testConfig(), nil, nil, zap.NewNop())
		sink = &fakeSink{}
		sched = event.NewScheduler()
		unit = newUptimeUnit(w, sink, sched, time.Minute)
		sched.Schedule(unit, sched.TimeFromNow(unit.period))
	})

	It("should record once per period and stay scheduled", func() {
		sched.Advance(60_000)

		Expect(sink.records).To(HaveLen(1))
		Expect(sink.records[0].runID).To(Equal(w.RunID()))
		Expect(sched.Pending()).To(Equal(1))

		sched.Advance(60_000)

		Expect(sink.records).To(HaveLen(2))
	})

	It("should keep its original enqueue time across periods", func() {
		sched.Advance(60_000)
		sched.Advance(60_000)

		Expect(unit.EnqueuedAt()).To(Equal(event.Ticks(0)))
	})

	It("should write a final record when cancelled", func() {
		sched.Advance(60_000)
		sched.HaltAll(true)

		Expect(sink.records).To(HaveLen(2))
		Expect(sched.Pending()).To(Equal(0))
	})

	It("should count live sessions in the record", func() {
		w.AddSession("alice")
		w.AddSession("bob")

		sched.Advance(60_000)

		Expect(sink.records[0].sessions).To(Equal(2))
	})
})

var _ = Describe("SessionSweepUnit", func() {
	It("should expire idle sessions as virtual time passes", func() {
		w := New(testConfig(), nil, nil, zap.NewNop())
		sched := event.NewScheduler()
		unit := newSessionSweepUnit(w, sched, time.Minute)
		sched.Schedule(unit, sched.TimeFromNow(unit.period))

		idle := w.AddSession("idle")
		idle.lastSeen.Store(time.Now().Add(-time.Hour).UnixNano())

		sched.Advance(15_000)

		Expect(w.Session(idle.ID)).To(BeNil())
		Expect(sched.Pending()).To(Equal(1))
	})
})

var _ = Describe("durationTicks", func() {
	It("should convert at millisecond granularity", func() {
		Expect(durationTicks(time.Second)).To(Equal(event.Ticks(1000)))
		Expect(durationTicks(1500 * time.Microsecond)).To(Equal(event.Ticks(1)))
	})

	It("should round sub-tick durations up to one tick", func() {
		Expect(durationTicks(time.Microsecond)).To(Equal(event.Ticks(1)))
	})
})
