package event

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type plainUnit struct {
	UnitBase
}

func (u *plainUnit) Handle(now, elapsed Ticks) Disposition {
	return Consume
}

var _ = Describe("UnitBase", func() {
	It("should start with the cancellation latch clear", func() {
		u := &plainUnit{}

		Expect(u.CancelRequested()).To(BeFalse())

		u.RequestCancel()

		Expect(u.CancelRequested()).To(BeTrue())
	})

	It("should be drop-safe by default", func() {
		u := &plainUnit{}

		Expect(u.SafeToDrop()).To(BeTrue())
	})

	It("should keep the recorded times", func() {
		u := &plainUnit{}
		u.SetEnqueuedAt(3)
		u.SetDueAt(15)

		Expect(u.EnqueuedAt()).To(Equal(Ticks(3)))
		Expect(u.DueAt()).To(Equal(Ticks(15)))
	})
})
