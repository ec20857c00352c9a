package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// newTestEvent builds an event directly, bypassing the executive, so that
// the calendars can be exercised in isolation.
func newTestEvent(t VTime, priority int, sequence uint64) *Event {
	return &Event{
		time:     t,
		priority: priority,
		sequence: sequence,
	}
}

func describeCalendar(name string, newCalendar func() EventCalendar) bool {
	return Describe(name, func() {
		var calendar EventCalendar

		BeforeEach(func() {
			calendar = newCalendar()
		})

		It("should be empty when created", func() {
			Expect(calendar.IsEmpty()).To(BeTrue())
			Expect(calendar.Size()).To(Equal(0))
			Expect(calendar.PeekNext()).To(BeNil())
			Expect(calendar.NextEvent()).To(BeNil())
		})

		It("should pop in time order", func() {
			numEvents := 100
			for i := 0; i < numEvents; i++ {
				calendar.Add(newTestEvent(
					VTime(rand.Float64()), 0, uint64(i+1)))
			}

			now := VTime(-1)
			for i := 0; i < numEvents; i++ {
				evt := calendar.NextEvent()
				Expect(evt.Time() >= now).To(BeTrue())
				now = evt.Time()
			}

			Expect(calendar.IsEmpty()).To(BeTrue())
		})

		It("should break time ties by priority, then creation order", func() {
			evtA := newTestEvent(5, 1, 1)
			evtB := newTestEvent(3, 1, 2)
			evtC := newTestEvent(3, 2, 3)
			evtD := newTestEvent(1, 1, 4)

			calendar.Add(evtA)
			calendar.Add(evtB)
			calendar.Add(evtC)
			calendar.Add(evtD)

			Expect(calendar.NextEvent()).To(BeIdenticalTo(evtD))
			Expect(calendar.NextEvent()).To(BeIdenticalTo(evtB))
			Expect(calendar.NextEvent()).To(BeIdenticalTo(evtC))
			Expect(calendar.NextEvent()).To(BeIdenticalTo(evtA))
		})

		It("should order same-time, same-priority events by creation",
			func() {
				evt1 := newTestEvent(2, 0, 1)
				evt2 := newTestEvent(2, 0, 2)
				evt3 := newTestEvent(2, 0, 3)

				calendar.Add(evt3)
				calendar.Add(evt1)
				calendar.Add(evt2)

				Expect(calendar.NextEvent()).To(BeIdenticalTo(evt1))
				Expect(calendar.NextEvent()).To(BeIdenticalTo(evt2))
				Expect(calendar.NextEvent()).To(BeIdenticalTo(evt3))
			})

		It("should peek without removing", func() {
			evt := newTestEvent(1, 0, 1)
			calendar.Add(evt)

			Expect(calendar.PeekNext()).To(BeIdenticalTo(evt))
			Expect(calendar.Size()).To(Equal(1))
		})

		It("should track size across inserts and removals", func() {
			for i := 0; i < 10; i++ {
				calendar.Add(newTestEvent(VTime(i), 0, uint64(i+1)))
			}

			for i := 0; i < 4; i++ {
				calendar.NextEvent()
			}

			Expect(calendar.Size()).To(Equal(6))
		})

		It("should be empty after clear", func() {
			for i := 0; i < 10; i++ {
				calendar.Add(newTestEvent(VTime(i), 0, uint64(i+1)))
			}

			calendar.Clear()

			Expect(calendar.IsEmpty()).To(BeTrue())
			Expect(calendar.Size()).To(Equal(0))
		})

		It("should keep canceled events resident until popped", func() {
			evt1 := newTestEvent(1, 0, 1)
			evt2 := newTestEvent(2, 0, 2)

			calendar.Add(evt1)
			calendar.Add(evt2)
			calendar.Cancel(evt1)

			Expect(calendar.Size()).To(Equal(2))

			popped := calendar.NextEvent()
			Expect(popped).To(BeIdenticalTo(evt1))
			Expect(popped.Canceled()).To(BeTrue())
			Expect(calendar.NextEvent()).To(BeIdenticalTo(evt2))
		})

		It("should not order canceled events differently", func() {
			evts := make([]*Event, 0, 20)
			for i := 0; i < 20; i++ {
				evt := newTestEvent(
					VTime(rand.Float64()), rand.Intn(3), uint64(i+1))
				evts = append(evts, evt)
				calendar.Add(evt)
			}

			calendar.Cancel(evts[3])
			calendar.Cancel(evts[12])

			prev := calendar.NextEvent()
			for !calendar.IsEmpty() {
				next := calendar.NextEvent()
				Expect(eventBefore(next, prev)).To(BeFalse())
				prev = next
			}
		})

		It("should panic when re-adding a fired event", func() {
			evt := newTestEvent(1, 0, 1)
			calendar.Add(evt)
			calendar.NextEvent()

			Expect(func() { calendar.Add(evt) }).To(Panic())
		})

		It("should panic when re-adding a pending event", func() {
			evt := newTestEvent(1, 0, 1)
			calendar.Add(evt)

			Expect(func() { calendar.Add(evt) }).To(Panic())
			Expect(calendar.Size()).To(Equal(1))
		})

		It("should accept an event again after clear", func() {
			evt := newTestEvent(1, 0, 1)
			calendar.Add(evt)
			calendar.Clear()

			calendar.Add(evt)

			Expect(calendar.NextEvent()).To(BeIdenticalTo(evt))
		})
	})
}

var _ = describeCalendar("SkewHeapCalendar", func() EventCalendar {
	return NewSkewHeapCalendar()
})

var _ = describeCalendar("TreeCalendar", func() EventCalendar {
	return NewTreeCalendar()
})

var _ = Describe("Calendar equivalence", func() {
	It("should pop identical sequences from both backings", func() {
		skew := NewSkewHeapCalendar()
		tree := NewTreeCalendar()

		for i := 0; i < 200; i++ {
			t := VTime(rand.Float64() * 10)
			p := rand.Intn(4)

			skew.Add(newTestEvent(t, p, uint64(i+1)))
			tree.Add(newTestEvent(t, p, uint64(i+1)))
		}

		for !skew.IsEmpty() {
			a := skew.NextEvent()
			b := tree.NextEvent()

			Expect(a.Time()).To(Equal(b.Time()))
			Expect(a.Priority()).To(Equal(b.Priority()))
			Expect(a.Sequence()).To(Equal(b.Sequence()))
		}

		Expect(tree.IsEmpty()).To(BeTrue())
	})
})
