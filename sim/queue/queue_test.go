package queue

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/hooking"
	"github.com/simworks/desim/sim/rng"
	"github.com/simworks/desim/sim/stats"
)

// fakeClock stands in for the executive in queue tests.
type fakeClock struct {
	now sim.VTime
}

func (c *fakeClock) CurrentTime() sim.VTime {
	return c.now
}

type observation struct {
	t     sim.VTime
	value float64
}

type recordingCollector struct {
	observations []observation
}

func (r *recordingCollector) Collect(t sim.VTime, value float64) {
	r.observations = append(r.observations, observation{t, value})
}

type recordingListener struct {
	positions []*hooking.HookPos
}

func (l *recordingListener) Func(ctx hooking.HookCtx) {
	l.positions = append(l.positions, ctx.Pos)
}

var _ = Describe("Queue", func() {
	var (
		clock *fakeClock
		q     *Queue
	)

	BeforeEach(func() {
		clock = &fakeClock{}
		q = Builder{}.
			WithTimeTeller(clock).
			Build("q")
	})

	It("should serve FIFO in insertion order", func() {
		first := q.Enqueue("a", 0)
		second := q.Enqueue("b", 0)
		third := q.Enqueue("c", 0)

		Expect(q.RemoveNext()).To(BeIdenticalTo(first))
		Expect(q.RemoveNext()).To(BeIdenticalTo(second))
		Expect(q.RemoveNext()).To(BeIdenticalTo(third))
		Expect(q.RemoveNext()).To(BeNil())
	})

	It("should serve LIFO in reverse insertion order", func() {
		q.ChangeDiscipline(LIFO)

		first := q.Enqueue("a", 0)
		second := q.Enqueue("b", 0)
		third := q.Enqueue("c", 0)

		Expect(q.RemoveNext()).To(BeIdenticalTo(third))
		Expect(q.RemoveNext()).To(BeIdenticalTo(second))
		Expect(q.RemoveNext()).To(BeIdenticalTo(first))
	})

	It("should serve Ranked by priority regardless of insertion order",
		func() {
			q.ChangeDiscipline(Ranked)

			low := q.Enqueue("low", 9)
			high := q.Enqueue("high", 1)
			mid := q.Enqueue("mid", 5)

			Expect(q.RemoveNext()).To(BeIdenticalTo(high))
			Expect(q.RemoveNext()).To(BeIdenticalTo(mid))
			Expect(q.RemoveNext()).To(BeIdenticalTo(low))
		})

	It("should break ranked priority ties by enqueue time then id", func() {
		q.ChangeDiscipline(Ranked)

		clock.now = 1
		first := q.Enqueue("a", 5)

		clock.now = 2
		second := q.Enqueue("b", 5)
		third := q.Enqueue("c", 5)

		Expect(q.RemoveNext()).To(BeIdenticalTo(first))
		Expect(q.RemoveNext()).To(BeIdenticalTo(second))
		Expect(q.RemoveNext()).To(BeIdenticalTo(third))
	})

	It("should re-sort when switching from FIFO to Ranked", func() {
		q.Enqueue("low", 9)
		urgent := q.Enqueue("urgent", 1)

		q.ChangeDiscipline(Ranked)

		Expect(q.RemoveNext()).To(BeIdenticalTo(urgent))
	})

	It("should respect a changed priority on the very next removal",
		func() {
			q.ChangeDiscipline(Ranked)

			demoted := q.Enqueue("a", 1)
			promoted := q.Enqueue("b", 9)

			q.ChangePriority(promoted, 0)
			q.ChangePriority(demoted, 5)

			Expect(q.RemoveNext()).To(BeIdenticalTo(promoted))
			Expect(q.RemoveNext()).To(BeIdenticalTo(demoted))
		})

	It("should draw the random discipline from its dedicated stream",
		func() {
			streams := rng.NewStreams(7)

			random := Builder{}.
				WithTimeTeller(clock).
				WithDiscipline(Random).
				WithStream(streams.Stream("q")).
				Build("random-q")

			inserted := map[*QObject]bool{}
			for i := 0; i < 20; i++ {
				inserted[random.Enqueue(i, 0)] = true
			}

			for i := 0; i < 20; i++ {
				obj := random.RemoveNext()
				Expect(inserted).To(HaveKey(obj))
				delete(inserted, obj)
			}

			Expect(random.IsEmpty()).To(BeTrue())
		})

	It("should serve the peeked object on the next removal under Random",
		func() {
			streams := rng.NewStreams(7)

			random := Builder{}.
				WithTimeTeller(clock).
				WithDiscipline(Random).
				WithStream(streams.Stream("q")).
				Build("random-q")

			for i := 0; i < 10; i++ {
				random.Enqueue(i, 0)
			}

			for !random.IsEmpty() {
				peeked := random.PeekNext()
				Expect(peeked).To(BeIdenticalTo(peeked.Queue().PeekNext()))
				Expect(random.RemoveNext()).To(BeIdenticalTo(peeked))
			}
		})

	It("should not let peeking perturb the random removal order", func() {
		build := func(streams *rng.Streams) *Queue {
			q := Builder{}.
				WithTimeTeller(clock).
				WithDiscipline(Random).
				WithStream(streams.Stream("q")).
				Build("random-q")

			for i := 0; i < 10; i++ {
				q.Enqueue(i, 0)
			}

			return q
		}

		peeking := build(rng.NewStreams(7))
		blind := build(rng.NewStreams(7))

		var peekingOrder, blindOrder []interface{}

		for !peeking.IsEmpty() {
			peeking.PeekNext()
			peeking.PeekNext()
			peekingOrder = append(peekingOrder,
				peeking.RemoveNext().Payload())
			blindOrder = append(blindOrder, blind.RemoveNext().Payload())
		}

		Expect(peekingOrder).To(Equal(blindOrder))
	})

	It("should panic on a nil payload", func() {
		Expect(func() { q.Enqueue(nil, 0) }).To(Panic())
	})

	It("should panic when enqueueing an object already in a queue", func() {
		other := Builder{}.
			WithTimeTeller(clock).
			Build("other")

		obj := q.Enqueue("a", 0)

		Expect(func() { other.EnqueueObject(obj) }).To(Panic())
	})

	It("should allow re-queueing after removal", func() {
		other := Builder{}.
			WithTimeTeller(clock).
			Build("other")

		obj := q.Enqueue("a", 0)
		q.Remove(obj, true)

		other.EnqueueObject(obj)

		Expect(other.Contains(obj)).To(BeTrue())
		Expect(obj.Queue()).To(BeIdenticalTo(other))
	})

	It("should panic when removing a non-member", func() {
		obj := q.Enqueue("a", 0)
		q.Remove(obj, true)

		Expect(func() { q.Remove(obj, true) }).To(Panic())
	})

	It("should collect wait times on counted removals only", func() {
		waits := &recordingCollector{}

		q = Builder{}.
			WithTimeTeller(clock).
			WithWaitTimeCollector(waits).
			Build("q")

		clock.now = 1
		served := q.Enqueue("served", 0)
		reneged := q.Enqueue("reneged", 0)

		clock.now = 4
		q.Remove(served, true)
		q.Remove(reneged, false)

		Expect(waits.observations).To(HaveLen(1))
		Expect(waits.observations[0].value).To(Equal(3.0))
		Expect(q.LastStatus()).To(Equal(StatusIgnored))
	})

	It("should report queue length to the length collector", func() {
		lengths := &recordingCollector{}

		q = Builder{}.
			WithTimeTeller(clock).
			WithLengthCollector(lengths).
			Build("q")

		q.Enqueue("a", 0)
		q.Enqueue("b", 0)
		q.RemoveNext()

		values := []float64{}
		for _, o := range lengths.observations {
			values = append(values, o.value)
		}

		Expect(values).To(Equal([]float64{1, 2, 1}))
	})

	It("should notify hooks on enqueue, dequeue, and ignore", func() {
		listener := &recordingListener{}
		q.AcceptHook(listener)

		q.Enqueue("a", 0)
		q.Enqueue("b", 0)
		q.RemoveNext()
		q.Remove(q.PeekNext(), false)

		Expect(listener.positions).To(Equal([]*hooking.HookPos{
			HookPosEnqueue,
			HookPosEnqueue,
			HookPosDequeue,
			HookPosIgnore,
		}))
	})

	It("should find and remove by predicate", func() {
		q.Enqueue("a", 1)
		b := q.Enqueue("b", 2)
		q.Enqueue("c", 2)

		found := q.Find(func(o *QObject) bool {
			return o.Priority() == 2
		})
		Expect(found).To(BeIdenticalTo(b))

		removed := q.RemoveIf(func(o *QObject) bool {
			return o.Priority() == 2
		}, false)

		Expect(removed).To(HaveLen(2))
		Expect(q.Size()).To(Equal(1))
	})

	It("should restore the initial discipline on initialize", func() {
		q.ChangeDiscipline(LIFO)
		obj := q.Enqueue("a", 0)

		q.Initialize()

		Expect(q.IsEmpty()).To(BeTrue())
		Expect(q.Discipline()).To(Equal(FIFO))
		Expect(obj.InQueue()).To(BeFalse())
	})

	It("should count wait statistics with a real tally", func() {
		tally := stats.NewTally("wait")

		q = Builder{}.
			WithTimeTeller(clock).
			WithWaitTimeCollector(tally).
			Build("q")

		clock.now = 0
		q.Enqueue("a", 0)
		q.Enqueue("b", 0)

		clock.now = 2
		q.RemoveNext()

		clock.now = 6
		q.RemoveNext()

		Expect(tally.Count()).To(Equal(uint64(2)))
		Expect(tally.Mean()).To(Equal(4.0))
	})
})
