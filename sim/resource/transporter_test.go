package resource

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/stats"
)

var _ = Describe("Transporter", func() {
	var (
		executive   *sim.Executive
		transporter *Transporter
	)

	BeforeEach(func() {
		executive = sim.NewExecutive(nil)
		executive.Initialize()

		transporter = TransporterBuilder{}.
			WithScheduler(executive).
			WithVelocity(2).
			Build("cart")
	})

	It("should start in the Created state", func() {
		Expect(transporter.State()).To(Equal(TransporterCreated))
	})

	It("should return to Allocated after an empty move, calling the "+
		"callback exactly once", func() {
		transporter.Activate()
		transporter.Allocate()

		calls := 0
		transporter.MoveEmpty(10, func(t *Transporter) {
			calls++
			Expect(t).To(BeIdenticalTo(transporter))
			Expect(t.State()).To(Equal(TransporterAllocated))
		})

		Expect(transporter.State()).
			To(Equal(TransporterAllocatedMovingEmpty))

		Expect(executive.ExecuteAllEvents()).To(Succeed())

		Expect(calls).To(Equal(1))
		Expect(transporter.State()).To(Equal(TransporterAllocated))
		Expect(transporter.Location()).To(Equal(10.0))
	})

	It("should take distance over velocity in simulated time", func() {
		transporter.Activate()
		transporter.Allocate()
		transporter.MoveEmpty(10, nil)

		Expect(executive.ExecuteAllEvents()).To(Succeed())

		Expect(executive.ActualEndTime()).To(Equal(sim.VTime(5)))
	})

	It("should panic on Transport while Idle, leaving the state unchanged",
		func() {
			transporter.Activate()

			Expect(func() { transporter.Transport(5, nil) }).To(Panic())
			Expect(transporter.State()).To(Equal(TransporterIdle))
		})

	It("should reposition through an idle move", func() {
		transporter.Activate()

		done := false
		transporter.MoveIdle(4, func(*Transporter) { done = true })

		Expect(transporter.State()).To(Equal(TransporterMovingIdle))

		Expect(executive.ExecuteAllEvents()).To(Succeed())

		Expect(done).To(BeTrue())
		Expect(transporter.State()).To(Equal(TransporterIdle))
		Expect(transporter.Location()).To(Equal(4.0))
	})

	It("should carry a load and come back to Allocated", func() {
		transporter.Activate()
		transporter.Allocate()

		calls := 0
		transporter.Transport(6, func(*Transporter) { calls++ })

		Expect(executive.ExecuteAllEvents()).To(Succeed())

		Expect(calls).To(Equal(1))
		Expect(transporter.State()).To(Equal(TransporterAllocated))

		transporter.Free()
		Expect(transporter.State()).To(Equal(TransporterIdle))
	})

	It("should chain empty move and transport within one allocation",
		func() {
			transporter.Activate()
			transporter.Allocate()

			var order []string

			transporter.MoveEmpty(4, func(t *Transporter) {
				order = append(order, "pickup")
				t.Transport(10, func(*Transporter) {
					order = append(order, "dropoff")
				})
			})

			Expect(executive.ExecuteAllEvents()).To(Succeed())

			Expect(order).To(Equal([]string{"pickup", "dropoff"}))
			Expect(transporter.Location()).To(Equal(10.0))
			Expect(executive.ActualEndTime()).To(Equal(sim.VTime(5)))
		})

	It("should refuse operations while moving", func() {
		transporter.Activate()
		transporter.Allocate()
		transporter.MoveEmpty(10, nil)

		Expect(func() { transporter.Free() }).To(Panic())
		Expect(func() { transporter.Transport(3, nil) }).To(Panic())
	})

	It("should collect elapsed state time on exit", func() {
		movingTime := stats.NewTally("moving")

		transporter = TransporterBuilder{}.
			WithScheduler(executive).
			WithVelocity(1).
			WithStateTimeCollector(
				TransporterAllocatedMovingLoaded, movingTime).
			Build("cart")

		transporter.Activate()
		transporter.Allocate()
		transporter.Transport(8, nil)

		Expect(executive.ExecuteAllEvents()).To(Succeed())

		Expect(movingTime.Count()).To(Equal(uint64(1)))
		Expect(movingTime.Mean()).To(Equal(8.0))
	})

	It("should reset to Created at its initial location on initialize",
		func() {
			transporter = TransporterBuilder{}.
				WithScheduler(executive).
				WithInitialLocation(3).
				Build("cart2")

			transporter.Activate()
			transporter.MoveIdle(9, nil)
			Expect(executive.ExecuteAllEvents()).To(Succeed())

			transporter.Initialize()

			Expect(transporter.State()).To(Equal(TransporterCreated))
			Expect(transporter.Location()).To(Equal(3.0))
		})
})

var _ = Describe("TransporterPool", func() {
	It("should keep the idle list current across transitions", func() {
		executive := sim.NewExecutive(nil)
		executive.Initialize()

		pool := NewTransporterPool("carts")

		t1 := TransporterBuilder{}.WithScheduler(executive).Build("c1")
		t2 := TransporterBuilder{}.WithScheduler(executive).Build("c2")

		pool.AddMember(t1)
		pool.AddMember(t2)

		Expect(pool.NumIdle()).To(Equal(0))

		t1.Activate()
		t2.Activate()
		Expect(pool.NumIdle()).To(Equal(2))

		t1.Allocate()
		Expect(pool.NumIdle()).To(Equal(1))
		Expect(pool.FindIdle()).To(BeIdenticalTo(t2))

		t1.Free()
		Expect(pool.NumIdle()).To(Equal(2))
	})
})
