// Package mm1 models a single-server queueing station with exponential
// interarrival and service times. It is the reference model for the kernel:
// one queue, one resource, two random streams, and wait-time statistics.
package mm1

import (
	"log"

	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/queue"
	"github.com/simworks/desim/sim/resource"
	"github.com/simworks/desim/sim/rng"
	"github.com/simworks/desim/sim/stats"
	"github.com/simworks/desim/simulation"
)

// Config holds the parameters of the station.
type Config struct {
	ArrivalRate float64 `yaml:"arrival_rate"`
	ServiceRate float64 `yaml:"service_rate"`
}

// A Station is the M/M/1 model element. Customers arrive, wait in a FIFO
// queue, are served by a single resource, and leave.
type Station struct {
	name      string
	executive *sim.Executive
	cfg       Config

	waiting *queue.Queue
	server  *resource.Resource

	arrivals *rng.Stream
	services *rng.Stream

	waitTimes   *stats.Tally
	systemTimes *stats.Histogram
	numWaiting  *stats.TimeWeighted
}

type customer struct {
	arrivedAt sim.VTime
}

// New builds a Station and registers it, with all of its parts, in the
// simulation.
func New(s *simulation.Simulation, name string, cfg Config) *Station {
	if cfg.ArrivalRate <= 0 || cfg.ServiceRate <= 0 {
		log.Panicf("station %s: rates must be positive", name)
	}

	st := &Station{
		name:      name,
		executive: s.Executive(),
		cfg:       cfg,

		arrivals: s.Streams().Stream(name + ".arrivals"),
		services: s.Streams().Stream(name + ".services"),

		waitTimes:   stats.NewTally(name + ".wait_time"),
		systemTimes: stats.NewHistogram(name+".system_time", 0.01),
		numWaiting:  stats.NewTimeWeighted(name + ".num_waiting"),
	}

	st.waiting = queue.Builder{}.
		WithTimeTeller(s.Executive()).
		WithWaitTimeCollector(st.waitTimes).
		WithLengthCollector(st.numWaiting).
		Build(name + ".queue")

	st.server = resource.ResourceBuilder{}.
		WithTimeTeller(s.Executive()).
		Build(name + ".server")

	s.Register(name+".queue", st.waiting)
	s.Register(name+".server", st.server)
	s.Register(name, st)

	return st
}

// Name returns the name of the station.
func (st *Station) Name() string {
	return st.name
}

// WaitTimes returns the per-customer queue wait statistics.
func (st *Station) WaitTimes() *stats.Tally {
	return st.waitTimes
}

// SystemTimes returns the distribution of total time in the station.
func (st *Station) SystemTimes() *stats.Histogram {
	return st.systemTimes
}

// NumWaiting returns the time-weighted number-in-queue statistic.
func (st *Station) NumWaiting() *stats.TimeWeighted {
	return st.numWaiting
}

// Initialize resets the station's statistics for a replication. The queue
// and server reset themselves through their own registrations.
func (st *Station) Initialize() {
	st.waitTimes.Initialize()
	st.systemTimes.Initialize()
	st.numWaiting.Initialize()
}

// Start activates the server and schedules the first arrival. Call it at
// the beginning of every replication.
func (st *Station) Start() {
	st.server.Activate()
	st.scheduleNextArrival()
}

func (st *Station) scheduleNextArrival() {
	delay := sim.VTime(st.arrivals.Exponential(1 / st.cfg.ArrivalRate))
	st.executive.Schedule(sim.ActionFunc(st.onArrival), delay)
}

func (st *Station) onArrival(_ *sim.Event) {
	now := st.executive.CurrentTime()
	st.waiting.Enqueue(&customer{arrivedAt: now}, 0)

	if st.server.IsIdle() {
		st.startService()
	}

	st.scheduleNextArrival()
}

func (st *Station) startService() {
	obj := st.waiting.RemoveNext()
	st.server.Seize()

	delay := sim.VTime(st.services.Exponential(1 / st.cfg.ServiceRate))
	st.executive.ScheduleEvent(sim.ActionFunc(st.onServiceDone),
		delay, sim.DefaultEventPriority, obj.Payload())
}

func (st *Station) onServiceDone(e *sim.Event) {
	now := st.executive.CurrentTime()
	c := e.Message().(*customer)

	st.server.Release()
	st.systemTimes.Collect(now, float64(now-c.arrivedAt))

	if !st.waiting.IsEmpty() {
		st.startService()
	}
}
