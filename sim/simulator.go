package sim

import (
	"container/heap"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// queuedEvent pairs an event with its scheduling order so that events at the
// same timestamp execute first-scheduled-first.
type queuedEvent struct {
	Event
	order uint64
}

// EventQueue implements heap.Interface and orders events by timestamp, then scheduling order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []queuedEvent

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].Timestamp() != eq[j].Timestamp() {
		return eq[i].Timestamp() < eq[j].Timestamp()
	}
	return eq[i].order < eq[j].order
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(queuedEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Network is the view of the simulated link a Protocol is given.
// *Simulator implements it.
type Network interface {
	// Now returns the current simulated time.
	Now() float64
	// Send puts p on the unreliable channel towards the peer of from.
	Send(from Entity, p Packet)
	// Deliver hands a payload to layer 5 at the receiver.
	Deliver(payload string)
	// StartTimer arms the sender's retransmission timer.
	StartTimer(increment float64)
	// StopTimer cancels the sender's retransmission timer.
	StopTimer()
	// TimerRunning reports whether the sender's timer is armed.
	TimerRunning() bool
}

// Simulator is the core object that holds simulation time, channel state, and the event loop.
type Simulator struct {
	Clock float64
	// EventQueue has all pending events: message arrivals, packet arrivals and timers
	EventQueue EventQueue
	Metrics    *Metrics

	cfg      Config
	protocol Protocol
	rng      *PartitionedRNG
	timer    *TimerEvent
	// latest arrival already scheduled towards each entity; the channel never reorders
	lastArrival [2]float64
	delivered   io.Writer
	deliverErr  error
	scheduled   uint64
}

// NewSimulator validates cfg and builds a simulator for its protocol.
// Payloads delivered to layer 5 are written, one per line, to delivered if it is non-nil.
func NewSimulator(cfg Config, delivered io.Writer) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		EventQueue: make(EventQueue, 0),
		Metrics:    NewMetrics(),
		cfg:        cfg,
		rng:        NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		delivered:  delivered,
	}
	protocol, err := NewProtocol(cfg.Protocol, cfg.WindowSize, cfg.RetransmitTimeout)
	if err != nil {
		return nil, err
	}
	protocol.Attach(s, s.Metrics)
	s.protocol = protocol
	return s, nil
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	heap.Push(&sim.EventQueue, queuedEvent{Event: ev, order: sim.scheduled})
	sim.scheduled++
}

// Run executes events until the queue drains or the horizon is passed.
// It returns the first error encountered writing delivered payloads.
func (sim *Simulator) Run() error {
	logrus.Infof("Starting %s simulation: %d messages, loss=%g, corruption=%g, window=%d, timeout=%g, seed=%d",
		sim.protocol.Name(), sim.cfg.Messages, sim.cfg.LossProb, sim.cfg.CorruptProb,
		sim.cfg.WindowSize, sim.cfg.RetransmitTimeout, sim.rng.Key())

	sim.scheduleMessage(0)
	for len(sim.EventQueue) > 0 {
		// get the next event to be simulated
		ev := heap.Pop(&sim.EventQueue).(queuedEvent).Event
		if t, ok := ev.(*TimerEvent); ok && t.stopped {
			continue
		}
		// advance the clock
		sim.Clock = ev.Timestamp()
		if sim.cfg.Horizon > 0 && sim.Clock > sim.cfg.Horizon {
			logrus.Warnf("Horizon %g reached with %d events pending", sim.cfg.Horizon, len(sim.EventQueue)+1)
			break
		}
		logrus.Tracef("[t=%12.3f] Executing %T", sim.Clock, ev)
		ev.Execute(sim)
	}
	sim.Metrics.SimEndedTime = sim.Clock
	if sim.cfg.Horizon > 0 {
		sim.Metrics.SimEndedTime = min(sim.Clock, sim.cfg.Horizon)
	}
	logrus.Infof("[t=%12.3f] Simulation ended", sim.Clock)
	return sim.deliverErr
}

// scheduleMessage draws the inter-arrival gap, uniform on [0, 2*AvgMessageDelay].
func (sim *Simulator) scheduleMessage(index int) {
	gap := 2 * sim.cfg.AvgMessageDelay * sim.rng.ForSubsystem(SubsystemArrival).Float64()
	sim.Schedule(&MessageArrivalEvent{time: sim.Clock + gap, Index: index})
}

// Now returns the current simulated time.
func (sim *Simulator) Now() float64 {
	return sim.Clock
}

// Send models the unreliable channel: the packet may be lost, is delayed
// 1 to 10 time units after the last packet still travelling the same way,
// and may be corrupted in flight.
func (sim *Simulator) Send(from Entity, p Packet) {
	to := from.peer()
	if from == EntityA {
		sim.Metrics.DataPacketsSent++
	} else {
		sim.Metrics.AcksSent++
	}

	if sim.rng.ForSubsystem(SubsystemLoss).Float64() < sim.cfg.LossProb {
		sim.Metrics.Lost++
		logrus.Debugf("Packet from %s lost: %v", from, p)
		return
	}

	arrival := max(sim.lastArrival[to], sim.Clock) + 1 + 9*sim.rng.ForSubsystem(SubsystemDelay).Float64()
	sim.lastArrival[to] = arrival

	if sim.rng.ForSubsystem(SubsystemCorrupt).Float64() < sim.cfg.CorruptProb {
		if from == EntityA {
			sim.Metrics.CorruptedFromA++
		} else {
			sim.Metrics.CorruptedFromB++
		}
		p = sim.corrupt(p)
		logrus.Debugf("Packet from %s corrupted: %v", from, p)
	}

	sim.Schedule(&PacketArrivalEvent{time: arrival, To: to, Packet: p})
}

// corrupt damages the payload 75% of the time, otherwise the seq or ack field.
func (sim *Simulator) corrupt(p Packet) Packet {
	x := sim.rng.ForSubsystem(SubsystemCorruptKind).Float64()
	switch {
	case x < 0.75:
		if len(p.Payload) > 0 {
			p.Payload = "?" + p.Payload[1:]
		} else {
			p.Payload = "?"
		}
	case x < 0.875:
		p.Seq = corruptedField
	default:
		p.Ack = corruptedField
	}
	return p
}

// Deliver records a payload handed to layer 5 at the receiver.
func (sim *Simulator) Deliver(payload string) {
	sim.Metrics.Delivered++
	if sim.delivered == nil || sim.deliverErr != nil {
		return
	}
	if _, err := fmt.Fprintln(sim.delivered, payload); err != nil {
		sim.deliverErr = fmt.Errorf("writing delivered payload: %w", err)
	}
}

// StartTimer arms the sender's timer. Starting a running timer is ignored with a warning.
func (sim *Simulator) StartTimer(increment float64) {
	if sim.timer != nil {
		logrus.Warnf("StartTimer at %.3f: timer already running", sim.Clock)
		return
	}
	sim.timer = &TimerEvent{time: sim.Clock + increment}
	sim.Schedule(sim.timer)
}

// StopTimer cancels the sender's timer. Stopping an absent timer is ignored with a warning.
func (sim *Simulator) StopTimer() {
	if sim.timer == nil {
		logrus.Warnf("StopTimer at %.3f: no timer to cancel", sim.Clock)
		return
	}
	sim.timer.stopped = true
	sim.timer = nil
}

// TimerRunning reports whether the sender's timer is armed.
func (sim *Simulator) TimerRunning() bool {
	return sim.timer != nil
}
