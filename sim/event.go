package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in simulated time units) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// MessageArrivalEvent is a message handed down from layer 5 at the sender.
type MessageArrivalEvent struct {
	time  float64
	Index int // zero-based message number
}

// Timestamp returns the scheduled time of the MessageArrivalEvent.
func (e *MessageArrivalEvent) Timestamp() float64 {
	return e.time
}

// Execute schedules the next message, if any remain, and hands this one to the sender.
func (e *MessageArrivalEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Message %d from layer 5 at %.3f", e.Index, e.time)
	if e.Index+1 < sim.cfg.Messages {
		sim.scheduleMessage(e.Index + 1)
	}
	sim.protocol.SenderOutput(messagePayload(e.Index))
}

// PacketArrivalEvent is a packet coming up from layer 3 at entity To.
type PacketArrivalEvent struct {
	time   float64
	To     Entity
	Packet Packet
}

// Timestamp returns the scheduled time of the PacketArrivalEvent.
func (e *PacketArrivalEvent) Timestamp() float64 {
	return e.time
}

// Execute passes the (possibly corrupted) packet to the receiving side of the protocol.
func (e *PacketArrivalEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Packet at %s %.3f: %v", e.To, e.time, e.Packet)
	if e.To == EntityA {
		sim.protocol.SenderInput(e.Packet)
	} else {
		sim.protocol.ReceiverInput(e.Packet)
	}
}

// TimerEvent fires the sender's retransmission timer.
// A stopped timer stays in the queue but is skipped when popped.
type TimerEvent struct {
	time    float64
	stopped bool
}

// Timestamp returns the scheduled expiry of the TimerEvent.
func (e *TimerEvent) Timestamp() float64 {
	return e.time
}

// Execute invokes the sender's timeout handler unless the timer was stopped.
func (e *TimerEvent) Execute(sim *Simulator) {
	if e.stopped {
		return
	}
	logrus.Debugf("<< Timer expired at %.3f", e.time)
	sim.timer = nil
	sim.protocol.SenderTimeout()
}
