package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrUnknownProtocol is returned for a protocol name that is not registered.
var ErrUnknownProtocol = errors.New("unknown protocol")

// Protocol names.
const (
	ProtocolStopAndWait     = "stop-and-wait"
	ProtocolGoBackN         = "go-back-n"
	ProtocolSelectiveRepeat = "selective-repeat"
)

// ValidProtocols is the set of recognized protocol names.
// Shared by Config.Validate and NewProtocol.
var ValidProtocols = map[string]bool{
	ProtocolStopAndWait:     true,
	ProtocolGoBackN:         true,
	ProtocolSelectiveRepeat: true,
}

// Protocol is a reliable data transfer protocol: the sender half runs at A,
// the receiver half at B. The simulator calls exactly one handler per event.
type Protocol interface {
	Name() string
	// Attach gives the protocol its network and the metrics it records into.
	// Called once before any handler.
	Attach(net Network, m *Metrics)
	// SenderOutput is called when layer 5 at A has a message to send.
	SenderOutput(payload string)
	// SenderInput is called when a (possibly corrupted) packet from B arrives at A.
	SenderInput(p Packet)
	// SenderTimeout is called when A's retransmission timer expires.
	SenderTimeout()
	// ReceiverInput is called when a (possibly corrupted) packet from A arrives at B.
	ReceiverInput(p Packet)
}

// NewProtocol creates a protocol by name.
func NewProtocol(name string, windowSize int, timeout float64) (Protocol, error) {
	if !ValidProtocols[name] {
		return nil, fmt.Errorf("%w %q", ErrUnknownProtocol, name)
	}
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}
	switch name {
	case ProtocolStopAndWait:
		return newGoBackN(ProtocolStopAndWait, 1, timeout), nil
	case ProtocolGoBackN:
		return newGoBackN(ProtocolGoBackN, windowSize, timeout), nil
	default:
		return newSelectiveRepeat(windowSize, timeout), nil
	}
}

// sender holds the A-side state shared by every protocol: the send window,
// the timer discipline, and the RTT and communication time bookkeeping.
type sender struct {
	net     Network
	metrics *Metrics
	window  *sendWindow
	timeout float64
}

func (s *sender) Attach(net Network, m *Metrics) {
	s.net = net
	s.metrics = m
}

// transmit puts seg on the channel and records whether it is an original or a retransmission.
func (s *sender) transmit(seg *segment) {
	now := s.net.Now()
	if seg.sent {
		seg.retransmitted = true
		s.metrics.Retransmissions++
	} else {
		seg.sent = true
		seg.firstSent = now
		s.metrics.OriginalPackets++
	}
	seg.lastSent = now
	s.net.Send(EntityA, seg.packet)
}

// fill sends every buffered packet the window allows and keeps the timer
// armed while anything is in flight.
func (s *sender) fill() {
	for s.window.canSend() {
		s.transmit(s.window.nextToSend())
	}
	if waiting := s.window.buffered() - len(s.window.outstanding()); waiting > 0 {
		logrus.Debugf("Window full, %d messages waiting: %v", waiting, s.window)
	}
	s.armTimer()
}

func (s *sender) armTimer() {
	if !s.window.empty() && !s.net.TimerRunning() {
		s.net.StartTimer(s.timeout)
	}
}

func (s *sender) restartTimer() {
	if s.net.TimerRunning() {
		s.net.StopTimer()
	}
	s.armTimer()
}

// acknowledge handles an uncorrupted ACK. It reports false if ack does not
// name an in-flight packet. Otherwise it slides the window past every packet
// up to and including ack, samples timing, and refills the window.
func (s *sender) acknowledge(ack int) bool {
	offset, ok := s.window.offsetOf(ack)
	if !ok {
		return false
	}
	now := s.net.Now()
	acked := s.window.slide(offset + 1)
	for _, seg := range acked {
		s.metrics.CommunicationTimes = append(s.metrics.CommunicationTimes, now-seg.firstSent)
	}
	// only the packet the ACK names is an RTT sample; earlier ones were acknowledged cumulatively
	if last := acked[len(acked)-1]; !last.retransmitted {
		s.metrics.RTTs = append(s.metrics.RTTs, now-last.lastSent)
	}
	s.restartTimer()
	s.fill()
	return true
}
