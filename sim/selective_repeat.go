package sim

import "github.com/sirupsen/logrus"

// selectiveRepeat buffers out-of-order packets at the receiver and
// retransmits only the oldest unacknowledged packet, on timeout or on a
// duplicate ACK. The receiver acknowledges cumulatively: after delivering an
// in-order run it ACKs the last packet of the run, and it re-ACKs packets that
// arrive again from below its window.
type selectiveRepeat struct {
	sender
	seqSpace int
	lastAck  int

	rcvBase   int
	rcvWindow []*Packet
}

func newSelectiveRepeat(windowSize int, timeout float64) *selectiveRepeat {
	seqSpace := 2 * windowSize
	return &selectiveRepeat{
		sender: sender{
			window:  newSendWindow(windowSize, seqSpace),
			timeout: timeout,
		},
		seqSpace:  seqSpace,
		lastAck:   -1,
		rcvWindow: make([]*Packet, windowSize),
	}
}

func (sr *selectiveRepeat) Name() string { return ProtocolSelectiveRepeat }

func (sr *selectiveRepeat) SenderOutput(payload string) {
	sr.window.push(payload)
	sr.fill()
}

func (sr *selectiveRepeat) SenderInput(p Packet) {
	if p.Corrupt() {
		logrus.Debugf("selective-repeat: A dropped corrupted ACK")
		return
	}
	if sr.acknowledge(p.Ack) {
		sr.lastAck = p.Ack
		return
	}
	if p.Ack == sr.lastAck {
		if seg := sr.window.first(); seg != nil {
			logrus.Debugf("selective-repeat: duplicate ACK %d, resending %d", p.Ack, seg.packet.Seq)
			sr.transmit(seg)
			sr.restartTimer()
		}
	}
}

func (sr *selectiveRepeat) SenderTimeout() {
	if seg := sr.window.first(); seg != nil {
		logrus.Debugf("selective-repeat: timeout, resending %d", seg.packet.Seq)
		sr.transmit(seg)
	}
	sr.armTimer()
}

func (sr *selectiveRepeat) ReceiverInput(p Packet) {
	if p.Corrupt() {
		return
	}
	n := len(sr.rcvWindow)
	offset := (p.Seq - sr.rcvBase + sr.seqSpace) % sr.seqSpace
	switch {
	case offset < n:
		if sr.rcvWindow[offset] == nil {
			buffered := p
			sr.rcvWindow[offset] = &buffered
		}
		if offset == 0 {
			sr.deliverInOrder()
		}
	case offset >= sr.seqSpace-n:
		// already delivered; the earlier ACK may have been lost
		sr.net.Send(EntityB, NewAckPacket(p.Seq))
	}
}

// deliverInOrder hands the run starting at the window base to layer 5,
// slides the receive window past it, and ACKs the last delivered packet.
func (sr *selectiveRepeat) deliverInOrder() {
	run := 0
	for run < len(sr.rcvWindow) && sr.rcvWindow[run] != nil {
		sr.net.Deliver(sr.rcvWindow[run].Payload)
		run++
	}
	last := (sr.rcvBase + run - 1) % sr.seqSpace
	copy(sr.rcvWindow, sr.rcvWindow[run:])
	for i := len(sr.rcvWindow) - run; i < len(sr.rcvWindow); i++ {
		sr.rcvWindow[i] = nil
	}
	sr.rcvBase = (sr.rcvBase + run) % sr.seqSpace
	sr.net.Send(EntityB, NewAckPacket(last))
}
