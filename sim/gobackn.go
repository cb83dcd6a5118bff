package sim

import "github.com/sirupsen/logrus"

// goBackN keeps up to windowSize packets in flight with one timer for the
// oldest. ACKs are cumulative; a timeout resends everything in flight. The
// receiver accepts only the next expected sequence number.
//
// Stop-and-wait is the same protocol with a one-packet window and a one-bit
// sequence space (the alternating-bit protocol).
type goBackN struct {
	sender
	name     string
	seqSpace int
	expected int // receiver: next in-order sequence number
}

func newGoBackN(name string, windowSize int, timeout float64) *goBackN {
	seqSpace := windowSize + 1
	return &goBackN{
		sender: sender{
			window:  newSendWindow(windowSize, seqSpace),
			timeout: timeout,
		},
		name:     name,
		seqSpace: seqSpace,
	}
}

func (g *goBackN) Name() string { return g.name }

func (g *goBackN) SenderOutput(payload string) {
	g.window.push(payload)
	g.fill()
}

func (g *goBackN) SenderInput(p Packet) {
	if p.Corrupt() {
		logrus.Debugf("%s: A dropped corrupted ACK", g.name)
		return
	}
	if !g.acknowledge(p.Ack) {
		logrus.Debugf("%s: A ignored ACK %d, window %v", g.name, p.Ack, g.window)
	}
}

func (g *goBackN) SenderTimeout() {
	outstanding := g.window.outstanding()
	logrus.Debugf("%s: timeout, resending %d packets", g.name, len(outstanding))
	for _, seg := range outstanding {
		g.transmit(seg)
	}
	g.armTimer()
}

func (g *goBackN) ReceiverInput(p Packet) {
	if !p.Corrupt() && p.Seq == g.expected {
		g.net.Deliver(p.Payload)
		g.net.Send(EntityB, NewAckPacket(g.expected))
		g.expected = (g.expected + 1) % g.seqSpace
		return
	}
	// corrupted or out of order: repeat the ACK for the last in-order packet
	g.net.Send(EntityB, NewAckPacket((g.expected-1+g.seqSpace)%g.seqSpace))
}
