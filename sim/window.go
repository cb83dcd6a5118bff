package sim

import (
	"fmt"
	"strings"
)

// segment is one message buffered at the sender until it is acknowledged.
type segment struct {
	packet        Packet
	sent          bool
	retransmitted bool
	firstSent     float64
	lastSent      float64
}

// sendWindow is a FIFO of unacknowledged messages. The first inFlight
// segments have been transmitted; at most size may be in flight. Sequence
// numbers wrap at seqSpace, which must exceed size for ACKs to be unambiguous.
type sendWindow struct {
	segments []*segment
	inFlight int
	size     int
	seqSpace int
	nextSeq  int
}

func newSendWindow(size, seqSpace int) *sendWindow {
	if seqSpace <= size {
		panic(fmt.Sprintf("newSendWindow: seqSpace %d must exceed window size %d", seqSpace, size))
	}
	return &sendWindow{size: size, seqSpace: seqSpace}
}

// push buffers a new message under the next sequence number.
func (w *sendWindow) push(payload string) *segment {
	seg := &segment{packet: NewDataPacket(w.nextSeq, payload)}
	w.nextSeq = (w.nextSeq + 1) % w.seqSpace
	w.segments = append(w.segments, seg)
	return seg
}

func (w *sendWindow) canSend() bool {
	return w.inFlight < len(w.segments) && w.inFlight < w.size
}

func (w *sendWindow) nextToSend() *segment {
	seg := w.segments[w.inFlight]
	w.inFlight++
	return seg
}

// empty reports whether nothing is in flight.
func (w *sendWindow) empty() bool {
	return w.inFlight == 0
}

// first returns the oldest in-flight segment, or nil.
func (w *sendWindow) first() *segment {
	if w.inFlight == 0 {
		return nil
	}
	return w.segments[0]
}

// outstanding returns the in-flight segments, oldest first.
func (w *sendWindow) outstanding() []*segment {
	return w.segments[:w.inFlight]
}

// buffered returns the number of messages not yet acknowledged, sent or not.
func (w *sendWindow) buffered() int {
	return len(w.segments)
}

// offsetOf maps a sequence number to its position among in-flight segments.
func (w *sendWindow) offsetOf(seq int) (int, bool) {
	if w.inFlight == 0 || seq < 0 || seq >= w.seqSpace {
		return 0, false
	}
	base := w.segments[0].packet.Seq
	offset := (seq - base + w.seqSpace) % w.seqSpace
	if offset >= w.inFlight {
		return 0, false
	}
	return offset, true
}

// slide removes the first n in-flight segments and returns them.
func (w *sendWindow) slide(n int) []*segment {
	if n > w.inFlight {
		panic(fmt.Sprintf("sendWindow.slide: %d exceeds %d in flight", n, w.inFlight))
	}
	acked := make([]*segment, n)
	copy(acked, w.segments[:n])
	w.segments = w.segments[n:]
	w.inFlight -= n
	return acked
}

func (w *sendWindow) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, seg := range w.segments {
		if i == w.inFlight {
			sb.WriteString("|")
		}
		fmt.Fprintf(&sb, " %d", seg.packet.Seq)
	}
	sb.WriteString(" ]")
	return sb.String()
}
