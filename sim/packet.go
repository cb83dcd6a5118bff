package sim

import (
	"fmt"
	"hash/crc32"
	"strconv"
)

// Entity identifies one end of the simulated link.
type Entity int

const (
	// EntityA is the sender.
	EntityA Entity = iota
	// EntityB is the receiver.
	EntityB
)

func (e Entity) String() string {
	switch e {
	case EntityA:
		return "A"
	case EntityB:
		return "B"
	default:
		return fmt.Sprintf("Entity(%d)", int(e))
	}
}

// peer returns the entity at the other end of the link.
func (e Entity) peer() Entity {
	if e == EntityA {
		return EntityB
	}
	return EntityA
}

// corruptedField is written into the seq or ack field of a damaged packet.
const corruptedField = 999999

// Packet is the unit exchanged over the simulated network layer.
// Packets are passed by value; the channel never aliases a sender's copy.
type Packet struct {
	Seq      int
	Ack      int
	Checksum uint32
	Payload  string
}

// NewDataPacket returns a checksummed data packet.
func NewDataPacket(seq int, payload string) Packet {
	p := Packet{Seq: seq, Payload: payload}
	p.Checksum = p.computeChecksum()
	return p
}

// NewAckPacket returns a checksummed acknowledgement.
func NewAckPacket(ack int) Packet {
	p := Packet{Ack: ack}
	p.Checksum = p.computeChecksum()
	return p
}

// computeChecksum is CRC-32 over the decimal sum of seq and ack followed by the payload.
func (p Packet) computeChecksum() uint32 {
	return crc32.ChecksumIEEE([]byte(strconv.Itoa(p.Seq+p.Ack) + p.Payload))
}

// Corrupt reports whether the checksum no longer matches the packet contents.
func (p Packet) Corrupt() bool {
	return p.Checksum != p.computeChecksum()
}

func (p Packet) String() string {
	return fmt.Sprintf("seq=%d ack=%d checksum=%d payload=%q", p.Seq, p.Ack, p.Checksum, p.Payload)
}

// messagePayload is the layer-5 content of the i-th message: one letter repeated.
func messagePayload(i int) string {
	b := make([]byte, MaxDataSize)
	for j := range b {
		b[j] = byte('a' + i%26)
	}
	return string(b)
}
