package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPacket_ChecksumDetectsEachCorruptionKind(t *testing.T) {
	data := NewDataPacket(3, messagePayload(0))
	ack := NewAckPacket(3)
	assert.False(t, data.Corrupt())
	assert.False(t, ack.Corrupt())

	tests := []struct {
		name string
		mut  func(Packet) Packet
	}{
		{"payload", func(p Packet) Packet { p.Payload = "?" + p.Payload[1:]; return p }},
		{"seq", func(p Packet) Packet { p.Seq = corruptedField; return p }},
		{"ack", func(p Packet) Packet { p.Ack = corruptedField; return p }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.mut(data).Corrupt())
		})
	}
}

func TestPacket_EmptyPayloadCorruptionDetected(t *testing.T) {
	ack := NewAckPacket(0)
	ack.Payload = "?"
	assert.True(t, ack.Corrupt())
}

func TestMessagePayload_RepeatsLetterAndWraps(t *testing.T) {
	assert.Equal(t, strings.Repeat("a", MaxDataSize), messagePayload(0))
	assert.Equal(t, strings.Repeat("z", MaxDataSize), messagePayload(25))
	assert.Equal(t, strings.Repeat("a", MaxDataSize), messagePayload(26))
}

func TestEntity_PeerAndString(t *testing.T) {
	assert.Equal(t, EntityB, EntityA.peer())
	assert.Equal(t, EntityA, EntityB.peer())
	assert.Equal(t, "A", EntityA.String())
	assert.Equal(t, "Entity(7)", Entity(7).String())
}
