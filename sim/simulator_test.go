package sim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(protocol string) Config {
	cfg := DefaultConfig()
	cfg.Protocol = protocol
	cfg.Messages = 50
	cfg.AvgMessageDelay = 20
	cfg.WindowSize = 4
	cfg.RetransmitTimeout = 40
	cfg.Seed = 7
	return cfg
}

func runSim(t *testing.T, cfg Config) (*Simulator, []string) {
	t.Helper()
	var out bytes.Buffer
	s, err := NewSimulator(cfg, &out)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if out.Len() == 0 {
		lines = nil
	}
	return s, lines
}

func TestSimulator_PerfectChannel(t *testing.T) {
	for name := range ValidProtocols {
		t.Run(name, func(t *testing.T) {
			// GIVEN no loss, no corruption and a timeout longer than any round trip
			cfg := testConfig(name)
			cfg.RetransmitTimeout = 1000

			s, delivered := runSim(t, cfg)
			m := s.Metrics

			// THEN every message is sent once, delivered once in order, and ACKed once
			assert.Equal(t, payloads(cfg.Messages), delivered)
			assert.Equal(t, cfg.Messages, m.OriginalPackets)
			assert.Zero(t, m.Retransmissions)
			assert.Equal(t, cfg.Messages, m.Delivered)
			assert.Equal(t, cfg.Messages, m.AcksSent)
			assert.Zero(t, m.Lost)
			assert.Zero(t, m.Corrupted())
			assert.Len(t, m.CommunicationTimes, cfg.Messages)
			// AND each round trip takes at least one time unit per hop
			require.NotEmpty(t, m.RTTs)
			for _, rtt := range m.RTTs {
				assert.GreaterOrEqual(t, rtt, 2.0-1e-9)
			}
			assert.Zero(t, m.LostRatio())
			assert.Zero(t, m.CorruptedRatio())
		})
	}
}

func TestSimulator_LossyChannel_DeliversEverythingInOrder(t *testing.T) {
	for name := range ValidProtocols {
		for _, seed := range []int64{1, 2, 3} {
			cfg := testConfig(name)
			cfg.LossProb = 0.2
			cfg.CorruptProb = 0.2
			cfg.Seed = seed

			s, delivered := runSim(t, cfg)

			assert.Equal(t, payloads(cfg.Messages), delivered, "%s seed %d", name, seed)
			assert.Positive(t, s.Metrics.Retransmissions, "%s seed %d", name, seed)
			assert.Positive(t, s.Metrics.Lost, "%s seed %d", name, seed)
			assert.Positive(t, s.Metrics.Corrupted(), "%s seed %d", name, seed)
			assert.Len(t, s.Metrics.CommunicationTimes, cfg.Messages, "%s seed %d", name, seed)
			assert.Empty(t, s.EventQueue.live(), "%s seed %d: queue must drain", name, seed)
		}
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	cfg := testConfig(ProtocolSelectiveRepeat)
	cfg.LossProb = 0.1
	cfg.CorruptProb = 0.1

	a, _ := runSim(t, cfg)
	b, _ := runSim(t, cfg)

	assert.Equal(t, a.Metrics, b.Metrics)
	assert.Equal(t, a.Clock, b.Clock)
}

func TestSimulator_SeedChangesOutcome(t *testing.T) {
	cfg := testConfig(ProtocolGoBackN)
	cfg.LossProb = 0.1
	a, _ := runSim(t, cfg)
	cfg.Seed++
	b, _ := runSim(t, cfg)

	assert.NotEqual(t, a.Clock, b.Clock)
}

func TestSimulator_HorizonStopsHopelessRun(t *testing.T) {
	cfg := testConfig(ProtocolStopAndWait)
	cfg.LossProb = 1
	cfg.Horizon = 500

	s, delivered := runSim(t, cfg)

	assert.Empty(t, delivered)
	assert.LessOrEqual(t, s.Metrics.SimEndedTime, 500.0)
	assert.Positive(t, s.Metrics.Retransmissions)
}

func TestSimulator_NilWriterStillCounts(t *testing.T) {
	s, err := NewSimulator(testConfig(ProtocolGoBackN), nil)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	assert.Equal(t, 50, s.Metrics.Delivered)
}

func TestNewSimulator_InvalidConfig(t *testing.T) {
	cfg := testConfig(ProtocolGoBackN)
	cfg.Messages = 0
	_, err := NewSimulator(cfg, nil)
	assert.Error(t, err)
}

func TestSimulator_TimerMisuseIsHarmless(t *testing.T) {
	s, err := NewSimulator(testConfig(ProtocolGoBackN), nil)
	require.NoError(t, err)

	s.StopTimer() // nothing to stop
	s.StartTimer(5)
	first := s.timer
	s.StartTimer(9) // already running

	assert.Same(t, first, s.timer)
	assert.Len(t, s.EventQueue, 1)

	s.StopTimer()
	assert.False(t, s.TimerRunning())
	assert.True(t, first.stopped)
}

func TestSimulator_ChannelNeverReorders(t *testing.T) {
	s, err := NewSimulator(testConfig(ProtocolGoBackN), nil)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		s.Send(EntityA, NewDataPacket(i%5, messagePayload(i)))
	}

	prev := 0.0
	for len(s.EventQueue) > 0 {
		ev := s.popForTest()
		arrival := ev.(*PacketArrivalEvent)
		assert.Equal(t, EntityB, arrival.To)
		assert.GreaterOrEqual(t, arrival.Timestamp()-prev, 1.0-1e-9)
		assert.LessOrEqual(t, arrival.Timestamp()-prev, 10.0+1e-9)
		prev = arrival.Timestamp()
	}
}

func TestEventQueue_TiesRunInSchedulingOrder(t *testing.T) {
	s, err := NewSimulator(testConfig(ProtocolGoBackN), nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		s.Schedule(&MessageArrivalEvent{time: 3, Index: i})
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, s.popForTest().(*MessageArrivalEvent).Index)
	}
}

func TestSimulator_CorruptionKindSplit(t *testing.T) {
	// GIVEN a seeded simulator and a data packet with a full payload
	s, err := NewSimulator(testConfig(ProtocolSelectiveRepeat), nil)
	require.NoError(t, err)
	original := NewDataPacket(3, messagePayload(0))

	// WHEN the packet is corrupted many times
	const n = 8000
	var payload, seq, ack int
	for i := 0; i < n; i++ {
		p := s.corrupt(original)
		switch {
		case p.Seq == corruptedField:
			seq++
		case p.Ack == corruptedField:
			ack++
		case strings.HasPrefix(p.Payload, "?"):
			payload++
			assert.Equal(t, original.Payload[1:], p.Payload[1:])
		default:
			t.Fatalf("corrupt left packet intact: %v", p)
		}
		require.True(t, p.Corrupt(), "checksum must catch %v", p)
	}

	// THEN payload, seq and ack damage occur about 75%, 12.5% and 12.5% of the time
	assert.Equal(t, n, payload+seq+ack)
	assert.InDelta(t, 0.75, float64(payload)/n, 0.03)
	assert.InDelta(t, 0.125, float64(seq)/n, 0.02)
	assert.InDelta(t, 0.125, float64(ack)/n, 0.02)
}

func TestSimulator_CorruptEmptyPayload(t *testing.T) {
	s, err := NewSimulator(testConfig(ProtocolGoBackN), nil)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		p := s.corrupt(NewAckPacket(1))
		if p.Seq != corruptedField && p.Ack != corruptedField {
			assert.Equal(t, "?", p.Payload)
		}
	}
}
