package sim

import "container/heap"

// fakeNetwork records what a protocol asks of the network without
// simulating a channel.
type fakeNetwork struct {
	now       float64
	sentByA   []Packet
	sentByB   []Packet
	delivered []string
	timer     bool
	starts    int
}

func (f *fakeNetwork) Now() float64 { return f.now }

func (f *fakeNetwork) Send(from Entity, p Packet) {
	if from == EntityA {
		f.sentByA = append(f.sentByA, p)
	} else {
		f.sentByB = append(f.sentByB, p)
	}
}

func (f *fakeNetwork) Deliver(payload string) { f.delivered = append(f.delivered, payload) }

func (f *fakeNetwork) StartTimer(float64) {
	f.timer = true
	f.starts++
}

func (f *fakeNetwork) StopTimer()         { f.timer = false }
func (f *fakeNetwork) TimerRunning() bool { return f.timer }

// attached builds a protocol wired to a fresh fakeNetwork.
func attached(name string, window int) (Protocol, *fakeNetwork, *Metrics) {
	p, err := NewProtocol(name, window, 15)
	if err != nil {
		panic(err)
	}
	net := &fakeNetwork{}
	m := NewMetrics()
	p.Attach(net, m)
	return p, net, m
}

func seqs(packets []Packet) []int {
	out := make([]int, len(packets))
	for i, p := range packets {
		out[i] = p.Seq
	}
	return out
}

func acks(packets []Packet) []int {
	out := make([]int, len(packets))
	for i, p := range packets {
		out[i] = p.Ack
	}
	return out
}

func payloads(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = messagePayload(i)
	}
	return out
}

// popForTest removes the next event, stopped timers included.
func (sim *Simulator) popForTest() Event {
	return heap.Pop(&sim.EventQueue).(queuedEvent).Event
}

// live returns the pending events that will still execute.
func (eq EventQueue) live() []Event {
	var out []Event
	for _, q := range eq {
		if t, ok := q.Event.(*TimerEvent); ok && t.stopped {
			continue
		}
		out = append(out, q.Event)
	}
	return out
}
