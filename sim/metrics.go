// Tracks channel counters and per-message timing for the final report.

package sim

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
)

// ErrUnknownMetric is returned by Metrics.Value for an unrecognised metric name.
var ErrUnknownMetric = errors.New("unknown metric")

// Metrics aggregates statistics about one simulation run.
type Metrics struct {
	OriginalPackets int // data packets A sent for the first time
	Retransmissions int // data packets A sent again
	DataPacketsSent int // every data packet A put on the channel
	Delivered       int // payloads delivered to layer 5 at B
	AcksSent        int // ACK packets B put on the channel
	Lost            int // packets dropped by the channel, either direction
	CorruptedFromA  int
	CorruptedFromB  int

	// RTTs holds send-to-ACK times of packets acknowledged by their own ACK
	// and never retransmitted.
	RTTs []float64
	// CommunicationTimes holds first-send-to-ACK times of every acknowledged
	// message, retransmitted or not.
	CommunicationTimes []float64

	SimEndedTime float64
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Corrupted returns the number of corrupted packets in both directions.
func (m *Metrics) Corrupted() int {
	return m.CorruptedFromA + m.CorruptedFromB
}

// LostRatio estimates the fraction of packets lost: retransmissions not
// explained by corruption over all packets sent. Clamped at zero.
func (m *Metrics) LostRatio() float64 {
	total := m.OriginalPackets + m.Retransmissions + m.AcksSent
	if total == 0 {
		return 0
	}
	return math.Max(0, float64(m.Retransmissions-m.Corrupted())/float64(total))
}

// CorruptedRatio is the fraction of packets that arrived corrupted, excluding
// those that were lost.
func (m *Metrics) CorruptedRatio() float64 {
	total := m.OriginalPackets + m.Retransmissions + m.AcksSent - (m.Retransmissions - m.Corrupted())
	if total <= 0 {
		return 0
	}
	return float64(m.Corrupted()) / float64(total)
}

// AverageRTT returns the mean RTT, or 0 when nothing qualified.
func (m *Metrics) AverageRTT() float64 {
	return CalculateMean(m.RTTs)
}

// AverageCommunicationTime returns the mean communication time, or 0 when nothing was acknowledged.
func (m *Metrics) AverageCommunicationTime() float64 {
	return CalculateMean(m.CommunicationTimes)
}

// Metric names accepted by Value.
const (
	MetricRTT          = "rtt"
	MetricCommTime     = "comm-time"
	MetricRetransmits  = "retransmits"
	MetricLostRatio    = "lost-ratio"
	MetricCorruptRatio = "corrupt-ratio"
	MetricDelivered    = "delivered"
)

// MetricInfo describes how a metric is labelled on a chart.
type MetricInfo struct {
	Title  string // printf pattern; %s is the varied quantity ("loss" or "corruption")
	YLabel string
	value  func(*Metrics) float64
}

// Metrics that can be extracted from a run and swept.
var metricInfos = map[string]MetricInfo{
	MetricRTT:          {"Average RTT as function of %s", "Average RTT", (*Metrics).AverageRTT},
	MetricCommTime:     {"Average communication time as a function %s", "Average communication time", (*Metrics).AverageCommunicationTime},
	MetricRetransmits:  {"Retransmits as function of %s", "Retransmits", func(m *Metrics) float64 { return float64(m.Retransmissions) }},
	MetricLostRatio:    {"Ratio of lost packets as function of %s", "Lost ratio", (*Metrics).LostRatio},
	MetricCorruptRatio: {"Ratio of corrupted packets as function of %s", "Corrupted ratio", (*Metrics).CorruptedRatio},
	MetricDelivered:    {"Packets delivered to layer 5 as function of %s", "Delivered", func(m *Metrics) float64 { return float64(m.Delivered) }},
}

// LookupMetric returns the chart labels for a metric name.
func LookupMetric(name string) (MetricInfo, error) {
	info, ok := metricInfos[name]
	if !ok {
		return MetricInfo{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownMetric, name, MetricNames())
	}
	return info, nil
}

// MetricNames returns the metric names accepted by Value, sorted.
func MetricNames() []string {
	names := make([]string, 0, len(metricInfos))
	for name := range metricInfos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value extracts a named metric.
func (m *Metrics) Value(name string) (float64, error) {
	info, err := LookupMetric(name)
	if err != nil {
		return 0, err
	}
	return info.value(m), nil
}

// Print writes the end-of-run statistics block.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "===============STATISTICS=======================")
	fmt.Fprintf(w, "Number of original packets transmitted by A: %d\n", m.OriginalPackets)
	fmt.Fprintf(w, "Number of retransmissions by A: %d\n", m.Retransmissions)
	fmt.Fprintf(w, "Number of data packets delivered to layer 5 at B: %d\n", m.Delivered)
	fmt.Fprintf(w, "Number of ACK packets sent by B: %d\n", m.AcksSent)
	fmt.Fprintf(w, "Number of corrupted packets: %d\n", m.Corrupted())
	fmt.Fprintf(w, "Ratio of lost packets: %.2f%%\n", 100*m.LostRatio())
	fmt.Fprintf(w, "Ratio of corrupted packets: %.2f%%\n", 100*m.CorruptedRatio())
	fmt.Fprintf(w, "Average RTT: %.3f\n", m.AverageRTT())
	fmt.Fprintf(w, "Average communication time: %.3f\n", m.AverageCommunicationTime())
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXTRA:")
	fmt.Fprintf(w, "Total packets transmitted by A: %d\n", m.DataPacketsSent)
	fmt.Fprintf(w, "Number of lost packets: %d\n", m.Lost)
	fmt.Fprintf(w, "Corrupted packets from A / B: %d / %d\n", m.CorruptedFromA, m.CorruptedFromB)
	fmt.Fprintf(w, "RTT samples: %d (p50 %.3f, p90 %.3f, p99 %.3f)\n", len(m.RTTs),
		CalculatePercentile(m.RTTs, 50), CalculatePercentile(m.RTTs, 90), CalculatePercentile(m.RTTs, 99))
	fmt.Fprintf(w, "Simulation ended at: %.3f\n", m.SimEndedTime)
	fmt.Fprintln(w, "==================================================")
}
