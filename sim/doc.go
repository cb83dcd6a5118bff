// Package sim provides a discrete-event simulator for reliable data transfer
// over an unreliable channel.
//
// # Reading Guide
//
//   - event.go: the three event kinds (message from layer 5, packet from
//     layer 3, timer expiry)
//   - simulator.go: the event loop and the channel model (loss, delay,
//     corruption) exposed to protocols through the Network interface
//   - protocol.go: the Protocol interface and the sender-side bookkeeping
//     shared by every protocol
//   - gobackn.go, selective_repeat.go: the protocols
//   - sweep.go: running many simulations across a probability axis
//
// Entity A only sends data and entity B only sends ACKs. Each channel
// decision draws from its own random stream (see PartitionedRNG), so a run
// is fully determined by its Config.
package sim
