// Package loudness implements an EBU R128 / ITU-R BS.1770 loudness meter.
//
// A [Meter] K-weights every channel, sums the channel energies with their
// layout weights in 100 ms blocks and feeds two sliding windows: 400 ms for
// momentary loudness and 3 s for short-term loudness. Gated blocks are
// counted in a loudness histogram from which integrated loudness and
// loudness range are derived. Sample and true peaks are tracked alongside.
//
// Every completed block publishes an immutable [Snapshot]. Metrics that have
// not been measured yet are reported with [Value.Valid] unset, never as a
// numeric placeholder.
package loudness
