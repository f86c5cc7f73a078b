package loudness

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/measure/peak"
)

// Value is a metric that may not have been measured yet.
type Value struct {
	V     float64
	Valid bool
}

func some(v float64) Value { return Value{V: v, Valid: true} }

// Get returns the value and whether it is valid.
func (v Value) Get() (float64, bool) { return v.V, v.Valid }

// LUFS formats a loudness value.
func (v Value) LUFS() string { return v.format("LUFS") }

// LU formats a relative loudness value.
func (v Value) LU() string { return v.format("LU") }

// DB formats a linear peak value in dB. The unit is "dBFS" or "dBTP" as
// passed by the caller.
func (v Value) DB(unit string) string {
	if !v.Valid {
		return "n/a"
	}

	return Value{V: core.LinearToDB(v.V), Valid: true}.format(unit)
}

func (v Value) format(unit string) string {
	switch {
	case !v.Valid:
		return "n/a"
	case math.IsInf(v.V, -1):
		return "-inf " + unit
	default:
		return fmt.Sprintf("%.1f %s", v.V, unit)
	}
}

// Snapshot is the set of metrics published after a block. It shares no
// memory with the meter.
type Snapshot struct {
	// Time is the stream position covered by the snapshot.
	Time time.Duration
	// Blocks counts the 100 ms blocks processed, including a flushed
	// partial block.
	Blocks int

	M Value // momentary loudness, 400 ms (LUFS)
	S Value // short-term loudness, 3 s (LUFS)
	I Value // integrated loudness (LUFS)

	LRA     Value // loudness range (LU)
	LRALow  Value // 10th percentile of the short-term distribution (LUFS)
	LRAHigh Value // 95th percentile of the short-term distribution (LUFS)

	IThreshold   Value // relative gate of the integrated measurement (LUFS)
	LRAThreshold Value // relative gate of the range measurement (LUFS)

	PeakMode   peak.Mode
	SamplePeak Value // linear
	TruePeak   Value // linear

	SamplePeaks []float64 // per channel, linear; nil when not metered
	TruePeaks   []float64 // per channel, linear; nil when not metered
}

// Event is delivered to the refresh callback after each block.
type Event struct {
	Snapshot Snapshot
	// FramePeaks holds the per-channel true peaks of the block that
	// triggered the event; nil when true peak is not metered.
	FramePeaks []float64
}

// State is the lifecycle state of a Meter.
type State uint8

// Meter states.
const (
	StateUninitialized State = iota
	StateReady
	StateAccumulating
	StateRefreshed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateAccumulating:
		return "accumulating"
	case StateRefreshed:
		return "refreshed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}
