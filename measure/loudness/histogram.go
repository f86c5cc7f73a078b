package loudness

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

const (
	absoluteGate = -70.0 // LUFS
	histCeiling  = 10.0  // LUFS, top of the histogram range

	integratedGate = -10.0 // LU below the mean of absolute-gated blocks
	rangeGate      = -20.0 // LU, EBU Tech 3342

	rangeLowPercentile  = 0.10
	rangeHighPercentile = 0.95

	// DefaultHistogramGrain is the number of histogram buckets per LU.
	DefaultHistogramGrain = 100
)

type histEntry struct {
	count    uint64
	energy   float64
	loudness float64
}

// histogram counts gated blocks per loudness bucket over [-70, +10] LUFS.
type histogram struct {
	grain   float64
	entries []histEntry
}

func newHistogram(grain int) *histogram {
	n := int(histCeiling-absoluteGate)*grain + 1
	h := &histogram{grain: float64(grain), entries: make([]histEntry, n)}

	for i := range h.entries {
		l := absoluteGate + float64(i)/h.grain
		h.entries[i] = histEntry{energy: core.LUFSToEnergy(l), loudness: l}
	}

	return h
}

// index maps a loudness to its bucket, clamping to the histogram range.
func (h *histogram) index(lufs float64) int {
	if math.IsInf(lufs, -1) || math.IsNaN(lufs) {
		return 0
	}

	return core.ClampInt(int((lufs-absoluteGate)*h.grain), 0, len(h.entries)-1)
}

func (h *histogram) add(lufs float64) {
	h.entries[h.index(lufs)].count++
}

func (h *histogram) reset() {
	for i := range h.entries {
		h.entries[i].count = 0
	}
}

// gate applies the absolute and relative gates to the blocks of one
// integrator.
type gate struct {
	offset       float64 // relative gate in LU
	relThreshold float64 // LUFS
	sumKept      float64
	nbKept       uint64
	hist         *histogram
}

func newGate(offset float64, grain int) *gate {
	return &gate{offset: offset, hist: newHistogram(grain)}
}

// update records the mean energy of a window. Blocks at or below the
// absolute gate are dropped.
func (g *gate) update(power float64) {
	l := core.EnergyToLUFS(power)
	if !(l > absoluteGate) {
		return
	}

	g.sumKept += power
	g.nbKept++
	g.hist.add(l)
	g.relThreshold = core.EnergyToLUFS(g.sumKept/float64(g.nbKept)) + g.offset
}

// threshold returns the relative threshold once a block has been kept.
func (g *gate) threshold() (float64, bool) {
	return g.relThreshold, g.nbKept > 0
}

// integrated returns the power-weighted mean loudness of the buckets at or
// above the relative threshold.
func (g *gate) integrated() (float64, bool) {
	if g.nbKept == 0 {
		return 0, false
	}

	var (
		energy float64
		count  uint64
	)

	for _, e := range g.hist.entries[g.hist.index(g.relThreshold):] {
		energy += float64(e.count) * e.energy
		count += e.count
	}

	if count == 0 {
		return 0, false
	}

	return core.EnergyToLUFS(energy / float64(count)), true
}

// loudnessRange returns the 10th and 95th percentile loudness of the buckets
// at or above the relative threshold.
func (g *gate) loudnessRange() (low, high float64, ok bool) {
	if g.nbKept == 0 {
		return 0, 0, false
	}

	entries := g.hist.entries
	from := g.hist.index(g.relThreshold)

	var total uint64
	for _, e := range entries[from:] {
		total += e.count
	}

	if total == 0 {
		return 0, 0, false
	}

	lowRank := uint64(rangeLowPercentile*float64(total) + 0.5)

	var n uint64

	i := from
	for ; i < len(entries); i++ {
		n += entries[i].count
		if entries[i].count > 0 && n >= lowRank {
			low = entries[i].loudness
			break
		}
	}

	highRank := uint64(rangeHighPercentile*float64(total) + 0.5)
	n = total

	for j := len(entries) - 1; j >= i; j-- {
		n -= entries[j].count
		if n < highRank {
			high = entries[j].loudness
			break
		}
	}

	return low, high, true
}

// histogramEnergy returns the energy sum represented by the histogram. It
// tracks sumKept up to bucket quantization.
func (g *gate) histogramEnergy() float64 {
	s := 0.0
	for _, e := range g.hist.entries {
		s += float64(e.count) * e.energy
	}

	return s
}

func (g *gate) reset() {
	g.relThreshold = 0
	g.sumKept = 0
	g.nbKept = 0
	g.hist.reset()
}
