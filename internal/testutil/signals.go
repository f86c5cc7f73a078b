// Package testutil holds deterministic test signals and tolerance helpers
// shared by the measurement tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	return PhasedSine(freqHz, sampleRate, amplitude, 0, length)
}

// PhasedSine generates a sine wave starting at phase radians.
func PhasedSine(freqHz, sampleRate, amplitude, phase float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i)+phase)
	}

	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Concat joins signals end to end.
func Concat(parts ...[]float64) []float64 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// Interleave packs equally long planar channels into one frame-interleaved
// slice. It panics if the channel lengths differ.
func Interleave(channels ...[]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}

	frames := len(channels[0])
	out := make([]float64, frames*len(channels))

	for ch, data := range channels {
		if len(data) != frames {
			panic("testutil: channel length mismatch")
		}

		for i, v := range data {
			out[i*len(channels)+ch] = v
		}
	}

	return out
}

// Chunk splits data into consecutive slices of at most size elements.
func Chunk(data []float64, size int) [][]float64 {
	if size <= 0 {
		return [][]float64{data}
	}

	chunks := make([][]float64, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		chunks = append(chunks, data[start:min(start+size, len(data))])
	}

	return chunks
}
