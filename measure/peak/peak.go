// Package peak tracks sample peak and true (inter-sample) peak levels per
// channel and across all channels.
//
// Sample peak is the largest absolute sample value seen. True peak is the
// largest absolute value of the signal oversampled through a
// [resample.Oversampler], approximating what a reconstructing DAC produces
// between samples. Both are non-decreasing until Reset.
package peak

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-loudness/dsp/resample"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Mode selects the peak measurements to run. Modes combine with |.
type Mode uint8

const (
	// ModeNone disables peak metering.
	ModeNone Mode = 0
	// ModeSample enables sample-peak metering.
	ModeSample Mode = 1 << 1
	// ModeTrue enables true-peak metering.
	ModeTrue Mode = 1 << 2
)

// DefaultOversampling is the BS.1770 true-peak oversampling factor.
const DefaultOversampling = 4

// Has reports whether all bits of f are set in m.
func (m Mode) Has(f Mode) bool {
	return f != ModeNone && m&f == f
}

func (m Mode) String() string {
	var parts []string
	if m.Has(ModeSample) {
		parts = append(parts, "sample")
	}

	if m.Has(ModeTrue) {
		parts = append(parts, "true")
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, "+")
}

type config struct {
	mode    Mode
	factor  int
	factory resample.Factory
}

// Option configures a Detector.
type Option func(*config)

// WithMode selects the enabled peak modes.
func WithMode(m Mode) Option {
	return func(cfg *config) { cfg.mode = m }
}

// WithOversampling sets the true-peak oversampling factor. A factor of 1
// measures true peak on the raw samples.
func WithOversampling(factor int) Option {
	return func(cfg *config) {
		if factor > 0 {
			cfg.factor = factor
		}
	}
}

// WithOversamplerFactory replaces the default polyphase oversampler.
func WithOversamplerFactory(f resample.Factory) Option {
	return func(cfg *config) {
		if f != nil {
			cfg.factory = f
		}
	}
}

// Detector accumulates peak levels. It is not safe for concurrent use, but
// distinct channels touch disjoint state, so Process calls for different
// channels of the same block may run in parallel.
type Detector struct {
	mode   Mode
	factor int

	samplePeaks []float64
	truePeaks   []float64
	framePeaks  []float64

	oversamplers []resample.Oversampler
	scratch      [][]float64
	trueErr      error
}

// New creates a Detector for channels channels. A failing oversampler factory
// does not fail construction; it disables true-peak reporting, see Err.
func New(channels int, opts ...Option) (*Detector, error) {
	if channels < 1 {
		return nil, fmt.Errorf("peak: invalid channel count %d", channels)
	}

	cfg := config{
		mode:    ModeSample,
		factor:  DefaultOversampling,
		factory: resample.PolyphaseFactory(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	d := &Detector{
		mode:        cfg.mode,
		factor:      cfg.factor,
		samplePeaks: make([]float64, channels),
		truePeaks:   make([]float64, channels),
		framePeaks:  make([]float64, channels),
	}

	if d.mode.Has(ModeTrue) && d.factor > 1 {
		d.oversamplers = make([]resample.Oversampler, channels)
		d.scratch = make([][]float64, channels)

		for ch := range channels {
			o, err := cfg.factory(d.factor)
			if err != nil {
				d.disable(err)
				d.oversamplers = nil
				break
			}

			d.oversamplers[ch] = o
		}
	}

	return d, nil
}

// Mode returns the configured peak modes.
func (d *Detector) Mode() Mode { return d.mode }

// Factor returns the true-peak oversampling factor.
func (d *Detector) Factor() int { return d.factor }

// Channels returns the number of metered channels.
func (d *Detector) Channels() int { return len(d.samplePeaks) }

// Err returns the oversampler failure that disabled true-peak reporting, or
// nil.
func (d *Detector) Err() error { return d.trueErr }

// TrueEnabled reports whether true-peak values are being produced.
func (d *Detector) TrueEnabled() bool {
	return d.mode.Has(ModeTrue) && d.trueErr == nil
}

func (d *Detector) disable(err error) {
	d.trueErr = fmt.Errorf("%w: %w", resample.ErrOversampler, err)
}

// Process updates the peaks of channel ch with raw samples.
func (d *Detector) Process(ch int, samples []float64) {
	if len(samples) == 0 {
		return
	}

	raw := 0.0
	if d.mode != ModeNone {
		raw = vecmath.MaxAbs(samples)
	}

	if d.mode.Has(ModeSample) && raw > d.samplePeaks[ch] {
		d.samplePeaks[ch] = raw
	}

	if !d.TrueEnabled() {
		return
	}

	if d.factor == 1 {
		d.updateTrue(ch, raw)
		return
	}

	out, err := d.oversamplers[ch].Process(d.scratch[ch][:0], samples)
	if err != nil {
		d.disable(err)
		return
	}

	// The reconstruction passes through the samples, so the raw maximum is a
	// lower bound even while the oversampler output lags its input.
	d.scratch[ch] = out
	d.updateTrue(ch, max(raw, vecmath.MaxAbs(out)))
}

func (d *Detector) updateTrue(ch int, v float64) {
	if v > d.truePeaks[ch] {
		d.truePeaks[ch] = v
	}

	if v > d.framePeaks[ch] {
		d.framePeaks[ch] = v
	}
}

// Flush drains the oversamplers at the end of the stream.
func (d *Detector) Flush() {
	if !d.TrueEnabled() || d.factor == 1 {
		return
	}

	for ch, o := range d.oversamplers {
		out, err := o.Flush(d.scratch[ch][:0])
		if err != nil {
			d.disable(err)
			return
		}

		d.scratch[ch] = out
		if len(out) > 0 {
			d.updateTrue(ch, vecmath.MaxAbs(out))
		}
	}
}

// StartFrame clears the per-refresh true peaks.
func (d *Detector) StartFrame() {
	for i := range d.framePeaks {
		d.framePeaks[i] = 0
	}
}

// SamplePeaks returns a copy of the per-channel sample peaks (linear), or nil
// when sample-peak mode is off.
func (d *Detector) SamplePeaks() []float64 {
	if !d.mode.Has(ModeSample) {
		return nil
	}

	return append([]float64(nil), d.samplePeaks...)
}

// TruePeaks returns a copy of the per-channel true peaks (linear), or nil when
// true-peak reporting is off or disabled.
func (d *Detector) TruePeaks() []float64 {
	if !d.TrueEnabled() {
		return nil
	}

	return append([]float64(nil), d.truePeaks...)
}

// FramePeaks returns a copy of the true peaks since the last StartFrame.
func (d *Detector) FramePeaks() []float64 {
	if !d.TrueEnabled() {
		return nil
	}

	return append([]float64(nil), d.framePeaks...)
}

// SamplePeak returns the global sample peak and whether it is reported.
func (d *Detector) SamplePeak() (float64, bool) {
	if !d.mode.Has(ModeSample) {
		return 0, false
	}

	return vecmath.MaxAbs(d.samplePeaks), true
}

// TruePeak returns the global true peak and whether it is reported.
func (d *Detector) TruePeak() (float64, bool) {
	if !d.TrueEnabled() {
		return 0, false
	}

	return vecmath.MaxAbs(d.truePeaks), true
}

// Reset clears all peaks and oversampler state. A factory failure from New
// remains in effect; a failure during processing is cleared.
func (d *Detector) Reset() {
	for i := range d.samplePeaks {
		d.samplePeaks[i] = 0
		d.truePeaks[i] = 0
		d.framePeaks[i] = 0
	}

	for _, o := range d.oversamplers {
		o.Reset()
	}

	if d.oversamplers != nil {
		d.trueErr = nil
	}
}
