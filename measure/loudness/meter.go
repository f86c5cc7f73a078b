package loudness

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/dsp/filter/kweighting"
	"github.com/cwbudde/algo-loudness/measure/peak"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Meter implements EBU R128 / ITU-R BS.1770 loudness metering.
//
// A Meter is not safe for concurrent use. Results do not depend on how the
// input is split across Process calls.
type Meter struct {
	cfg     MeterConfig
	layout  Layout
	weights []float64

	blockSize int
	filter    kweighting.Filter
	states    []kweighting.State

	planes    [][]float64 // per-channel scratch, capacity blockSize
	blockSums []float64   // K-weighted sum of squares per channel
	blockFill int

	momentary *integrator
	shortTerm *integrator
	peaks     *peak.Detector

	samples int64
	blocks  int
	state   State
	snap    Snapshot
}

// NewMeter creates a loudness meter with the given options.
func NewMeter(opts ...MeterOption) (*Meter, error) {
	cfg := ApplyMeterOptions(opts...)

	layout := cfg.Layout
	if layout == nil {
		l, err := DefaultLayout(cfg.Channels)
		if err != nil {
			return nil, err
		}

		layout = l
	}

	if err := layout.Validate(); err != nil {
		return nil, err
	}

	cfg.Layout = layout
	cfg.Channels = len(layout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	momSlots, err := windowSlots(cfg.MomentaryWindow)
	if err != nil {
		return nil, err
	}

	shortSlots, err := windowSlots(cfg.ShortTermWindow)
	if err != nil {
		return nil, err
	}

	if cfg.HistogramGrain < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrain, cfg.HistogramGrain)
	}

	coeffs, err := kweighting.Design(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}

	filter, err := newFilter(cfg, coeffs)
	if err != nil {
		return nil, err
	}

	peakOpts := []peak.Option{
		peak.WithMode(cfg.PeakMode),
		peak.WithOversampling(cfg.Oversampling),
	}
	if cfg.Oversampler != nil {
		peakOpts = append(peakOpts, peak.WithOversamplerFactory(cfg.Oversampler))
	}

	peaks, err := peak.New(cfg.Channels, peakOpts...)
	if err != nil {
		return nil, err
	}

	blockSize := max(int(cfg.SampleRate/10+0.5), 1)

	m := &Meter{
		cfg:       cfg,
		layout:    layout,
		weights:   layout.Weights(cfg.DualMono, cfg.PanLawDB),
		blockSize: blockSize,
		filter:    filter,
		states:    make([]kweighting.State, cfg.Channels),
		planes:    make([][]float64, cfg.Channels),
		blockSums: make([]float64, cfg.Channels),
		momentary: newIntegrator(momSlots, newGate(integratedGate, cfg.HistogramGrain)),
		shortTerm: newIntegrator(shortSlots, newGate(rangeGate, cfg.HistogramGrain)),
		peaks:     peaks,
	}

	for ch := range m.planes {
		m.planes[ch] = make([]float64, 0, blockSize)
	}

	m.state = StateReady
	m.snap = m.snapshot()

	return m, nil
}

func windowSlots(d time.Duration) (int, error) {
	if d <= 0 || d%BlockDuration != 0 {
		return 0, fmt.Errorf("%w: %v is not a positive multiple of %v", ErrInvalidWindow, d, BlockDuration)
	}

	return int(d / BlockDuration), nil
}

func newFilter(cfg MeterConfig, c kweighting.Coefficients) (kweighting.Filter, error) {
	if cfg.Filter == nil {
		return kweighting.NewFilter(c), nil
	}

	f, err := cfg.Filter(c)
	if err != nil {
		return nil, fmt.Errorf("loudness: filter: %w", err)
	}

	return f, nil
}

// Config returns the resolved configuration.
func (m *Meter) Config() MeterConfig { return m.cfg }

// Layout returns a copy of the channel layout.
func (m *Meter) Layout() Layout { return append(Layout(nil), m.layout...) }

// Weights returns a copy of the channel weights.
func (m *Meter) Weights() []float64 { return append([]float64(nil), m.weights...) }

// BlockSize returns the gating block length in samples.
func (m *Meter) BlockSize() int { return m.blockSize }

// FilterName names the K-weighting kernel in use.
func (m *Meter) FilterName() string { return m.filter.Name() }

// State returns the lifecycle state.
func (m *Meter) State() State {
	if m == nil {
		return StateUninitialized
	}

	return m.state
}

// TruePeakErr returns the oversampler failure that disabled true-peak
// metering, or nil.
func (m *Meter) TruePeakErr() error {
	if m.State() == StateUninitialized {
		return nil
	}

	return m.peaks.Err()
}

// TruePeakDisabled reports whether true peak was requested but could not be
// measured.
func (m *Meter) TruePeakDisabled() bool {
	return m.cfg.PeakMode.Has(peak.ModeTrue) && m.TruePeakErr() != nil
}

func (m *Meter) usable() error {
	switch m.State() {
	case StateUninitialized:
		return ErrUninitialized
	case StateClosed:
		return ErrClosed
	default:
		return nil
	}
}

// ProcessInterleaved meters interleaved frames. The length of frames must
// be a multiple of the channel count.
func (m *Meter) ProcessInterleaved(frames []float64) error {
	if err := m.usable(); err != nil {
		return err
	}

	channels := len(m.layout)
	if len(frames)%channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrChannelMismatch, len(frames), channels)
	}

	total := len(frames) / channels
	for done := 0; done < total; {
		n := min(total-done, m.blockSize-m.blockFill)
		planes := m.scratch(n)
		core.Deinterleave(planes, frames, done, n)
		m.ingest(planes, n)
		done += n
	}

	return nil
}

// ProcessPlanar meters one slice per channel. All slices must have the same
// length.
func (m *Meter) ProcessPlanar(channels [][]float64) error {
	if err := m.usable(); err != nil {
		return err
	}

	if len(channels) != len(m.layout) {
		return fmt.Errorf("%w: %d planes for %d channels", ErrChannelMismatch, len(channels), len(m.layout))
	}

	total := len(channels[0])
	for ch, p := range channels {
		if len(p) != total {
			return fmt.Errorf("%w: plane %d has %d samples, want %d", ErrChannelMismatch, ch, len(p), total)
		}
	}

	for done := 0; done < total; {
		n := min(total-done, m.blockSize-m.blockFill)
		planes := m.scratch(n)

		for ch, p := range planes {
			copy(p, channels[ch][done:done+n])
		}

		m.ingest(planes, n)
		done += n
	}

	return nil
}

func (m *Meter) scratch(n int) [][]float64 {
	for ch := range m.planes {
		m.planes[ch] = m.planes[ch][:n]
	}

	return m.planes
}

// ingest meters n frames that do not cross a block boundary.
func (m *Meter) ingest(planes [][]float64, n int) {
	for ch, p := range planes {
		m.peaks.Process(ch, p)
		m.filter.Process(&m.states[ch], p)
		m.blockSums[ch] += vecmath.DotProduct(p, p)
	}

	m.blockFill += n
	m.samples += int64(n)

	if m.blockFill == m.blockSize {
		m.completeBlock()
		return
	}

	m.state = StateAccumulating
}

// completeBlock pushes the mean weighted energy of the current block, which
// may be short when flushed by Close.
func (m *Meter) completeBlock() {
	power := 0.0
	for ch, s := range m.blockSums {
		power += m.weights[ch] * s
		m.blockSums[ch] = 0
	}

	power /= float64(m.blockFill)
	m.blockFill = 0
	m.blocks++

	m.momentary.push(power)
	m.shortTerm.push(power)

	if p, ok := m.momentary.average(); ok {
		m.momentary.gate.update(p)
	}

	if p, ok := m.shortTerm.average(); ok {
		m.shortTerm.gate.update(p)
	}

	m.snap = m.snapshot()
	m.state = StateRefreshed

	if m.cfg.Refresh != nil {
		m.cfg.Refresh(Event{Snapshot: m.snap.clone(), FramePeaks: m.peaks.FramePeaks()})
	}

	m.peaks.StartFrame()
}

func (m *Meter) snapshot() Snapshot {
	s := Snapshot{
		Time:        time.Duration(float64(m.samples) / m.cfg.SampleRate * float64(time.Second)),
		Blocks:      m.blocks,
		PeakMode:    m.cfg.PeakMode,
		SamplePeaks: m.peaks.SamplePeaks(),
		TruePeaks:   m.peaks.TruePeaks(),
	}

	if p, ok := m.momentary.average(); ok {
		s.M = some(core.EnergyToLUFS(p))
	}

	if p, ok := m.shortTerm.average(); ok {
		s.S = some(core.EnergyToLUFS(p))
	}

	if l, ok := m.momentary.gate.integrated(); ok {
		s.I = some(l)
	}

	if t, ok := m.momentary.gate.threshold(); ok {
		s.IThreshold = some(t)
	}

	if lo, hi, ok := m.shortTerm.gate.loudnessRange(); ok {
		s.LRA = some(hi - lo)
		s.LRALow = some(lo)
		s.LRAHigh = some(hi)
	}

	if t, ok := m.shortTerm.gate.threshold(); ok {
		s.LRAThreshold = some(t)
	}

	if m.samples > 0 {
		if v, ok := m.peaks.SamplePeak(); ok {
			s.SamplePeak = some(v)
		}

		if v, ok := m.peaks.TruePeak(); ok {
			s.TruePeak = some(v)
		}
	}

	return s
}

func (s Snapshot) clone() Snapshot {
	if s.SamplePeaks != nil {
		s.SamplePeaks = append([]float64(nil), s.SamplePeaks...)
	}

	if s.TruePeaks != nil {
		s.TruePeaks = append([]float64(nil), s.TruePeaks...)
	}

	return s
}

// Snapshot returns the metrics published by the latest block.
func (m *Meter) Snapshot() Snapshot {
	if m.State() == StateUninitialized {
		return Snapshot{}
	}

	return m.snap.clone()
}

// Close ends the stream: pending oversampler output is drained, a partial
// trailing block is metered and the final snapshot is returned. The meter
// accepts no input afterwards.
func (m *Meter) Close() (Snapshot, error) {
	if err := m.usable(); err != nil {
		return Snapshot{}, err
	}

	m.peaks.Flush()

	if m.blockFill > 0 {
		m.completeBlock()
	} else {
		m.snap = m.snapshot()
	}

	m.state = StateClosed

	return m.snap.clone(), nil
}

// Reset returns the meter to its freshly constructed state. A closed meter
// becomes usable again.
func (m *Meter) Reset() {
	if m.State() == StateUninitialized {
		return
	}

	for ch := range m.states {
		m.states[ch].Reset()
		m.blockSums[ch] = 0
	}

	m.blockFill = 0
	m.samples = 0
	m.blocks = 0
	m.momentary.reset()
	m.shortTerm.reset()
	m.peaks.Reset()
	m.state = StateReady
	m.snap = m.snapshot()
}
