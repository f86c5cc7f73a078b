package loudness

import (
	"time"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/dsp/filter/kweighting"
	"github.com/cwbudde/algo-loudness/dsp/resample"
	"github.com/cwbudde/algo-loudness/measure/peak"
)

// BlockDuration is the gating block length.
const BlockDuration = 100 * time.Millisecond

// Default window lengths.
const (
	DefaultMomentaryWindow = 400 * time.Millisecond
	DefaultShortTermWindow = 3 * time.Second
)

// MeterConfig defines configuration for the loudness meter.
type MeterConfig struct {
	core.ProcessorConfig

	// Layout maps channels to loudspeaker positions. When nil the default
	// layout for Channels is used.
	Layout Layout

	DualMono bool
	PanLawDB float64

	PeakMode     peak.Mode
	Oversampling int
	Oversampler  resample.Factory

	HistogramGrain int

	MomentaryWindow time.Duration
	ShortTermWindow time.Duration

	Refresh func(Event)

	// Filter builds the K-weighting filter; nil selects the kernel for the
	// running CPU.
	Filter func(kweighting.Coefficients) (kweighting.Filter, error)
}

// MeterOption mutates a MeterConfig.
type MeterOption func(*MeterConfig)

// DefaultMeterConfig returns a 48 kHz stereo meter with sample-peak metering.
func DefaultMeterConfig() MeterConfig {
	return MeterConfig{
		ProcessorConfig: core.DefaultProcessorConfig(),
		PanLawDB:        DefaultPanLaw,
		PeakMode:        peak.ModeSample,
		Oversampling:    peak.DefaultOversampling,
		HistogramGrain:  DefaultHistogramGrain,
		MomentaryWindow: DefaultMomentaryWindow,
		ShortTermWindow: DefaultShortTermWindow,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) MeterOption {
	return func(cfg *MeterConfig) {
		core.WithSampleRate(sampleRate)(&cfg.ProcessorConfig)
	}
}

// WithChannels sets the channel count and selects its default layout.
func WithChannels(channels int) MeterOption {
	return func(cfg *MeterConfig) {
		core.WithChannels(channels)(&cfg.ProcessorConfig)
		cfg.Layout = nil
	}
}

// WithLayout sets an explicit channel layout; the channel count follows it.
func WithLayout(l Layout) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Layout = append(Layout(nil), l...)
		cfg.Channels = len(l)
	}
}

// WithFrameSize records the number of frames a host hands over per call.
// Results do not depend on it.
func WithFrameSize(frames int) MeterOption {
	return func(cfg *MeterConfig) {
		core.WithFrameSize(frames)(&cfg.ProcessorConfig)
	}
}

// WithDualMono treats a single-channel stream as identical left and right
// channels, weighting it by the given pan law in dB.
func WithDualMono(panLawDB float64) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.DualMono = true
		cfg.PanLawDB = panLawDB
	}
}

// WithPeakMode selects the peak measurements.
func WithPeakMode(m peak.Mode) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.PeakMode = m
	}
}

// WithOversampling sets the true-peak oversampling factor.
func WithOversampling(factor int) MeterOption {
	return func(cfg *MeterConfig) {
		if factor > 0 {
			cfg.Oversampling = factor
		}
	}
}

// WithOversamplerFactory replaces the true-peak oversampler.
func WithOversamplerFactory(f resample.Factory) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Oversampler = f
	}
}

// WithHistogramGrain sets the histogram resolution in buckets per LU.
func WithHistogramGrain(grain int) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.HistogramGrain = grain
	}
}

// WithWindows sets the momentary and short-term window lengths.
func WithWindows(momentary, shortTerm time.Duration) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.MomentaryWindow = momentary
		cfg.ShortTermWindow = shortTerm
	}
}

// WithRefresh registers a callback run synchronously after every block.
func WithRefresh(fn func(Event)) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Refresh = fn
	}
}

// WithFilter overrides K-weighting kernel selection.
func WithFilter(fn func(kweighting.Coefficients) (kweighting.Filter, error)) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Filter = fn
	}
}

// ApplyMeterOptions applies zero or more options to the default config.
func ApplyMeterOptions(opts ...MeterOption) MeterConfig {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
