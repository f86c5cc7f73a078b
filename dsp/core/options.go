package core

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSampleRate indicates a zero, negative or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("core: invalid sample rate")
	// ErrInvalidChannels indicates a channel count below one.
	ErrInvalidChannels = errors.New("core: invalid channel count")
)

// ProcessorConfig defines the stream parameters shared by all processors.
type ProcessorConfig struct {
	SampleRate float64
	Channels   int
	// FrameSize is the number of frames a host hands over per ingestion call.
	// Measurements must not depend on it.
	FrameSize int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns a 48 kHz stereo stream.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		Channels:   2,
		FrameSize:  1024,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.SampleRate = sampleRate
	}
}

// WithChannels sets the channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.Channels = channels
	}
}

// WithFrameSize sets the number of frames per ingestion call. Non-positive
// values are ignored.
func WithFrameSize(frames int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if frames > 0 {
			cfg.FrameSize = frames
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Validate reports configuration errors. Unlike the frame size, a bad sample
// rate or channel count is never silently replaced by a default.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, c.SampleRate)
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, c.Channels)
	}

	return nil
}
