package core

import (
	"errors"
	"math"
	"testing"
)

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithChannels(6), WithFrameSize(2048))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}

	if cfg.Channels != 6 {
		t.Fatalf("channels = %d, want 6", cfg.Channels)
	}

	if cfg.FrameSize != 2048 {
		t.Fatalf("frame size = %d, want 2048", cfg.FrameSize)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsBadStreams(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProcessorConfig
		want error
	}{
		{"zero rate", ApplyProcessorOptions(WithSampleRate(0)), ErrInvalidSampleRate},
		{"nan rate", ApplyProcessorOptions(WithSampleRate(math.NaN())), ErrInvalidSampleRate},
		{"no channels", ApplyProcessorOptions(WithChannels(0)), ErrInvalidChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFrameSizeIgnoresNonPositive(t *testing.T) {
	cfg := ApplyProcessorOptions(WithFrameSize(-1))
	if cfg.FrameSize != DefaultProcessorConfig().FrameSize {
		t.Fatalf("frame size = %d, want default", cfg.FrameSize)
	}
}
