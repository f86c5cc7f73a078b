package loudness

import (
	"errors"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

var (
	// ErrInvalidSampleRate reports a sample rate the meter cannot run at.
	ErrInvalidSampleRate = core.ErrInvalidSampleRate
	// ErrUnknownLayout reports a channel count or layout without a weighting.
	ErrUnknownLayout = errors.New("loudness: unknown channel layout")
	// ErrInvalidWindow reports a window that is not a positive multiple of
	// the 100 ms block.
	ErrInvalidWindow = errors.New("loudness: invalid window")
	// ErrInvalidGrain reports a histogram resolution below one bucket per LU.
	ErrInvalidGrain = errors.New("loudness: invalid histogram grain")
	// ErrChannelMismatch reports input whose shape does not match the
	// configured channel count.
	ErrChannelMismatch = errors.New("loudness: channel mismatch")
	// ErrClosed reports use of a meter after Close.
	ErrClosed = errors.New("loudness: meter closed")
	// ErrUninitialized reports use of a Meter not built by NewMeter.
	ErrUninitialized = errors.New("loudness: meter not initialized")
)
