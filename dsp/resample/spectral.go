package resample

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// DefaultSpectralSize is the FFT segment length used by NewSpectralOversampler
// when size is zero.
const DefaultSpectralSize = 2048

// SpectralOversampler interpolates by zero-padding the spectrum of
// overlapping segments. Each segment of size samples contributes only its
// centre; size/8 samples on either side absorb the circular wrap-around. The
// right guard is held back as look-ahead until more input or Flush arrives.
type SpectralOversampler struct {
	factor int
	size   int
	guard  int

	plan   *algofft.Plan[complex128]
	planUp *algofft.Plan[complex128]

	pending []float64
	spec    []complex128
	specUp  []complex128
	timeUp  []complex128
}

// NewSpectralOversampler returns a factor:1 FFT oversampler using segments of
// size samples (a power of two, at least 64; zero selects DefaultSpectralSize).
func NewSpectralOversampler(factor, size int) (*SpectralOversampler, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: factor %d", ErrInvalidRatio, factor)
	}

	if size == 0 {
		size = DefaultSpectralSize
	}

	if size < 64 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: segment size %d is not a power of two >= 64", ErrOversampler, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOversampler, err)
	}

	planUp, err := algofft.NewPlan64(size * factor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOversampler, err)
	}

	o := &SpectralOversampler{
		factor: factor,
		size:   size,
		guard:  size / 8,
		plan:   plan,
		planUp: planUp,
		spec:   make([]complex128, size),
		specUp: make([]complex128, size*factor),
		timeUp: make([]complex128, size*factor),
	}
	o.Reset()

	return o, nil
}

// SpectralFactory returns a Factory building spectral oversamplers.
func SpectralFactory(size int) Factory {
	return func(factor int) (Oversampler, error) {
		return NewSpectralOversampler(factor, size)
	}
}

// Factor implements Oversampler.
func (o *SpectralOversampler) Factor() int { return o.factor }

// Reset drops pending input; the stream restarts after silence.
func (o *SpectralOversampler) Reset() {
	if cap(o.pending) < o.size {
		o.pending = make([]float64, o.guard, o.size)
	}

	o.pending = o.pending[:o.guard]
	for i := range o.pending {
		o.pending[i] = 0
	}
}

// Process implements Oversampler.
func (o *SpectralOversampler) Process(dst, in []float64) ([]float64, error) {
	core := o.size - 2*o.guard

	for len(in) > 0 {
		take := min(o.size-len(o.pending), len(in))
		o.pending = append(o.pending, in[:take]...)
		in = in[take:]

		if len(o.pending) < o.size {
			break
		}

		var err error

		dst, err = o.segment(dst, core)
		if err != nil {
			return dst, err
		}

		n := copy(o.pending, o.pending[core:])
		o.pending = o.pending[:n]
	}

	return dst, nil
}

// Flush emits the held-back look-ahead, treating the stream as followed by
// silence.
func (o *SpectralOversampler) Flush(dst []float64) ([]float64, error) {
	remaining := len(o.pending) - o.guard
	if remaining <= 0 {
		return dst, nil
	}

	for len(o.pending) < o.size {
		o.pending = append(o.pending, 0)
	}

	dst, err := o.segment(dst, remaining)
	o.Reset()

	return dst, err
}

// segment interpolates the full pending window and appends the oversampled
// samples of n input positions starting after the left guard.
func (o *SpectralOversampler) segment(dst []float64, n int) ([]float64, error) {
	for i, v := range o.pending[:o.size] {
		o.spec[i] = complex(v, 0)
	}

	if err := o.plan.Forward(o.spec, o.spec); err != nil {
		return dst, fmt.Errorf("%w: forward FFT: %w", ErrOversampler, err)
	}

	for i := range o.specUp {
		o.specUp[i] = 0
	}

	half := o.size / 2
	upSize := o.size * o.factor

	copy(o.specUp[:half], o.spec[:half])
	copy(o.specUp[upSize-half+1:], o.spec[half+1:])

	// The Nyquist bin is shared between the positive and negative halves.
	nyq := o.spec[half] / 2
	o.specUp[half] += nyq
	o.specUp[upSize-half] += nyq

	if err := o.planUp.Inverse(o.timeUp, o.specUp); err != nil {
		return dst, fmt.Errorf("%w: inverse FFT: %w", ErrOversampler, err)
	}

	gain := float64(o.factor)
	start := o.guard * o.factor
	end := (o.guard + n) * o.factor

	for _, v := range o.timeUp[start:end] {
		dst = append(dst, real(v)*gain)
	}

	return dst, nil
}
