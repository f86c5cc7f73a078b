package resample

import (
	"errors"
	"fmt"
)

// ErrOversampler wraps any failure of an oversampling collaborator.
var ErrOversampler = errors.New("resample: oversampler failed")

// Oversampler raises the rate of one channel by an integer factor. Process
// appends the oversampled samples for in to dst; implementations may hold
// samples back and release them on later calls or on Flush.
type Oversampler interface {
	Process(dst, in []float64) ([]float64, error)
	Flush(dst []float64) ([]float64, error)
	Factor() int
	Reset()
}

// Factory creates one Oversampler per channel.
type Factory func(factor int) (Oversampler, error)

// PolyphaseOversampler adapts a streaming Resampler to the Oversampler
// interface.
type PolyphaseOversampler struct {
	r      *Resampler
	factor int
	tail   []float64
}

// NewPolyphaseOversampler returns a factor:1 polyphase oversampler.
func NewPolyphaseOversampler(factor int, opts ...Option) (*PolyphaseOversampler, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: factor %d", ErrInvalidRatio, factor)
	}

	r, err := NewRational(factor, 1, opts...)
	if err != nil {
		return nil, err
	}

	return &PolyphaseOversampler{
		r:      r,
		factor: factor,
		tail:   make([]float64, r.maxPhaseLn),
	}, nil
}

// PolyphaseFactory returns a Factory building polyphase oversamplers with opts.
func PolyphaseFactory(opts ...Option) Factory {
	return func(factor int) (Oversampler, error) {
		return NewPolyphaseOversampler(factor, opts...)
	}
}

// Process implements Oversampler.
func (o *PolyphaseOversampler) Process(dst, in []float64) ([]float64, error) {
	return o.r.Process(dst, in), nil
}

// Flush drains the filter by feeding zeros over its length, so the last input
// samples reach the output.
func (o *PolyphaseOversampler) Flush(dst []float64) ([]float64, error) {
	return o.r.Process(dst, o.tail), nil
}

// Factor implements Oversampler.
func (o *PolyphaseOversampler) Factor() int { return o.factor }

// Reset implements Oversampler.
func (o *PolyphaseOversampler) Reset() { o.r.Reset() }
