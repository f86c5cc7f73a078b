package kweighting

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrInvalidSampleRate is returned by Design for rates that cannot host the
// K-weighting prototypes.
var ErrInvalidSampleRate = errors.New("kweighting: invalid sample rate")

// Analog prototype parameters of the BS.1770 filters, matched to the 48 kHz
// reference coefficients published in the recommendation.
const (
	preF0     = 1681.974450955533
	preGainDB = 3.999843853973347
	preQ      = 0.7071752369554196
	preVbExp  = 0.4996667741545416

	rlbF0 = 38.13547087602444
	rlbQ  = 0.5003270373238773
)

// Stage is one direct-form I biquad:
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
//
// A[0] is always 1.
type Stage struct {
	B [3]float64
	A [3]float64
}

// Coefficients is the pre-filter/RLB pair for one sample rate.
type Coefficients struct {
	Pre Stage
	RLB Stage
}

// Design returns the K-weighting coefficients for sampleRate.
func Design(sampleRate float64) (Coefficients, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Coefficients{}, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if preF0 >= sampleRate/2 {
		return Coefficients{}, fmt.Errorf("%w: %v Hz is below the pre-filter corner", ErrInvalidSampleRate, sampleRate)
	}

	var c Coefficients

	k := math.Tan(math.Pi * preF0 / sampleRate)
	vh := math.Pow(10, preGainDB/20)
	vb := math.Pow(vh, preVbExp)
	a0 := 1 + k/preQ + k*k

	c.Pre.B = [3]float64{
		(vh + vb*k/preQ + k*k) / a0,
		2 * (k*k - vh) / a0,
		(vh - vb*k/preQ + k*k) / a0,
	}
	c.Pre.A = [3]float64{1, 2 * (k*k - 1) / a0, (1 - k/preQ + k*k) / a0}

	k = math.Tan(math.Pi * rlbF0 / sampleRate)
	a0 = 1 + k/rlbQ + k*k

	// The RLB numerator is left unnormalized; its gain is part of the -0.691
	// offset in the loudness formula.
	c.RLB.B = [3]float64{1, -2, 1}
	c.RLB.A = [3]float64{1, 2 * (k*k - 1) / a0, (1 - k/rlbQ + k*k) / a0}

	return c, nil
}

// Response computes the complex frequency response of the stage at freqHz.
func (s Stage) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(s.B[0], 0) + complex(s.B[1], 0)*ejw + complex(s.B[2], 0)*ej2w
	den := complex(1, 0) + complex(s.A[1], 0)*ejw + complex(s.A[2], 0)*ej2w

	return num / den
}

// Response computes the response of the full cascade at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	return c.Pre.Response(freqHz, sampleRate) * c.RLB.Response(freqHz, sampleRate)
}

// PowerGain returns |H(f)|^2 of the cascade.
func (c Coefficients) PowerGain(freqHz, sampleRate float64) float64 {
	h := cmplx.Abs(c.Response(freqHz, sampleRate))
	return h * h
}

// MagnitudeDB returns the cascaded magnitude response in dB.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.PowerGain(freqHz, sampleRate))
}
