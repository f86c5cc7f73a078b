// Package resample provides integer-ratio oversampling for inter-sample
// (true) peak estimation, plus the rational polyphase FIR resampler behind it.
//
// Two [Oversampler] implementations are available:
//   - NewPolyphaseOversampler: streaming Kaiser-windowed polyphase FIR, the
//     default for true-peak metering
//   - NewSpectralOversampler: FFT zero-padding interpolation over overlapping
//     segments, an ideal band-limited reconstruction with a fixed look-ahead
//
// Polyphase quality/performance matrix:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
