package peak

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-loudness/dsp/resample"
	"github.com/cwbudde/algo-loudness/internal/testutil"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeNone, "none"},
		{ModeSample, "sample"},
		{ModeTrue, "true"},
		{ModeSample | ModeTrue, "sample+true"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}

	if ModeSample.Has(ModeNone) {
		t.Error("Has(ModeNone) must be false")
	}
}

func TestNewRejectsNoChannels(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero channels")
	}
}

func TestSamplePeaks(t *testing.T) {
	d, err := New(2)
	if err != nil {
		t.Fatal(err)
	}

	d.Process(0, []float64{0.5, -0.8, 0.2})
	d.Process(1, []float64{0.1})
	d.Process(0, []float64{0.3})

	testutil.RequireSliceNearlyEqual(t, d.SamplePeaks(), []float64{0.8, 0.1}, 0)

	if v, ok := d.SamplePeak(); !ok || v != 0.8 {
		t.Fatalf("SamplePeak = %v, %v; want 0.8, true", v, ok)
	}

	if d.TruePeaks() != nil {
		t.Fatal("true peaks reported without ModeTrue")
	}

	if _, ok := d.TruePeak(); ok {
		t.Fatal("global true peak reported without ModeTrue")
	}
}

func TestPeaksAreCopies(t *testing.T) {
	d, err := New(1)
	if err != nil {
		t.Fatal(err)
	}

	d.Process(0, []float64{0.25})
	d.SamplePeaks()[0] = 7

	if v, _ := d.SamplePeak(); v != 0.25 {
		t.Fatalf("caller mutation leaked into detector: %v", v)
	}
}

func TestFactorOneMatchesSamplePeak(t *testing.T) {
	d, err := New(1, WithMode(ModeSample|ModeTrue), WithOversampling(1))
	if err != nil {
		t.Fatal(err)
	}

	sig := testutil.DeterministicNoise(3, 0.9, 4096)
	d.Process(0, sig[:1000])
	d.Process(0, sig[1000:])
	d.Flush()

	sp, _ := d.SamplePeak()

	tp, ok := d.TruePeak()
	if !ok {
		t.Fatal("true peak not reported")
	}

	if sp != tp {
		t.Fatalf("factor 1: true peak %v != sample peak %v", tp, sp)
	}
}

func TestTruePeakFindsInterSamplePeak(t *testing.T) {
	// A quarter-rate sine sampled 45 degrees off its crest never shows its
	// peak in the samples.
	sig := testutil.PhasedSine(12000, 48000, 1, math.Pi/4, 4800)

	for _, tc := range []struct {
		name    string
		factory resample.Factory
	}{
		{"polyphase", resample.PolyphaseFactory()},
		{"spectral", resample.SpectralFactory(1024)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, err := New(1, WithMode(ModeSample|ModeTrue), WithOversamplerFactory(tc.factory))
			if err != nil {
				t.Fatal(err)
			}

			for _, blk := range testutil.Chunk(sig, 480) {
				d.Process(0, blk)
			}

			d.Flush()

			sp, _ := d.SamplePeak()
			tp, _ := d.TruePeak()

			if math.Abs(sp-math.Sqrt2/2) > 1e-9 {
				t.Fatalf("sample peak = %v, want %v", sp, math.Sqrt2/2)
			}

			if tp < sp {
				t.Fatalf("true peak %v below sample peak %v", tp, sp)
			}

			if tp < 0.95 {
				t.Fatalf("true peak = %v, want close to 1", tp)
			}
		})
	}
}

func TestFailingFactoryDisablesTruePeakOnly(t *testing.T) {
	boom := errors.New("boom")
	factory := func(int) (resample.Oversampler, error) { return nil, boom }

	d, err := New(2, WithMode(ModeSample|ModeTrue), WithOversamplerFactory(factory))
	if err != nil {
		t.Fatalf("construction must not fail: %v", err)
	}

	if !errors.Is(d.Err(), resample.ErrOversampler) || !errors.Is(d.Err(), boom) {
		t.Fatalf("Err = %v, want wrapped ErrOversampler and cause", d.Err())
	}

	d.Process(0, []float64{0.5})
	d.Process(1, []float64{-0.25})
	d.Flush()

	if d.TruePeaks() != nil || d.FramePeaks() != nil {
		t.Fatal("true peaks reported after failure")
	}

	if v, ok := d.SamplePeak(); !ok || v != 0.5 {
		t.Fatalf("SamplePeak = %v, %v; want 0.5, true", v, ok)
	}

	d.Reset()

	if d.Err() == nil {
		t.Fatal("construction failure must survive Reset")
	}
}

type failingOversampler struct{ calls int }

func (f *failingOversampler) Process(dst, in []float64) ([]float64, error) {
	f.calls++
	if f.calls > 1 {
		return dst, errors.New("segment failed")
	}

	return append(dst, in...), nil
}

func (f *failingOversampler) Flush(dst []float64) ([]float64, error) { return dst, nil }
func (f *failingOversampler) Factor() int                            { return 4 }
func (f *failingOversampler) Reset()                                 { f.calls = 0 }

func TestProcessingFailureDisablesTruePeak(t *testing.T) {
	factory := func(int) (resample.Oversampler, error) { return &failingOversampler{}, nil }

	d, err := New(1, WithMode(ModeSample|ModeTrue), WithOversamplerFactory(factory))
	if err != nil {
		t.Fatal(err)
	}

	d.Process(0, []float64{0.5})

	if !d.TrueEnabled() {
		t.Fatal("true peak disabled too early")
	}

	d.Process(0, []float64{0.9})

	if d.TrueEnabled() || !errors.Is(d.Err(), resample.ErrOversampler) {
		t.Fatalf("expected true peak disabled, Err = %v", d.Err())
	}

	if v, _ := d.SamplePeak(); v != 0.9 {
		t.Fatalf("sample peak = %v, want 0.9", v)
	}

	d.Reset()

	if !d.TrueEnabled() {
		t.Fatal("Reset should clear a processing failure")
	}
}

func TestFramePeaks(t *testing.T) {
	d, err := New(1, WithMode(ModeTrue), WithOversampling(1))
	if err != nil {
		t.Fatal(err)
	}

	d.Process(0, []float64{0.9})
	testutil.RequireSliceNearlyEqual(t, d.FramePeaks(), []float64{0.9}, 0)

	d.StartFrame()
	d.Process(0, []float64{0.4})
	testutil.RequireSliceNearlyEqual(t, d.FramePeaks(), []float64{0.4}, 0)
	testutil.RequireSliceNearlyEqual(t, d.TruePeaks(), []float64{0.9}, 0)

	if d.SamplePeaks() != nil {
		t.Fatal("sample peaks reported without ModeSample")
	}
}

func TestReset(t *testing.T) {
	d, err := New(1, WithMode(ModeSample|ModeTrue))
	if err != nil {
		t.Fatal(err)
	}

	d.Process(0, testutil.DeterministicNoise(1, 0.7, 2048))
	d.Reset()

	if v, _ := d.SamplePeak(); v != 0 {
		t.Fatalf("sample peak after Reset = %v", v)
	}

	if v, _ := d.TruePeak(); v != 0 {
		t.Fatalf("true peak after Reset = %v", v)
	}
}

func BenchmarkDetectorTrue(b *testing.B) {
	d, err := New(2, WithMode(ModeSample|ModeTrue))
	if err != nil {
		b.Fatal(err)
	}

	block := testutil.DeterministicNoise(1, 0.5, 4800)
	b.SetBytes(int64(len(block) * 2 * 8))
	b.ResetTimer()

	for range b.N {
		d.Process(0, block)
		d.Process(1, block)
	}
}
