package kweighting

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-loudness/internal/testutil"
)

func mustDesign(t *testing.T, fs float64) Coefficients {
	t.Helper()

	c, err := Design(fs)
	if err != nil {
		t.Fatalf("Design(%v) error = %v", fs, err)
	}

	return c
}

// referenceFilter is a literal transcription of the direct-form I recurrence.
func referenceFilter(c Coefficients, in []float64) []float64 {
	var x, y, z [3]float64

	out := make([]float64, len(in))
	for i, v := range in {
		x = [3]float64{v, x[0], x[1]}
		yn := c.Pre.B[0]*x[0] + c.Pre.B[1]*x[1] + c.Pre.B[2]*x[2] - c.Pre.A[1]*y[0] - c.Pre.A[2]*y[1]
		y = [3]float64{yn, y[0], y[1]}
		zn := c.RLB.B[0]*y[0] + c.RLB.B[1]*y[1] + c.RLB.B[2]*y[2] - c.RLB.A[1]*z[0] - c.RLB.A[2]*z[1]
		z = [3]float64{zn, z[0], z[1]}
		out[i] = zn
	}

	return out
}

func TestFilterMatchesReference(t *testing.T) {
	c := mustDesign(t, 48000)
	in := testutil.DeterministicNoise(7, 1, 1031)
	want := referenceFilter(c, in)

	for _, name := range Kernels() {
		t.Run(name, func(t *testing.T) {
			f, err := NewFilterNamed(c, name)
			if err != nil {
				t.Fatalf("NewFilterNamed() error = %v", err)
			}

			var st State

			got := append([]float64(nil), in...)
			f.Process(&st, got)
			testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
		})
	}
}

func TestKernelsBitIdentical(t *testing.T) {
	c := mustDesign(t, 44100)
	in := testutil.DeterministicNoise(11, 0.8, 4097)

	ref, err := NewFilterNamed(c, "generic")
	if err != nil {
		t.Fatalf("generic kernel missing: %v", err)
	}

	var refState State

	want := append([]float64(nil), in...)
	ref.Process(&refState, want)

	for _, name := range Kernels() {
		f, err := NewFilterNamed(c, name)
		if err != nil {
			t.Fatalf("NewFilterNamed(%q) error = %v", name, err)
		}

		var st State

		got := append([]float64(nil), in...)
		// Odd chunk sizes exercise the unrolled tails and state carry-over.
		for start := 0; start < len(got); start += 13 {
			end := min(start+13, len(got))
			f.Process(&st, got[start:end])
		}

		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("%s: sample %d = %v, want %v", name, i, got[i], want[i])
			}
		}

		if st != refState {
			t.Fatalf("%s: final state %+v, want %+v", name, st, refState)
		}
	}
}

func TestFilterRejectsDC(t *testing.T) {
	c := mustDesign(t, 48000)
	f := NewFilter(c)

	var st State

	buf := testutil.DC(1, 48000)
	f.Process(&st, buf)

	if math.Abs(buf[len(buf)-1]) > 1e-6 {
		t.Fatalf("DC not rejected: last output %v", buf[len(buf)-1])
	}

	if st.Output() != buf[len(buf)-1] {
		t.Fatalf("Output() = %v, want %v", st.Output(), buf[len(buf)-1])
	}

	st.Reset()

	if st != (State{}) {
		t.Fatalf("Reset did not clear state: %+v", st)
	}
}

func TestNewFilterNamedUnknown(t *testing.T) {
	if _, err := NewFilterNamed(mustDesign(t, 48000), "mmx"); err == nil {
		t.Fatal("expected error for unknown kernel")
	}
}

func BenchmarkFilter_Process(b *testing.B) {
	c, _ := Design(48000)
	f := NewFilter(c)
	buf := testutil.DeterministicNoise(1, 1, 4800)

	var st State

	b.SetBytes(int64(len(buf) * 8))
	b.ResetTimer()

	for range b.N {
		f.Process(&st, buf)
	}
}
