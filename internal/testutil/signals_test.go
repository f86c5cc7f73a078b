package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}

	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}

	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestPhasedSine(t *testing.T) {
	s := PhasedSine(12000, 48000, 1, math.Pi/4, 8)
	for i, v := range s {
		if math.Abs(math.Abs(v)-math.Sqrt2/2) > 1e-12 {
			t.Fatalf("s[%d] = %v, want +-0.7071", i, v)
		}
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}

	c := DeterministicNoise(43, 1.0, 64)
	if a[0] == c[0] && a[1] == c[1] {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestInterleave(t *testing.T) {
	got := Interleave([]float64{1, 2, 3}, []float64{-1, -2, -3})
	want := []float64{1, -1, 2, -2, 3, -3}
	RequireSliceNearlyEqual(t, got, want, 0)
}

func TestConcatAndChunk(t *testing.T) {
	data := Concat(DC(1, 3), DC(2, 4))
	if len(data) != 7 || data[2] != 1 || data[3] != 2 {
		t.Fatalf("Concat = %v", data)
	}

	chunks := Chunk(data, 3)
	if len(chunks) != 3 || len(chunks[2]) != 1 {
		t.Fatalf("Chunk sizes = %d chunks, last %d", len(chunks), len(chunks[len(chunks)-1]))
	}
}
