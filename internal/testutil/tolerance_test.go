package testutil

import "testing"

func TestRequireSliceNearlyEqualWithinTolerance(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2.0000001}, []float64{1, 2}, 1e-6)
}

func TestRequireNearlyEqualWithinTolerance(t *testing.T) {
	RequireNearlyEqual(t, "value", -23.02, -23, 0.1)
}
