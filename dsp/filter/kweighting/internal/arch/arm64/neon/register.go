//go:build arm64 && !purego

package neon

import (
	"github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  15,
		Process:   process,
	})
}

// process keeps the coefficients and histories in locals for the whole block.
func process(pre, rlb registry.Section, x, y, z *registry.History, buf []float64) {
	pb0, pb1, pb2 := pre.B[0], pre.B[1], pre.B[2]
	pa1, pa2 := pre.A[1], pre.A[2]
	rb0, rb1, rb2 := rlb.B[0], rlb.B[1], rlb.B[2]
	ra1, ra2 := rlb.A[1], rlb.A[2]

	x0, x1, x2 := x[0], x[1], x[2]
	y0, y1, y2 := y[0], y[1], y[2]
	z0, z1, z2 := z[0], z[1], z[2]

	for i, in := range buf {
		x2, x1, x0 = x1, x0, in
		y2, y1 = y1, y0
		y0 = pb0*x0 + pb1*x1 + pb2*x2 - pa1*y1 - pa2*y2
		z2, z1 = z1, z0
		z0 = rb0*y0 + rb1*y1 + rb2*y2 - ra1*z1 - ra2*z2
		buf[i] = z0
	}

	*x = registry.History{x0, x1, x2}
	*y = registry.History{y0, y1, y2}
	*z = registry.History{z0, z1, z2}
}
