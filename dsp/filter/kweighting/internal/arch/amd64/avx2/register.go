//go:build amd64 && !purego

package avx2

import (
	"github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "avx2",
		SIMDLevel: cpu.SIMDAVX2,
		Priority:  20,
		Process:   process,
	})
}

// process is a 2x-unrolled register-resident kernel selected for AVX2-capable
// CPUs. The operation order matches the generic kernel exactly, so both produce
// identical output.
// TODO: replace with an asm kernel that runs four channels per lane group.
func process(pre, rlb registry.Section, x, y, z *registry.History, buf []float64) {
	pb0, pb1, pb2 := pre.B[0], pre.B[1], pre.B[2]
	pa1, pa2 := pre.A[1], pre.A[2]
	rb0, rb1, rb2 := rlb.B[0], rlb.B[1], rlb.B[2]
	ra1, ra2 := rlb.A[1], rlb.A[2]

	x0, x1, x2 := x[0], x[1], x[2]
	y0, y1, y2 := y[0], y[1], y[2]
	z0, z1, z2 := z[0], z[1], z[2]

	i := 0
	n := len(buf)

	for ; i+1 < n; i += 2 {
		x2, x1, x0 = x1, x0, buf[i]
		y2, y1 = y1, y0
		y0 = pb0*x0 + pb1*x1 + pb2*x2 - pa1*y1 - pa2*y2
		z2, z1 = z1, z0
		z0 = rb0*y0 + rb1*y1 + rb2*y2 - ra1*z1 - ra2*z2
		buf[i] = z0

		x2, x1, x0 = x1, x0, buf[i+1]
		y2, y1 = y1, y0
		y0 = pb0*x0 + pb1*x1 + pb2*x2 - pa1*y1 - pa2*y2
		z2, z1 = z1, z0
		z0 = rb0*y0 + rb1*y1 + rb2*y2 - ra1*z1 - ra2*z2
		buf[i+1] = z0
	}

	if i < n {
		x2, x1, x0 = x1, x0, buf[i]
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
