package generic

import (
	"github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Process:   process,
	})
}

func process(pre, rlb registry.Section, x, y, z *registry.History, buf []float64) {
	for i, in := range buf {
		x[2], x[1], x[0] = x[1], x[0], in

		y[2], y[1] = y[1], y[0]
		y[0] = pre.B[0]*x[0] + pre.B[1]*x[1] + pre.B[2]*x[2] - pre.A[1]*y[1] - pre.A[2]*y[2]

		z[2], z[1] = z[1], z[0]
		z[0] = rlb.B[0]*y[0] + rlb.B[1]*y[1] + rlb.B[2]*y[2] - rlb.A[1]*z[1] - rlb.A[2]*z[2]

		buf[i] = z[0]
	}
}
