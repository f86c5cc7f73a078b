//nolint:funcorder
package kweighting

import (
	"fmt"

	archregistry "github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// State is the per-channel filter memory: input, pre-filter output and RLB
// output, each holding the current and two prior samples.
type State struct {
	x, y, z archregistry.History
}

// Reset zeroes the filter memory.
func (s *State) Reset() {
	*s = State{}
}

// Output returns the most recent K-weighted sample.
func (s *State) Output() float64 {
	return s.z[0]
}

// Filter runs blocks of one channel through the K-weighting cascade.
// Implementations are stateless; all memory lives in the caller's State.
type Filter interface {
	Process(st *State, buf []float64)
	Name() string
}

type kernelFilter struct {
	name     string
	pre, rlb archregistry.Section
	process  archregistry.ProcessFn
}

// NewFilter returns the best kernel for the running CPU.
func NewFilter(c Coefficients) Filter {
	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil || entry.Process == nil {
		panic("kweighting: no kernel registered (missing generic fallback?)")
	}

	return newKernelFilter(c, entry)
}

// NewFilterNamed returns the kernel registered under name. It exists for
// parity tests between kernels.
func NewFilterNamed(c Coefficients, name string) (Filter, error) {
	entry := archregistry.Global.ByName(name)
	if entry == nil || entry.Process == nil {
		return nil, fmt.Errorf("kweighting: unknown kernel %q", name)
	}

	return newKernelFilter(c, entry), nil
}

// Kernels lists the names of all kernels compiled into this build.
func Kernels() []string {
	entries := archregistry.Global.ListEntries()

	names := make([]string, len(entries))
	for i := range entries {
		names[i] = entries[i].Name
	}

	return names
}

func newKernelFilter(c Coefficients, entry *archregistry.OpEntry) *kernelFilter {
	return &kernelFilter{
		name:    entry.Name,
		pre:     archregistry.Section(c.Pre),
		rlb:     archregistry.Section(c.RLB),
		process: entry.Process,
	}
}

func (f *kernelFilter) Process(st *State, buf []float64) {
	if len(buf) == 0 {
		return
	}

	f.process(f.pre, f.rlb, &st.x, &st.y, &st.z, buf)
}

func (f *kernelFilter) Name() string { return f.name }
