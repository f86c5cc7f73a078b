//go:build amd64 && !purego

package kweighting

import (
	"testing"

	archregistry "github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func TestDispatch_AMD64Modes(t *testing.T) {
	tests := []struct {
		name     string
		features cpu.Features
		wantImpl string
	}{
		{
			name:     "generic-forced",
			features: cpu.Features{ForceGeneric: true, Architecture: "amd64"},
			wantImpl: "generic",
		},
		{
			name:     "sse2-only",
			features: cpu.Features{HasSSE2: true, Architecture: "amd64"},
			wantImpl: "generic",
		},
		{
			name:     "avx2",
			features: cpu.Features{HasSSE2: true, HasAVX2: true, Architecture: "amd64"},
			wantImpl: "avx2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu.SetForcedFeatures(tt.features)

			defer cpu.ResetDetection()

			entry := archregistry.Global.Lookup(cpu.DetectFeatures())
			if entry == nil {
				t.Fatal("Lookup returned nil")
			}

			if entry.Name != tt.wantImpl {
				t.Fatalf("expected %q, got %q", tt.wantImpl, entry.Name)
			}

			f := NewFilter(mustDesign(t, 48000))
			if f.Name() != tt.wantImpl {
				t.Fatalf("NewFilter picked %q, want %q", f.Name(), tt.wantImpl)
			}
		})
	}
}
