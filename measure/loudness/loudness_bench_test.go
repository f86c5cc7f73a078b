package loudness

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-loudness/internal/testutil"
	"github.com/cwbudde/algo-loudness/measure/peak"
)

func BenchmarkMeter_ProcessInterleaved(b *testing.B) {
	sizes := []int{64, 1024, 4800}
	channels := []int{1, 2, 6}

	for _, size := range sizes {
		for _, ch := range channels {
			b.Run(fmt.Sprintf("%dx%d", size, ch), func(b *testing.B) {
				m, err := NewMeter(WithChannels(ch))
				if err != nil {
					b.Fatal(err)
				}

				block := testutil.DeterministicNoise(1, 0.5, size*ch)
				b.SetBytes(int64(size * ch * 8))
				b.ResetTimer()

				for range b.N {
					if err := m.ProcessInterleaved(block); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkMeter_TruePeak(b *testing.B) {
	m, err := NewMeter(WithChannels(2), WithPeakMode(peak.ModeSample|peak.ModeTrue))
	if err != nil {
		b.Fatal(err)
	}

	block := testutil.DeterministicNoise(1, 0.5, 2*4800)
	b.SetBytes(int64(len(block) * 8))
	b.ResetTimer()

	for range b.N {
		if err := m.ProcessInterleaved(block); err != nil {
			b.Fatal(err)
		}
	}
}
