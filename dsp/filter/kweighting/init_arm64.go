//go:build arm64 && !purego

package kweighting

import (
	_ "github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/arm64/neon"
	_ "github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/generic"
)
