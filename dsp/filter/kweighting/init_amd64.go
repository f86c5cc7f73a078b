//go:build amd64 && !purego

package kweighting

import (
	_ "github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/amd64/avx2" // register AVX2 kernel
	_ "github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/generic"    // register generic kernel
)
