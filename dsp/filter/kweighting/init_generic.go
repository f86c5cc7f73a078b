//go:build (!amd64 && !arm64) || purego

package kweighting

import (
	_ "github.com/cwbudde/algo-loudness/dsp/filter/kweighting/internal/arch/generic"
)
