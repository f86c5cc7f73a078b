package core

import "math"

// LoudnessOffset is the BS.1770 constant in L = -0.691 + 10*log10(E).
const LoudnessOffset = -0.691

// ClampInt limits value to the inclusive range [lo, hi].
func ClampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// DBPowerToLinear converts dB to linear power (10*log10 convention).
func DBPowerToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// EnergyToLUFS converts a weighted mean-square energy to loudness in LUFS.
// Zero energy maps to -Inf.
func EnergyToLUFS(energy float64) float64 {
	return LoudnessOffset + LinearPowerToDB(energy)
}

// LUFSToEnergy is the inverse of EnergyToLUFS.
func LUFSToEnergy(lufs float64) float64 {
	return DBPowerToLinear(lufs - LoudnessOffset)
}
