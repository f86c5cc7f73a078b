package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Deinterleave copies frames [from, from+n) of the interleaved src into the
// planar dst buffers, one per channel. Each dst[ch] must hold n samples.
func Deinterleave(dst [][]float64, src []float64, from, n int) {
	channels := len(dst)
	for ch, plane := range dst {
		idx := from*channels + ch
		for i := range n {
			plane[i] = src[idx]
			idx += channels
		}
	}
}
