package loudness

// integrator is a sliding window over block energies with the gating state of
// the measurement it feeds.
type integrator struct {
	cache  []float64
	pos    int
	sum    float64
	filled bool

	gate *gate
}

func newIntegrator(slots int, g *gate) *integrator {
	return &integrator{cache: make([]float64, slots), gate: g}
}

// push adds the energy of one block, evicting the oldest one once the window
// is full.
func (in *integrator) push(power float64) {
	if in.filled {
		in.sum -= in.cache[in.pos]
	}

	in.cache[in.pos] = power
	in.sum += power
	in.pos++

	if in.pos == len(in.cache) {
		in.pos = 0
		in.filled = true
		in.resum()
	}
}

// resum rebuilds sum from the cache once per revolution so rounding from the
// subtract/add updates cannot accumulate.
func (in *integrator) resum() {
	s := 0.0
	for _, v := range in.cache {
		s += v
	}

	in.sum = s
}

// average returns the mean energy over the window, or false until the window
// has been filled once.
func (in *integrator) average() (float64, bool) {
	if !in.filled {
		return 0, false
	}

	return in.sum / float64(len(in.cache)), true
}

func (in *integrator) reset() {
	clear(in.cache)
	in.pos = 0
	in.sum = 0
	in.filled = false
	in.gate.reset()
}
