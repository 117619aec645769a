package dsp

import "math"

// Hilbert converts a stream of real samples into a complex analytic signal
// with a length-N FIR Hilbert transformer (N odd) applied to the imaginary
// branch and a matched group-delay line on the real branch, mirroring
// DSP::Hilbert used by the original decoder's `analytic()` path.
type Hilbert struct {
	taps  []float64
	delay []float64 // real branch delay line, length = center
	ring  []float64 // imaginary branch FIR history, length = len(taps)
	pos   int
}

// NewHilbert builds a Hilbert transformer of odd length n.
func NewHilbert(n int) *Hilbert {
	if n%2 == 0 {
		n++
	}
	center := n / 2
	taps := make([]float64, n)
	for i := 0; i < n; i++ {
		k := i - center
		if k == 0 || k%2 == 0 {
			taps[i] = 0
			continue
		}
		// windowed ideal Hilbert transformer coefficient, Blackman window
		ideal := 2 / (math.Pi * float64(k))
		w := 0.42 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1)) + 0.08*math.Cos(4*math.Pi*float64(i)/float64(n-1))
		taps[i] = ideal * w
	}
	return &Hilbert{
		taps:  taps,
		delay: make([]float64, center),
		ring:  make([]float64, n),
	}
}

// Update pushes one real sample and returns the analytic (real, imag) pair.
func (h *Hilbert) Update(x float64) complex64 {
	n := len(h.taps)
	h.ring[h.pos] = x
	var imag float64
	for i := 0; i < n; i++ {
		// ring[pos] holds the newest sample; taps[0] is the oldest tap
		idx := (h.pos - i + n) % n
		imag += h.taps[n-1-i] * h.ring[idx]
	}
	h.pos = (h.pos + 1) % n

	var real float64
	if len(h.delay) > 0 {
		real = h.delay[0]
		copy(h.delay, h.delay[1:])
		h.delay[len(h.delay)-1] = x
	} else {
		real = x
	}

	return complex64(complex(real, imag))
}
