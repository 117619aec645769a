// Package dsp collects the small signal-processing primitives the receiver
// pipeline shares across stages: FFT, DC blocking, the Hilbert analytic
// filter, a free-running local oscillator, decibel conversion and the
// Theil-Sen slope estimator used for phase-slope compensation.
package dsp

import "gonum.org/v1/gonum/dsp/fourier"

// FFT performs forward complex-to-complex transforms of a fixed size N,
// the way the receiver needs once per OFDM symbol. It wraps gonum's
// arbitrary-length complex FFT so symbol lengths that aren't powers of two
// (e.g. 1280*44100/8000 = 7056) still work.
type FFT struct {
	n    int
	plan *fourier.CmplxFFT
	in   []complex128
}

// NewFFT builds a forward-transform plan for vectors of length n.
func NewFFT(n int) *FFT {
	return &FFT{n: n, plan: fourier.NewCmplxFFT(n), in: make([]complex128, n)}
}

// N returns the transform length.
func (f *FFT) N() int { return f.n }

// Forward computes the unnormalized forward DFT of time (length N, complex64)
// into freq (length N, complex64). time and freq may not alias.
func (f *FFT) Forward(freq, time []complex64) {
	for i, v := range time {
		f.in[i] = complex(float64(real(v)), float64(imag(v)))
	}
	out := f.plan.Coefficients(nil, f.in)
	for i, v := range out {
		freq[i] = complex64(v)
	}
}
