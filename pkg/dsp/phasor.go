package dsp

import "math"

// Phasor is a free-running complex local oscillator, advanced one sample per
// call to Next. It mirrors DSP::Phasor from the original decoder: configure
// the angular step once with Omega/OmegaHz, then call Next() once per output
// sample. The unit-magnitude rotor is periodically renormalized to keep
// repeated complex multiplication from drifting off the unit circle.
type Phasor struct {
	delta complex128
	cur   complex128
	steps int
}

// Omega sets the per-sample phase increment in radians.
func (p *Phasor) Omega(radiansPerSample float64) {
	p.delta = complex(math.Cos(radiansPerSample), math.Sin(radiansPerSample))
	p.cur = 1
	p.steps = 0
}

// OmegaHz sets the per-sample phase increment from a frequency in Hz at the
// given sample rate.
func (p *Phasor) OmegaHz(freqHz, sampleRate float64) {
	p.Omega(2 * math.Pi * freqHz / sampleRate)
}

// Next returns the current rotor value and advances the oscillator.
func (p *Phasor) Next() complex64 {
	c := p.cur
	p.cur *= p.delta
	p.steps++
	if p.steps&1023 == 0 {
		// cheap renormalization: rescale towards |cur| == 1
		mag := math.Hypot(real(p.cur), imag(p.cur))
		if mag > 0 {
			p.cur /= complex(mag, 0)
		}
	}
	return complex64(c)
}
