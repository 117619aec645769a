package dsp

// BlockDC is a one-pole DC-blocking high-pass filter, matching the shape of
// the teacher's stateful per-sample filters (e.g. the AdjustmentResampler in
// xsjk-Aethernet's bytemodem.go): construct once, call Update per sample.
// The pole is parameterized by the number of samples over which the DC
// estimate should settle, exactly as the original decoder configures its
// block DC filter with `block_dc.samples(2*extended_length)`.
type BlockDC struct {
	a      float64
	x1, y1 float64
}

// SetSamples configures the settling time constant in samples.
func (b *BlockDC) SetSamples(n int) {
	if n < 1 {
		n = 1
	}
	b.a = float64(n-1) / float64(n)
}

// Update filters one real sample and returns the DC-blocked output.
func (b *BlockDC) Update(x float64) float64 {
	y := x - b.x1 + b.a*b.y1
	b.x1 = x
	b.y1 = y
	return y
}
