package receiver

import "cofdmtv/pkg/dsp"

// ChannelMode selects how a conditioner turns an int16 PCM block into
// complex baseband samples (spec.md §4.1).
type ChannelMode int

const (
	ChannelMono ChannelMode = iota
	ChannelLeft
	ChannelRight
	ChannelSum
	ChannelIQ
)

// Conditioner converts PCM blocks into complex-analytic samples fed to the
// ring buffer: a DC-blocker plus Hilbert transformer for real channel
// modes, or direct I/Q scaling for ChannelIQ.
type Conditioner struct {
	dc      dsp.BlockDC
	hilbert *dsp.Hilbert
}

// NewConditioner builds a conditioner sized for the given extended symbol
// length (settling the DC blocker over 2*Lext samples, per spec.md §4.1).
func NewConditioner(hilbertTaps, lext int) *Conditioner {
	c := &Conditioner{hilbert: dsp.NewHilbert(hilbertTaps)}
	c.dc.SetSamples(2 * lext)
	return c
}

// Process turns one PCM block into complex samples appended to ring,
// invoking onSample (if non-nil) after each write so a caller can run
// per-sample detection logic such as the burst correlator. For ChannelIQ,
// samples must be interleaved (I,Q,I,Q,...) and len(pcm) must be even; the
// conditioner consumes one complex sample per I/Q pair. For all other
// modes, one complex sample is produced per PCM frame (mono: one int16 per
// frame; left/right/sum: two int16 per frame).
func (c *Conditioner) Process(ring *Ring, pcm []int16, mode ChannelMode, onSample func()) {
	if mode == ChannelIQ {
		for i := 0; i+1 < len(pcm); i += 2 {
			re := float32(pcm[i]) / 32768
			im := float32(pcm[i+1]) / 32768
			ring.Write(complex(re, im))
			if onSample != nil {
				onSample()
			}
		}
		return
	}

	step := 1
	if mode == ChannelLeft || mode == ChannelRight || mode == ChannelSum {
		step = 2
	}
	for i := 0; i+step-1 < len(pcm); i += step {
		var sample float32
		switch mode {
		case ChannelMono:
			sample = float32(pcm[i])
		case ChannelLeft:
			sample = float32(pcm[i])
		case ChannelRight:
			sample = float32(pcm[i+1])
		case ChannelSum:
			sample = float32(pcm[i]) + float32(pcm[i+1])
		}
		dcRemoved := c.dc.Update(float64(sample))
		ring.Write(c.hilbert.Update(dcRemoved))
		if onSample != nil {
			onSample()
		}
	}
}
