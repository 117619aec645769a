package receiver

import (
	"cofdmtv/pkg/bch"
	"cofdmtv/pkg/dsp"
)

// metadataPoly is the 255-length MLS mask applied over the preamble
// metadata symbol's soft bits (spec.md §4.3).
const metadataPoly = 0b100101011
const metadataLen = 255

// PreambleResult is the decoded and validated preamble metadata.
type PreambleResult struct {
	Mode int
	Call uint64
}

// PreambleDecoder demodulates the metadata OFDM symbol and recovers the
// BCH(255,71)-protected preamble word.
type PreambleDecoder struct {
	rate RateParams
	fft  *dsp.FFT
	mask []float32
	bch  *bch.Decoder
}

// NewPreambleDecoder builds a decoder for the given rate.
func NewPreambleDecoder(rate RateParams) *PreambleDecoder {
	mls := dsp.NewMLS(metadataPoly)
	mask := make([]float32, metadataLen)
	for i := range mask {
		mask[i] = dsp.NRZ(mls.Next())
	}
	return &PreambleDecoder{rate: rate, fft: dsp.NewFFT(rate.LSym), mask: mask, bch: bch.NewDecoder()}
}

// Decode de-rotates and FFTs the metadata symbol that starts LExt samples
// after symbolPos (symbolPos-LExt steps behind the ring head), extracts 255 differential-BPSK soft bits
// masked by the metadata MLS sequence, and runs BCH/OSD/CRC-16 recovery.
func (d *PreambleDecoder) Decode(ring *Ring, symbolPos int, cfoRad float32) (PreambleResult, bool) {
	n := d.rate.LSym
	behind := symbolPos - d.rate.LExt
	if behind < n-1 {
		return PreambleResult{}, false
	}
	samples := ring.Window(behind, n)
	derotate(samples, cfoRad)

	freq := make([]complex64, n)
	d.fft.Forward(freq, samples)

	bins := make([]complex64, metadataLen)
	for k := 0; k < metadataLen; k++ {
		bin := ((k-metadataLen/2)%n + n) % n
		bins[k] = freq[bin]
	}

	soft := make([]float32, metadataLen)
	var prev complex64 = 0
	for i, cur := range bins {
		ratio := demodOrErase(prev, cur)
		soft[i] = real(ratio) * d.mask[i]
		prev = cur
	}

	md, ok := d.bch.Decode(soft)
	if !ok {
		return PreambleResult{}, false
	}
	mode := int(md & 0xFF)
	call := md >> 8
	return PreambleResult{Mode: mode, Call: call}, true
}

// demodOrErase performs differential demodulation with erasure on weak or
// implausible transitions, matching decoder.hh's demod_or_erase: erase if
// the previous bin has no energy, or if the ratio's magnitude^2 exceeds 4.
func demodOrErase(prev, cur complex64) complex64 {
	pp := real(prev)*real(prev) + imag(prev)*imag(prev)
	if pp <= 0 {
		return 0
	}
	ratio := cur / prev
	rr := real(ratio)*real(ratio) + imag(ratio)*imag(ratio)
	if rr > 4 {
		return 0
	}
	return ratio
}
