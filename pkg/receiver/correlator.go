package receiver

import (
	"math/cmplx"

	"cofdmtv/pkg/dsp"
)

// trainingPoly is the 127-length MLS polynomial the preamble's training
// symbol is built from (spec.md §4.2).
const trainingPoly = 0b10001001

// trainingLen is the MLS sequence length.
const trainingLen = 127

// Correlator is a Schmidl-Cox burst/timing/CFO detector: sliding
// half-symbol autocorrelation for coarse timing and CFO, refined by
// correlating the candidate symbol's spectrum against the known 127-bin
// MLS reference (schmidl_cox.hh is referenced by name in the original
// decoder but its body isn't present in the retrieval pack; this
// reconstructs the algorithm from Schmidl & Cox 1997).
type Correlator struct {
	rate      RateParams
	half      int
	threshold float64
	fft       *dsp.FFT
	refBins   []complex64 // 127-bin MLS reference, positioned around DC
}

// NewCorrelator builds a correlator for the given rate.
func NewCorrelator(rate RateParams) *Correlator {
	c := &Correlator{
		rate:      rate,
		half:      rate.LSym / 2,
		threshold: 0.4,
		fft:       dsp.NewFFT(rate.LSym),
	}
	c.refBins = buildTrainingReference(rate.LSym)
	return c
}

// buildTrainingReference places the 127-length +-1 MLS sequence into a
// length-lsym spectrum at bins [1-127, 1) relative to DC (wrapped, matching
// decoder.hh's negative-half-spectrum placement), zero elsewhere.
func buildTrainingReference(lsym int) []complex64 {
	bins := make([]complex64, lsym)
	mls := dsp.NewMLS(trainingPoly)
	for k := 0; k < trainingLen; k++ {
		bin := ((1-trainingLen+k)%lsym + lsym) % lsym
		bins[bin] = complex(dsp.NRZ(mls.Next()), 0)
	}
	return bins
}

// Detection reports a located burst.
type Detection struct {
	SymbolPos int
	CFORad    float32
}

// Feed processes one newly-written sample; ring must already contain it.
// It returns ok=true on every sample whose timing metric reaches the
// threshold, with SymbolPos = the ring offset (steps behind the current
// head) where the preamble symbol's guard ends. Feed keeps no per-burst
// state and does not suppress repeated detections of the same burst; the
// Decoder stops calling it once a burst has been detected.
func (c *Correlator) Feed(ring *Ring) (Detection, bool) {
	n := c.rate.LSym
	if ring.Len() < n {
		return Detection{}, false
	}

	window := ring.Window(n-1, n)
	var p complex128
	var r float64
	for m := 0; m < c.half; m++ {
		a := complex128(window[m])
		b := complex128(window[m+c.half])
		p += cmplx.Conj(a) * b
		r += real(b)*real(b) + imag(b)*imag(b)
	}
	if r <= 0 {
		return Detection{}, false
	}
	metric := (real(p)*real(p) + imag(p)*imag(p)) / (r * r)
	if metric < c.threshold {
		return Detection{}, false
	}

	cfo := float32(cmplx.Phase(p) / float64(c.half))
	symbolPos := c.refine(ring, n-1, cfo)

	return Detection{SymbolPos: symbolPos, CFORad: cfo}, true
}

// refine searches a small neighborhood around the coarse candidate offset
// for the position whose derotated spectrum best correlates against the
// 127-bin MLS reference, matching the original's frequency-domain
// verification step.
func (c *Correlator) refine(ring *Ring, coarse int, cfo float32) int {
	n := c.rate.LSym
	searchRadius := c.rate.LGuard / 4
	if searchRadius < 1 {
		searchRadius = 1
	}

	best, bestScore := coarse, -1.0
	freq := make([]complex64, n)
	for d := -searchRadius; d <= searchRadius; d++ {
		behind := coarse + d
		if behind < n-1 || ring.Len() < behind+1 {
			continue
		}
		samples := ring.Window(behind, n)
		derotate(samples, cfo)
		c.fft.Forward(freq, samples)

		var score float64
		for k, ref := range c.refBins {
			if ref == 0 {
				continue
			}
			score += real(complex128(freq[k]) * cmplx.Conj(complex128(ref)))
		}
		if score > bestScore {
			bestScore = score
			best = behind
		}
	}
	return best
}

func derotate(samples []complex64, cfoRad float32) {
	var ph dsp.Phasor
	ph.Omega(-float64(cfoRad))
	for i, s := range samples {
		samples[i] = s * ph.Next()
	}
}
