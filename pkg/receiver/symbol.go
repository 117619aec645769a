package receiver

import (
	"math"
	"math/cmplx"

	"cofdmtv/pkg/dsp"
	"cofdmtv/pkg/psk"
)

// SymbolDemod demodulates the burst's data OFDM symbols: differential
// demapping against the previous symbol, Theil-Sen phase-slope
// compensation, noise-based precision estimation, and PSK soft-demapping
// (spec.md §4.4).
type SymbolDemod struct {
	rate     RateParams
	carriers int
	modBits  int
	fft      *dsp.FFT
	cnst     *psk.Constellation
	prev     []complex64
	ts       dsp.TheilSen

	lastRatios []complex64
	lastErased []bool
}

// NewSymbolDemod builds a demodulator for the burst's mode.
func NewSymbolDemod(rate RateParams, carriers, modBits int) *SymbolDemod {
	return &SymbolDemod{
		rate:     rate,
		carriers: carriers,
		modBits:  modBits,
		fft:      dsp.NewFFT(rate.LSym),
		cnst:       psk.New(modBits),
		prev:       make([]complex64, carriers),
		lastRatios: make([]complex64, carriers),
		lastErased: make([]bool, carriers),
	}
}

// LastSymbol returns the phase-slope-compensated differential ratios and
// erasure flags from the most recent call to Demod, for the constellation
// visualization buffer (spec.md §4.7).
func (s *SymbolDemod) LastSymbol() ([]complex64, []bool) {
	return s.lastRatios, s.lastErased
}

// Reset clears the previous-symbol reference. The Decoder does not call it:
// it builds a fresh SymbolDemod for every detected burst.
func (s *SymbolDemod) Reset() {
	for i := range s.prev {
		s.prev[i] = 0
	}
}

// Demod processes the data symbol whose first sample lies behind steps
// behind the ring head and writes modBits*carriers soft bits into out,
// starting at out[0].
func (s *SymbolDemod) Demod(ring *Ring, behind int, cfoRad float32, out []float32) {
	n := s.rate.LSym
	samples := ring.Window(behind, n)
	derotate(samples, cfoRad)

	freq := make([]complex64, n)
	s.fft.Forward(freq, samples)

	offset := -s.carriers / 2
	bins := make([]complex64, s.carriers)
	for i := 0; i < s.carriers; i++ {
		bin := ((offset+i)%n + n) % n
		bins[i] = freq[bin]
	}

	ratio := make([]complex64, s.carriers)
	var errPow, hardPow float64
	idx := make([]float32, 0, s.carriers)
	phase := make([]float32, 0, s.carriers)
	hard := make([]float32, s.modBits)
	for i := 0; i < s.carriers; i++ {
		r := demodOrErase(s.prev[i], bins[i])
		ratio[i] = r
		if r == 0 {
			continue
		}
		s.cnst.Hard(hard, r)
		ideal := s.cnst.Map(hard)
		idx = append(idx, float32(i))
		phase = append(phase, float32(cmplx.Phase(complex128(r)*cmplx.Conj(complex128(ideal)))))
	}

	s.ts.Compute(idx, phase, len(idx))
	for i := 0; i < s.carriers; i++ {
		theta := float64(s.ts.At(float32(i)))
		rot := complex(math.Cos(-theta), math.Sin(-theta))
		ratio[i] = complex64(complex128(ratio[i]) * rot)
	}

	for i := 0; i < s.carriers; i++ {
		if ratio[i] == 0 {
			continue
		}
		s.cnst.Hard(hard, ratio[i])
		ideal := s.cnst.Map(hard)
		dr := float64(real(ratio[i]) - real(ideal))
		di := float64(imag(ratio[i]) - imag(ideal))
		errPow += dr*dr + di*di
		hardPow += float64(real(ideal))*float64(real(ideal)) + float64(imag(ideal))*float64(imag(ideal))
	}
	precision := float32(1)
	if hardPow > 0 && errPow > 0 {
		precision = float32(1 / (errPow / (2 * hardPow)))
	}

	soft := make([]float32, s.modBits)
	for i := 0; i < s.carriers; i++ {
		s.cnst.Soft(soft, ratio[i], precision)
		copy(out[i*s.modBits:], soft)
		s.prev[i] = bins[i]
		s.lastRatios[i] = ratio[i]
		s.lastErased[i] = ratio[i] == 0
	}
}
