package receiver

import (
	"math"

	"cofdmtv/pkg/dsp"
	"cofdmtv/pkg/polar"
	"cofdmtv/pkg/viz"
)

// burstState tracks the decoder's position in the IDLE -> SYNCED ->
// (N-1 data symbols) -> DONE state machine (spec.md §4.4).
type burstState int

const (
	burstIdle burstState = iota
	burstAwaitingPreamble
	burstReceivingData
)

// Decoder implements the control surface's Interface (Process, Cached,
// Fetch, Rate) for one sample rate, wiring the ring buffer, conditioner,
// correlator, preamble decoder, symbol demodulator and polar codec together
// exactly as decoder.hh's Decoder<RATE> does (spec.md §6, SPEC_FULL.md
// §5.8).
type Decoder struct {
	rate RateParams

	ring    *Ring
	cond    *Conditioner
	corr    *Correlator
	pre     *PreambleDecoder
	sym     *SymbolDemod
	codec   *polar.Codec
	peak    *viz.PeakMeter
	specFFT *dsp.FFT

	state     burstState
	refBehind int // live "steps behind head" offset of the training-guard-end reference sample
	cfoRad    float32
	mode      ModeInfo
	modeNum   int

	symbolsReceived int
	code            []float32
	lastRatios      []complex64
	lastErased      []bool

	cachedCFORad float32
	cachedMode   int
	cachedCall   uint64

	payload      []byte
	payloadReady bool

	blockPeak float32
}

// NewDecoder builds a decoder for the given sample rate, allocating all
// fixed-size buffers up front (spec.md §5 "Resource lifecycle"). Invalid
// rates return an error rather than the C++ surface's nullptr/HEAP.
func NewDecoder(r int) (*Decoder, error) {
	rate, err := NewRateParams(r)
	if err != nil {
		return nil, err
	}
	hilbertTaps := (21*r/8000)&^3 | 1
	d := &Decoder{
		rate:    rate,
		ring:    NewRing(4 * rate.LExt),
		cond:    NewConditioner(hilbertTaps, rate.LExt),
		corr:    NewCorrelator(rate),
		pre:     NewPreambleDecoder(rate),
		codec:   polar.NewCodec(),
		peak:    viz.NewPeakMeter(),
		specFFT: dsp.NewFFT(rate.LSym),
		payload: make([]byte, polar.DataBits/8),
	}
	return d, nil
}

// Rate returns the sample rate this instance was constructed with.
func (d *Decoder) Rate() int {
	return d.rate.R
}

// Process consumes one block of PCM audio (2*L_ext int16 samples for the
// real channel modes, L_ext for ChannelIQ), updates the four visualization
// buffers, and returns the per-call status (spec.md §4.4, §6, §7).
func (d *Decoder) Process(spectrum, spectrogram, constellation, peakMeter []uint32, audio []int16, channel ChannelMode) Status {
	result := StatusOkay
	d.blockPeak = 0

	d.cond.Process(d.ring, audio, channel, func() {
		s := d.ring.At(0)
		if mag := cmplxAbs(s); mag > d.blockPeak {
			d.blockPeak = mag
		}

		if d.state == burstIdle {
			if det, ok := d.corr.Feed(d.ring); ok {
				d.state = burstAwaitingPreamble
				d.refBehind = det.SymbolPos
				d.cfoRad = det.CFORad
				return
			}
		}
		if d.state == burstAwaitingPreamble {
			d.refBehind++
			if d.refBehind == d.rate.LExt+d.rate.LSym-1 {
				if st := d.tryPreamble(); st != StatusOkay {
					result = st
				}
			}
			return
		}
		if d.state == burstReceivingData {
			d.refBehind++
			target := d.refBehind - (d.symbolsReceived+2)*d.rate.LExt
			if target == d.rate.LSym-1 {
				if st := d.consumeDataSymbol(target); st != StatusOkay {
					result = st
				}
			}
		}
	})

	d.updateViz(spectrum, spectrogram, constellation, peakMeter)
	return result
}

// tryPreamble decodes the metadata symbol now that it has fully arrived,
// returning SYNC/NOPE/FAIL and (re)cacheing the decoded mode/call/CFO.
func (d *Decoder) tryPreamble() Status {
	res, ok := d.pre.Decode(d.ring, d.refBehind, d.cfoRad)
	if !ok {
		d.state = burstIdle
		return StatusFail
	}

	d.cachedCFORad = d.cfoRad
	d.cachedMode = res.Mode

	if !ValidMode(res.Mode) || res.Call == 0 || res.Call >= MaxCall {
		if res.Call >= MaxCall {
			d.cachedCall = 0
		} else {
			d.cachedCall = res.Call
		}
		d.state = burstIdle
		return StatusNope
	}

	d.cachedCall = res.Call
	d.mode = Modes[res.Mode]
	d.modeNum = res.Mode
	d.sym = NewSymbolDemod(d.rate, d.mode.Carriers, d.mode.ModBits)
	d.symbolsReceived = 0
	d.code = make([]float32, d.mode.ConsBits)
	d.state = burstReceivingData
	return StatusSync
}

// consumeDataSymbol demodulates one data symbol into the shared code
// vector, advancing the state machine and returning DONE on the last one.
func (d *Decoder) consumeDataSymbol(behind int) Status {
	out := d.code[d.mode.ModBits*d.mode.Carriers*d.symbolsReceived:]
	d.sym.Demod(d.ring, behind, d.cfoRad, out)
	d.lastRatios, d.lastErased = d.sym.LastSymbol()
	d.symbolsReceived++

	if d.symbolsReceived < d.mode.Symbols {
		return StatusOkay
	}

	d.state = burstIdle
	d.payloadReady = d.codec.Decode(d.payload, d.code, d.modeNum)
	if d.payloadReady {
		dsp.Descramble(d.payload, polar.DataBits, dsp.DescrambleSeed)
	}
	return StatusDone
}

// Cached reports the most recently successfully-parsed preamble's CFO (in
// Hz), mode and call sign, valid at any point after the first SYNC
// (spec.md §6, "cached").
func (d *Decoder) Cached() (cfoHz float32, mode int, call9 string) {
	cfoHz = d.cachedCFORad * float32(d.rate.R) / (2 * math.Pi)
	return cfoHz, d.cachedMode, EncodeCallSign(d.cachedCall)
}

// Fetch copies the most recently decoded and descrambled 43040-bit payload
// into buf, valid only immediately after a DONE result; later calls before
// the next SYNC return the same buffer again (spec.md §5 "fetch").
func (d *Decoder) Fetch(buf []byte) bool {
	if !d.payloadReady {
		return false
	}
	copy(buf, d.payload)
	return true
}

func (d *Decoder) updateViz(spectrum, spectrogram, constellation, peakMeter []uint32) {
	if d.ring.Len() >= d.rate.LSym {
		window := d.ring.Window(d.rate.LSym-1, d.rate.LSym)
		freq := make([]complex64, d.rate.LSym)
		d.specFFT.Forward(freq, window)
		viz.Spectrum(spectrum, 640, 64, freq)
		viz.Spectrogram(spectrogram, 640, 256, freq)
	}

	if d.state == burstReceivingData && d.lastRatios != nil {
		viz.Constellation(constellation, 64, 64, d.lastRatios, d.lastErased)
	} else if d.ring.Len() >= d.rate.LExt {
		viz.Oscilloscope(constellation, 64, 64, d.ring.Window(d.rate.LExt-1, d.rate.LExt))
	}

	d.peak.Update(peakMeter, clamp01f(d.blockPeak/32768))
}

func cmplxAbs(c complex64) float32 {
	return float32(math.Hypot(float64(real(c)), float64(imag(c))))
}

func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
