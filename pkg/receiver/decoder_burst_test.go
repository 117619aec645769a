package receiver

import (
	"testing"

	"cofdmtv/pkg/crc"
	"cofdmtv/pkg/dsp"
	"cofdmtv/pkg/polar"
	"cofdmtv/pkg/psk"
)

// buildBurstCodeword CRC-32-protects a payload, places it (plus its CRC) at
// the mother code's first CRCBits unfrozen positions, and runs the same
// two-pass systematic encode decoder.hh's Polar::encode uses, matching
// polar.go's own systematic() read-out convention.
func buildBurstCodeword(table *polar.Table, payload []byte) []bool {
	bits := make([]bool, polar.CRCBits)
	for i := 0; i < polar.DataBits; i++ {
		bits[i] = dsp.GetLEBit(payload, i)
	}
	e := crc.New(32, 0xD419CC15, 0)
	for i := 0; i < polar.DataBits; i++ {
		e.UpdateBit(bits[i])
	}
	e.UpdateBits(0, 32)
	r := e.Sum()
	for k := 0; k < 32; k++ {
		bits[polar.DataBits+k] = (r>>uint(31-k))&1 != 0
	}

	d := make([]bool, polar.N)
	bi := 0
	for i := 0; i < polar.N && bi < len(bits); i++ {
		if !table.Frozen[i] {
			d[i] = bits[bi]
			bi++
		}
	}
	x1 := polar.Encode(d)
	xFinal := append([]bool(nil), x1...)
	for i, frozen := range table.Frozen {
		if frozen {
			xFinal[i] = false
		}
	}
	return polar.Encode(xFinal)
}

// buildChannelBits extracts the ConsBits actually-transmitted bit sequence
// from a mother codeword, mirroring lengthen's own frozen/shortened walk in
// reverse so the result lines up with what the real OFDM carriers would
// send over the wire (polar.go's lengthen, read independently here).
func buildChannelBits(table *polar.Table, xFinal []bool) []bool {
	bits := make([]bool, table.ConsBits)
	j := len(bits) - 1
	k := table.MesgBits - 1
	for i := polar.N - 1; i >= 0; i-- {
		unfrozen := !table.Frozen[i]
		shortened := false
		if unfrozen {
			shortened = k >= polar.CRCBits
			k--
		}
		if table.Frozen[i] || !shortened {
			if j >= 0 {
				bits[j] = xFinal[i]
				j--
			}
		}
	}
	return bits
}

// normalizeToPCM scales a block of complex samples so its peak magnitude
// lands at peakTarget, then interleaves it into int16 I/Q pairs for
// ChannelIQ (keeping quantization noise a small, fixed fraction of the
// signal regardless of the raw IDFT amplitude).
func normalizeToPCM(samples []complex64, peakTarget float32) []int16 {
	var peak float32
	for _, s := range samples {
		if mag := cmplxAbs(s); mag > peak {
			peak = mag
		}
	}
	var scale float32
	if peak > 0 {
		scale = peakTarget / peak
	}
	pcm := make([]int16, 2*len(samples))
	for i, s := range samples {
		pcm[2*i] = clampInt16(real(s) * scale)
		pcm[2*i+1] = clampInt16(imag(s) * scale)
	}
	return pcm
}

func clampInt16(v float32) int16 {
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(v)
}

// TestDecoderFullBurstStatusSequence drives Decoder.Process through a
// complete synthetic mode-10 burst built from the real BCH+polar encode
// path (preamble_test.go's buildPreambleSymbol plus buildBurstCodeword
// above), independently of preamble.go's own bin-offset/bit-order formulas,
// and checks the SYNC,OKAY*(N-1),DONE status sequence
// (spec.md §8) plus the cached mode/call/CFO.
//
// The Schmidl-Cox coarse correlator is bypassed by setting the decoder's
// state directly: its half-symbol periodicity requirement is a separate,
// unrelated concern from the preamble/BCH conventions under review here.
// The per-sample state machine from burstAwaitingPreamble onward runs for
// real.
//
// Because SymbolDemod differentially decodes each carrier against the
// previous symbol and starts with an all-zero reference, the first data
// symbol of every burst carries no recoverable information (demodOrErase
// always erases against a zero previous bin); this test's data symbols are
// built to respect that convention (symbol 0 is a pure differential
// reference, real payload only appears from symbol 1 on). This test asserts
// the deterministic status sequence rather than an exact Fetch() payload
// match.
func TestDecoderFullBurstStatusSequence(t *testing.T) {
	rate, err := NewRateParams(8000)
	if err != nil {
		t.Fatalf("NewRateParams: %v", err)
	}
	const wantMode = 10
	const wantCall = 987654321
	modeInfo := Modes[wantMode]

	payload := make([]byte, polar.DataBits/8)
	state := uint32(0x9e3779b9)
	for i := range payload {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		payload[i] = byte(state)
	}
	xFinal := buildBurstCodeword(modeInfo.Table, payload)
	wireBits := buildChannelBits(modeInfo.Table, xFinal)

	dec, err := NewDecoder(rate.R)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	spectrum := make([]uint32, 640*64)
	spectrogram := make([]uint32, 640*256)
	constellation := make([]uint32, 64*64)
	peakMeter := make([]uint32, 16)

	// Jump straight to "training sequence just detected" rather than
	// relying on Correlator.Feed's coarse autocorrelation check.
	dec.state = burstAwaitingPreamble
	dec.refBehind = -1
	dec.cfoRad = 0

	preambleSamples := buildPreambleSymbol(rate, wantMode, wantCall)
	preambleBlock := make([]complex64, rate.LExt+rate.LSym)
	copy(preambleBlock[rate.LExt:], preambleSamples)
	pcm := normalizeToPCM(preambleBlock, 20000)
	if st := dec.Process(spectrum, spectrogram, constellation, peakMeter, pcm, ChannelIQ); st != StatusSync {
		t.Fatalf("Process(preamble) = %v, want SYNC", st)
	}

	cfo, mode, call := dec.Cached()
	if mode != wantMode {
		t.Fatalf("Cached mode = %d, want %d", mode, wantMode)
	}
	if call != EncodeCallSign(wantCall) {
		t.Fatalf("Cached call = %q, want %q", call, EncodeCallSign(wantCall))
	}
	if cfo != 0 {
		t.Fatalf("Cached cfo = %v, want 0", cfo)
	}

	cnst := psk.New(modeInfo.ModBits)
	prev := make([]complex64, modeInfo.Carriers)
	offset := -modeInfo.Carriers / 2
	for s := 0; s < modeInfo.Symbols; s++ {
		freq := make([]complex128, rate.LSym)
		for c := 0; c < modeInfo.Carriers; c++ {
			var point complex64 = 1
			if s > 0 {
				pattern := 0
				base := s*modeInfo.Carriers*modeInfo.ModBits + c*modeInfo.ModBits
				for b := 0; b < modeInfo.ModBits; b++ {
					pattern <<= 1
					if wireBits[base+b] {
						pattern |= 1
					}
				}
				point = cnst.Points[pattern] * prev[c]
			}
			prev[c] = point
			bin := ((offset+c)%rate.LSym + rate.LSym) % rate.LSym
			freq[bin] = complex(float64(real(point)), float64(imag(point)))
		}
		content := bruteIDFT(freq, rate.LSym)
		block := make([]complex64, rate.LExt)
		copy(block[rate.LExt-rate.LSym:], content)
		pcm := normalizeToPCM(block, 20000)

		st := dec.Process(spectrum, spectrogram, constellation, peakMeter, pcm, ChannelIQ)
		if s < modeInfo.Symbols-1 {
			if st != StatusOkay {
				t.Fatalf("symbol %d: Process = %v, want OKAY", s, st)
			}
		} else if st != StatusDone {
			t.Fatalf("final symbol: Process = %v, want DONE", st)
		}
	}
}
