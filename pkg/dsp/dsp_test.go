package dsp

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestMLSPeriod(t *testing.T) {
	// polynomial 0b10001001 has degree 7, period 2^7-1 = 127
	m := NewMLS(0b10001001)
	first := make([]bool, 127)
	for i := range first {
		first[i] = m.Next()
	}
	for i := 0; i < 127; i++ {
		if m.Next() != first[i] {
			t.Fatalf("MLS sequence did not repeat with period 127 at index %d", i)
		}
	}
}

func TestNRZ(t *testing.T) {
	if NRZ(false) != 1 || NRZ(true) != -1 {
		t.Fatalf("unexpected NRZ mapping")
	}
}

func TestBlockDCRemovesOffset(t *testing.T) {
	var b BlockDC
	b.SetSamples(64)
	var out float64
	for i := 0; i < 20000; i++ {
		out = b.Update(1.0)
	}
	if math.Abs(out) > 1e-3 {
		t.Fatalf("expected DC offset removed, got %f", out)
	}
}

func TestTheilSenRecoversLine(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 64
	index := make([]float32, n)
	phase := make([]float32, n)
	const slope, intercept = 0.01, 0.5
	for i := range index {
		index[i] = float32(i)
		noise := (rng.Float64() - 0.5) * 1e-6
		phase[i] = float32(slope*float64(i) + intercept + noise)
	}
	var ts TheilSen
	ts.Compute(index, phase, n)
	got := ts.At(10)
	want := float32(slope*10 + intercept)
	if math.Abs(float64(got-want)) > 1e-3 {
		t.Fatalf("theil-sen fit off: got %f want %f", got, want)
	}
}

func TestBitmanRoundTrip(t *testing.T) {
	data := make([]byte, 4)
	pattern := []bool{true, false, true, true, false, false, true, false, true, true, true, false}
	for i, bit := range pattern {
		SetLEBit(data, i, bit)
	}
	for i, bit := range pattern {
		if GetLEBit(data, i) != bit {
			t.Fatalf("bit %d mismatch", i)
		}
	}
}

func TestDecibelClampsNonPositive(t *testing.T) {
	if v := Decibel(0); v > -100 {
		t.Fatalf("expected very negative dB for zero power, got %f", v)
	}
}
