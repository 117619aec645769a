package viz

import "testing"

func TestSpectrumClearsThenDrawsWithinBounds(t *testing.T) {
	pix := make([]uint32, 640*64)
	bins := make([]complex64, 640)
	for i := range bins {
		bins[i] = complex(float32(i%10), 0)
	}
	Spectrum(pix, 640, 64, bins)
	lit := 0
	for _, p := range pix {
		if p == White {
			lit++
		}
	}
	if lit == 0 {
		t.Fatalf("expected some lit pixels")
	}
}

func TestSpectrogramScrollsTopRow(t *testing.T) {
	pix := make([]uint32, 8*4)
	for x := 0; x < 8; x++ {
		pix[x] = 0xFFAAAAAA // row 0 sentinel
	}
	bins := make([]complex64, 8)
	for i := range bins {
		bins[i] = complex(1, 0)
	}
	Spectrogram(pix, 8, 4, bins)
	// The old row 0 sentinel should now be at row 1, not row 0.
	for x := 0; x < 8; x++ {
		if pix[1*8+x] != 0xFFAAAAAA {
			t.Fatalf("expected scrolled sentinel at row 1 col %d", x)
		}
		if pix[x] == 0xFFAAAAAA {
			t.Fatalf("row 0 should have been overwritten by the new top row")
		}
	}
}

func TestRainbowStaysOpaqueAcrossRange(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1} {
		c := rainbow(v)
		if c&0xFF000000 != 0xFF000000 {
			t.Fatalf("rainbow(%v) = %#x, alpha channel not opaque", v, c)
		}
	}
}

func TestPeakMeterStickyDecay(t *testing.T) {
	pix := make([]uint32, PeakMeterCells)
	m := NewPeakMeter()
	m.Update(pix, 1.0)
	if pix[PeakMeterCells-1] == Black {
		t.Fatalf("full-scale level should light the top cell")
	}
	m.Update(pix, 0.0)
	lit := false
	for _, p := range pix {
		if p != Black {
			lit = true
		}
	}
	if !lit {
		t.Fatalf("sticky peak should keep a cell lit immediately after a full-scale hit")
	}
}

func TestConstellationSkipsErasedCarriers(t *testing.T) {
	pix := make([]uint32, 64*64)
	symbols := []complex64{complex(1, 0), complex(-1, 0)}
	erased := []bool{false, true}
	Constellation(pix, 64, 64, symbols, erased)
	lit := 0
	for _, p := range pix {
		if p == White {
			lit++
		}
	}
	if lit != 1 {
		t.Fatalf("expected exactly 1 lit pixel for 1 non-erased carrier, got %d", lit)
	}
}
