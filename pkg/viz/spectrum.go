// Package viz renders the receiver's live pixel buffers: spectrum,
// spectrogram, constellation/oscilloscope, and peak meter, all ARGB8888
// (spec.md §4.7, decoder.hh's update_* functions).
package viz

import "cofdmtv/pkg/dsp"

const (
	White = 0xFFFFFFFF
	Black = 0xFF000000
)

// Spectrum renders a 640x64 one-pixel-wide dB plot of the current symbol's
// magnitude spectrum, linearly mapped from [-96,0] dB to y in [H-1,0].
func Spectrum(pix []uint32, w, h int, bins []complex64) {
	for i := range pix {
		pix[i] = Black
	}
	prevY := -1
	for x := 0; x < w && x < len(bins); x++ {
		power := real(bins[x])*real(bins[x]) + imag(bins[x])*imag(bins[x])
		db := dsp.Decibel(power)
		y := dbToY(db, h)
		if prevY < 0 {
			setPixel(pix, w, h, x, y)
		} else {
			drawLine(pix, w, h, x-1, prevY, x, y)
		}
		prevY = y
	}
}

func dbToY(db float32, h int) int {
	if db < -96 {
		db = -96
	}
	if db > 0 {
		db = 0
	}
	frac := (db + 96) / 96
	y := int(float32(h-1) * (1 - frac))
	if y < 0 {
		y = 0
	}
	if y > h-1 {
		y = h - 1
	}
	return y
}

func setPixel(pix []uint32, w, h, x, y int) {
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	pix[y*w+x] = White
}

func drawLine(pix []uint32, w, h, x0, y0, x1, y1 int) {
	if y0 == y1 {
		setPixel(pix, w, h, x1, y1)
		return
	}
	lo, hi := y0, y1
	if lo > hi {
		lo, hi = hi, lo
	}
	for y := lo; y <= hi; y++ {
		setPixel(pix, w, h, x1, y)
	}
}
