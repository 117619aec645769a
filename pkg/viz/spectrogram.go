package viz

import "math"

// Spectrogram scrolls a 640x256 waterfall buffer down one row and draws the
// new row at the top by mapping normalized dB through the rainbow palette.
func Spectrogram(pix []uint32, w, h int, bins []complex64) {
	copy(pix[w:], pix[:(h-1)*w])
	for x := 0; x < w && x < len(bins); x++ {
		power := float64(real(bins[x]))*float64(real(bins[x])) + float64(imag(bins[x]))*float64(imag(bins[x]))
		db := powerToDB(power)
		if db < -96 {
			db = -96
		}
		if db > 0 {
			db = 0
		}
		v := (db + 96) / 96
		pix[x] = rainbow(v)
	}
}

func powerToDB(p float64) float64 {
	if p <= 0 {
		p = 1e-12
	}
	return 10 * math.Log10(p)
}

// rainbow implements the fixed palette (r=4v-2, g=1-|4v-2|, b=-(4v-2)) with
// gamma=0.5 applied per colour channel. Alpha is always 0xFF; no a=4v alpha
// ramp is applied.
func rainbow(v float64) uint32 {
	r := gamma(clamp01(4*v - 2))
	g := gamma(clamp01(1 - absf(4*v-2)))
	b := gamma(clamp01(-(4*v - 2)))
	return 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func gamma(v float64) uint8 {
	return uint8(math.Sqrt(v) * 255)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
