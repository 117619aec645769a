package viz

// Constellation renders one lit pixel per non-erased carrier at
// ((re+2)*W/4, (im+2)*H/4) during a burst, or the last L_ext time-domain
// samples as an oscilloscope outside a burst.
func Constellation(pix []uint32, w, h int, symbols []complex64, erased []bool) {
	for i := range pix {
		pix[i] = Black
	}
	for i, s := range symbols {
		if i < len(erased) && erased[i] {
			continue
		}
		x := int((real(s) + 2) * float32(w) / 4)
		y := int((imag(s) + 2) * float32(h) / 4)
		setPixel(pix, w, h, x, y)
	}
}

// Oscilloscope renders the last len(samples) time-domain samples as a
// scaled waveform trace.
func Oscilloscope(pix []uint32, w, h int, samples []complex64) {
	for i := range pix {
		pix[i] = Black
	}
	if len(samples) == 0 {
		return
	}
	prevY := -1
	for i := 0; i < w; i++ {
		srcIdx := i * len(samples) / w
		v := real(samples[srcIdx])
		y := int((1 - (v+2)/4) * float32(h-1))
		if y < 0 {
			y = 0
		}
		if y > h-1 {
			y = h - 1
		}
		if prevY < 0 {
			setPixel(pix, w, h, i, y)
		} else {
			drawLine(pix, w, h, i-1, prevY, i, y)
		}
		prevY = y
	}
}
