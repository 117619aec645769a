package receiver

import "fmt"

// SupportedRates are the sample rates the wire format defines symbol
// lengths for (spec.md §5).
var SupportedRates = []int{8000, 16000, 32000, 44100, 48000}

// RateParams holds the OFDM symbol geometry for a given sample rate.
type RateParams struct {
	R      int
	LSym   int
	LGuard int
	LExt   int
}

// NewRateParams validates R and derives L_sym, L_guard, L_ext.
func NewRateParams(r int) (RateParams, error) {
	valid := false
	for _, v := range SupportedRates {
		if v == r {
			valid = true
			break
		}
	}
	if !valid {
		return RateParams{}, fmt.Errorf("receiver: unsupported sample rate %d", r)
	}
	lsym := 1280 * r / 8000
	return RateParams{
		R:      r,
		LSym:   lsym,
		LGuard: lsym / 8,
		LExt:   9 * lsym / 8,
	}, nil
}
