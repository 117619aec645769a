package receiver

import "testing"

func TestRateParamsForEverySupportedRate(t *testing.T) {
	for _, r := range SupportedRates {
		p, err := NewRateParams(r)
		if err != nil {
			t.Fatalf("NewRateParams(%d) error: %v", r, err)
		}
		if p.LSym != 1280*r/8000 {
			t.Fatalf("rate %d: LSym = %d, want %d", r, p.LSym, 1280*r/8000)
		}
		if p.LGuard != p.LSym/8 {
			t.Fatalf("rate %d: LGuard = %d, want %d", r, p.LGuard, p.LSym/8)
		}
		if p.LExt != p.LSym+p.LGuard {
			t.Fatalf("rate %d: LExt = %d, want %d", r, p.LExt, p.LSym+p.LGuard)
		}
	}
}

func TestRateParamsRejectsUnsupportedRate(t *testing.T) {
	if _, err := NewRateParams(11025); err == nil {
		t.Fatalf("expected error for unsupported rate 11025")
	}
}
