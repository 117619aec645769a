package dsp

import "sort"

// TheilSen estimates a robust linear fit y = slope*x + intercept from paired
// samples using the median of all pairwise slopes, the same "robust slope
// from paired observations" shape as the teacher's estimateAdjustment
// heuristic in xsjk-Aethernet's bytemodem.go, generalized here to the full
// Theil-Sen median-of-slopes estimator the phase-slope compensation stage
// needs (spec.md §4.4).
type TheilSen struct {
	slope, intercept float64
	slopes           []float64
}

// Compute fits index[0:n] against phase[0:n]. With fewer than two points the
// estimator degenerates to the identity (slope 0, intercept 0).
func (t *TheilSen) Compute(index, phase []float32, n int) {
	t.slope, t.intercept = 0, 0
	if n < 2 {
		return
	}
	t.slopes = t.slopes[:0]
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := float64(index[j] - index[i])
			if dx == 0 {
				continue
			}
			dy := float64(phase[j] - phase[i])
			t.slopes = append(t.slopes, dy/dx)
		}
	}
	if len(t.slopes) == 0 {
		return
	}
	sort.Float64s(t.slopes)
	t.slope = median(t.slopes)

	intercepts := make([]float64, n)
	for i := 0; i < n; i++ {
		intercepts[i] = float64(phase[i]) - t.slope*float64(index[i])
	}
	sort.Float64s(intercepts)
	t.intercept = median(intercepts)
}

// At evaluates the fitted line at x.
func (t *TheilSen) At(x float32) float32 {
	return float32(t.slope*float64(x) + t.intercept)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
