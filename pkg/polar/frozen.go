package polar

// Mother code order: N = 1<<Order = 65536 bits, matching code_order=16 for
// every transmission mode that carries a polar-coded payload (spec.md §4.5).
const Order = 16

// N is the mother polar code length.
const N = 1 << Order

// Table names the two rate-matched code families the transmission modes
// select between (decoder.hh's frozen_64800_43072 / frozen_64512_43072).
type Table struct {
	// ConsBits is the number of bits actually carried on the channel
	// (cons_bits): 64800 or 64512.
	ConsBits int
	// MesgBits is the count of mother-code positions left unfrozen
	// (mesg_bits): some of these beyond CRCBits are shortened to a known
	// zero rather than truly carrying payload.
	MesgBits int
	// Frozen marks, per mother-code position (0..N-1), whether that
	// position is fixed to zero rather than carrying a decoded bit.
	Frozen []bool
}

// CRCBits is data_bits (43040) + the 32-bit CRC appended to it.
const (
	DataBits = 43040
	CRCBits  = DataBits + 32
)

// Built as package-level initializers (not in init) so that Modes, which
// refers to them, sees the finished tables.
var (
	T64800 = buildTable(64800, 43808)
	T64512 = buildTable(64512, 44096)
)

// buildTable constructs a frozen-bit mask by polarized-channel reliability:
// positions are ranked by the Bhattacharyya parameter of a binary erasure
// channel under the Arikan recursion (a standard, channel-agnostic
// construction; the real transmitter's exact reliability ordering isn't
// recoverable from the distilled specification, so this is a faithful
// reconstruction rather than a verified reproduction of the original
// decoder's tables — see the design notes). The mesgBits least-unreliable
// positions are left
// unfrozen.
func buildTable(consBits, mesgBits int) *Table {
	z := bhattacharyyaZ(Order)
	order := make([]int, N)
	for i := range order {
		order[i] = i
	}
	// Sort ascending by Z (most reliable, i.e. smallest erasure probability,
	// first).
	insertionSortByZ(order, z)

	frozen := make([]bool, N)
	for i := range frozen {
		frozen[i] = true
	}
	for _, idx := range order[:mesgBits] {
		frozen[idx] = false
	}
	return &Table{ConsBits: consBits, MesgBits: mesgBits, Frozen: frozen}
}

// bhattacharyyaZ computes the Bhattacharyya parameter of each of the 2^order
// synthetic bit channels produced by recursively polarizing a BEC(0.5),
// using the exact BEC recursions Z(W-) = 2Z(W)-Z(W)^2 and Z(W+) = Z(W)^2.
func bhattacharyyaZ(order int) []float64 {
	z := []float64{0.5}
	for s := 0; s < order; s++ {
		next := make([]float64, len(z)*2)
		for i, zi := range z {
			minus := 2*zi - zi*zi
			plus := zi * zi
			next[2*i] = minus
			next[2*i+1] = plus
		}
		z = next
	}
	return z
}

func insertionSortByZ(order []int, z []float64) {
	// Simple O(n log n) sort via the standard library would pull in
	// "sort"; do it directly since this runs once at init.
	quickSortByZ(order, z, 0, len(order)-1)
}

func quickSortByZ(order []int, z []float64, lo, hi int) {
	for lo < hi {
		p := partitionByZ(order, z, lo, hi)
		if p-lo < hi-p {
			quickSortByZ(order, z, lo, p-1)
			lo = p + 1
		} else {
			quickSortByZ(order, z, p+1, hi)
			hi = p - 1
		}
	}
}

func partitionByZ(order []int, z []float64, lo, hi int) int {
	pivot := z[order[hi]]
	i := lo
	for j := lo; j < hi; j++ {
		// Equal Z (many round to exactly 0 or 1 at order 16) ranks the
		// higher index first, so every unfrozen position's dominating
		// indices (bits added) are unfrozen too, as systematic encoding needs.
		if z[order[j]] < pivot || (z[order[j]] == pivot && order[j] > order[hi]) {
			order[i], order[j] = order[j], order[i]
			i++
		}
	}
	order[i], order[hi] = order[hi], order[i]
	return i
}
