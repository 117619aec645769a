package polar

import (
	"math"
	"sort"
)

// path is one candidate codeword the list decoder is tracking.
type path struct {
	bits   []int8
	metric float64
}

func (p *path) clone() *path {
	b := make([]int8, len(p.bits))
	copy(b, p.bits)
	return &path{bits: b, metric: p.metric}
}

// ListDecoder is a CA-SCL (CRC-aided successive cancellation list) decoder
// over the mother polar code, matching CODE::PolarListDecoder<mesg_type,16>.
type ListDecoder struct {
	listSize int
}

// NewListDecoder builds a decoder with the given list size (16 in every
// transmission mode).
func NewListDecoder(listSize int) *ListDecoder {
	return &ListDecoder{listSize: listSize}
}

// Decode runs CA-SCL over N soft channel values (sign = hard bit, magnitude
// proportional to reliability) against the given frozen mask, then keeps the
// lowest-metric surviving path whose decoded bits pass crcCheck. It returns
// the full N-bit decoded message (frozen positions zero) and false if no
// surviving path passes.
func (d *ListDecoder) Decode(llr []float32, frozen []bool, crcCheck func(bits []int8) bool) ([]int8, bool) {
	root := &path{bits: make([]int8, len(llr))}
	paths := []*path{root}
	llrs := [][]float32{append([]float32(nil), llr...)}

	paths, _, _ = d.node(paths, llrs, frozen, 0)

	sort.Slice(paths, func(a, b int) bool { return paths[a].metric < paths[b].metric })
	for _, p := range paths {
		if crcCheck(p.bits) {
			return p.bits, true
		}
	}
	return nil, false
}

// node decodes the subtree of length len(frozen) starting at absolute
// position offset, for the given (possibly forked/pruned during the call)
// set of paths, each carrying its own LLR row for this subtree. It returns
// the surviving paths, each one's combined codeword bits (beta) of this
// subtree, and which row of the input paths/llr each survivor descends
// from (so the caller can realign its own same-level arrays).
func (d *ListDecoder) node(paths []*path, llr [][]float32, frozen []bool, offset int) ([]*path, [][]float32, []int) {
	n := len(frozen)
	if n == 1 {
		if frozen[0] {
			beta := make([][]float32, len(paths))
			idx := make([]int, len(paths))
			for i, p := range paths {
				p.bits[offset] = 0
				p.metric += penalty(llr[i][0], 0)
				beta[i] = []float32{0}
				idx[i] = i
			}
			return paths, beta, idx
		}
		return d.fork(paths, llr, offset)
	}

	half := n / 2
	llrL := make([][]float32, len(paths))
	for i := range paths {
		llrL[i] = make([]float32, half)
		for j := 0; j < half; j++ {
			llrL[i][j] = fCombine(llr[i][j], llr[i][j+half])
		}
	}
	survivorsL, betaL, idxL := d.node(paths, llrL, frozen[:half], offset)

	llrR := make([][]float32, len(survivorsL))
	for i, pi := range idxL {
		llrR[i] = make([]float32, half)
		for j := 0; j < half; j++ {
			llrR[i][j] = gCombine(llr[pi][j], llr[pi][j+half], betaL[i][j])
		}
	}
	survivorsR, betaR, idxR := d.node(survivorsL, llrR, frozen[half:], offset+half)

	beta := make([][]float32, len(survivorsR))
	idx := make([]int, len(survivorsR))
	for i, pi := range idxR {
		beta[i] = make([]float32, n)
		for j := 0; j < half; j++ {
			beta[i][j] = xorBit(betaL[pi][j], betaR[i][j])
			beta[i][j+half] = betaR[i][j]
		}
		idx[i] = idxL[pi]
	}
	return survivorsR, beta, idx
}

func (d *ListDecoder) fork(paths []*path, llr [][]float32, offset int) ([]*path, [][]float32, []int) {
	type cand struct {
		parent    *path
		parentIdx int
		bit       int8
		metric    float64
	}
	cands := make([]cand, 0, 2*len(paths))
	for i, p := range paths {
		cands = append(cands, cand{p, i, 0, p.metric + penalty(llr[i][0], 0)})
		cands = append(cands, cand{p, i, 1, p.metric + penalty(llr[i][0], 1)})
	}
	sort.Slice(cands, func(a, b int) bool { return cands[a].metric < cands[b].metric })
	if len(cands) > d.listSize {
		cands = cands[:d.listSize]
	}

	used := make(map[*path]bool, len(paths))
	newPaths := make([]*path, len(cands))
	beta := make([][]float32, len(cands))
	idx := make([]int, len(cands))
	for i, c := range cands {
		np := c.parent
		if used[c.parent] {
			np = c.parent.clone()
		}
		used[c.parent] = true
		np.bits[offset] = c.bit
		np.metric = c.metric
		newPaths[i] = np
		beta[i] = []float32{float32(c.bit)}
		idx[i] = c.parentIdx
	}
	return newPaths, beta, idx
}

func fCombine(a, b float32) float32 {
	sign := float32(1)
	if (a < 0) != (b < 0) {
		sign = -1
	}
	aa, ab := abs32(a), abs32(b)
	if aa < ab {
		return sign * aa
	}
	return sign * ab
}

func gCombine(a, b, beta float32) float32 {
	if beta != 0 {
		return b - a
	}
	return b + a
}

func xorBit(a, b float32) float32 {
	if (a != 0) != (b != 0) {
		return 1
	}
	return 0
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// penalty is the standard numerically-stable approximate log-domain path
// metric increment: ln(1+exp(-(1-2*bit)*llr)).
func penalty(llr float32, bit int8) float64 {
	x := float64(llr)
	if bit == 1 {
		x = -x
	}
	if x >= 0 {
		return math.Log1p(math.Exp(-x))
	}
	return -x + math.Log1p(math.Exp(x))
}
