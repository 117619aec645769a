package polar

// Encode applies the Arikan transform G_N = F^(x)n, F = [[1,0],[1,1]], to a
// length-N message (frozen positions must already be zeroed by the caller),
// producing the mother codeword. Mirrors CODE::PolarEncoder's recursive
// butterfly structure.
func Encode(message []bool) []bool {
	code := append([]bool(nil), message...)
	encodeRec(code)
	return code
}

func encodeRec(v []bool) {
	n := len(v)
	if n == 1 {
		return
	}
	half := n / 2
	for i := 0; i < half; i++ {
		v[i] = v[i] != v[i+half]
	}
	encodeRec(v[:half])
	encodeRec(v[half:])
}
