package erasure

import "cofdmtv/pkg/crc"

// Slots is the number of chunk slots the receiver keeps; any K of them
// (K <= Slots) suffice to reconstruct the original payload.
const Slots = 12

// ChunkBytes is the payload span copied into each slot: decoder.hh's
// payload[14:14+5366).
const ChunkBytes = 5366

const headerOffset = 14

// Store holds up to Slots received erasure-coded chunks, keyed by their
// 16-bit wire identifier, until enough have arrived to reconstruct the
// original payload (spec.md §4.6).
type Store struct {
	data  [Slots][]byte
	ident [Slots]uint16
	used  [Slots]bool
	count int
}

// NewStore returns an empty chunk store.
func NewStore() *Store {
	return &Store{}
}

// Reset clears all received chunks, starting a fresh reconstruction.
func (s *Store) Reset() {
	*s = Store{}
}

// Chunk records one received chunk into slot idx (0..Slots-1), copying its
// ChunkBytes payload span out of the framed packet.
func (s *Store) Chunk(packet []byte, idx int, ident uint16) bool {
	if idx < 0 || idx >= Slots || len(packet) < headerOffset+ChunkBytes {
		return false
	}
	if !s.used[idx] {
		s.count++
	}
	s.ident[idx] = ident
	s.used[idx] = true
	s.data[idx] = append([]byte(nil), packet[headerOffset:headerOffset+ChunkBytes]...)
	return true
}

// Ready reports whether at least k chunks have been received.
func (s *Store) Ready(k int) bool {
	return s.count >= k
}

// Recover reconstructs size bytes of the original payload from the first k
// received slots (by slot index) and returns the running CRC-32
// (poly 0x8F6E37A0) over the reconstructed bytes.
func (s *Store) Recover(size, k int) (payload []byte, crc32 uint32, ok bool) {
	if k <= 0 || k > Slots || !s.Ready(k) {
		return nil, 0, false
	}

	rows := make([]int, 0, k)
	for i := 0; i < Slots && len(rows) < k; i++ {
		if s.used[i] {
			rows = append(rows, int(s.ident[i]))
		}
	}
	if len(rows) != k {
		return nil, 0, false
	}
	inverse := invertSubmatrix(rows, k)

	symbolCols := ChunkBytes / 2
	out := make([]byte, 0, k*ChunkBytes)
	received := make([]uint16, k)

	for col := 0; col < symbolCols; col++ {
		r := 0
		for i := 0; i < Slots; i++ {
			if !s.used[i] {
				continue
			}
			received[r] = uint16(s.data[i][2*col])<<8 | uint16(s.data[i][2*col+1])
			r++
			if r == k {
				break
			}
		}
		for row := 0; row < k; row++ {
			var acc uint16
			for c := 0; c < k; c++ {
				acc = Add(acc, Mul(inverse[row][c], received[c]))
			}
			out = append(out, byte(acc>>8), byte(acc))
		}
	}

	if len(out) > size {
		out = out[:size]
	}

	e := crc.New(32, 0x8F6E37A0, 0)
	e.Reset()
	for _, b := range out {
		e.UpdateByte(b)
	}
	return out, uint32(e.Sum()), true
}
