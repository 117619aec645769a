// Package polar implements the CA-SCL polar code that carries the bulk
// payload of every COFDMTV transmission mode: a rate-matched mother code of
// order 16 (65536 bits), CRC-32-aided list decoding with list size 16, and a
// systematic re-encoding pass so the recovered message can be extracted
// directly from decoded codeword bits (decoder.hh's Polar class).
package polar

import (
	"cofdmtv/pkg/crc"
	"cofdmtv/pkg/dsp"
)

const listSize = 16

// ModeParams describes the polar configuration for one transmission mode.
type ModeParams struct {
	ModBits int
	Table   *Table
}

// Modes maps operation_mode (6..13) to its polar configuration, matching
// Polar::prepare.
var Modes = map[int]ModeParams{
	6:  {ModBits: 3, Table: T64800},
	7:  {ModBits: 3, Table: T64800},
	8:  {ModBits: 2, Table: T64800},
	9:  {ModBits: 2, Table: T64800},
	10: {ModBits: 3, Table: T64512},
	11: {ModBits: 3, Table: T64512},
	12: {ModBits: 2, Table: T64512},
	13: {ModBits: 2, Table: T64512},
}

// Codec decodes one polar-coded symbol block per call; the frozen table is
// selected by Decode for every call so a single Codec can be reused across
// modes.
type Codec struct {
	decoder *ListDecoder
}

// NewCodec builds a reusable polar codec.
func NewCodec() *Codec {
	return &Codec{decoder: NewListDecoder(listSize)}
}

// Decode rate-matches the block's already soft-demapped code vector (one
// precision-scaled soft bit per code position, produced per OFDM symbol by
// the symbol demodulator's own per-symbol noise estimate — spec.md §4.4)
// onto the mother code, runs CA-SCL, then systematically re-encodes the
// winning path to recover DataBits payload bits. The CRC-32 check runs on
// each candidate's systematic read-out (data bits followed by the CRC). It
// returns false if no list entry passes the CRC-32 check.
func (c *Codec) Decode(message []byte, code []float32, mode int) bool {
	params, ok := Modes[mode]
	if !ok {
		return false
	}
	table := params.Table
	if len(code) < table.ConsBits {
		return false
	}

	llr := lengthen(code[:table.ConsBits], table)

	crcEngine := crc.New(32, 0xD419CC15, 0)
	decoded, ok := c.decoder.Decode(llr, table.Frozen, func(bits []int8) bool {
		mesg := systematic(bits, table.Frozen)
		crcEngine.Reset()
		for i := 0; i < CRCBits; i++ {
			crcEngine.UpdateBit(mesg[i] != 0)
		}
		return crcEngine.Sum() == 0
	})
	if !ok {
		return false
	}

	mesg := systematic(decoded, table.Frozen)
	for i := 0; i < DataBits; i++ {
		dsp.SetLEBit(message, i, mesg[i] != 0)
	}
	return true
}

// lengthen maps the consCnt received soft values onto the N-bit mother code
// LLR vector: the MesgBits-CRCBits unfrozen positions beyond the first
// CRCBits (the shortening padding, encountered first when scanning high to
// low) are filled with a strong positive (certain-zero) LLR and never touch
// the channel buffer; frozen positions and the CRCBits real payload/CRC
// positions pull consecutive values from the channel buffer (decoder.hh's
// lengthen, read in reverse so the final cons_bits values land at the
// highest mother code indices).
func lengthen(code []float32, table *Table) []float32 {
	llr := make([]float32, N)
	j := len(code) - 1
	k := table.MesgBits - 1
	for i := N - 1; i >= 0; i-- {
		unfrozen := !table.Frozen[i]
		shortened := false
		if unfrozen {
			shortened = k >= CRCBits
			k--
		}
		if table.Frozen[i] || !shortened {
			if j >= 0 {
				llr[i] = code[j]
				j--
			}
		} else {
			llr[i] = 9000
		}
	}
	return llr
}

// systematic re-applies the Arikan transform to the winning path's decoded
// message bits, then reads the message back out at the unfrozen positions:
// decoder.hh's Polar::systematic, a standard trick for exposing polar-coded
// information bits directly rather than via the (permuted) decoder path.
func systematic(decoded []int8, frozen []bool) []int8 {
	bits := make([]bool, N)
	for i, b := range decoded {
		bits[i] = b != 0
	}
	code := Encode(bits)
	mesg := make([]int8, 0, len(decoded))
	for i := 0; i < N && len(mesg) < CRCBits; i++ {
		if !frozen[i] {
			if code[i] {
				mesg = append(mesg, 1)
			} else {
				mesg = append(mesg, 0)
			}
		}
	}
	return mesg
}
