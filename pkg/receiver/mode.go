package receiver

import "cofdmtv/pkg/polar"

// ModeInfo is one row of the fixed operation-mode table (spec.md §3).
type ModeInfo struct {
	Carriers int
	Symbols  int
	ModBits  int
	ConsBits int
	MesgBits int
	Table    *polar.Table
}

// Modes maps operation_mode (6..13) to its fixed parameters.
var Modes = map[int]ModeInfo{
	6:  {432, 50, 3, 64800, 43808, polar.T64800},
	7:  {400, 54, 3, 64800, 43808, polar.T64800},
	8:  {400, 81, 2, 64800, 43808, polar.T64800},
	9:  {360, 90, 2, 64800, 43808, polar.T64800},
	10: {512, 42, 3, 64512, 44096, polar.T64512},
	11: {384, 56, 3, 64512, 44096, polar.T64512},
	12: {384, 84, 2, 64512, 44096, polar.T64512},
	13: {256, 126, 2, 64512, 44096, polar.T64512},
}

// ValidMode reports whether mode is one of the eight defined operation
// modes and its table satisfies carriers*symbols*modBits >= cons_bits.
func ValidMode(mode int) bool {
	info, ok := Modes[mode]
	if !ok {
		return false
	}
	return info.Carriers*info.Symbols*info.ModBits >= info.ConsBits
}
