package onefile

import (
	"math"
	"unicode/utf16"
)

// decodeUTF16LE decodes little-endian UTF-16 with no byte-order mark,
// stripping a single trailing null (spec.md §4.6/§9: "all human-readable
// text in properties is little-endian UTF-16 ... trimming a single
// trailing null").
func decodeUTF16LE(b []byte) string {
	n := len(b) / 2
	if n > 0 && b[2*n-2] == 0 && b[2*n-1] == 0 {
		n--
	}
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return string(utf16.Decode(units))
}

func float32FromBits(b uint32) float32 { return math.Float32frombits(b) }
func float64FromBits(b uint64) float64 { return math.Float64frombits(b) }
