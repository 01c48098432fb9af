// Package ieee754 reads the raw little-endian byte patterns WebAssembly
// uses for f32.const/f64.const immediates. Per the binary format, these are
// NOT LEB128-encoded: they are fixed-width little-endian bit patterns,
// reinterpreted rather than parsed as a number.
package ieee754

import (
	"encoding/binary"
	"math"
)

// DecodeFloat32Bits reads the raw 4-byte little-endian bit pattern of an
// f32 immediate. The caller is responsible for ensuring b has length 4.
func DecodeFloat32Bits(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// DecodeFloat64Bits reads the raw 8-byte little-endian bit pattern of an
// f64 immediate. The caller is responsible for ensuring b has length 8.
func DecodeFloat64Bits(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// Float32 reinterprets a raw bit pattern as a float32, for diagnostics and
// callers that want the numeric value rather than the bits.
func Float32(bits uint32) float32 {
	return math.Float32frombits(bits)
}

// Float64 reinterprets a raw bit pattern as a float64.
func Float64(bits uint64) float64 {
	return math.Float64frombits(bits)
}
