// Package leb128 decodes LEB128 (Little-Endian Base-128) variable-length
// integers, the encoding WebAssembly uses for every multi-byte integer in
// a module's binary payload.
package leb128

import (
	"errors"
	"io"
)

// ErrOverflow is returned when a LEB128 group sequence runs past the
// maximum number of groups its target width allows without terminating.
var ErrOverflow = errors.New("leb128: value overflows target width")

// ErrEndOfStream is returned when the input ends before a LEB128 group
// sequence terminates.
var ErrEndOfStream = errors.New("leb128: unexpected end of stream")

// DecodeUint32 reads an unsigned LEB128 value targeting 32 bits.
func DecodeUint32(r io.ByteReader) (uint32, error) {
	v, err := decodeUnsigned(r, 32)
	return uint32(v), err
}

// DecodeUint64 reads an unsigned LEB128 value targeting 64 bits.
func DecodeUint64(r io.ByteReader) (uint64, error) {
	return decodeUnsigned(r, 64)
}

// DecodeFlag reads an unsigned LEB128 value targeting a single bit, as used
// for the Limits flag byte. Only a continuation byte overflows: a single
// group is returned as-is, so values 2 through 127 come back without error
// and the caller checks the range.
func DecodeFlag(r io.ByteReader) (uint8, error) {
	v, err := decodeUnsigned(r, 1)
	return uint8(v), err
}

// DecodeInt32 reads a signed LEB128 value targeting 32 bits, sign-extended
// from the final group's high payload bit.
func DecodeInt32(r io.ByteReader) (int32, error) {
	v, err := decodeSigned(r, 32)
	return int32(v), err
}

// DecodeInt64 reads a signed LEB128 value targeting 64 bits.
func DecodeInt64(r io.ByteReader) (int64, error) {
	return decodeSigned(r, 64)
}

// decodeUnsigned decodes groups of 7-bit payload bytes, little-endian, until
// a byte whose continuation (high) bit is clear. bits bounds how many groups
// are tolerated before the value is considered to have overflowed.
func decodeUnsigned(r io.ByteReader, bits uint) (uint64, error) {
	maxGroups := int((bits + 6) / 7)
	var result uint64
	var shift uint
	for i := 0; ; i++ {
		if i == maxGroups {
			return 0, ErrOverflow
		}
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrEndOfStream
			}
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

func decodeSigned(r io.ByteReader, bits uint) (int64, error) {
	maxGroups := int((bits + 6) / 7)
	var result int64
	var shift uint
	var last byte
	for i := 0; ; i++ {
		if i == maxGroups {
			return 0, ErrOverflow
		}
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrEndOfStream
			}
			return 0, err
		}
		last = b
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	// Sign-extend from the high payload bit of the final group.
	if shift < 64 && last&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}
