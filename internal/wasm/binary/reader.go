// Package binary decodes the WebAssembly binary module format into the data
// model defined by the sibling wasm package. Nothing in this package
// executes a module; it only turns bytes into an in-memory Module tree.
package binary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wazerocore/wasmdecode/internal/ieee754"
	"github.com/wazerocore/wasmdecode/internal/leb128"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

// reader wraps a *bytes.Reader with the offset bookkeeping every decoder in
// this package needs to build a wasm.DecodeError, plus the arena that owns
// byte slices the decoded Module will reference after Parse returns.
type reader struct {
	r         *bytes.Reader
	base      int64 // offset of r's origin within the outermost stream
	sectionID *wasm.SectionID
	arena     *wasm.Arena
}

func newReader(b []byte, base int64, sectionID *wasm.SectionID, arena *wasm.Arena) *reader {
	return &reader{r: bytes.NewReader(b), base: base, sectionID: sectionID, arena: arena}
}

// offset returns the absolute byte offset of the reader's current position.
func (r *reader) offset() int64 {
	return r.base + (int64(r.r.Size()) - int64(r.r.Len()))
}

// subReader carves out a bounded sub-stream of exactly n bytes starting at
// the reader's current position, and advances r past it. This is how
// section payloads, code bodies and name subsections get their exact-length
// guarantee: nothing downstream can read past the boundary, and failing to
// consume it exactly is reported by the caller via assertEmpty.
func (r *reader) subReader(n uint32) (*reader, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, r.wrap(wasm.ErrEndOfStream, "sub-stream shorter than declared length")
	}
	return newReader(buf, r.offset()-int64(n), r.sectionID, r.arena), nil
}

// assertEmpty reports ErrMalformedSection if the reader has bytes left,
// the check every bounded decode ends with per the module's "exact length"
// invariant.
func (r *reader) assertEmpty(detail string) error {
	if r.r.Len() != 0 {
		return r.wrap(wasm.ErrMalformedSection, fmt.Sprintf("%s: %d unread byte(s)", detail, r.r.Len()))
	}
	return nil
}

// empty reports whether the reader's bounded sub-stream has been fully
// consumed.
func (r *reader) empty() bool {
	return r.r.Len() == 0
}

func (r *reader) wrap(err error, detail string) error {
	return wasm.WrapDecodeError(err, r.sectionID, r.offset(), detail)
}

func (r *reader) readByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, r.wrap(wasm.ErrEndOfStream, "read byte")
	}
	return b, nil
}

func (r *reader) peekByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, r.wrap(wasm.ErrEndOfStream, "peek byte")
	}
	_ = r.r.UnreadByte()
	return b, nil
}

func (r *reader) readBytes(n uint32) ([]byte, error) {
	buf := r.arena.AllocBytes(int(n))
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, r.wrap(wasm.ErrEndOfStream, "read byte vector")
	}
	return buf, nil
}

func (r *reader) readU32() (uint32, error) {
	v, err := leb128.DecodeUint32(r.r)
	if err != nil {
		return 0, r.wrap(translateLEB128Error(err), "read u32")
	}
	return v, nil
}

func (r *reader) readU64() (uint64, error) {
	v, err := leb128.DecodeUint64(r.r)
	if err != nil {
		return 0, r.wrap(translateLEB128Error(err), "read u64")
	}
	return v, nil
}

func (r *reader) readI32() (int32, error) {
	v, err := leb128.DecodeInt32(r.r)
	if err != nil {
		return 0, r.wrap(translateLEB128Error(err), "read i32")
	}
	return v, nil
}

func (r *reader) readI64() (int64, error) {
	v, err := leb128.DecodeInt64(r.r)
	if err != nil {
		return 0, r.wrap(translateLEB128Error(err), "read i64")
	}
	return v, nil
}

func (r *reader) readFlag() (uint8, error) {
	v, err := leb128.DecodeFlag(r.r)
	if err != nil {
		return 0, r.wrap(translateLEB128Error(err), "read flag")
	}
	return v, nil
}

// readF32Bits reads the raw little-endian bit pattern of a float32 constant.
// It is never routed through leb128: IEEE-754 constants are fixed-width.
func (r *reader) readF32Bits() (uint32, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return 0, r.wrap(wasm.ErrEndOfStream, "read f32 bit pattern")
	}
	return ieee754.DecodeFloat32Bits(buf), nil
}

func (r *reader) readF64Bits() (uint64, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return 0, r.wrap(wasm.ErrEndOfStream, "read f64 bit pattern")
	}
	return ieee754.DecodeFloat64Bits(buf), nil
}

// readName reads a length-prefixed UTF-8 string. The bytes are read into an
// arena-owned buffer via readBytes; the returned string is Go's own copy of
// them, not a view of that buffer.
func (r *reader) readName() (string, error) {
	n, err := r.readU32()
	if err != nil {
		return "", err
	}
	b, err := r.readBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func translateLEB128Error(err error) error {
	switch err {
	case leb128.ErrOverflow:
		return wasm.ErrOverflow
	case leb128.ErrEndOfStream:
		return wasm.ErrEndOfStream
	default:
		return wasm.ErrInvalidEncoding
	}
}
