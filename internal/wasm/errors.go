package wasm

import (
	"errors"
	"fmt"
)

// SectionID is the single byte that identifies a top-level section.
type SectionID byte

const (
	SectionIDCustom    SectionID = 0
	SectionIDType      SectionID = 1
	SectionIDImport    SectionID = 2
	SectionIDFunction  SectionID = 3
	SectionIDTable     SectionID = 4
	SectionIDMemory    SectionID = 5
	SectionIDGlobal    SectionID = 6
	SectionIDExport    SectionID = 7
	SectionIDStart     SectionID = 8
	SectionIDElement   SectionID = 9
	SectionIDCode      SectionID = 10
	SectionIDData      SectionID = 11
	SectionIDDataCount SectionID = 12
)

func (id SectionID) String() string {
	switch id {
	case SectionIDCustom:
		return "custom"
	case SectionIDType:
		return "type"
	case SectionIDImport:
		return "import"
	case SectionIDFunction:
		return "function"
	case SectionIDTable:
		return "table"
	case SectionIDMemory:
		return "memory"
	case SectionIDGlobal:
		return "global"
	case SectionIDExport:
		return "export"
	case SectionIDStart:
		return "start"
	case SectionIDElement:
		return "element"
	case SectionIDCode:
		return "code"
	case SectionIDData:
		return "data"
	case SectionIDDataCount:
		return "data count"
	default:
		return fmt.Sprintf("unknown(%d)", byte(id))
	}
}

// Sentinel errors, one per error kind in the decoder's error taxonomy.
// DecodeError wraps these with section/offset context; callers that only
// care about the kind can keep using errors.Is against these directly.
var (
	ErrInvalidMagicByte        = errors.New("invalid magic number")
	ErrInvalidWasmVersion      = errors.New("invalid wasm version")
	ErrExpectedFuncType        = errors.New("expected functype discriminator 0x60")
	ErrMissingEndForExpression = errors.New("constant expression not terminated by end")
	ErrMissingEndForBody       = errors.New("function body not terminated by end")
	ErrMalformedSection        = errors.New("section length does not match bytes consumed")
	ErrInvalidEncoding         = errors.New("invalid encoding")
	ErrOverflow                = errors.New("leb128 value overflows target width")
	ErrEndOfStream             = errors.New("unexpected end of stream")
	ErrOutOfMemory             = errors.New("arena allocation failed")
	ErrUnsupported             = errors.New("unsupported encoding")
)

// DecodeError adds section and byte-offset context to one of the sentinel
// errors above, following the teacher's own fmt.Errorf("%w: ...", sentinel)
// wrapping idiom (see its vendored const_expr.go's use of ErrInvalidByte).
type DecodeError struct {
	// Err is one of the sentinels above.
	Err error
	// SectionID is nil when the failure happened in the module envelope or
	// in a section header (its id, order or length), outside any section
	// payload.
	SectionID *SectionID
	// Offset is the byte offset into the outer stream of the reader's
	// position when the failure was detected, i.e. after any bytes the
	// failing read consumed.
	Offset int64
	// Detail is a short, implementation-defined description of what was
	// being read (e.g. "read u32", "read byte vector").
	Detail string
}

func (e *DecodeError) Error() string {
	section := "envelope"
	if e.SectionID != nil {
		section = e.SectionID.String() + " section"
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s, offset %d)", e.Err, e.Detail, section, e.Offset)
	}
	return fmt.Sprintf("%s (%s, offset %d)", e.Err, section, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WrapDecodeError builds a DecodeError for a failure detected while
// decoding the section identified by id (nil for the envelope), at the
// given offset, with an optional free-form detail string.
func WrapDecodeError(err error, id *SectionID, offset int64, detail string) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return err // already wrapped closer to the source; don't double-wrap
	}
	return &DecodeError{Err: err, SectionID: id, Offset: offset, Detail: detail}
}
