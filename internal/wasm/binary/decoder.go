package binary

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

// Magic is the four-byte preamble every WebAssembly binary module starts
// with: the string "\0asm".
var Magic = [4]byte{0x00, 0x61, 0x73, 0x6d}

// Version1 is the only module version this decoder understands.
const Version1 uint32 = 1

// sectionOrder gives each non-custom section its required position in a
// module's byte layout. The data count section's binary encoding (id 12) is
// numerically larger than the code and data sections that follow it, so
// layout order cannot be derived from the raw id byte.
var sectionOrder = map[wasm.SectionID]int{
	wasm.SectionIDType:      0,
	wasm.SectionIDImport:    1,
	wasm.SectionIDFunction:  2,
	wasm.SectionIDTable:     3,
	wasm.SectionIDMemory:    4,
	wasm.SectionIDGlobal:    5,
	wasm.SectionIDExport:    6,
	wasm.SectionIDStart:     7,
	wasm.SectionIDElement:   8,
	wasm.SectionIDDataCount: 9,
	wasm.SectionIDCode:      10,
	wasm.SectionIDData:      11,
}

// DefaultMaxModuleSizeBytes bounds how large a module's outer byte stream
// may be before decoding refuses it outright, independent of any individual
// section's own length prefix. It exists to give callers decoding untrusted
// input a single knob against memory exhaustion.
const DefaultMaxModuleSizeBytes = 1 << 30 // 1 GiB

// DecodeModule reads a full WebAssembly binary module from r: the magic and
// version envelope, followed by a sequence of (id, length, payload)
// section records, each dispatched to its section decoder and validated to
// consume exactly its declared length. An unrecognized section ID is
// skipped and logged rather than rejected, since the binary format reserves
// that space for forward-compatible extension.
func DecodeModule(r io.Reader, features api.CoreFeatures, maxModuleSizeBytes uint32, logger logrus.FieldLogger) (*wasm.Result, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	limited := io.LimitReader(r, int64(maxModuleSizeBytes)+1)
	all, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("reading module: %w", err)
	}
	if uint32(len(all)) > maxModuleSizeBytes {
		return nil, fmt.Errorf("module exceeds maximum size of %d bytes", maxModuleSizeBytes)
	}

	arena := wasm.NewArena()
	top := newReader(all, 0, nil, arena)

	if err := decodeMagic(top); err != nil {
		return nil, err
	}
	version, err := decodeVersion(top)
	if err != nil {
		return nil, err
	}

	module := &wasm.Module{Version: version}

	lastOrder := -1
	for top.r.Len() > 0 {
		idByte, err := top.readByte()
		if err != nil {
			return nil, err
		}
		sectionID := wasm.SectionID(idByte)

		if sectionID != wasm.SectionIDCustom {
			order, ok := sectionOrder[sectionID]
			if ok { // unrecognized sections don't participate in ordering
				if order <= lastOrder {
					return nil, top.wrap(wasm.ErrMalformedSection, fmt.Sprintf("section %s out of order", sectionID))
				}
				lastOrder = order
			}
		}

		size, err := top.readU32()
		if err != nil {
			return nil, fmt.Errorf("%s section length: %w", sectionID, err)
		}
		top.sectionID = &sectionID
		body, err := top.subReader(size)
		if err != nil {
			return nil, fmt.Errorf("%s section body: %w", sectionID, err)
		}
		body.sectionID = &sectionID

		if err := decodeSection(body, sectionID, features, module, logger); err != nil {
			return nil, err
		}
		if err := body.assertEmpty(fmt.Sprintf("%s section", sectionID)); err != nil {
			return nil, err
		}
		top.sectionID = nil
	}

	return wasm.NewResult(module, arena), nil
}

func decodeMagic(r *reader) error {
	got, err := r.readBytes(4)
	if err != nil {
		return fmt.Errorf("reading magic: %w", err)
	}
	for i := range Magic {
		if got[i] != Magic[i] {
			return r.wrap(wasm.ErrInvalidMagicByte, fmt.Sprintf("got %#v", got))
		}
	}
	return nil
}

func decodeVersion(r *reader) (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, fmt.Errorf("reading version: %w", err)
	}
	version := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	if version != Version1 {
		return 0, r.wrap(wasm.ErrInvalidWasmVersion, fmt.Sprintf("got %d", version))
	}
	return version, nil
}

func decodeSection(r *reader, id wasm.SectionID, features api.CoreFeatures, module *wasm.Module, logger logrus.FieldLogger) error {
	switch id {
	case wasm.SectionIDCustom:
		name, err := r.readName()
		if err != nil {
			return fmt.Errorf("custom section name: %w", err)
		}
		data, err := r.readBytes(uint32(r.r.Len()))
		if err != nil {
			return fmt.Errorf("custom section payload: %w", err)
		}
		module.CustomSections = append(module.CustomSections, wasm.Custom{Name: name, Data: data})
		if name == "name" {
			nameReader := newReader(data, r.offset()-int64(len(data)), r.sectionID, r.arena)
			if names, err := decodeNameSection(nameReader); err == nil {
				module.Names = names
			} else {
				logger.WithError(err).WithField("section", "name").Debug("skipping malformed name section")
			}
		} else {
			logger.WithField("custom_section", name).Debug("decoded custom section payload")
		}
		return nil

	case wasm.SectionIDType:
		ts, err := decodeTypeSection(r, features)
		if err != nil {
			return fmt.Errorf("type section: %w", err)
		}
		module.TypeSection = ts
		return nil

	case wasm.SectionIDImport:
		imports, funcCount, tableCount, memCount, globalCount, err := decodeImportSection(r, features)
		if err != nil {
			return fmt.Errorf("import section: %w", err)
		}
		module.ImportSection = imports
		module.ImportFunctionCount = funcCount
		module.ImportTableCount = tableCount
		module.ImportMemoryCount = memCount
		module.ImportGlobalCount = globalCount
		return nil

	case wasm.SectionIDFunction:
		fs, err := decodeFunctionSection(r)
		if err != nil {
			return fmt.Errorf("function section: %w", err)
		}
		module.FunctionSection = fs
		return nil

	case wasm.SectionIDTable:
		ts, err := decodeTableSection(r, features)
		if err != nil {
			return fmt.Errorf("table section: %w", err)
		}
		module.TableSection = ts
		return nil

	case wasm.SectionIDMemory:
		ms, err := decodeMemorySection(r)
		if err != nil {
			return fmt.Errorf("memory section: %w", err)
		}
		module.MemorySection = ms
		return nil

	case wasm.SectionIDGlobal:
		gs, err := decodeGlobalSection(r, features)
		if err != nil {
			return fmt.Errorf("global section: %w", err)
		}
		module.GlobalSection = gs
		return nil

	case wasm.SectionIDExport:
		es, err := decodeExportSection(r)
		if err != nil {
			return fmt.Errorf("export section: %w", err)
		}
		module.ExportSection = es
		return nil

	case wasm.SectionIDStart:
		s, err := decodeStartSection(r)
		if err != nil {
			return fmt.Errorf("start section: %w", err)
		}
		module.StartSection = s
		return nil

	case wasm.SectionIDElement:
		es, err := decodeElementSection(r, features)
		if err != nil {
			return fmt.Errorf("element section: %w", err)
		}
		module.ElementSection = es
		return nil

	case wasm.SectionIDDataCount:
		dc, err := decodeDataCountSection(r)
		if err != nil {
			return fmt.Errorf("data count section: %w", err)
		}
		module.DataCountSection = dc
		return nil

	case wasm.SectionIDCode:
		cs, err := decodeCodeSection(r, features)
		if err != nil {
			return fmt.Errorf("code section: %w", err)
		}
		module.CodeSection = cs
		return nil

	case wasm.SectionIDData:
		ds, err := decodeDataSection(r, features)
		if err != nil {
			return fmt.Errorf("data section: %w", err)
		}
		module.DataSection = ds
		return nil

	default:
		logger.WithField("section_id", fmt.Sprintf("%#x", byte(id))).Warn("skipping unrecognized section")
		if _, err := r.readBytes(uint32(r.r.Len())); err != nil {
			return fmt.Errorf("skipping unrecognized section %#x: %w", byte(id), err)
		}
		return nil
	}
}
