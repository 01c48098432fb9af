package binary

import (
	"fmt"
	"io"

	"github.com/wazerocore/wasmdecode/internal/wasm"
)

// Name subsection IDs, see https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-namesec
const (
	subsectionIDModuleName    = uint8(0)
	subsectionIDFunctionNames = uint8(1)
	subsectionIDLocalNames    = uint8(2)
)

// decodeNameSection decodes the custom section named "name": ModuleName from
// subsection 0, FuncNames from subsection 1, LocalNames from subsection 2.
// Decoding is best-effort — name data carries no semantic weight, so an
// unrecognized subsection ID is skipped by its declared length rather than
// failing the whole module.
func decodeNameSection(r *reader) (*wasm.NameSection, error) {
	result := &wasm.NameSection{}
	for {
		subsectionID, err := r.readByte()
		if err != nil {
			if err == io.EOF || r.r.Len() == 0 {
				return result, nil
			}
			return nil, err
		}
		size, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("subsection[%d] size: %w", subsectionID, err)
		}
		sub, err := r.subReader(size)
		if err != nil {
			return nil, fmt.Errorf("subsection[%d]: %w", subsectionID, err)
		}

		switch subsectionID {
		case subsectionIDModuleName:
			if result.ModuleName, err = sub.readName(); err != nil {
				return nil, fmt.Errorf("module name: %w", err)
			}
		case subsectionIDFunctionNames:
			if result.FuncNames, err = decodeNameMap(sub); err != nil {
				return nil, fmt.Errorf("function names: %w", err)
			}
		case subsectionIDLocalNames:
			if result.LocalNames, err = decodeIndirectNameMap(sub); err != nil {
				return nil, fmt.Errorf("local names: %w", err)
			}
		}
		// Unrecognized subsections are silently dropped: sub was already
		// consumed in full via subReader regardless of whether it mattered.

		if r.r.Len() == 0 {
			return result, nil
		}
	}
}

func decodeNameMap(r *reader) (map[wasm.Index]string, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	out := make(map[wasm.Index]string, n)
	for i := uint32(0); i < n; i++ {
		idx, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("[%d] index: %w", i, err)
		}
		name, err := r.readName()
		if err != nil {
			return nil, fmt.Errorf("[%d] name: %w", i, err)
		}
		out[idx] = name
	}
	return out, nil
}

func decodeIndirectNameMap(r *reader) (map[wasm.Index]map[wasm.Index]string, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	out := make(map[wasm.Index]map[wasm.Index]string, n)
	for i := uint32(0); i < n; i++ {
		funcIdx, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("[%d] function index: %w", i, err)
		}
		locals, err := decodeNameMap(r)
		if err != nil {
			return nil, fmt.Errorf("[%d] locals: %w", i, err)
		}
		out[funcIdx] = locals
	}
	return out, nil
}
