package binary

import (
	"fmt"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

func decodeTypeSection(r *reader, features api.CoreFeatures) ([]wasm.FuncType, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	out := make([]wasm.FuncType, n)
	for i := range out {
		if out[i], err = decodeFuncType(r, features); err != nil {
			return nil, fmt.Errorf("type[%d]: %w", i, err)
		}
	}
	return out, nil
}

func decodeImportSection(r *reader, features api.CoreFeatures) (imports []wasm.Import, funcCount, tableCount, memCount, globalCount wasm.Index, err error) {
	n, err := r.readU32()
	if err != nil {
		return nil, 0, 0, 0, 0, fmt.Errorf("vector size: %w", err)
	}
	imports = make([]wasm.Import, n)
	for i := range imports {
		imp, decErr := decodeImport(r, features)
		if decErr != nil {
			return nil, 0, 0, 0, 0, fmt.Errorf("import[%d]: %w", i, decErr)
		}
		switch imp.Kind {
		case wasm.ImportKindFunc:
			imp.IndexPerType = funcCount
			funcCount++
		case wasm.ImportKindTable:
			imp.IndexPerType = tableCount
			tableCount++
		case wasm.ImportKindMemory:
			imp.IndexPerType = memCount
			memCount++
		case wasm.ImportKindGlobal:
			imp.IndexPerType = globalCount
			globalCount++
		}
		imports[i] = imp
	}
	return imports, funcCount, tableCount, memCount, globalCount, nil
}

func decodeImport(r *reader, features api.CoreFeatures) (wasm.Import, error) {
	module, err := r.readName()
	if err != nil {
		return wasm.Import{}, fmt.Errorf("module name: %w", err)
	}
	name, err := r.readName()
	if err != nil {
		return wasm.Import{}, fmt.Errorf("field name: %w", err)
	}
	kindByte, err := r.readByte()
	if err != nil {
		return wasm.Import{}, err
	}

	imp := wasm.Import{Module: module, Name: name}
	switch kindByte {
	case 0x00:
		imp.Kind = wasm.ImportKindFunc
		if imp.DescFunc, err = r.readU32(); err != nil {
			return wasm.Import{}, fmt.Errorf("func type index: %w", err)
		}
	case 0x01:
		imp.Kind = wasm.ImportKindTable
		if imp.DescTable, err = decodeTable(r, features); err != nil {
			return wasm.Import{}, fmt.Errorf("table desc: %w", err)
		}
	case 0x02:
		imp.Kind = wasm.ImportKindMemory
		if imp.DescMemory, err = decodeMemory(r); err != nil {
			return wasm.Import{}, fmt.Errorf("memory desc: %w", err)
		}
	case 0x03:
		imp.Kind = wasm.ImportKindGlobal
		if imp.DescGlobal, err = decodeGlobalType(r, features); err != nil {
			return wasm.Import{}, fmt.Errorf("global desc: %w", err)
		}
	default:
		return wasm.Import{}, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("invalid import kind %#x", kindByte))
	}
	return imp, nil
}

func decodeFunctionSection(r *reader) ([]wasm.Index, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	out := make([]wasm.Index, n)
	for i := range out {
		if out[i], err = r.readU32(); err != nil {
			return nil, fmt.Errorf("function[%d] type index: %w", i, err)
		}
	}
	return out, nil
}

func decodeTableSection(r *reader, features api.CoreFeatures) ([]wasm.Table, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	if n > 1 {
		if err := features.RequireEnabled(api.CoreFeatureReferenceTypes); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, fmt.Sprintf("more than one table: %v", err))
		}
	}
	out := make([]wasm.Table, n)
	for i := range out {
		if out[i], err = decodeTable(r, features); err != nil {
			return nil, fmt.Errorf("table[%d]: %w", i, err)
		}
	}
	return out, nil
}

func decodeMemorySection(r *reader) ([]wasm.Memory, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	if n > 1 {
		return nil, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("at most one memory allowed, got %d", n))
	}
	out := make([]wasm.Memory, n)
	for i := range out {
		if out[i], err = decodeMemory(r); err != nil {
			return nil, fmt.Errorf("memory[%d]: %w", i, err)
		}
	}
	return out, nil
}

func decodeGlobalSection(r *reader, features api.CoreFeatures) ([]wasm.Global, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	out := make([]wasm.Global, n)
	for i := range out {
		gt, err := decodeGlobalType(r, features)
		if err != nil {
			return nil, fmt.Errorf("global[%d] type: %w", i, err)
		}
		init, err := decodeInitExpression(r, features)
		if err != nil {
			return nil, fmt.Errorf("global[%d] init: %w", i, err)
		}
		out[i] = wasm.Global{Type: gt, Init: init}
	}
	return out, nil
}

func decodeExportSection(r *reader) ([]wasm.Export, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	seen := make(map[string]struct{}, n)
	out := make([]wasm.Export, n)
	for i := range out {
		name, err := r.readName()
		if err != nil {
			return nil, fmt.Errorf("export[%d] name: %w", i, err)
		}
		if _, dup := seen[name]; dup {
			return nil, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("export[%d] duplicates name %q", i, name))
		}
		seen[name] = struct{}{}

		kindByte, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if kindByte > byte(wasm.ExportKindGlobal) {
			return nil, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("invalid export kind %#x", kindByte))
		}
		idx, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("export[%d] index: %w", i, err)
		}
		out[i] = wasm.Export{Name: name, Kind: wasm.ExportKind(kindByte), Index: idx}
	}
	return out, nil
}

func decodeStartSection(r *reader) (*wasm.Index, error) {
	idx, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("function index: %w", err)
	}
	return &idx, nil
}

// decodeElementSection decodes MVP-only element segments: each is a table
// index, a constant offset expression, and a vector of function indices.
// Passive and declarative element segment kinds (bulk-memory proposal) are
// out of scope; a non-zero table index or the alternate encoding forms they
// introduce are rejected.
func decodeElementSection(r *reader, features api.CoreFeatures) ([]wasm.Element, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	out := make([]wasm.Element, n)
	for i := range out {
		tableIdx, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("element[%d] table index: %w", i, err)
		}
		if tableIdx != 0 {
			return nil, r.wrap(wasm.ErrUnsupported, fmt.Sprintf("element[%d]: leading value %d is not an MVP segment on table 0", i, tableIdx))
		}
		offset, err := decodeInitExpression(r, features)
		if err != nil {
			return nil, fmt.Errorf("element[%d] offset: %w", i, err)
		}
		count, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("element[%d] func index count: %w", i, err)
		}
		funcIdx := make([]wasm.Index, count)
		for j := range funcIdx {
			if funcIdx[j], err = r.readU32(); err != nil {
				return nil, fmt.Errorf("element[%d] func index[%d]: %w", i, j, err)
			}
		}
		out[i] = wasm.Element{TableIndex: tableIdx, Offset: offset, FuncIndex: funcIdx}
	}
	return out, nil
}

func decodeCodeSection(r *reader, features api.CoreFeatures) ([]wasm.Code, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	out := make([]wasm.Code, n)
	for i := range out {
		bodySize, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("code[%d] body size: %w", i, err)
		}
		body, err := r.subReader(bodySize)
		if err != nil {
			return nil, fmt.Errorf("code[%d] body: %w", i, err)
		}
		code, err := decodeFunctionBody(body, features)
		if err != nil {
			return nil, fmt.Errorf("code[%d]: %w", i, err)
		}
		if err := body.assertEmpty(fmt.Sprintf("code[%d] body", i)); err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

func decodeDataSection(r *reader, features api.CoreFeatures) ([]wasm.Data, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("vector size: %w", err)
	}
	out := make([]wasm.Data, n)
	for i := range out {
		memIdx, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("data[%d] memory index: %w", i, err)
		}
		offset, err := decodeInitExpression(r, features)
		if err != nil {
			return nil, fmt.Errorf("data[%d] offset: %w", i, err)
		}
		size, err := r.readU32()
		if err != nil {
			return nil, fmt.Errorf("data[%d] size: %w", i, err)
		}
		init, err := r.readBytes(size)
		if err != nil {
			return nil, fmt.Errorf("data[%d] init: %w", i, err)
		}
		out[i] = wasm.Data{MemoryIndex: memIdx, Offset: offset, Init: init}
	}
	return out, nil
}

func decodeDataCountSection(r *reader) (*wasm.Index, error) {
	v, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("data count: %w", err)
	}
	return &v, nil
}
