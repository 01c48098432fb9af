package binary

import (
	"fmt"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

func decodeValueType(r *reader, features api.CoreFeatures) (wasm.ValueType, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	vt := wasm.ValueType(b)
	switch vt {
	case wasm.ValueTypeI32, wasm.ValueTypeI64, wasm.ValueTypeF32, wasm.ValueTypeF64:
		return vt, nil
	case wasm.ValueTypeFuncref, wasm.ValueTypeExternref:
		if err := features.RequireEnabled(api.CoreFeatureReferenceTypes); err != nil {
			return 0, r.wrap(wasm.ErrUnsupported, fmt.Sprintf("value type %#x requires reference-types: %v", b, err))
		}
		return vt, nil
	default:
		return 0, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("invalid value type %#x", b))
	}
}

// decodeBlockType reads the block type immediate of block/loop/if: either the
// empty sentinel 0x40, a single value type, or (not yet supported here) a
// signed LEB128 type-section index for multi-value block signatures.
func decodeBlockType(r *reader, features api.CoreFeatures) (wasm.BlockType, error) {
	b, err := r.peekByte()
	if err != nil {
		return wasm.BlockType{}, err
	}
	if b == wasm.BlockTypeEmptySentinel {
		_, _ = r.readByte()
		return wasm.BlockType{Empty: true}, nil
	}
	switch wasm.ValueType(b) {
	case wasm.ValueTypeI32, wasm.ValueTypeI64, wasm.ValueTypeF32, wasm.ValueTypeF64,
		wasm.ValueTypeFuncref, wasm.ValueTypeExternref:
		vt, err := decodeValueType(r, features)
		if err != nil {
			return wasm.BlockType{}, err
		}
		return wasm.BlockType{ValueType: vt}, nil
	default:
		// A multi-value block type is an s33 type-section index; this decoder
		// does not resolve type-section indices against their FuncType (that
		// is a module-level validation concern), so it is rejected here with
		// CoreFeatureMultiValue named as what's missing.
		if err := features.RequireEnabled(api.CoreFeatureMultiValue); err != nil {
			return wasm.BlockType{}, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		return wasm.BlockType{}, r.wrap(wasm.ErrUnsupported, "multi-value block type indices are not decoded")
	}
}

func decodeLimits(r *reader) (wasm.Limits, error) {
	flag, err := r.readFlag()
	if err != nil {
		return wasm.Limits{}, err
	}
	if flag > 1 {
		return wasm.Limits{}, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("limits flag %#x is neither 0 nor 1", flag))
	}
	min, err := r.readU32()
	if err != nil {
		return wasm.Limits{}, err
	}
	limits := wasm.Limits{Min: min}
	if flag == 1 {
		max, err := r.readU32()
		if err != nil {
			return wasm.Limits{}, err
		}
		limits.Max = &max
	}
	return limits, nil
}

func decodeTable(r *reader, features api.CoreFeatures) (wasm.Table, error) {
	b, err := r.readByte()
	if err != nil {
		return wasm.Table{}, err
	}
	refType := wasm.ValueType(b)
	if refType != wasm.ValueTypeFuncref {
		if refType != wasm.ValueTypeExternref {
			return wasm.Table{}, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("invalid table reference type %#x", b))
		}
		if err := features.RequireEnabled(api.CoreFeatureReferenceTypes); err != nil {
			return wasm.Table{}, r.wrap(wasm.ErrUnsupported, err.Error())
		}
	}
	limits, err := decodeLimits(r)
	if err != nil {
		return wasm.Table{}, err
	}
	return wasm.Table{RefType: refType, Limits: limits}, nil
}

func decodeMemory(r *reader) (wasm.Memory, error) {
	limits, err := decodeLimits(r)
	if err != nil {
		return wasm.Memory{}, err
	}
	return wasm.Memory{Limits: limits}, nil
}

func decodeGlobalType(r *reader, features api.CoreFeatures) (wasm.GlobalType, error) {
	vt, err := decodeValueType(r, features)
	if err != nil {
		return wasm.GlobalType{}, err
	}
	mut, err := r.readByte()
	if err != nil {
		return wasm.GlobalType{}, err
	}
	if mut > 1 {
		return wasm.GlobalType{}, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("invalid global mutability byte %#x", mut))
	}
	return wasm.GlobalType{ValueType: vt, Mutable: mut == 1}, nil
}

func decodeFuncType(r *reader, features api.CoreFeatures) (wasm.FuncType, error) {
	form, err := r.readByte()
	if err != nil {
		return wasm.FuncType{}, err
	}
	if form != wasm.FuncTypeForm {
		return wasm.FuncType{}, r.wrap(wasm.ErrExpectedFuncType, fmt.Sprintf("got %#x", form))
	}
	params, err := decodeValueTypeVector(r, features)
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("params: %w", err)
	}
	results, err := decodeValueTypeVector(r, features)
	if err != nil {
		return wasm.FuncType{}, fmt.Errorf("results: %w", err)
	}
	if len(results) > 1 {
		if err := features.RequireEnabled(api.CoreFeatureMultiValue); err != nil {
			return wasm.FuncType{}, r.wrap(wasm.ErrUnsupported, err.Error())
		}
	}
	return wasm.FuncType{Params: params, Results: results}, nil
}

func decodeValueTypeVector(r *reader, features api.CoreFeatures) ([]wasm.ValueType, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]wasm.ValueType, n)
	for i := range out {
		if out[i], err = decodeValueType(r, features); err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return out, nil
}
