package binary

import (
	"fmt"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

// decodeFunctionBody decodes a function's locals and instruction stream,
// stopping at the single top-level `end` that closes the function (not an
// inner block/loop/if `end`, which the depth counter below tracks).
func decodeFunctionBody(r *reader, features api.CoreFeatures) (wasm.Code, error) {
	localCount, err := r.readU32()
	if err != nil {
		return wasm.Code{}, fmt.Errorf("local count: %w", err)
	}
	locals := make([]wasm.Local, localCount)
	for i := range locals {
		count, err := r.readU32()
		if err != nil {
			return wasm.Code{}, fmt.Errorf("local[%d] count: %w", i, err)
		}
		vt, err := decodeValueType(r, features)
		if err != nil {
			return wasm.Code{}, fmt.Errorf("local[%d] type: %w", i, err)
		}
		locals[i] = wasm.Local{Count: count, ValueType: vt}
	}

	body, err := decodeInstructions(r, features)
	if err != nil {
		return wasm.Code{}, err
	}
	return wasm.Code{Locals: locals, Body: body}, nil
}

// decodeInstructions decodes instructions until the `end` that closes the
// enclosing function body, tracking nested block/loop/if depth so that inner
// `end` and `else` opcodes are recorded as instructions rather than mistaken
// for the function terminator. The loop is driven off the bounded body
// sub-stream being exhausted, not off a read error: a well-formed body
// always supplies its own terminating depth-0 `end` before the sub-stream
// runs out, so running out first means the body never got one.
func decodeInstructions(r *reader, features api.CoreFeatures) ([]wasm.Instruction, error) {
	var body []wasm.Instruction
	depth := 0
	for !r.empty() {
		op, err := r.readByte()
		if err != nil {
			return nil, err
		}
		opcode := wasm.Opcode(op)

		if opcode == wasm.OpcodeEnd {
			body = append(body, wasm.Instruction{Opcode: opcode, Immediate: wasm.ImmediateNone{}})
			if depth == 0 {
				return body, nil
			}
			depth--
			continue
		}

		imm, err := decodeImmediate(r, opcode, features)
		if err != nil {
			return nil, fmt.Errorf("opcode %#x: %w", op, err)
		}
		if opcode == wasm.OpcodeBlock || opcode == wasm.OpcodeLoop || opcode == wasm.OpcodeIf {
			depth++
		}
		body = append(body, wasm.Instruction{Opcode: opcode, Immediate: imm})
	}
	return nil, r.wrap(wasm.ErrMissingEndForBody, "function body sub-stream exhausted without a terminating end")
}

// decodeImmediate decodes the immediate operand for every opcode other than
// `end`, following the selection table: the opcode alone determines the
// immediate's shape, so every branch below produces exactly one concrete
// wasm.Immediate implementation.
func decodeImmediate(r *reader, opcode wasm.Opcode, features api.CoreFeatures) (wasm.Immediate, error) {
	switch opcode {
	case wasm.OpcodeBlock, wasm.OpcodeLoop, wasm.OpcodeIf:
		bt, err := decodeBlockType(r, features)
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateBlockType{BlockType: bt}, nil

	case wasm.OpcodeElse:
		return wasm.ImmediateNone{}, nil

	case wasm.OpcodeBr, wasm.OpcodeBrIf,
		wasm.OpcodeCall,
		wasm.OpcodeLocalGet, wasm.OpcodeLocalSet, wasm.OpcodeLocalTee,
		wasm.OpcodeGlobalGet, wasm.OpcodeGlobalSet,
		wasm.OpcodeTableGet, wasm.OpcodeTableSet,
		wasm.OpcodeMemorySize, wasm.OpcodeMemoryGrow:
		if (opcode == wasm.OpcodeTableGet || opcode == wasm.OpcodeTableSet) && features.RequireEnabled(api.CoreFeatureReferenceTypes) != nil {
			return nil, r.wrap(wasm.ErrUnsupported, "table.get/table.set require reference-types")
		}
		v, err := r.readU32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateU32{Value: v}, nil

	case wasm.OpcodeBrTable:
		return decodeBranchTable(r)

	case wasm.OpcodeCallIndirect:
		typeIdx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		tableIdx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateMemArg{X: typeIdx, Y: tableIdx}, nil

	case wasm.OpcodeDrop, wasm.OpcodeUnreachable, wasm.OpcodeNop, wasm.OpcodeReturn,
		wasm.OpcodeSelect, wasm.OpcodeRefIsNull:
		return wasm.ImmediateNone{}, nil

	case wasm.OpcodeSelectWithTypes:
		return decodeSelectTypes(r, features)

	case wasm.OpcodeI32Load, wasm.OpcodeI64Load, wasm.OpcodeF32Load, wasm.OpcodeF64Load,
		wasm.OpcodeI32Load8S, wasm.OpcodeI32Load8U, wasm.OpcodeI32Load16S, wasm.OpcodeI32Load16U,
		wasm.OpcodeI64Load8S, wasm.OpcodeI64Load8U, wasm.OpcodeI64Load16S, wasm.OpcodeI64Load16U,
		wasm.OpcodeI64Load32S, wasm.OpcodeI64Load32U,
		wasm.OpcodeI32Store, wasm.OpcodeI64Store, wasm.OpcodeF32Store, wasm.OpcodeF64Store,
		wasm.OpcodeI32Store8, wasm.OpcodeI32Store16, wasm.OpcodeI64Store8, wasm.OpcodeI64Store16, wasm.OpcodeI64Store32:
		align, err := r.readU32()
		if err != nil {
			return nil, err
		}
		offset, err := r.readU32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateMemArg{X: align, Y: offset}, nil

	case wasm.OpcodeI32Const:
		v, err := r.readI32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateI32{Value: v}, nil

	case wasm.OpcodeI64Const:
		v, err := r.readI64()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateI64{Value: v}, nil

	case wasm.OpcodeF32Const:
		v, err := r.readF32Bits()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateF32Bits{Bits: v}, nil

	case wasm.OpcodeF64Const:
		v, err := r.readF64Bits()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateF64Bits{Bits: v}, nil

	case wasm.OpcodeRefNull:
		if err := features.RequireEnabled(api.CoreFeatureReferenceTypes); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		rt := wasm.ValueType(b)
		if !rt.IsRefType() {
			return nil, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("ref.null type %#x is not a reference type", b))
		}
		return wasm.ImmediateRefType{RefType: rt}, nil

	case wasm.OpcodeRefFunc:
		if err := features.RequireEnabled(api.CoreFeatureReferenceTypes); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		v, err := r.readU32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateU32{Value: v}, nil

	case wasm.OpcodeVecPrefix:
		return decodeSecondaryImmediate(r, features)

	default:
		return decodeNumericImmediate(r, opcode, features)
	}
}

// decodeNumericImmediate handles the large block of comparison, numeric and
// conversion opcodes (0x45 through 0xbf) that all take no immediate, plus
// the five sign-extension opcodes (0xc0 through 0xc4) gated behind
// CoreFeatureSignExtensionOps. Anything else is not a valid opcode.
func decodeNumericImmediate(r *reader, opcode wasm.Opcode, features api.CoreFeatures) (wasm.Immediate, error) {
	switch {
	case opcode >= 0x45 && opcode <= 0xbf:
		return wasm.ImmediateNone{}, nil
	case opcode >= 0xc0 && opcode <= 0xc4:
		if err := features.RequireEnabled(api.CoreFeatureSignExtensionOps); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		return wasm.ImmediateNone{}, nil
	default:
		return nil, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("unrecognized opcode %#x", byte(opcode)))
	}
}

func decodeBranchTable(r *reader) (wasm.Immediate, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("br_table count: %w", err)
	}
	targets := make([]uint32, n)
	for i := range targets {
		if targets[i], err = r.readU32(); err != nil {
			return nil, fmt.Errorf("br_table target[%d]: %w", i, err)
		}
	}
	def, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("br_table default target: %w", err)
	}
	return wasm.ImmediateBranchTable{Targets: targets, Default: def}, nil
}

func decodeSelectTypes(r *reader, features api.CoreFeatures) (wasm.Immediate, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("select_with_types count: %w", err)
	}
	types := make([]wasm.ValueType, n)
	for i := range types {
		if types[i], err = decodeValueType(r, features); err != nil {
			return nil, fmt.Errorf("select_with_types type[%d]: %w", i, err)
		}
	}
	return wasm.ImmediateSelectTypes{Types: types}, nil
}

// decodeSecondaryImmediate decodes a 0xFC-prefixed instruction: a ULEB128
// sub-opcode followed by whatever immediate that sub-opcode itself takes.
func decodeSecondaryImmediate(r *reader, features api.CoreFeatures) (wasm.Immediate, error) {
	sub, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("secondary opcode: %w", err)
	}
	secondary := wasm.SecondaryOpcode(sub)

	switch secondary {
	case wasm.SecondaryI32TruncSatF32S, wasm.SecondaryI32TruncSatF32U,
		wasm.SecondaryI32TruncSatF64S, wasm.SecondaryI32TruncSatF64U,
		wasm.SecondaryI64TruncSatF32S, wasm.SecondaryI64TruncSatF32U,
		wasm.SecondaryI64TruncSatF64S, wasm.SecondaryI64TruncSatF64U:
		if err := features.RequireEnabled(api.CoreFeatureNonTrappingFloatToIntConversion); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		return wasm.ImmediateSecondary{SecondaryOpcode: secondary, Immediate: wasm.ImmediateNone{}}, nil

	case wasm.SecondaryDataDrop, wasm.SecondaryElemDrop:
		if err := features.RequireEnabled(api.CoreFeatureBulkMemoryOperations); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		idx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateSecondary{SecondaryOpcode: secondary, Immediate: wasm.ImmediateU32{Value: idx}}, nil

	case wasm.SecondaryMemoryInit:
		if err := features.RequireEnabled(api.CoreFeatureBulkMemoryOperations); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		dataIdx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		if _, err := r.readByte(); err != nil { // reserved memory index, always 0x00
			return nil, err
		}
		return wasm.ImmediateSecondary{SecondaryOpcode: secondary, Immediate: wasm.ImmediateU32{Value: dataIdx}}, nil

	case wasm.SecondaryMemoryCopy:
		if err := features.RequireEnabled(api.CoreFeatureBulkMemoryOperations); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		if _, err := r.readByte(); err != nil { // reserved dst memory index
			return nil, err
		}
		if _, err := r.readByte(); err != nil { // reserved src memory index
			return nil, err
		}
		return wasm.ImmediateSecondary{SecondaryOpcode: secondary, Immediate: wasm.ImmediateNone{}}, nil

	case wasm.SecondaryMemoryFill:
		if err := features.RequireEnabled(api.CoreFeatureBulkMemoryOperations); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		if _, err := r.readByte(); err != nil { // reserved memory index
			return nil, err
		}
		return wasm.ImmediateSecondary{SecondaryOpcode: secondary, Immediate: wasm.ImmediateNone{}}, nil

	case wasm.SecondaryTableInit:
		if err := features.RequireEnabled(api.CoreFeatureBulkMemoryOperations); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		elemIdx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		tableIdx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateSecondary{SecondaryOpcode: secondary, Immediate: wasm.ImmediateMemArg{X: elemIdx, Y: tableIdx}}, nil

	case wasm.SecondaryTableCopy:
		if err := features.RequireEnabled(api.CoreFeatureBulkMemoryOperations); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		dstTable, err := r.readU32()
		if err != nil {
			return nil, err
		}
		srcTable, err := r.readU32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateSecondary{SecondaryOpcode: secondary, Immediate: wasm.ImmediateMemArg{X: dstTable, Y: srcTable}}, nil

	case wasm.SecondaryTableGrow, wasm.SecondaryTableSize, wasm.SecondaryTableFill:
		if err := features.RequireEnabled(api.CoreFeatureReferenceTypes); err != nil {
			return nil, r.wrap(wasm.ErrUnsupported, err.Error())
		}
		idx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		return wasm.ImmediateSecondary{SecondaryOpcode: secondary, Immediate: wasm.ImmediateU32{Value: idx}}, nil

	default:
		return nil, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("unrecognized secondary opcode %d", sub))
	}
}
