package binary

import (
	"fmt"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

// decodeInitExpression decodes a constant expression: exactly one
// value-producing opcode followed by `end`. The `end` opcode is consumed
// but never stored on the result, matching the module's invariant that an
// InitExpression always holds precisely one producer.
func decodeInitExpression(r *reader, features api.CoreFeatures) (wasm.InitExpression, error) {
	op, err := r.readByte()
	if err != nil {
		return wasm.InitExpression{}, err
	}

	var expr wasm.InitExpression
	switch wasm.Opcode(op) {
	case wasm.OpcodeI32Const:
		expr.Kind = wasm.InitExpressionI32Const
		if expr.I32Value, err = r.readI32(); err != nil {
			return wasm.InitExpression{}, err
		}
	case wasm.OpcodeI64Const:
		expr.Kind = wasm.InitExpressionI64Const
		if expr.I64Value, err = r.readI64(); err != nil {
			return wasm.InitExpression{}, err
		}
	case wasm.OpcodeF32Const:
		expr.Kind = wasm.InitExpressionF32Const
		if expr.F32Bits, err = r.readF32Bits(); err != nil {
			return wasm.InitExpression{}, err
		}
	case wasm.OpcodeF64Const:
		expr.Kind = wasm.InitExpressionF64Const
		if expr.F64Bits, err = r.readF64Bits(); err != nil {
			return wasm.InitExpression{}, err
		}
	case wasm.OpcodeGlobalGet:
		expr.Kind = wasm.InitExpressionGlobalGet
		if expr.GlobalIndex, err = r.readU32(); err != nil {
			return wasm.InitExpression{}, err
		}
	default:
		return wasm.InitExpression{}, r.wrap(wasm.ErrInvalidEncoding, fmt.Sprintf("opcode %#x is not a valid constant expression producer", op))
	}

	end, err := r.readByte()
	if err != nil {
		return wasm.InitExpression{}, err
	}
	if wasm.Opcode(end) != wasm.OpcodeEnd {
		return wasm.InitExpression{}, r.wrap(wasm.ErrMissingEndForExpression, fmt.Sprintf("got opcode %#x instead of end", end))
	}
	return expr, nil
}
