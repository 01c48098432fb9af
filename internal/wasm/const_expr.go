package wasm

// InitExpressionKind tags which of the five constant-producing forms an
// InitExpression holds.
type InitExpressionKind byte

const (
	InitExpressionI32Const InitExpressionKind = iota
	InitExpressionI64Const
	InitExpressionF32Const
	InitExpressionF64Const
	InitExpressionGlobalGet
)

// InitExpression is a constant expression: exactly one value-producing
// opcode, consumed together with its trailing `end` opcode (the `end` is
// never stored — see Module invariants).
type InitExpression struct {
	Kind InitExpressionKind

	I32Value       int32
	I64Value       int64
	F32Bits        uint32
	F64Bits        uint64
	GlobalIndex    Index
}
