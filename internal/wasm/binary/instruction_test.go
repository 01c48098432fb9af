package binary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

func TestDecodeFunctionBody_Locals(t *testing.T) {
	// two locals groups: 2 x i32, 1 x i64, then a bare `end`.
	b := []byte{0x02, 0x02, 0x7f, 0x01, 0x7e, 0x0b}
	code, err := decodeFunctionBody(newTestReader(b), api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Equal(t, []wasm.Local{
		{Count: 2, ValueType: wasm.ValueTypeI32},
		{Count: 1, ValueType: wasm.ValueTypeI64},
	}, code.Locals)
	require.Equal(t, []wasm.Instruction{
		{Opcode: wasm.OpcodeEnd, Immediate: wasm.ImmediateNone{}},
	}, code.Body)
}

func TestDecodeInstructions_NestedBlocks(t *testing.T) {
	// block (empty) ... if (empty) ... else ... end ... end ... end
	b := []byte{
		byte(wasm.OpcodeBlock), 0x40,
		byte(wasm.OpcodeIf), 0x40,
		byte(wasm.OpcodeElse),
		byte(wasm.OpcodeEnd), // closes if
		byte(wasm.OpcodeEnd), // closes block
		byte(wasm.OpcodeEnd), // closes function
	}
	body, err := decodeInstructions(newReader(b, 0, nil, wasm.NewArena()), api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Len(t, body, 6)
	require.Equal(t, wasm.OpcodeBlock, body[0].Opcode)
	require.Equal(t, wasm.OpcodeIf, body[1].Opcode)
	require.Equal(t, wasm.OpcodeElse, body[2].Opcode)
	require.Equal(t, wasm.OpcodeEnd, body[3].Opcode)
	require.Equal(t, wasm.OpcodeEnd, body[4].Opcode)
	require.Equal(t, wasm.OpcodeEnd, body[5].Opcode)
}

func TestDecodeInstructions_MissingEndForBody(t *testing.T) {
	// a single `nop`, no terminating `end` — the sub-stream exhausts first.
	b := []byte{byte(wasm.OpcodeNop)}
	_, err := decodeInstructions(newTestReader(b), api.CoreFeaturesV2)
	require.ErrorIs(t, err, wasm.ErrMissingEndForBody)
}

func TestDecodeInstructions_UnclosedBlockMissingEndForBody(t *testing.T) {
	// block (empty) ... end closes the block, but the function itself
	// never gets its own terminating end before the sub-stream exhausts.
	b := []byte{
		byte(wasm.OpcodeBlock), 0x40,
		byte(wasm.OpcodeEnd),
	}
	_, err := decodeInstructions(newTestReader(b), api.CoreFeaturesV2)
	require.ErrorIs(t, err, wasm.ErrMissingEndForBody)
}

func TestDecodeNumericImmediate(t *testing.T) {
	imm, err := decodeNumericImmediate(newTestReader(nil), wasm.Opcode(0x6a), api.CoreFeaturesV2) // i32.add
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateNone{}, imm)
}

func TestDecodeNumericImmediate_SignExtensionGated(t *testing.T) {
	_, err := decodeNumericImmediate(newTestReader(nil), wasm.Opcode(0xc0), api.CoreFeaturesV1)
	require.ErrorIs(t, err, wasm.ErrUnsupported)

	imm, err := decodeNumericImmediate(newTestReader(nil), wasm.Opcode(0xc0), api.CoreFeaturesV1|api.CoreFeatureSignExtensionOps)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateNone{}, imm)
}

func TestDecodeNumericImmediate_Unrecognized(t *testing.T) {
	_, err := decodeNumericImmediate(newTestReader(nil), wasm.Opcode(0xff), api.CoreFeaturesV2)
	require.ErrorIs(t, err, wasm.ErrInvalidEncoding)
}

func TestDecodeImmediate_MemArg(t *testing.T) {
	b := []byte{0x02, 0x04} // align=2, offset=4
	imm, err := decodeImmediate(newTestReader(b), wasm.OpcodeI32Load, api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateMemArg{X: 2, Y: 4}, imm)
}

func TestDecodeImmediate_TableGetRequiresReferenceTypes(t *testing.T) {
	_, err := decodeImmediate(newTestReader([]byte{0x00}), wasm.OpcodeTableGet, api.CoreFeaturesV1)
	require.ErrorIs(t, err, wasm.ErrUnsupported)

	imm, err := decodeImmediate(newTestReader([]byte{0x00}), wasm.OpcodeTableGet, api.CoreFeaturesV1|api.CoreFeatureReferenceTypes)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateU32{Value: 0}, imm)
}

func TestDecodeBranchTable(t *testing.T) {
	b := []byte{0x02, 0x00, 0x01, 0x02} // 2 targets: 0, 1; default 2
	imm, err := decodeBranchTable(newTestReader(b))
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateBranchTable{Targets: []uint32{0, 1}, Default: 2}, imm)
}

func TestDecodeSelectTypes_Empty(t *testing.T) {
	imm, err := decodeSelectTypes(newTestReader([]byte{0x00}), api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateSelectTypes{Types: []wasm.ValueType{}}, imm)
}

func TestDecodeRefNull(t *testing.T) {
	imm, err := decodeImmediate(newTestReader([]byte{0x70}), wasm.OpcodeRefNull, api.CoreFeaturesV1|api.CoreFeatureReferenceTypes)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateRefType{RefType: wasm.ValueTypeFuncref}, imm)
}

func TestDecodeRefNull_InvalidType(t *testing.T) {
	_, err := decodeImmediate(newTestReader([]byte{0x7f}), wasm.OpcodeRefNull, api.CoreFeaturesV1|api.CoreFeatureReferenceTypes)
	require.ErrorIs(t, err, wasm.ErrInvalidEncoding)
}

func TestDecodeRefNull_UngatedRejected(t *testing.T) {
	_, err := decodeImmediate(newTestReader([]byte{0x70}), wasm.OpcodeRefNull, api.CoreFeaturesV1)
	require.ErrorIs(t, err, wasm.ErrUnsupported)
}

func TestDecodeSecondaryImmediate_SaturatingTrunc(t *testing.T) {
	b := []byte{0x00} // i32.trunc_sat_f32_s
	imm, err := decodeSecondaryImmediate(newTestReader(b), api.CoreFeaturesV1|api.CoreFeatureNonTrappingFloatToIntConversion)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateSecondary{
		SecondaryOpcode: wasm.SecondaryI32TruncSatF32S,
		Immediate:       wasm.ImmediateNone{},
	}, imm)
}

func TestDecodeSecondaryImmediate_SaturatingTruncGated(t *testing.T) {
	_, err := decodeSecondaryImmediate(newTestReader([]byte{0x00}), api.CoreFeaturesV1)
	require.ErrorIs(t, err, wasm.ErrUnsupported)
}

func TestDecodeSecondaryImmediate_MemoryInit(t *testing.T) {
	b := []byte{0x08, 0x02, 0x00} // memory.init, data index 2, reserved byte
	imm, err := decodeSecondaryImmediate(newTestReader(b), api.CoreFeaturesV1|api.CoreFeatureBulkMemoryOperations)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateSecondary{
		SecondaryOpcode: wasm.SecondaryMemoryInit,
		Immediate:       wasm.ImmediateU32{Value: 2},
	}, imm)
}

func TestDecodeSecondaryImmediate_MemoryCopy(t *testing.T) {
	b := []byte{0x0a, 0x00, 0x00}
	imm, err := decodeSecondaryImmediate(newTestReader(b), api.CoreFeaturesV1|api.CoreFeatureBulkMemoryOperations)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateSecondary{
		SecondaryOpcode: wasm.SecondaryMemoryCopy,
		Immediate:       wasm.ImmediateNone{},
	}, imm)
}

func TestDecodeSecondaryImmediate_TableGrow(t *testing.T) {
	b := []byte{0x0f, 0x03}
	imm, err := decodeSecondaryImmediate(newTestReader(b), api.CoreFeaturesV1|api.CoreFeatureReferenceTypes)
	require.NoError(t, err)
	require.Equal(t, wasm.ImmediateSecondary{
		SecondaryOpcode: wasm.SecondaryTableGrow,
		Immediate:       wasm.ImmediateU32{Value: 3},
	}, imm)
}

func TestDecodeSecondaryImmediate_Unrecognized(t *testing.T) {
	_, err := decodeSecondaryImmediate(newTestReader([]byte{0x7f}), api.CoreFeaturesV2)
	require.ErrorIs(t, err, wasm.ErrInvalidEncoding)
}
