package wasm

// Opcode is a primary (non-prefixed) WebAssembly instruction opcode.
type Opcode byte

// Control and variable-access opcodes that need special immediate
// handling (§4.5 of the decoder's instruction table). An opcode not named
// here decodes with no immediate if it lies in 0x45 through 0xc4 (the
// numeric and sign-extension opcodes); any other unnamed opcode is rejected.
const (
	OpcodeUnreachable Opcode = 0x00
	OpcodeNop         Opcode = 0x01
	OpcodeBlock       Opcode = 0x02
	OpcodeLoop        Opcode = 0x03
	OpcodeIf          Opcode = 0x04
	OpcodeElse        Opcode = 0x05
	OpcodeEnd         Opcode = 0x0b
	OpcodeBr          Opcode = 0x0c
	OpcodeBrIf        Opcode = 0x0d
	OpcodeBrTable     Opcode = 0x0e
	OpcodeReturn      Opcode = 0x0f
	OpcodeCall        Opcode = 0x10
	OpcodeCallIndirect Opcode = 0x11

	OpcodeDrop            Opcode = 0x1a
	OpcodeSelect          Opcode = 0x1b
	OpcodeSelectWithTypes Opcode = 0x1c

	OpcodeLocalGet  Opcode = 0x20
	OpcodeLocalSet  Opcode = 0x21
	OpcodeLocalTee  Opcode = 0x22
	OpcodeGlobalGet Opcode = 0x23
	OpcodeGlobalSet Opcode = 0x24

	OpcodeTableGet Opcode = 0x25
	OpcodeTableSet Opcode = 0x26

	OpcodeI32Load    Opcode = 0x28
	OpcodeI64Load    Opcode = 0x29
	OpcodeF32Load    Opcode = 0x2a
	OpcodeF64Load    Opcode = 0x2b
	OpcodeI32Load8S  Opcode = 0x2c
	OpcodeI32Load8U  Opcode = 0x2d
	OpcodeI32Load16S Opcode = 0x2e
	OpcodeI32Load16U Opcode = 0x2f
	OpcodeI64Load8S  Opcode = 0x30
	OpcodeI64Load8U  Opcode = 0x31
	OpcodeI64Load16S Opcode = 0x32
	OpcodeI64Load16U Opcode = 0x33
	OpcodeI64Load32S Opcode = 0x34
	OpcodeI64Load32U Opcode = 0x35
	OpcodeI32Store   Opcode = 0x36
	OpcodeI64Store   Opcode = 0x37
	OpcodeF32Store   Opcode = 0x38
	OpcodeF64Store   Opcode = 0x39
	OpcodeI32Store8  Opcode = 0x3a
	OpcodeI32Store16 Opcode = 0x3b
	OpcodeI64Store8  Opcode = 0x3c
	OpcodeI64Store16 Opcode = 0x3d
	OpcodeI64Store32 Opcode = 0x3e

	OpcodeMemorySize Opcode = 0x3f
	OpcodeMemoryGrow Opcode = 0x40

	OpcodeI32Const Opcode = 0x41
	OpcodeI64Const Opcode = 0x42
	OpcodeF32Const Opcode = 0x43
	OpcodeF64Const Opcode = 0x44

	OpcodeRefNull   Opcode = 0xd0
	OpcodeRefIsNull Opcode = 0xd1
	OpcodeRefFunc   Opcode = 0xd2

	// OpcodeVecPrefix introduces the secondary (0xFC) opcode space: bulk
	// memory operations and saturating truncation.
	OpcodeVecPrefix Opcode = 0xfc
)

// SecondaryOpcode is a sub-opcode in the 0xFC-prefixed space, read as a
// ULEB128 immediately after the 0xFC byte.
type SecondaryOpcode uint32

const (
	SecondaryI32TruncSatF32S SecondaryOpcode = 0
	SecondaryI32TruncSatF32U SecondaryOpcode = 1
	SecondaryI32TruncSatF64S SecondaryOpcode = 2
	SecondaryI32TruncSatF64U SecondaryOpcode = 3
	SecondaryI64TruncSatF32S SecondaryOpcode = 4
	SecondaryI64TruncSatF32U SecondaryOpcode = 5
	SecondaryI64TruncSatF64S SecondaryOpcode = 6
	SecondaryI64TruncSatF64U SecondaryOpcode = 7

	SecondaryMemoryInit SecondaryOpcode = 8
	SecondaryDataDrop   SecondaryOpcode = 9
	SecondaryMemoryCopy SecondaryOpcode = 10
	SecondaryMemoryFill SecondaryOpcode = 11
	SecondaryTableInit  SecondaryOpcode = 12
	SecondaryElemDrop   SecondaryOpcode = 13
	SecondaryTableCopy  SecondaryOpcode = 14

	SecondaryTableGrow SecondaryOpcode = 15
	SecondaryTableSize SecondaryOpcode = 16
	SecondaryTableFill SecondaryOpcode = 17
)

// Immediate is the tagged payload carried by an Instruction. The set of
// concrete implementations below is closed (the isImmediate marker is
// unexported) so every branch of the decoder's immediate table produces
// exactly one of these and no illegal combination is representable.
type Immediate interface {
	isImmediate()
}

// ImmediateNone is carried by every zero-immediate instruction — the
// default case in the instruction table.
type ImmediateNone struct{}

func (ImmediateNone) isImmediate() {}

// ImmediateU32 is carried by single-index operands: br, br_if, call,
// ref.func, local.get/set/tee, global.get/set, table.get/set,
// memory.size/grow.
type ImmediateU32 struct{ Value uint32 }

func (ImmediateU32) isImmediate() {}

// ImmediateI32 is carried by i32.const.
type ImmediateI32 struct{ Value int32 }

func (ImmediateI32) isImmediate() {}

// ImmediateI64 is carried by i64.const.
type ImmediateI64 struct{ Value int64 }

func (ImmediateI64) isImmediate() {}

// ImmediateF32Bits is carried by f32.const: the raw little-endian bit
// pattern, never converted through LEB128.
type ImmediateF32Bits struct{ Bits uint32 }

func (ImmediateF32Bits) isImmediate() {}

// ImmediateF64Bits is carried by f64.const.
type ImmediateF64Bits struct{ Bits uint64 }

func (ImmediateF64Bits) isImmediate() {}

// ImmediateBlockType is carried by block, loop and if.
type ImmediateBlockType struct{ BlockType BlockType }

func (ImmediateBlockType) isImmediate() {}

// ImmediateMemArg is carried by call_indirect (typeidx, tableidx) and every
// load/store instruction (align, offset) — the spec groups these as a
// single "pair of u32" shape.
type ImmediateMemArg struct{ X, Y uint32 }

func (ImmediateMemArg) isImmediate() {}

// ImmediateBranchTable is carried by br_table: zero or more label targets
// followed by the default target.
type ImmediateBranchTable struct {
	Targets []uint32
	Default uint32
}

func (ImmediateBranchTable) isImmediate() {}

// ImmediateRefType is carried by ref.null.
type ImmediateRefType struct{ RefType ValueType }

func (ImmediateRefType) isImmediate() {}

// ImmediateSelectTypes is carried by select_with_types (0x1C). A zero
// length Types is valid and accepted.
type ImmediateSelectTypes struct{ Types []ValueType }

func (ImmediateSelectTypes) isImmediate() {}

// ImmediateSecondary is carried by every 0xFC-prefixed instruction: the
// sub-opcode plus whatever immediate that sub-opcode itself takes (None, U32
// or MemArg).
type ImmediateSecondary struct {
	SecondaryOpcode SecondaryOpcode
	Immediate       Immediate
}

func (ImmediateSecondary) isImmediate() {}

// Instruction is one decoded instruction: its opcode plus its
// fully-decoded immediate.
type Instruction struct {
	Opcode    Opcode
	Immediate Immediate
}
