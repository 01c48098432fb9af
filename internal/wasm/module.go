// Package wasm holds the in-memory representation a WebAssembly binary
// module decodes into, plus the small ownership primitives (Arena, Result)
// that describe how that representation's storage is owned and released.
//
// Decoding itself lives in the sibling internal/wasm/binary package; this
// package is data only so that it can be imported without pulling in the
// decoder.
package wasm

// Index is a numeric index into one of a Module's index spaces (type,
// function, table, memory, global, element, data, local, label).
type Index = uint32

// ValueType is the binary encoding of a WebAssembly value type: one of
// i32, i64, f32, f64, funcref or externref, each a single byte.
type ValueType byte

const (
	ValueTypeI32       ValueType = 0x7f
	ValueTypeI64       ValueType = 0x7e
	ValueTypeF32       ValueType = 0x7d
	ValueTypeF64       ValueType = 0x7c
	ValueTypeFuncref   ValueType = 0x70
	ValueTypeExternref ValueType = 0x6f
)

func (v ValueType) String() string {
	switch v {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeFuncref:
		return "funcref"
	case ValueTypeExternref:
		return "externref"
	default:
		return "unknown"
	}
}

// IsRefType reports whether v is one of the two reference types. RefType
// immediates (table element type, ref.null's operand) are always one of
// these two values.
func (v ValueType) IsRefType() bool {
	return v == ValueTypeFuncref || v == ValueTypeExternref
}

// BlockTypeEmptySentinel is the byte that marks a BlockType with no
// parameters and no results.
const BlockTypeEmptySentinel = 0x40

// BlockType is either a single ValueType result or the distinguished empty
// marker used by block/loop/if.
type BlockType struct {
	Empty     bool
	ValueType ValueType
}

// FuncTypeForm is the discriminator byte that must prefix every TypeSection
// element.
const FuncTypeForm byte = 0x60

// FuncType is a function signature: an ordered list of parameter types
// followed by an ordered list of result types.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// Limits bounds a table's or memory's size: a required minimum and an
// optional maximum, the latter gated by the flag byte that precedes them.
type Limits struct {
	Min uint32
	Max *uint32 // nil when the flag byte's bit 0 was clear
}

// Table is a reference-typed, growable vector of table entries.
type Table struct {
	RefType ValueType // always ValueTypeFuncref or ValueTypeExternref
	Limits  Limits
}

// Memory is a growable vector of bytes, sized in 64KiB pages.
type Memory struct {
	Limits Limits
}

// GlobalType describes a global's value type and mutability.
type GlobalType struct {
	ValueType ValueType
	Mutable   bool
}

// Global is a module-defined global: its type plus the constant expression
// that initializes it.
type Global struct {
	Type GlobalType
	Init InitExpression
}

// ImportKind tags which of the four import kinds an Import carries.
type ImportKind byte

const (
	ImportKindFunc ImportKind = iota
	ImportKindTable
	ImportKindMemory
	ImportKindGlobal
)

// Import is a single imported item: the two-level module/name pair plus a
// kind-tagged description of what's being imported.
type Import struct {
	Module string
	Name   string
	Kind   ImportKind

	// Exactly one of the following is populated, selected by Kind.
	DescFunc   Index // TypeIdx, when Kind == ImportKindFunc
	DescTable  Table
	DescMemory Memory
	DescGlobal GlobalType

	// IndexPerType is this import's position within its kind's index
	// space (e.g. the 2nd imported function has IndexPerType == 1),
	// filled in while decoding the import section.
	IndexPerType Index
}

// ExportKind tags which index space an Export's Index refers into.
type ExportKind byte

const (
	ExportKindFunc ExportKind = iota
	ExportKindTable
	ExportKindMemory
	ExportKindGlobal
)

func (k ExportKind) String() string {
	switch k {
	case ExportKindFunc:
		return "func"
	case ExportKindTable:
		return "table"
	case ExportKindMemory:
		return "memory"
	case ExportKindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Export makes a module-internal index visible under a name.
type Export struct {
	Name  string
	Kind  ExportKind
	Index Index
}

// Element is an MVP-encoding table element segment: which table it targets,
// the constant offset expression, and the function indices to populate it
// with.
type Element struct {
	TableIndex Index
	Offset     InitExpression
	FuncIndex  []Index
}

// Local is one run-length group within a function's local declarations:
// Count locals, all of ValueType.
type Local struct {
	Count     uint32
	ValueType ValueType
}

// Code is one function body: its local declarations followed by the
// decoded instruction stream, which always ends with an Instruction whose
// Opcode is OpcodeEnd.
type Code struct {
	Locals []Local
	Body   []Instruction
}

// Data is one data segment: the memory it targets, the constant offset
// expression, and the raw bytes to write there.
type Data struct {
	MemoryIndex Index
	Offset      InitExpression
	Init        []byte
}

// Custom is one custom section: an arbitrary name plus an opaque payload.
// Multiple custom sections may appear anywhere in a module and are kept in
// encounter order.
type Custom struct {
	Name string
	Data []byte
}

// NameSection is the decoded form of a custom section named "name" — see
// the name subsections of the WebAssembly binary format. Decoding it is
// best-effort: an unrecognized subsection is skipped, and a malformed one
// drops the whole name section (Module.Names stays nil) rather than failing
// the whole module, since name data carries no semantic weight.
type NameSection struct {
	ModuleName string
	FuncNames  map[Index]string
	LocalNames map[Index]map[Index]string // funcIdx -> (localIdx -> name)
}

// Module is the complete decoded form of a WebAssembly binary module: one
// ordered sequence per section kind, each possibly empty, plus the version
// read from the envelope and the custom sections encountered along the way.
type Module struct {
	Version uint32

	TypeSection     []FuncType
	ImportSection   []Import
	FunctionSection []Index // TypeIdx per module-defined function
	TableSection    []Table
	MemorySection   []Memory
	GlobalSection   []Global
	ExportSection   []Export
	StartSection    *Index
	ElementSection  []Element
	CodeSection     []Code
	DataSection     []Data
	CustomSections  []Custom

	// DataCountSection is the optional count declared by section id 12,
	// read before the code section when present.
	DataCountSection *Index

	// Names is populated opportunistically from a custom section named
	// "name", if one is present and well-formed enough to decode.
	Names *NameSection

	// Import*Count split the per-kind index space between imported and
	// module-defined entries; computed while decoding the import section.
	ImportFunctionCount Index
	ImportGlobalCount   Index
	ImportMemoryCount   Index
	ImportTableCount    Index
}
