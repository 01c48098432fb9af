//go:build amd64 && cgo

package wasmdecode

import (
	"bytes"
	"testing"

	"github.com/bytecodealliance/wasmtime-go"
	"github.com/stretchr/testify/require"
	"github.com/wasmerio/wasmer-go/wasmer"
)

// addTwoModule mirrors the fixture in internal/wasm/binary/decoder_test.go:
// one function, (i32, i32) -> i32, exported as "addTwo".
var addTwoModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0a, 0x01, 0x06, 'a', 'd', 'd', 'T', 'w', 'o', 0x00, 0x00,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
}

// TestCrossValidate_ExportsAgreeWithWasmtime compiles the same module bytes
// our decoder parses through wasmtime, an engine that also validates and
// instantiates, and checks its view of the module's exports agrees with
// ours. This never runs code through either engine; it only compares what
// each considers present in the static module.
func TestCrossValidate_ExportsAgreeWithWasmtime(t *testing.T) {
	result, err := Parse(bytes.NewReader(addTwoModule))
	require.NoError(t, err)
	defer result.Release()

	engine := wasmtime.NewEngine()
	mod, err := wasmtime.NewModule(engine, addTwoModule)
	require.NoError(t, err)

	wasmtimeNames := make([]string, 0, len(mod.Exports()))
	for _, e := range mod.Exports() {
		wasmtimeNames = append(wasmtimeNames, e.Name())
	}

	ourNames := make([]string, 0, len(result.Module.ExportSection))
	for _, e := range result.Module.ExportSection {
		ourNames = append(ourNames, e.Name)
	}

	require.ElementsMatch(t, wasmtimeNames, ourNames)
}

// TestCrossValidate_ExportsAgreeWithWasmer is the same check against wasmer,
// a second, independently implemented engine, to reduce the chance that a
// decoder bug and an engine's own quirk happen to agree with each other.
func TestCrossValidate_ExportsAgreeWithWasmer(t *testing.T) {
	result, err := Parse(bytes.NewReader(addTwoModule))
	require.NoError(t, err)
	defer result.Release()

	store := wasmer.NewStore(wasmer.NewEngine())
	mod, err := wasmer.NewModule(store, addTwoModule)
	require.NoError(t, err)

	wasmerNames := make([]string, 0, len(mod.Exports()))
	for _, e := range mod.Exports() {
		wasmerNames = append(wasmerNames, e.Name())
	}

	ourNames := make([]string, 0, len(result.Module.ExportSection))
	for _, e := range result.Module.ExportSection {
		ourNames = append(ourNames, e.Name)
	}

	require.ElementsMatch(t, wasmerNames, ourNames)
}
