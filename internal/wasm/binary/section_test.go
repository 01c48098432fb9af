package binary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

func TestDecodeTypeSection(t *testing.T) {
	b := []byte{0x01, 0x60, 0x00, 0x00}
	types, err := decodeTypeSection(newTestReader(b), api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Equal(t, []wasm.FuncType{{Params: nil, Results: nil}}, types)
}

func TestDecodeImportSection_AssignsIndexPerType(t *testing.T) {
	// two func imports, one memory import
	raw := []byte{
		0x03, // 3 imports
		0x03, 'e', 'n', 'v', 0x02, 'f', '1', 0x00, 0x00,
		0x03, 'e', 'n', 'v', 0x02, 'f', '2', 0x00, 0x01,
		0x03, 'e', 'n', 'v', 0x01, 'm', 0x02, 0x00, 0x01,
	}
	imports, funcCount, _, memCount, _, err := decodeImportSection(newTestReader(raw), api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Equal(t, wasm.Index(2), funcCount)
	require.Equal(t, wasm.Index(1), memCount)
	require.Equal(t, wasm.Index(0), imports[0].IndexPerType)
	require.Equal(t, wasm.Index(1), imports[1].IndexPerType)
	require.Equal(t, wasm.Index(0), imports[2].IndexPerType)
}

func TestDecodeImport_InvalidKind(t *testing.T) {
	b := []byte{0x01, 'e', 0x01, 'f', 0x04}
	_, err := decodeImport(newTestReader(b), api.CoreFeaturesV2)
	require.ErrorIs(t, err, wasm.ErrInvalidEncoding)
}

func TestDecodeTableSection_SecondTableRequiresReferenceTypes(t *testing.T) {
	b := []byte{0x02, 0x70, 0x00, 0x01, 0x70, 0x00, 0x01}
	_, err := decodeTableSection(newTestReader(b), api.CoreFeaturesV1)
	require.ErrorIs(t, err, wasm.ErrUnsupported)

	tables, err := decodeTableSection(newTestReader(b), api.CoreFeaturesV1|api.CoreFeatureReferenceTypes)
	require.NoError(t, err)
	require.Len(t, tables, 2)
}

func TestDecodeMemorySection_RejectsMultiple(t *testing.T) {
	b := []byte{0x02, 0x00, 0x01, 0x00, 0x01}
	_, err := decodeMemorySection(newTestReader(b))
	require.ErrorIs(t, err, wasm.ErrInvalidEncoding)
}

func TestDecodeExportSection_RejectsDuplicateNames(t *testing.T) {
	b := []byte{
		0x02,
		0x01, 'a', 0x00, 0x00,
		0x01, 'a', 0x00, 0x01,
	}
	_, err := decodeExportSection(newTestReader(b))
	require.ErrorIs(t, err, wasm.ErrInvalidEncoding)
}

func TestDecodeExportSection_RejectsInvalidKind(t *testing.T) {
	b := []byte{0x01, 0x01, 'a', 0x04, 0x00}
	_, err := decodeExportSection(newTestReader(b))
	require.ErrorIs(t, err, wasm.ErrInvalidEncoding)
}

func TestDecodeStartSection(t *testing.T) {
	idx, err := decodeStartSection(newTestReader([]byte{0x05}))
	require.NoError(t, err)
	require.Equal(t, wasm.Index(5), *idx)
}

func TestDecodeElementSection(t *testing.T) {
	// table 0, offset i32.const 0, one func index 3
	b := []byte{
		0x01,
		0x00,
		0x41, 0x00, 0x0b,
		0x01, 0x03,
	}
	elems, err := decodeElementSection(newTestReader(b), api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Len(t, elems, 1)
	require.Equal(t, wasm.Index(0), elems[0].TableIndex)
	require.Equal(t, []wasm.Index{3}, elems[0].FuncIndex)
}

func TestDecodeDataSection(t *testing.T) {
	// memory 0, offset i32.const 0, 3 bytes of init data
	b := []byte{
		0x01,
		0x00,
		0x41, 0x00, 0x0b,
		0x03, 'a', 'b', 'c',
	}
	data, err := decodeDataSection(newTestReader(b), api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Len(t, data, 1)
	require.Equal(t, []byte("abc"), data[0].Init)
}

func TestDecodeDataCountSection(t *testing.T) {
	idx, err := decodeDataCountSection(newTestReader([]byte{0x02}))
	require.NoError(t, err)
	require.Equal(t, wasm.Index(2), *idx)
}
