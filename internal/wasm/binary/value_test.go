package binary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazerocore/wasmdecode/api"
	"github.com/wazerocore/wasmdecode/internal/wasm"
)

func newTestReader(b []byte) *reader {
	return newReader(b, 0, nil, wasm.NewArena())
}

func TestDecodeValueType(t *testing.T) {
	tests := []struct {
		name     string
		input    byte
		features api.CoreFeatures
		expected wasm.ValueType
		wantErr  bool
	}{
		{name: "i32", input: 0x7f, features: api.CoreFeaturesV1, expected: wasm.ValueTypeI32},
		{name: "f64", input: 0x7c, features: api.CoreFeaturesV1, expected: wasm.ValueTypeF64},
		{name: "funcref without reference-types", input: 0x70, features: api.CoreFeaturesV1, wantErr: true},
		{name: "funcref with reference-types", input: 0x70, features: api.CoreFeatureReferenceTypes, expected: wasm.ValueTypeFuncref},
		{name: "invalid byte", input: 0x00, features: api.CoreFeaturesV2, wantErr: true},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			vt, err := decodeValueType(newTestReader([]byte{tc.input}), tc.features)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, vt)
		})
	}
}

func TestDecodeBlockType(t *testing.T) {
	bt, err := decodeBlockType(newTestReader([]byte{0x40}), api.CoreFeaturesV1)
	require.NoError(t, err)
	require.True(t, bt.Empty)

	bt, err = decodeBlockType(newTestReader([]byte{0x7f}), api.CoreFeaturesV1)
	require.NoError(t, err)
	require.False(t, bt.Empty)
	require.Equal(t, wasm.ValueTypeI32, bt.ValueType)
}

func TestDecodeLimits(t *testing.T) {
	l, err := decodeLimits(newTestReader([]byte{0x00, 0x01}))
	require.NoError(t, err)
	require.Equal(t, uint32(1), l.Min)
	require.Nil(t, l.Max)

	l, err = decodeLimits(newTestReader([]byte{0x01, 0x01, 0x10}))
	require.NoError(t, err)
	require.Equal(t, uint32(1), l.Min)
	require.NotNil(t, l.Max)
	require.Equal(t, uint32(0x10), *l.Max)
}

func TestDecodeLimits_InvalidFlag(t *testing.T) {
	_, err := decodeLimits(newTestReader([]byte{0x02, 0x01}))
	require.Error(t, err)
}

func TestDecodeFuncType(t *testing.T) {
	// (i32, i32) -> i32
	ft, err := decodeFuncType(newTestReader([]byte{0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f}), api.CoreFeaturesV2)
	require.NoError(t, err)
	require.Equal(t, []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI32}, ft.Params)
	require.Equal(t, []wasm.ValueType{wasm.ValueTypeI32}, ft.Results)
}

func TestDecodeFuncType_WrongForm(t *testing.T) {
	_, err := decodeFuncType(newTestReader([]byte{0x61}), api.CoreFeaturesV2)
	require.ErrorIs(t, err, wasm.ErrExpectedFuncType)
}

func TestDecodeFuncType_MultiValueGated(t *testing.T) {
	// two results requires CoreFeatureMultiValue
	b := []byte{0x60, 0x00, 0x02, 0x7f, 0x7e}
	_, err := decodeFuncType(newTestReader(b), api.CoreFeaturesV1)
	require.ErrorIs(t, err, wasm.ErrUnsupported)

	ft, err := decodeFuncType(newTestReader(b), api.CoreFeaturesV1|api.CoreFeatureMultiValue)
	require.NoError(t, err)
	require.Equal(t, []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI64}, ft.Results)
}

func TestDecodeTable(t *testing.T) {
	tbl, err := decodeTable(newTestReader([]byte{0x70, 0x00, 0x01}), api.CoreFeaturesV1)
	require.NoError(t, err)
	require.Equal(t, wasm.ValueTypeFuncref, tbl.RefType)
	require.Equal(t, uint32(1), tbl.Limits.Min)
}

func TestDecodeGlobalType(t *testing.T) {
	gt, err := decodeGlobalType(newTestReader([]byte{0x7f, 0x01}), api.CoreFeaturesV1)
	require.NoError(t, err)
	require.Equal(t, wasm.ValueTypeI32, gt.ValueType)
	require.True(t, gt.Mutable)
}
