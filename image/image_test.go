package image

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// (module (func (export "add") (param i32 i32) (result i32)
//
//	local.get 0 local.get 1 i32.add))
var addModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
}

func TestBuildAndInspect(t *testing.T) {
	ctx := context.Background()
	code, err := Build(Manifest{Contract: "bootloader", Tag: "v2"})
	require.NoError(t, err)
	assert.Equal(t, wasmHeader, code[:8])

	info, err := Inspect(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, info.Manifest)
	assert.Equal(t, Manifest{Contract: "bootloader", Tag: "v2"}, *info.Manifest)
	assert.Equal(t, len(code), info.Size)
	assert.Len(t, info.Hash, 64)
	assert.Empty(t, info.Exports)

	name, err := info.Contract()
	require.NoError(t, err)
	assert.Equal(t, "bootloader", name)

	// tags make otherwise identical images distinct
	other := MustBuild("bootloader", "v3")
	assert.NotEqual(t, code, other)
}

func TestBuildRequiresContract(t *testing.T) {
	_, err := Build(Manifest{})
	assert.Error(t, err)
}

func TestInspectFunctions(t *testing.T) {
	info, err := Inspect(context.Background(), addModule)
	require.NoError(t, err)
	assert.Nil(t, info.Manifest)
	_, err = info.Contract()
	assert.ErrorIs(t, err, ErrNoManifest)

	require.Len(t, info.Exports, 1)
	assert.Equal(t, Function{Name: "add", Params: []string{"i32", "i32"}, Results: []string{"i32"}}, info.Exports[0])
	assert.Empty(t, info.Imports)
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect(context.Background(), []byte("definitely not wasm"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestInspectorCaches(t *testing.T) {
	ctx := context.Background()
	in := NewInspector(ctx, time.Minute)
	defer in.Close(ctx)

	code := MustBuild("registry", "")
	first, err := in.Inspect(ctx, code)
	require.NoError(t, err)
	second, err := in.Inspect(ctx, code)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestWriteULEB(t *testing.T) {
	tests := []struct {
		in   uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		writeULEB(&buf, tt.in)
		assert.Equal(t, tt.want, buf.Bytes())
	}
}
