package store_test

import (
	"testing"

	"github.com/govm-net/riffs/store"
	"github.com/govm-net/riffs/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayBatchOrder(t *testing.T) {
	o := store.NewOverlay(memory.New())
	o.Set([]byte("b"), []byte("2"))
	o.Set([]byte("a"), []byte("1"))
	o.Delete([]byte("c"))
	o.Set([]byte("d"), []byte("4"))
	o.Delete([]byte("d"))

	ops := o.Batch().Ops()
	require.Len(t, ops, 4)
	assert.Equal(t, "a", string(ops[0].Key))
	assert.Equal(t, "b", string(ops[1].Key))
	assert.True(t, ops[2].Delete())
	assert.True(t, ops[3].Delete())
}

func TestOverlayDiscard(t *testing.T) {
	base := memory.New()
	o := store.NewOverlay(base)
	o.Set([]byte("k"), []byte("v"))
	ok, err := o.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)

	o.Discard()
	require.NoError(t, o.Commit())
	assert.Equal(t, 0, base.Len())
}

func TestRegistryErrors(t *testing.T) {
	_, err := store.Open("nope", nil)
	assert.Error(t, err)
	assert.Error(t, store.SetDefault("nope"))
	assert.Error(t, store.Register(store.MemoryBackend, nil))
	assert.Equal(t, store.MemoryBackend, store.GetRegistry().DefaultBackend())
}

func TestPathParam(t *testing.T) {
	assert.Equal(t, "x.db", store.PathParam(map[string]any{"path": "x.db"}, "d"))
	assert.Equal(t, "d", store.PathParam(map[string]any{"path": 3}, "d"))
}
