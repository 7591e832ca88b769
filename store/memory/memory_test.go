package memory

import (
	"testing"

	"github.com/govm-net/riffs/store"
	"github.com/govm-net/riffs/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storetest.Run(t, New())
}

func TestRegistered(t *testing.T) {
	s, err := store.Open(store.MemoryBackend, nil)
	require.NoError(t, err)
	assert.IsType(t, &Store{}, s)
	assert.Contains(t, store.ListRegistered(), store.MemoryBackend)
}

func TestCommitCopiesValues(t *testing.T) {
	s := New()
	value := []byte("abc")
	b := &store.Batch{}
	b.Set([]byte("k"), value)
	require.NoError(t, s.Commit(b))

	value[0] = 'z'
	got, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
	assert.Equal(t, 1, s.Len())
}
