// Package storetest holds the behaviour every store backend must share.
package storetest

import (
	"testing"

	"github.com/govm-net/riffs/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises s against the store contract.
func Run(t *testing.T, s store.Store) {
	t.Helper()

	t.Run("missing", func(t *testing.T) {
		_, err := s.Get([]byte("missing"))
		assert.ErrorIs(t, err, store.ErrNotFound)
		ok, err := s.Has([]byte("missing"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("commit", func(t *testing.T) {
		b := &store.Batch{}
		b.Set([]byte("a/alice"), []byte("one"))
		b.Set([]byte("a/bob"), []byte("two"))
		b.Set([]byte("empty"), []byte{})
		require.NoError(t, s.Commit(b))

		v, err := s.Get([]byte("a/alice"))
		require.NoError(t, err)
		assert.Equal(t, []byte("one"), v)

		v, err = s.Get([]byte("empty"))
		require.NoError(t, err)
		assert.Empty(t, v)

		ok, err := s.Has([]byte("a/bob"))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("overwrite and delete", func(t *testing.T) {
		b := &store.Batch{}
		b.Set([]byte("a/alice"), []byte("uno"))
		b.Delete([]byte("a/bob"))
		require.NoError(t, s.Commit(b))

		v, err := s.Get([]byte("a/alice"))
		require.NoError(t, err)
		assert.Equal(t, []byte("uno"), v)

		_, err = s.Get([]byte("a/bob"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("binary keys", func(t *testing.T) {
		key := []byte{0x00, 0xff, 0x10}
		b := &store.Batch{}
		b.Set(key, []byte{0x01})
		require.NoError(t, s.Commit(b))

		v, err := s.Get(key)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01}, v)
	})

	t.Run("overlay", func(t *testing.T) {
		o := store.NewOverlay(s)
		o.Set([]byte("pending"), []byte("x"))
		o.Delete([]byte("a/alice"))

		_, err := s.Get([]byte("pending"))
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = o.Get([]byte("a/alice"))
		assert.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, o.Commit())
		v, err := s.Get([]byte("pending"))
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), v)
		_, err = s.Get([]byte("a/alice"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
