package lazy_test

import (
	"testing"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/hosttest"
	"github.com/govm-net/riffs/lazy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	Text  string `msgpack:"text"`
	Count int    `msgpack:"count"`
}

func (message) StorageKey() []byte { return []byte("MESSAGE") }

func TestCellRoundTrip(t *testing.T) {
	host := hosttest.New("app.near", "alice.near")
	cell := lazy.Of[message](host.Context().Arena())
	assert.Equal(t, []byte("MESSAGE"), cell.Key())

	_, ok, err := cell.Get()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, cell.Exists())

	_, replaced, err := cell.Set(message{Text: "hi", Count: 1})
	require.NoError(t, err)
	assert.False(t, replaced)

	// a second invocation sees the value
	again := lazy.Of[message](host.Context().Arena())
	got, ok, err := again.Get()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, message{Text: "hi", Count: 1}, got)

	prev, replaced, err := again.Set(message{Text: "bye"})
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, "hi", prev.Text)
}

func TestCellUpdateOrDefault(t *testing.T) {
	host := hosttest.New("app.near", "alice.near")
	cell := lazy.New[[]string](host.Context().Arena(), []byte("list"))

	for _, s := range []string{"a", "b"} {
		_, err := cell.UpdateOrDefault(func(v []string) ([]string, error) {
			return append(v, s), nil
		})
		require.NoError(t, err)
	}
	got, err := cell.GetOrDefault()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	n, ok, err := lazy.Map(cell, func(v []string) int { return len(v) })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	removed, err := cell.Remove()
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok, err = lazy.Map(cell, func(v []string) int { return len(v) })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCellCorruptValue(t *testing.T) {
	host := hosttest.New("app.near", "alice.near")
	host.Data["MESSAGE"] = []byte{0xc1}

	_, _, err := lazy.Of[message](host.Context().Arena()).Get()
	assert.ErrorIs(t, err, core.ErrDeserialization)
}

func TestCellDeclinedUpdateWritesNothing(t *testing.T) {
	host := hosttest.New("app.near", "alice.near")
	cell := lazy.Of[message](host.Context().Arena())

	_, err := cell.UpdateOrDefault(func(m message) (message, error) {
		return m, core.ErrNotOwner
	})
	assert.ErrorIs(t, err, core.ErrNotOwner)
	assert.Empty(t, host.Data)
}
