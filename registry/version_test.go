package registry

import (
	"math"
	"testing"

	"github.com/govm-net/riffs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	for _, s := range []string{"1_2_3", "v1_2_3"} {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		assert.Equal(t, Version{1, 2, 3}, v)
		assert.Equal(t, "v1_2_3", v.String())
		assert.Equal(t, []byte("1_2_3"), v.Key())
	}
	for _, s := range []string{"", "v", "1_2", "1.2.3", "1_2_x", "1_2_65536", "vv1_2_3"} {
		_, err := ParseVersion(s)
		assert.ErrorIs(t, err, core.ErrMalformedInput, s)
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Version{0, 9, 9}.Compare(Version{1, 0, 0}))
	assert.Equal(t, 1, Version{1, 2, 0}.Compare(Version{1, 1, 9}))
	assert.Equal(t, 0, Version{1, 1, 1}.Compare(Version{1, 1, 1}))
}

func TestNext(t *testing.T) {
	v := Version{1, 2, 3}
	next, err := v.Next(BumpPatch)
	require.NoError(t, err)
	assert.Equal(t, Version{1, 2, 4}, next)
	next, err = v.Next(BumpMinor)
	require.NoError(t, err)
	assert.Equal(t, Version{1, 3, 0}, next)
	next, err = v.Next(BumpMajor)
	require.NoError(t, err)
	assert.Equal(t, Version{2, 0, 0}, next)

	_, err = Version{Patch: math.MaxUint16}.Next(BumpPatch)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}
