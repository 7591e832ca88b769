package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(true, ErrNotOwner))
	assert.NoError(t, Require(nil, ErrNotOwner))
	assert.ErrorIs(t, Require(false, ErrNotOwner), ErrNotOwner)

	err := Require(errors.New("boom"), ErrMalformedInput)
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), "boom")

	assert.Same(t, ErrNotSelf, Require(ErrNotSelf, ErrNotSelf))
}

func TestRequiref(t *testing.T) {
	assert.NoError(t, Requiref(true, ErrMalformedInput, "unused"))
	err := Requiref(false, ErrMalformedInput, "bad version %q", "x")
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Equal(t, `malformed input: bad version "x"`, err.Error())
}

func TestSafeMarshal(t *testing.T) {
	out, err := SafeMarshal(map[string]string{"a": "<b>"})
	assert.NoError(t, err)
	assert.Equal(t, `{"a":"<b>"}`, string(out))
}

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(nil))
}
