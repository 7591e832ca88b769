package security

import (
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
)

func TestLimits(t *testing.T) {
	l := Limits{MaxReceipts: 2, MaxArgsSize: 4 * datasize.B, MaxCodeSize: 1 * datasize.KB}

	assert.NoError(t, l.CheckReceipts(2))
	assert.ErrorIs(t, l.CheckReceipts(3), ErrTooManyReceipts)
	assert.NoError(t, l.CheckArgs([]byte("abcd")))
	assert.ErrorIs(t, l.CheckArgs([]byte("abcde")), ErrArgsTooLarge)
	assert.NoError(t, l.CheckCode(make([]byte, 1024)))
	assert.ErrorIs(t, l.CheckCode(make([]byte, 1025)), ErrCodeTooLarge)

	// zero means unlimited
	var none Limits
	assert.NoError(t, none.CheckReceipts(1000))
	assert.NoError(t, none.CheckArgs(make([]byte, 1<<20)))
}

func TestCallTracer(t *testing.T) {
	tr := NewCallTracer()
	_, ok := tr.Current()
	assert.False(t, ok)

	tr.BeginCall(CallFrame{Receipt: "r1", Predecessor: "alice.near", Receiver: "boot.near", Method: "deploy"})
	cur, ok := tr.Current()
	assert.True(t, ok)
	assert.Equal(t, "r1", cur.Receipt)
	tr.EndCall(false)

	tr.BeginCall(CallFrame{Receipt: "r2", Parent: "r1", Predecessor: "boot.near", Receiver: "registry.near", Method: "fetch", Depth: 1})
	tr.EndCall(true)
	tr.EndCall(false) // no open frame

	frames := tr.Frames()
	assert.Len(t, frames, 2)
	assert.True(t, frames[1].Failed)
	assert.Equal(t, "alice.near -> boot.near.deploy\n  boot.near -> registry.near.fetch (failed)\n", tr.String())
}
