package guard_test

import (
	"testing"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/guard"
	"github.com/govm-net/riffs/hosttest"
	"github.com/govm-net/riffs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	app   = types.AccountID("app.near")
	alice = types.AccountID("alice.near")
	bob   = types.AccountID("bob.near")
	carol = types.AccountID("carol.near")
)

func TestNoOwnerFailsClosed(t *testing.T) {
	host := hosttest.New(app, alice)
	g := guard.New(host.Context())

	assert.ErrorIs(t, g.AssertOwner(), core.ErrNoOwnerSet)
	assert.ErrorIs(t, g.AssertOwnerOrAdmin(), core.ErrNotAdminOrOwner)

	_, ok, err := g.Owner()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetOwnerBootstrapAndTransfer(t *testing.T) {
	host := hosttest.New(app, alice)
	require.NoError(t, guard.New(host.Context()).SetOwner(alice))

	// only the owner may transfer
	err := guard.New(host.As(bob)).SetOwner(bob)
	assert.ErrorIs(t, err, core.ErrNotOwner)
	assert.Contains(t, err.Error(), string(bob))

	require.NoError(t, guard.New(host.As(alice)).SetOwner(bob))
	owner, ok, err := guard.New(host.Context()).Owner()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, bob, owner)

	assert.ErrorIs(t, guard.New(host.As(alice)).AssertOwner(), core.ErrNotOwner)
	assert.NoError(t, guard.New(host.As(bob)).AssertOwner())
}

func TestAdmins(t *testing.T) {
	host := hosttest.New(app, alice)
	require.NoError(t, guard.New(host.Context()).SetOwner(alice))

	// strangers cannot add admins
	err := guard.New(host.As(carol)).AddAdmin(carol)
	assert.ErrorIs(t, err, core.ErrNotAdminOrOwner)
	assert.Contains(t, err.Error(), string(carol))

	require.NoError(t, guard.New(host.As(alice)).AddAdmin(bob))
	require.NoError(t, guard.New(host.As(bob)).AddAdmin(carol))
	require.NoError(t, guard.New(host.As(bob)).AddAdmin(carol))

	g := guard.New(host.As(carol))
	admins, err := g.AdminList()
	require.NoError(t, err)
	assert.Equal(t, []types.AccountID{bob, carol}, admins)
	assert.NoError(t, g.AssertOwnerOrAdmin())
	// admins are not owners
	assert.ErrorIs(t, g.AssertOwner(), core.ErrNotOwner)
}

func TestCorruptOwnerRecord(t *testing.T) {
	host := hosttest.New(app, alice)
	host.Data[guard.OwnerKey] = []byte{0xc1}
	assert.ErrorIs(t, guard.New(host.Context()).AssertOwner(), core.ErrDeserialization)
	// a record that cannot be read is not up for grabs
	assert.ErrorIs(t, guard.New(host.As(bob)).SetOwner(bob), core.ErrDeserialization)
	assert.Equal(t, []byte{0xc1}, host.Data[guard.OwnerKey])
}

func call(t *testing.T, host *hosttest.Host, caller types.AccountID, method, in string) error {
	t.Helper()
	host.Reset()
	host.InputData = []byte(in)
	return guard.Methods()[method](host.As(caller))
}

func TestMethods(t *testing.T) {
	host := hosttest.New(app, alice)

	require.NoError(t, call(t, host, alice, "get_owner", ""))
	assert.Nil(t, host.Returned)
	require.NoError(t, call(t, host, alice, "get_owner_json", ""))
	assert.Equal(t, "null", string(host.Returned))

	require.NoError(t, call(t, host, alice, "set_owner", `{"account_id":"alice.near"}`))
	require.NoError(t, call(t, host, bob, "get_owner", ""))
	assert.Equal(t, "alice.near", string(host.Returned))
	require.NoError(t, call(t, host, bob, "get_owner_json", ""))
	assert.Equal(t, `"alice.near"`, string(host.Returned))

	require.NoError(t, call(t, host, alice, "add_admin", `"bob.near"`))
	require.NoError(t, call(t, host, carol, "is_admin", "bob.near"))
	assert.Equal(t, "true", string(host.Returned))
	require.NoError(t, call(t, host, carol, "is_admin", "carol.near"))
	assert.Equal(t, "false", string(host.Returned))
	require.NoError(t, call(t, host, carol, "get_admins", ""))
	assert.Equal(t, `["bob.near"]`, string(host.Returned))

	assert.ErrorIs(t, call(t, host, alice, "set_owner", ""), core.ErrMalformedInput)
}
