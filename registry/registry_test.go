package registry_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/guard"
	"github.com/govm-net/riffs/hosttest"
	"github.com/govm-net/riffs/lazy"
	"github.com/govm-net/riffs/registry"
	"github.com/govm-net/riffs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner    = types.AccountID("alice.near")
	stranger = types.AccountID("mallory.near")
)

func newHost(t *testing.T) *hosttest.Host {
	t.Helper()
	host := hosttest.New("registry.near", owner)
	require.NoError(t, guard.New(host.Context()).SetOwner(owner))
	return host
}

func publish(t *testing.T, host *hosttest.Host, caller types.AccountID, b registry.Bump, binary string) (registry.Version, error) {
	t.Helper()
	host.Reset()
	host.InputData = []byte(binary)
	host.Deposit = types.Near(1)
	ctx := host.As(caller)
	return registry.New(ctx, guard.New(ctx)).Publish(b)
}

func TestPublishSequence(t *testing.T) {
	host := newHost(t)

	steps := []struct {
		bump registry.Bump
		want string
	}{
		{registry.BumpPatch, "v0_0_1"},
		{registry.BumpPatch, "v0_0_2"},
		{registry.BumpMinor, "v0_1_0"},
		{registry.BumpMajor, "v1_0_0"},
		{registry.BumpPatch, "v1_0_1"},
	}
	for i, s := range steps {
		v, err := publish(t, host, owner, s.bump, string(rune('A'+i)))
		require.NoError(t, err)
		assert.Equal(t, s.want, v.String())
	}

	r := registry.New(host.Context(), guard.New(host.Context()))
	versions, err := r.Versions()
	require.NoError(t, err)
	want := []registry.Version{{0, 0, 1}, {0, 0, 2}, {0, 1, 0}, {1, 0, 0}, {1, 0, 1}}
	if diff := cmp.Diff(want, versions); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}

	// every published version stays fetchable with its own bytes
	for i, v := range want {
		h, got, err := r.Fetch(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
		data, err := host.Context().Arena().Read(h)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte('A' + i)}, data)
	}

	h, cur, err := r.Fetch("")
	require.NoError(t, err)
	assert.Equal(t, registry.Version{Major: 1, Patch: 1}, cur)
	data, err := host.Context().Arena().Read(h)
	require.NoError(t, err)
	assert.Equal(t, []byte("E"), data)
}

func TestPublishKeepsVersionsIncreasing(t *testing.T) {
	host := newHost(t)
	history := registry.State{Versions: []registry.Version{{Major: 1}, {Patch: 1}}}
	_, _, err := lazy.Of[registry.State](host.Context().Arena()).Set(history)
	require.NoError(t, err)
	assert.Equal(t, registry.Version{Major: 1}, history.Latest())

	_, err = publish(t, host, owner, registry.BumpPatch, "binary")
	assert.ErrorIs(t, err, core.ErrMalformedInput)
	assert.Contains(t, err.Error(), "v0_0_2 is not newer than v1_0_0")
	assert.NotContains(t, host.Keys(), "0_0_2")

	_, err = publish(t, host, owner, registry.BumpMajor, "binary")
	assert.ErrorIs(t, err, core.ErrMalformedInput)
	assert.Empty(t, host.Promises)
}

func TestPublishRequiresOwner(t *testing.T) {
	host := newHost(t)
	_, err := publish(t, host, stranger, registry.BumpPatch, "binary")
	assert.ErrorIs(t, err, core.ErrNotOwner)
	assert.NotContains(t, host.Keys(), registry.RegistryKey)
}

func TestPublishWithoutOwner(t *testing.T) {
	host := hosttest.New("registry.near", owner)
	_, err := publish(t, host, owner, registry.BumpPatch, "binary")
	assert.ErrorIs(t, err, core.ErrNoOwnerSet)
}

func TestPublishRejectsEmptyBinary(t *testing.T) {
	host := newHost(t)
	_, err := publish(t, host, owner, registry.BumpPatch, "")
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestPublishInsufficientDeposit(t *testing.T) {
	host := newHost(t)
	host.Reset()
	host.InputData = []byte("binary")
	host.Deposit = types.OneYocto()
	ctx := host.As(owner)
	_, err := registry.New(ctx, guard.New(ctx)).Publish(registry.BumpPatch)
	assert.ErrorIs(t, err, core.ErrInsufficientDeposit)
}

func TestPublishRefundsRemainder(t *testing.T) {
	host := newHost(t)
	before := host.StorageUsage()
	_, err := publish(t, host, owner, registry.BumpPatch, "binary")
	require.NoError(t, err)

	used := host.StorageUsage() - before
	cost := types.Yocto(used)
	cost.Mul(cost, host.ByteCost)
	refund := types.Near(1)
	refund.Sub(refund, cost)

	require.Len(t, host.Promises, 1)
	assert.Equal(t, owner, host.Promises[0].Account)
	assert.Equal(t, refund, host.Promises[0].Actions[0].Amount)
}

func TestFetchMissing(t *testing.T) {
	host := newHost(t)
	r := registry.New(host.Context(), guard.New(host.Context()))

	_, _, err := r.Fetch("")
	assert.ErrorIs(t, err, core.ErrMissingBinary)
	_, _, err = r.Fetch("v3_0_0")
	assert.ErrorIs(t, err, core.ErrMissingBinary)
	_, _, err = r.Fetch("three")
	assert.ErrorIs(t, err, core.ErrMalformedInput)

	// a version listed in the history whose binary is gone
	_, err = publish(t, host, owner, registry.BumpPatch, "binary")
	require.NoError(t, err)
	delete(host.Data, "0_0_1")
	_, _, err = r.Fetch("0_0_1")
	assert.ErrorIs(t, err, core.ErrMissingBinary)
}

func TestMethods(t *testing.T) {
	host := newHost(t)
	m := registry.Methods()

	host.Reset()
	host.InputData = []byte("code")
	host.Deposit = types.Near(1)
	require.NoError(t, m["patch"](host.As(owner)))
	assert.Equal(t, "v0_0_1", string(host.Returned))

	host.Reset()
	require.NoError(t, m["current_version"](host.As(stranger)))
	assert.Equal(t, "v0_0_1", string(host.Returned))

	host.Reset()
	require.NoError(t, m["versions"](host.As(stranger)))
	assert.Equal(t, `["v0_0_1"]`, string(host.Returned))

	host.Reset()
	host.InputData = nil
	require.NoError(t, m["fetch"](host.As(stranger)))
	assert.Equal(t, "code", string(host.Returned))

	host.Reset()
	host.InputData = []byte("0_0_1")
	require.NoError(t, m["fetch"](host.As(stranger)))
	assert.Equal(t, "code", string(host.Returned))
}
