package contracts

import (
	"testing"

	"github.com/govm-net/riffs/contracts/bootloader"
	"github.com/govm-net/riffs/contracts/launcher"
	"github.com/govm-net/riffs/contracts/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	c := Catalog()
	assert.Equal(t, []string{"bootloader", "launcher", "registry"}, c.Names())
	assert.Error(t, Register(c))
}

func TestSurfaces(t *testing.T) {
	owner := []string{"add_admin", "get_admins", "get_owner", "get_owner_json", "is_admin", "set_owner"}

	boot := bootloader.New()
	assert.True(t, boot.RequireOneYocto)
	assert.Subset(t, boot.Methods().Names(), owner)
	assert.Subset(t, boot.Methods().Names(), []string{
		"deploy", "_deploy", "redeploy", "on_redeploy", "publish_patch", "publish_minor", "publish_major",
	})

	reg := registry.New().Methods().Names()
	assert.Subset(t, reg, owner)
	assert.Subset(t, reg, []string{"patch", "minor", "major", "fetch", "current_version", "versions"})
	assert.NotContains(t, reg, "deploy")

	l := launcher.New().Methods().Names()
	assert.Len(t, l, len(reg)+2)
	assert.Subset(t, l, []string{"create_subaccount_and_deploy", "on_account_created"})
}

func TestImage(t *testing.T) {
	code, err := Image(launcher.Name, "")
	require.NoError(t, err)
	contract, err := Catalog().Lookup(launcher.Name)
	require.NoError(t, err)
	assert.NotNil(t, contract)
	assert.NotEmpty(t, code)
}
