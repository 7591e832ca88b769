package config

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/govm-net/riffs/repository"
	"github.com/govm-net/riffs/security"
	"github.com/govm-net/riffs/store"
	"github.com/govm-net/riffs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
log {
  level  = "debug"
  format = "json"
}

store {
  backend = "sqlite"
  path    = "${env.RIFFS_TEST_DIR}/state.db"
}

economics {
  storage_byte_cost = "1000"
  max_code_size     = "1MB"
  default_gas       = 200 * tgas
  validate_images   = false
}

limits {
  max_receipts  = 16
  max_args_size = "64KB"
}

account "alice.near" {
  balance    = 100 * near
  public_key = "ed25519:6E8sCci9badyRkXb3JoRpBj5p8C6Tw41ELDZoiihKEtp"
}

account "boot.near" {
  balance  = "50 NEAR"
  contract = "bootloader"
}
`

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, store.MemoryBackend, c.Backend)
	assert.Equal(t, 300*types.TGas, c.DefaultGas)
	assert.True(t, c.ValidateImages)
	assert.Equal(t, security.DefaultLimits(), c.Limits)
	assert.Empty(t, c.Accounts)
}

func TestParse(t *testing.T) {
	t.Setenv("RIFFS_TEST_DIR", "/tmp/riffs")
	c, err := Parse([]byte(sample), "riffs.hcl")
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, store.SQLiteBackend, c.Backend)
	assert.Equal(t, "/tmp/riffs/state.db", c.StorePath)
	assert.Equal(t, types.Yocto(1000), c.StorageByteCost)
	assert.Equal(t, datasize.MB, c.Limits.MaxCodeSize)
	assert.Equal(t, 64*datasize.KB, c.Limits.MaxArgsSize)
	assert.Equal(t, 16, c.Limits.MaxReceipts)
	assert.Equal(t, 200*types.TGas, c.DefaultGas)
	assert.False(t, c.ValidateImages)

	require.Len(t, c.Accounts, 2)
	assert.Equal(t, types.AccountID("alice.near"), c.Accounts[0].ID)
	assert.Equal(t, types.Near(100), c.Accounts[0].Balance)
	assert.Equal(t, types.PublicKey("ed25519:6E8sCci9badyRkXb3JoRpBj5p8C6Tw41ELDZoiihKEtp"), c.Accounts[0].PublicKey)
	assert.Equal(t, types.Near(50), c.Accounts[1].Balance)
	assert.Equal(t, "bootloader", c.Accounts[1].Contract)
}

func TestParsePartial(t *testing.T) {
	c, err := Parse([]byte(`limits { max_receipts = 3 }`), "riffs.hcl")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Limits.MaxReceipts)
	assert.Equal(t, security.DefaultLimits().MaxArgsSize, c.Limits.MaxArgsSize)
	assert.Equal(t, "info", c.LogLevel)
	assert.True(t, c.ValidateImages)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `log {`, "failed to parse"},
		{"unknown attribute", `colour = "red"`, "failed to decode"},
		{"level", `log { level = "loud" }`, "log.level"},
		{"format", `log { format = "xml" }`, "log.format"},
		{"backend", `store { backend = "etcd" }`, "store.backend"},
		{"byte cost", `economics { storage_byte_cost = "lots" }`, "economics.storage_byte_cost"},
		{"code size", `economics { max_code_size = "big" }`, "economics.max_code_size"},
		{"receipts", `limits { max_receipts = -1 }`, "limits.max_receipts"},
		{"args size", `limits { max_args_size = "1XB" }`, "limits.max_args_size"},
		{"account id", `account "Bad ID" {}`, `account "Bad ID"`},
		{"balance", `account "a.near" { balance = "ten" }`, "balance"},
		{"contract", `account "a.near" { contract = "nope" }`, "unknown contract"},
		{"key", `account "a.near" { public_key = "rsa:abc" }`, "public_key"},
		{"duplicate", "account \"a.near\" {}\naccount \"a.near\" {}", "declared twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "riffs.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RIFFS_TEST_DIR", dir)
	path := filepath.Join(dir, "riffs.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state.db"), c.StorePath)

	_, err = Load(filepath.Join(dir, "missing.hcl"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := Default()
	c.LogLevel, c.LogFormat = "warn", "json"
	logger := c.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "account", "alice.near")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"account":"alice.near"`)
}

func TestGenesis(t *testing.T) {
	ctx := context.Background()
	c, err := Parse([]byte(`
account "alice.near" { balance = 10 * near }
account "boot.near" {
  balance  = 10 * near
  contract = "bootloader"
}
`), "riffs.hcl")
	require.NoError(t, err)

	chain, err := c.NewChain(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer chain.Close(ctx)

	n, err := c.Genesis(ctx, chain)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = c.Genesis(ctx, chain)
	require.NoError(t, err)
	assert.Zero(t, n, "existing accounts are skipped")

	acct, err := chain.Account(ctx, "boot.near")
	require.NoError(t, err)
	assert.Equal(t, "bootloader", acct.Contract)
	assert.Equal(t, types.Near(10), acct.Balance)
}

func TestCodeDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := Default()
	c.Backend, c.StorePath = store.BadgerBackend, filepath.Join(dir, "state")
	c.CodeDir = filepath.Join(dir, "code")
	c.Accounts = []Account{{ID: "boot.near", Balance: types.Near(10), Contract: "registry"}}

	chain, err := c.NewChain(ctx, nil)
	require.NoError(t, err)
	defer chain.Close(ctx)
	_, err = c.Genesis(ctx, chain)
	require.NoError(t, err)

	m, err := repository.NewManager(c.CodeDir)
	require.NoError(t, err)
	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 1)

	acct, err := chain.Account(ctx, "boot.near")
	require.NoError(t, err)
	assert.Equal(t, list[0].Hash, acct.CodeHash)
}
