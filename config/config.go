// Package config loads the sandbox configuration from an HCL file.
//
//	log { level = "debug" }
//	store {
//	  backend = "sqlite"
//	  path    = "${env.HOME}/.riffs/state.db"
//	}
//	economics { default_gas = 300 * tgas }
//	account "boot.near" {
//	  balance  = 50 * near
//	  contract = "bootloader"
//	}
//
// Expressions may use env.<NAME> for environment variables, near (10^24
// yocto) and tgas (10^12 gas).
package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/govm-net/riffs/contracts"
	"github.com/govm-net/riffs/security"
	"github.com/govm-net/riffs/store"
	"github.com/govm-net/riffs/types"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/holiman/uint256"
	"github.com/zclconf/go-cty/cty"
)

// File is the raw HCL schema.
type File struct {
	Log       *LogBlock       `hcl:"log,block"`
	Store     *StoreBlock     `hcl:"store,block"`
	CodeDir   string          `hcl:"code_dir,optional"`
	Economics *EconomicsBlock `hcl:"economics,block"`
	Limits    *LimitsBlock    `hcl:"limits,block"`
	Accounts  []AccountBlock  `hcl:"account,block"`
}

type LogBlock struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

type StoreBlock struct {
	Backend  string `hcl:"backend,optional"`
	Path     string `hcl:"path,optional"`
	InMemory bool   `hcl:"in_memory,optional"`
}

type EconomicsBlock struct {
	StorageByteCost string `hcl:"storage_byte_cost,optional"`
	MaxCodeSize     string `hcl:"max_code_size,optional"`
	DefaultGas      uint64 `hcl:"default_gas,optional"`
	ValidateImages  *bool  `hcl:"validate_images,optional"`
}

type LimitsBlock struct {
	MaxReceipts int    `hcl:"max_receipts,optional"`
	MaxArgsSize string `hcl:"max_args_size,optional"`
}

type AccountBlock struct {
	ID        string `hcl:"id,label"`
	Balance   string `hcl:"balance,optional"`
	Contract  string `hcl:"contract,optional"`
	PublicKey string `hcl:"public_key,optional"`
}

// Config is the validated configuration.
type Config struct {
	LogLevel  string
	LogFormat string

	Backend       store.BackendType
	StorePath     string
	StoreInMemory bool
	// CodeDir keeps binaries in a file repository instead of the store.
	CodeDir string

	StorageByteCost *uint256.Int
	DefaultGas      types.Gas
	ValidateImages  bool
	Limits          security.Limits

	Accounts []Account
}

// Account is a genesis account.
type Account struct {
	ID        types.AccountID
	Balance   *uint256.Int
	Contract  string
	PublicKey types.PublicKey
}

// Default returns an in-memory configuration without accounts.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Backend:         store.MemoryBackend,
		StorageByteCost: uint256.NewInt(10_000_000_000_000_000_000),
		DefaultGas:      300 * types.TGas,
		ValidateImages:  true,
		Limits:          security.DefaultLimits(),
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}
	return decode(file, path)
}

// Parse reads and validates configuration source. filename labels diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (*Config, error) {
	var f File
	if diags := gohcl.DecodeBody(file.Body, EvalContext(), &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}
	return f.resolve()
}

// EvalContext exposes env, near and tgas to expressions.
func EvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && hclsyntax.ValidIdentifier(k) {
			vars[k] = cty.StringVal(v)
		}
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	near := new(big.Float).SetPrec(512).SetInt(types.OneNear().ToBig())
	return &hcl.EvalContext{Variables: map[string]cty.Value{
		"env":  env,
		"near": cty.NumberVal(near),
		"tgas": cty.NumberUIntVal(uint64(types.TGas)),
	}}
}

func (f *File) resolve() (*Config, error) {
	c := Default()
	if b := f.Log; b != nil {
		if b.Level != "" {
			c.LogLevel = b.Level
		}
		if b.Format != "" {
			c.LogFormat = b.Format
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("log.level: unknown level %q", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return nil, fmt.Errorf("log.format: unknown format %q", c.LogFormat)
	}

	if b := f.Store; b != nil {
		if b.Backend != "" {
			c.Backend = store.BackendType(b.Backend)
		}
		c.StorePath, c.StoreInMemory = b.Path, b.InMemory
	}
	switch c.Backend {
	case store.MemoryBackend, store.SQLiteBackend, store.BadgerBackend:
	default:
		return nil, fmt.Errorf("store.backend: unknown backend %q", c.Backend)
	}
	c.CodeDir = f.CodeDir

	if b := f.Economics; b != nil {
		if b.StorageByteCost != "" {
			v, err := types.ParseBalance(b.StorageByteCost)
			if err != nil {
				return nil, fmt.Errorf("economics.storage_byte_cost: %w", err)
			}
			c.StorageByteCost = v
		}
		if b.MaxCodeSize != "" {
			v, err := parseSize(b.MaxCodeSize)
			if err != nil {
				return nil, fmt.Errorf("economics.max_code_size: %w", err)
			}
			c.Limits.MaxCodeSize = v
		}
		if b.DefaultGas != 0 {
			c.DefaultGas = types.Gas(b.DefaultGas)
		}
		if b.ValidateImages != nil {
			c.ValidateImages = *b.ValidateImages
		}
	}

	if b := f.Limits; b != nil {
		if b.MaxReceipts < 0 {
			return nil, fmt.Errorf("limits.max_receipts: must not be negative, got %d", b.MaxReceipts)
		}
		if b.MaxReceipts > 0 {
			c.Limits.MaxReceipts = b.MaxReceipts
		}
		if b.MaxArgsSize != "" {
			v, err := parseSize(b.MaxArgsSize)
			if err != nil {
				return nil, fmt.Errorf("limits.max_args_size: %w", err)
			}
			c.Limits.MaxArgsSize = v
		}
	}

	seen := make(map[types.AccountID]bool)
	for _, b := range f.Accounts {
		a, err := b.resolve()
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", b.ID, err)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("account %q: declared twice", b.ID)
		}
		seen[a.ID] = true
		c.Accounts = append(c.Accounts, a)
	}
	return c, nil
}

func (b AccountBlock) resolve() (Account, error) {
	id, err := types.ParseAccountID(b.ID)
	if err != nil {
		return Account{}, err
	}
	a := Account{ID: id, Balance: new(uint256.Int), Contract: b.Contract}
	if _, ok := contracts.Factories()[b.Contract]; b.Contract != "" && !ok {
		return Account{}, fmt.Errorf("contract: unknown contract %q", b.Contract)
	}
	if b.Balance != "" {
		if a.Balance, err = types.ParseBalance(b.Balance); err != nil {
			return Account{}, fmt.Errorf("balance: %w", err)
		}
	}
	if b.PublicKey != "" {
		if a.PublicKey, err = types.ParsePublicKey(b.PublicKey); err != nil {
			return Account{}, fmt.Errorf("public_key: %w", err)
		}
	}
	return a, nil
}

func parseSize(s string) (datasize.ByteSize, error) {
	var v datasize.ByteSize
	if err := v.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return v, nil
}
