// Package env is the per-invocation view a contract component gets of its
// host: the host itself, a register arena and a handful of helpers for the
// facts every entry point needs.
package env

import (
	"fmt"
	"log/slog"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/reg"
	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
)

// Context is created by the runtime for one invocation and dropped afterwards.
type Context struct {
	host   types.Host
	arena  *reg.Arena
	logger *slog.Logger
}

// NewContext wraps host for a single invocation.
func NewContext(host types.Host, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		host:   host,
		arena:  reg.NewArena(host),
		logger: logger,
	}
}

func (c *Context) Host() types.Host     { return c.host }
func (c *Context) Arena() *reg.Arena    { return c.arena }
func (c *Context) Logger() *slog.Logger { return c.logger }

// Input returns the raw invocation input. Empty input is returned as an empty
// slice.
func (c *Context) Input() ([]byte, error) {
	return c.arena.ReadPurpose(reg.Input)
}

// InputHandle returns the register holding the invocation input.
func (c *Context) InputHandle() reg.Handle {
	return c.arena.Acquire(reg.Input)
}

func (c *Context) accountID(p reg.Purpose) (types.AccountID, error) {
	raw, err := c.arena.ReadPurpose(p)
	if err != nil {
		return "", err
	}
	id, err := types.ParseAccountID(string(raw))
	if err != nil {
		return "", fmt.Errorf("%s: %w", p, err)
	}
	return id, nil
}

// Predecessor is the account that made this call.
func (c *Context) Predecessor() (types.AccountID, error) {
	return c.accountID(reg.Predecessor)
}

// Current is the account executing this call.
func (c *Context) Current() (types.AccountID, error) {
	return c.accountID(reg.CurrentAccount)
}

// Signer is the account that signed the originating transaction.
func (c *Context) Signer() (types.AccountID, error) {
	return c.accountID(reg.Signer)
}

// SignerPK is the key the originating transaction was signed with.
func (c *Context) SignerPK() (types.PublicKey, error) {
	raw, err := c.arena.ReadPurpose(reg.SignerPK)
	if err != nil {
		return "", err
	}
	return types.PublicKey(raw), nil
}

// AttachedDeposit is the balance attached to this call.
func (c *Context) AttachedDeposit() *uint256.Int {
	return c.host.AttachedDeposit()
}

// AssertPrivate fails with ErrNotSelf unless the account called itself.
func (c *Context) AssertPrivate() error {
	pred, err := c.Predecessor()
	if err != nil {
		return err
	}
	cur, err := c.Current()
	if err != nil {
		return err
	}
	return core.Requiref(pred == cur, core.ErrNotSelf, "called by %s", pred)
}

// AssertOneYocto requires exactly one yocto attached. Wallets only attach a
// deposit after an explicit confirmation with a full access key.
func (c *Context) AssertOneYocto() error {
	return core.Require(c.host.AttachedDeposit().Eq(types.OneYocto()), core.ErrRequiresOneYocto)
}

// Log writes msg to the invocation log.
func (c *Context) Log(format string, args ...any) {
	c.host.LogStr(fmt.Sprintf(format, args...))
}

// ReturnBytes sets the invocation's return value.
func (c *Context) ReturnBytes(data []byte) {
	c.host.ValueReturn(uint64(c.arena.Stage(data)))
}

// ReturnHandle returns the content of h without copying it.
func (c *Context) ReturnHandle(h reg.Handle) {
	c.host.ValueReturn(uint64(h))
}

// ReturnJSON sets the JSON encoding of v as return value.
func (c *Context) ReturnJSON(v any) error {
	data, err := core.SafeMarshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSerialization, err)
	}
	c.ReturnBytes(data)
	return nil
}
