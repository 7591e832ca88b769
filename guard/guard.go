// Package guard implements ownership and administration of a contract
// account. The owner is a single optional account stored under OWNER; admins
// are a list stored under ADMINS.
package guard

import (
	"slices"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/lazy"
	"github.com/govm-net/riffs/types"
)

const (
	OwnerKey  = "OWNER"
	AdminsKey = "ADMINS"
)

// Owner is the persisted owner record. A nil Account means no owner yet.
type Owner struct {
	Account *types.AccountID `msgpack:"account"`
}

func (Owner) StorageKey() []byte { return []byte(OwnerKey) }

// Admins is the persisted admin list.
type Admins struct {
	Accounts []types.AccountID `msgpack:"accounts"`
}

func (Admins) StorageKey() []byte { return []byte(AdminsKey) }

// Contains reports whether id is an admin.
func (a Admins) Contains(id types.AccountID) bool {
	return slices.Contains(a.Accounts, id)
}

// Ownable is what a component needs to gate its operations. Components opt in
// by taking an Ownable at construction.
type Ownable interface {
	AssertOwner() error
	AssertOwnerOrAdmin() error
}

// Guard reads and updates the authorization state of the current account.
type Guard struct {
	ctx    *env.Context
	owner  *lazy.Cell[Owner]
	admins *lazy.Cell[Admins]
}

var _ Ownable = (*Guard)(nil)

// New returns the guard for the invocation in ctx.
func New(ctx *env.Context) *Guard {
	return &Guard{
		ctx:    ctx,
		owner:  lazy.Of[Owner](ctx.Arena()),
		admins: lazy.Of[Admins](ctx.Arena()),
	}
}

// Owner returns the current owner. ok is false when no owner was set.
func (g *Guard) Owner() (id types.AccountID, ok bool, err error) {
	rec, err := g.owner.GetOrDefault()
	if err != nil || rec.Account == nil {
		return "", false, err
	}
	return *rec.Account, true, nil
}

// IsOwner reports whether id is the owner.
func (g *Guard) IsOwner(id types.AccountID) (bool, error) {
	owner, ok, err := g.Owner()
	return ok && owner == id, err
}

// AssertOwner requires the predecessor to be the owner. With no owner set
// every caller is rejected.
func (g *Guard) AssertOwner() error {
	owner, ok, err := g.Owner()
	if err != nil {
		return err
	}
	if err := core.Require(ok, core.ErrNoOwnerSet); err != nil {
		return err
	}
	pred, err := g.ctx.Predecessor()
	if err != nil {
		return err
	}
	return core.Requiref(pred == owner, core.ErrNotOwner, "%s", pred)
}

// AdminList returns the admins.
func (g *Guard) AdminList() ([]types.AccountID, error) {
	admins, err := g.admins.GetOrDefault()
	return admins.Accounts, err
}

// IsAdmin reports whether id is an admin.
func (g *Guard) IsAdmin(id types.AccountID) (bool, error) {
	admins, err := g.admins.GetOrDefault()
	return admins.Contains(id), err
}

// AssertOwnerOrAdmin requires the predecessor to be the owner or an admin.
func (g *Guard) AssertOwnerOrAdmin() error {
	pred, err := g.ctx.Predecessor()
	if err != nil {
		return err
	}
	isOwner, err := g.IsOwner(pred)
	if err != nil {
		return err
	}
	if isOwner {
		return nil
	}
	isAdmin, err := g.IsAdmin(pred)
	if err != nil {
		return err
	}
	return core.Requiref(isAdmin, core.ErrNotAdminOrOwner, "%s", pred)
}

// SetOwner installs the first owner, or transfers ownership when called by the
// current owner.
func (g *Guard) SetOwner(id types.AccountID) error {
	if g.owner.Exists() {
		if err := g.AssertOwner(); err != nil {
			return err
		}
	}
	if _, _, err := g.owner.Set(Owner{Account: &id}); err != nil {
		return err
	}
	g.ctx.Logger().Debug("owner set", "owner", id)
	return nil
}

// AddAdmin appends id to the admins unless it is already one.
func (g *Guard) AddAdmin(id types.AccountID) error {
	if err := g.AssertOwnerOrAdmin(); err != nil {
		return err
	}
	_, err := g.admins.UpdateOrDefault(func(a Admins) (Admins, error) {
		if !a.Contains(id) {
			a.Accounts = append(a.Accounts, id)
		}
		return a, nil
	})
	return err
}
