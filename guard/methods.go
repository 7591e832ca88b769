package guard

import (
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/input"
)

// Methods are the ownership entry points every contract exports.
func Methods() env.Methods {
	return env.Methods{
		"set_owner":      handleSetOwner,
		"get_owner":      handleGetOwner,
		"get_owner_json": handleGetOwnerJSON,
		"add_admin":      handleAddAdmin,
		"get_admins":     handleGetAdmins,
		"is_admin":       handleIsAdmin,
	}
}

func handleSetOwner(ctx *env.Context) error {
	raw, err := ctx.Input()
	if err != nil {
		return err
	}
	id, err := input.AccountID(raw)
	if err != nil {
		return err
	}
	return New(ctx).SetOwner(id)
}

// get_owner returns the bare account id, or nothing when unowned.
func handleGetOwner(ctx *env.Context) error {
	owner, ok, err := New(ctx).Owner()
	if err != nil || !ok {
		return err
	}
	ctx.ReturnBytes([]byte(owner))
	return nil
}

func handleGetOwnerJSON(ctx *env.Context) error {
	owner, ok, err := New(ctx).Owner()
	if err != nil {
		return err
	}
	if !ok {
		return ctx.ReturnJSON(nil)
	}
	return ctx.ReturnJSON(owner)
}

func handleAddAdmin(ctx *env.Context) error {
	raw, err := ctx.Input()
	if err != nil {
		return err
	}
	id, err := input.AccountID(raw)
	if err != nil {
		return err
	}
	return New(ctx).AddAdmin(id)
}

func handleGetAdmins(ctx *env.Context) error {
	admins, err := New(ctx).AdminList()
	if err != nil {
		return err
	}
	if admins == nil {
		return ctx.ReturnJSON([]string{})
	}
	return ctx.ReturnJSON(admins)
}

func handleIsAdmin(ctx *env.Context) error {
	raw, err := ctx.Input()
	if err != nil {
		return err
	}
	id, err := input.AccountID(raw)
	if err != nil {
		return err
	}
	ok, err := New(ctx).IsAdmin(id)
	if err != nil {
		return err
	}
	return ctx.ReturnJSON(ok)
}
