// Package bootloader is the contract a fresh account starts with. It knows
// its owner and can replace itself with a binary fetched from a registry.
package bootloader

import (
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/guard"
	"github.com/govm-net/riffs/promise"
)

// Name is the contract name carried by bootloader images.
const Name = "bootloader"

type Contract struct {
	// RequireOneYocto guards deploy and redeploy with a one yocto deposit.
	RequireOneYocto bool
}

func New() *Contract {
	return &Contract{RequireOneYocto: true}
}

func (c *Contract) Methods() env.Methods {
	return env.Compose(
		guard.Methods(),
		promise.DeployMethods(c.RequireOneYocto),
		promise.PublishMethods(),
	)
}
