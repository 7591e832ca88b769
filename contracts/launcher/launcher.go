// Package launcher is a registry that also creates sub-accounts running its
// current binary.
package launcher

import (
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/guard"
	"github.com/govm-net/riffs/promise"
	"github.com/govm-net/riffs/registry"
)

// Name is the contract name carried by launcher images.
const Name = "launcher"

type Contract struct{}

func New() *Contract { return &Contract{} }

func (Contract) Methods() env.Methods {
	return env.Compose(guard.Methods(), registry.Methods(), promise.LauncherMethods())
}
