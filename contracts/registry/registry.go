// Package registry is the version registry contract.
package registry

import (
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/guard"
	versions "github.com/govm-net/riffs/registry"
)

// Name is the contract name carried by registry images.
const Name = "registry"

type Contract struct{}

func New() *Contract { return &Contract{} }

func (Contract) Methods() env.Methods {
	return env.Compose(guard.Methods(), versions.Methods())
}
