// Package contracts wires the shipped contracts into a sandbox catalog.
package contracts

import (
	"github.com/govm-net/riffs/contracts/bootloader"
	"github.com/govm-net/riffs/contracts/launcher"
	"github.com/govm-net/riffs/contracts/registry"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/image"
	"github.com/govm-net/riffs/sandbox"
)

// Factories returns a constructor per contract name.
func Factories() map[string]sandbox.Factory {
	return map[string]sandbox.Factory{
		bootloader.Name: func() env.Contract { return bootloader.New() },
		registry.Name:   func() env.Contract { return registry.New() },
		launcher.Name:   func() env.Contract { return launcher.New() },
	}
}

// Register adds every shipped contract to c.
func Register(c *sandbox.Catalog) error {
	for name, f := range Factories() {
		if err := c.Register(name, f); err != nil {
			return err
		}
	}
	return nil
}

// Catalog returns a catalog holding the shipped contracts.
func Catalog() *sandbox.Catalog {
	c := sandbox.NewCatalog()
	if err := Register(c); err != nil {
		panic(err)
	}
	return c
}

// Image builds the image of a shipped contract. tag distinguishes otherwise
// identical images.
func Image(name, tag string) ([]byte, error) {
	return image.Build(image.Manifest{Contract: name, Tag: tag})
}
