package env

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/types"
)

// Method is an exported entry point of a contract.
type Method func(ctx *Context) error

// Methods maps entry point names to their implementation.
type Methods map[string]Method

// Contract is a deployable set of entry points.
type Contract interface {
	Methods() Methods
}

// Names returns the sorted entry point names.
func (m Methods) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compose merges method tables. Two tables exporting the same name is a
// programming error and panics.
func Compose(tables ...Methods) Methods {
	out := make(Methods)
	for _, table := range tables {
		for name, m := range table {
			if _, dup := out[name]; dup {
				panic(fmt.Sprintf("duplicate entry point %q", name))
			}
			out[name] = m
		}
	}
	return out
}

// Dispatch runs method of c against host.
func Dispatch(c Contract, host types.Host, method string, logger *slog.Logger) error {
	m, ok := c.Methods()[method]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrMethodNotFound, method)
	}
	return m(NewContext(host, logger))
}
