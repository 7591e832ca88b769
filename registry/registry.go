// Package registry is an append-only catalog of contract binaries keyed by
// semantic version. Only the owner publishes; anyone may fetch.
package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/guard"
	"github.com/govm-net/riffs/lazy"
	"github.com/govm-net/riffs/reg"
	"github.com/govm-net/riffs/storage"
)

const RegistryKey = "REGISTRY"

// State is the persisted version history, oldest first.
type State struct {
	Versions []Version `msgpack:"versions"`
}

func (State) StorageKey() []byte { return []byte(RegistryKey) }

// Current is the latest published version, or the zero version.
func (s State) Current() Version {
	if len(s.Versions) == 0 {
		return Version{}
	}
	return s.Versions[len(s.Versions)-1]
}

// Latest is the highest published version, or the zero version.
func (s State) Latest() Version {
	if len(s.Versions) == 0 {
		return Version{}
	}
	return slices.MaxFunc(s.Versions, Version.Compare)
}

// Registry operates on the registry stored in the current account.
type Registry struct {
	ctx   *env.Context
	auth  guard.Ownable
	state *lazy.Cell[State]
}

// New returns the registry of the invocation in ctx, gated by auth.
func New(ctx *env.Context, auth guard.Ownable) *Registry {
	return &Registry{
		ctx:   ctx,
		auth:  auth,
		state: lazy.Of[State](ctx.Arena()),
	}
}

// Current returns the latest published version.
func (r *Registry) Current() (Version, error) {
	st, err := r.state.GetOrDefault()
	return st.Current(), err
}

// Versions returns every published version, oldest first.
func (r *Registry) Versions() ([]Version, error) {
	st, err := r.state.GetOrDefault()
	return st.Versions, err
}

// Publish stores the invocation input as the binary of the next version. The
// caller pays for the storage out of the attached deposit and gets the rest
// back.
func (r *Registry) Publish(b Bump) (Version, error) {
	if err := r.auth.AssertOwner(); err != nil {
		return Version{}, err
	}
	binary, err := r.ctx.Input()
	if err != nil {
		return Version{}, err
	}
	if len(binary) == 0 {
		return Version{}, fmt.Errorf("%w: empty binary", core.ErrMalformedInput)
	}

	var next Version
	err = storage.RefundCost(r.ctx, func() error {
		st, err := r.state.GetOrDefault()
		if err != nil {
			return err
		}
		next, err = st.Current().Next(b)
		if err != nil {
			return err
		}
		if latest := st.Latest(); next.Compare(latest) <= 0 {
			return fmt.Errorf("%w: %s is not newer than %s", core.ErrMalformedInput, next, latest)
		}
		arena := r.ctx.Arena()
		if arena.HasKey(next.Key()) {
			return fmt.Errorf("%w: %s already holds a binary", core.ErrMalformedInput, next)
		}
		if _, _, err := arena.Write(next.Key(), r.ctx.InputHandle()); err != nil {
			return err
		}
		st.Versions = append(st.Versions, next)
		_, _, err = r.state.Set(st)
		return err
	})
	if err != nil {
		return Version{}, err
	}
	r.ctx.Logger().Info("binary published", "version", next.String(), "size", len(binary))
	return next, nil
}

// Fetch loads the binary for selector into a register. An empty selector
// means the current version.
func (r *Registry) Fetch(selector string) (reg.Handle, Version, error) {
	var (
		v   Version
		err error
	)
	if selector = strings.TrimSpace(selector); selector == "" {
		v, err = r.Current()
	} else {
		v, err = ParseVersion(selector)
	}
	if err != nil {
		return 0, v, err
	}
	h, ok := r.ctx.Arena().StorageRead(v.Key())
	if !ok {
		return 0, v, fmt.Errorf("%w: %s", core.ErrMissingBinary, v)
	}
	return h, v, nil
}

// CurrentBinary loads the binary of the current version.
func (r *Registry) CurrentBinary() (reg.Handle, error) {
	h, _, err := r.Fetch("")
	return h, err
}
