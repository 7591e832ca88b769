package registry

import (
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/guard"
)

// Methods are the registry entry points.
func Methods() env.Methods {
	return env.Methods{
		"patch":           publish(BumpPatch),
		"minor":           publish(BumpMinor),
		"major":           publish(BumpMajor),
		"fetch":           handleFetch,
		"current_version": handleCurrentVersion,
		"versions":        handleVersions,
	}
}

func publish(b Bump) env.Method {
	return func(ctx *env.Context) error {
		v, err := New(ctx, guard.New(ctx)).Publish(b)
		if err != nil {
			return err
		}
		ctx.ReturnBytes([]byte(v.String()))
		return nil
	}
}

func handleFetch(ctx *env.Context) error {
	selector, err := ctx.Input()
	if err != nil {
		return err
	}
	h, _, err := New(ctx, guard.New(ctx)).Fetch(string(selector))
	if err != nil {
		return err
	}
	ctx.ReturnHandle(h)
	return nil
}

func handleCurrentVersion(ctx *env.Context) error {
	v, err := New(ctx, guard.New(ctx)).Current()
	if err != nil {
		return err
	}
	ctx.ReturnBytes([]byte(v.String()))
	return nil
}

func handleVersions(ctx *env.Context) error {
	versions, err := New(ctx, guard.New(ctx)).Versions()
	if err != nil {
		return err
	}
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.String()
	}
	return ctx.ReturnJSON(out)
}
