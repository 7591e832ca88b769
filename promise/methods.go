package promise

import (
	"fmt"
	"slices"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/guard"
	"github.com/govm-net/riffs/input"
	"github.com/govm-net/riffs/registry"
	"github.com/govm-net/riffs/types"
)

// DeployMethods exports deploy/_deploy and redeploy/on_redeploy.
func DeployMethods(requireOneYocto bool) env.Methods {
	return env.Methods{
		"deploy":      deployVia("_deploy", requireOneYocto),
		"_deploy":     resume("_deploy", StepInstall, StepInstallAborted),
		"redeploy":    deployVia("on_redeploy", requireOneYocto),
		"on_redeploy": resume("on_redeploy", StepInstall, StepInstallAborted),
	}
}

// PublishMethods exports publish_patch, publish_minor and publish_major.
func PublishMethods() env.Methods {
	m := make(env.Methods)
	for _, b := range []registry.Bump{registry.BumpPatch, registry.BumpMinor, registry.BumpMajor} {
		m["publish_"+b.String()] = func(ctx *env.Context) error {
			_, err := NewPublisher(ctx, guard.New(ctx)).Publish(b)
			return err
		}
	}
	return m
}

// LauncherMethods exports create_subaccount_and_deploy and its continuation.
func LauncherMethods() env.Methods {
	return env.Methods{
		"create_subaccount_and_deploy": handleCreateSubaccount,
		"on_account_created":           resume("on_account_created", StepAccountCreated),
	}
}

func deployVia(continuation string, requireOneYocto bool) env.Method {
	return func(ctx *env.Context) error {
		raw, err := ctx.Input()
		if err != nil {
			return err
		}
		s, err := input.String(raw, "account_id")
		if err != nil {
			return err
		}
		target, err := ParseTarget(s)
		if err != nil {
			return err
		}
		d := NewDeployer(ctx, guard.New(ctx), continuation)
		d.RequireOneYocto = requireOneYocto
		_, err = d.Deploy(target)
		return err
	}
}

// resume is the continuation entry point named entry. Only the account itself
// may call it and the step must be one the entry point accepts.
func resume(entry string, accepts ...StepKind) env.Method {
	return func(ctx *env.Context) error {
		if err := ctx.AssertPrivate(); err != nil {
			return err
		}
		raw, err := ctx.Input()
		if err != nil {
			return err
		}
		step, err := DecodeStep(raw)
		if err != nil {
			return err
		}
		if !slices.Contains(accepts, step.Kind) {
			return fmt.Errorf("%w: step %s delivered to %s", core.ErrMalformedInput, step.Kind, entry)
		}
		switch step.Kind {
		case StepInstall:
			return install(ctx, step, entry)
		case StepInstallAborted:
			return installAborted(step)
		case StepAccountCreated:
			return accountCreated(ctx, step)
		}
		return fmt.Errorf("%w: unhandled step %s", core.ErrMalformedInput, step.Kind)
	}
}

func handleCreateSubaccount(ctx *env.Context) error {
	raw, err := ctx.Input()
	if err != nil {
		return err
	}
	var p types.CreateSubaccountParams
	if err := input.JSON(raw, &p); err != nil {
		return err
	}
	_, err = NewLauncher(ctx, registry.New(ctx, guard.New(ctx))).CreateSubaccountAndDeploy(p)
	return err
}
