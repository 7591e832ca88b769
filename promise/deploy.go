package promise

import (
	"errors"
	"fmt"
	"strings"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/guard"
	"github.com/govm-net/riffs/registry"
	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
)

const (
	FetchGas   = 70 * types.TGas
	InstallGas = 70 * types.TGas
	AbortGas   = 5 * types.TGas
)

// Target names a published binary: "v0_0_1.registry.near" is version 0_0_1 of
// the registry at registry.near.
type Target struct {
	Version  registry.Version
	Registry types.AccountID
}

// ParseTarget splits s on its first '.'.
func ParseTarget(s string) (Target, error) {
	version, account, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || version == "" || account == "" {
		return Target{}, fmt.Errorf("%w: expected <version>.<registry account>, got %q", core.ErrMalformedInput, s)
	}
	v, err := registry.ParseVersion(version)
	if err != nil {
		return Target{}, err
	}
	id, err := types.ParseAccountID(account)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	return Target{Version: v, Registry: id}, nil
}

func (t Target) String() string {
	return t.Version.String() + "." + string(t.Registry)
}

// Deployer replaces the code of the current account with a binary fetched
// from a registry. The binary is installed by a continuation, so a failed
// fetch leaves the account untouched and returns the attached deposit.
type Deployer struct {
	ctx  *env.Context
	auth guard.Ownable
	// Continuation is the entry point that installs the fetched binary.
	Continuation string
	// RequireOneYocto makes the owner prove a full access key by attaching
	// exactly one yocto.
	RequireOneYocto bool
}

// NewDeployer returns a deployer that resumes in continuation.
func NewDeployer(ctx *env.Context, auth guard.Ownable, continuation string) *Deployer {
	return &Deployer{ctx: ctx, auth: auth, Continuation: continuation}
}

// Deploy schedules fetch on the registry followed by the install continuation
// and returns the continuation's promise, which becomes the call's result.
func (d *Deployer) Deploy(t Target) (uint64, error) {
	if err := d.auth.AssertOwner(); err != nil {
		return 0, err
	}
	if d.RequireOneYocto {
		if err := d.ctx.AssertOneYocto(); err != nil {
			return 0, err
		}
	}
	current, err := d.ctx.Current()
	if err != nil {
		return 0, err
	}
	pred, err := d.ctx.Predecessor()
	if err != nil {
		return 0, err
	}
	args, err := Step{
		Kind:        StepInstall,
		Predecessor: pred,
		Amount:      d.ctx.AttachedDeposit().Dec(),
	}.Encode()
	if err != nil {
		return 0, err
	}

	host := d.ctx.Host()
	fetch := host.PromiseCreate(t.Registry, "fetch", t.Version.Key(), new(uint256.Int), FetchGas)
	install := host.PromiseThen(fetch, current, d.Continuation, args, new(uint256.Int), InstallGas)
	host.PromiseReturn(install)
	d.ctx.Logger().Info("deploy scheduled", "target", t.String(), "continuation", d.Continuation)
	return install, nil
}

// install deploys the dependency's result onto the current account. When the
// fetch failed the deposit of the outer call goes back to s.Predecessor and a
// second continuation on entry fails the workflow, so the refund survives.
func install(ctx *env.Context, s Step, entry string) error {
	if n := ctx.Host().PromiseResultsCount(); n != 1 {
		return fmt.Errorf("%w: install expects 1 dependency, got %d", core.ErrMalformedInput, n)
	}
	binary, err := ctx.Arena().PromiseValue(0)
	if errors.Is(err, core.ErrPriorCallFailed) {
		return abortInstall(ctx, s, entry, err)
	}
	if err != nil {
		return err
	}
	current, err := ctx.Current()
	if err != nil {
		return err
	}
	host := ctx.Host()
	batch := host.PromiseBatchCreate(current)
	host.PromiseBatchActionDeployContract(batch, uint64(binary))
	host.PromiseReturn(batch)
	return nil
}

func abortInstall(ctx *env.Context, s Step, entry string, cause error) error {
	amount, err := s.AmountValue()
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return cause
	}
	if err := s.Predecessor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	current, err := ctx.Current()
	if err != nil {
		return err
	}
	reason := fmt.Sprintf("fetch failed, refunded %s to %s", amount.Dec(), s.Predecessor)
	args, err := Step{Kind: StepInstallAborted, Reason: reason}.Encode()
	if err != nil {
		return err
	}

	host := ctx.Host()
	refund := host.PromiseBatchCreate(s.Predecessor)
	host.PromiseBatchActionTransfer(refund, amount)
	then := host.PromiseBatchThen(refund, current)
	host.PromiseBatchActionFunctionCall(then, entry, args, new(uint256.Int), AbortGas)
	host.PromiseReturn(then)
	ctx.Log("install aborted: %s", reason)
	return nil
}

// installAborted reports the failure recorded by abortInstall.
func installAborted(s Step) error {
	return fmt.Errorf("%w: %s", core.ErrPriorCallFailed, s.Reason)
}
