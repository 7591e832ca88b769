package promise

import (
	"fmt"
	"strings"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/reg"
	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
)

const InitGas = 20 * types.TGas

// MinDeployDeposit is the least a caller must attach to get a sub-account.
func MinDeployDeposit() *uint256.Int {
	return types.Near(6)
}

// BinarySource loads the binary new accounts are created with.
type BinarySource interface {
	CurrentBinary() (reg.Handle, error)
}

// Launcher creates sub-accounts of the current account running the current
// binary of the local registry.
type Launcher struct {
	ctx    *env.Context
	source BinarySource
}

func NewLauncher(ctx *env.Context, source BinarySource) *Launcher {
	return &Launcher{ctx: ctx, source: source}
}

// SubAccountID resolves a requested name: "bob" and "bob.<current>" both give
// "bob.<current>"; deeper names are rejected.
func SubAccountID(requested string, current types.AccountID) (types.AccountID, error) {
	name := strings.TrimSuffix(requested, "."+string(current))
	if err := core.Requiref(name != "" && !strings.Contains(name, "."), core.ErrMalformedInput,
		"can only create direct sub-accounts of %s, got %q", current, requested); err != nil {
		return "", err
	}
	id, err := types.ParseAccountID(name + "." + string(current))
	return id, core.Require(err, core.ErrMalformedInput)
}

// CreateSubaccountAndDeploy creates the account, funds it with the attached
// deposit, installs the current binary and hands ownership to the owner. The
// returned promise resolves to whether creation succeeded.
func (l *Launcher) CreateSubaccountAndDeploy(p types.CreateSubaccountParams) (uint64, error) {
	amount := l.ctx.AttachedDeposit()
	if err := core.Requiref(!amount.Lt(MinDeployDeposit()), core.ErrInsufficientDeposit,
		"requires at least %s yocto to deploy, got %s", MinDeployDeposit().Dec(), amount.Dec()); err != nil {
		return 0, err
	}
	current, err := l.ctx.Current()
	if err != nil {
		return 0, err
	}
	newAccount, err := SubAccountID(p.NewAccountID, current)
	if err != nil {
		return 0, err
	}
	pred, err := l.ctx.Predecessor()
	if err != nil {
		return 0, err
	}
	owner := p.OwnerID
	if owner == "" {
		owner = pred
	} else if err := owner.Validate(); err != nil {
		return 0, fmt.Errorf("%w: owner: %v", core.ErrMalformedInput, err)
	}
	key := p.NewPublicKey
	if key == "" {
		if key, err = l.ctx.SignerPK(); err != nil {
			return 0, err
		}
	}
	if _, err := types.ParsePublicKey(string(key)); err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}

	binary, err := l.source.CurrentBinary()
	if err != nil {
		return 0, err
	}

	host := l.ctx.Host()
	batch := host.PromiseBatchCreate(newAccount)
	host.PromiseBatchActionCreateAccount(batch)
	host.PromiseBatchActionAddKeyWithFullAccess(batch, key, 0)
	host.PromiseBatchActionTransfer(batch, amount)
	host.PromiseBatchActionDeployContract(batch, uint64(binary))
	host.PromiseBatchActionFunctionCall(batch, "set_owner", []byte(owner), new(uint256.Int), InitGas)

	args, err := Step{
		Kind:        StepAccountCreated,
		Predecessor: pred,
		Amount:      amount.Dec(),
		Account:     newAccount,
	}.Encode()
	if err != nil {
		return 0, err
	}
	then := host.PromiseBatchThen(batch, current)
	host.PromiseBatchActionFunctionCall(then, "on_account_created", args, new(uint256.Int), InitGas)
	host.PromiseReturn(then)
	l.ctx.Log("new_account_id, %s", newAccount)
	return then, nil
}

// accountCreated reports whether creation succeeded and refunds the deposit
// to the original caller when it did not.
func accountCreated(ctx *env.Context, s Step) error {
	if n := ctx.Host().PromiseResultsCount(); n != 1 {
		return fmt.Errorf("%w: expected a result on the callback, got %d", core.ErrMalformedInput, n)
	}
	_, status := ctx.Arena().PromiseOutcome(0)
	if status == types.PromiseSuccessful {
		return ctx.ReturnJSON(true)
	}

	amount, err := s.AmountValue()
	if err != nil {
		return err
	}
	if err := s.Predecessor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	if !amount.IsZero() {
		host := ctx.Host()
		refund := host.PromiseBatchCreate(s.Predecessor)
		host.PromiseBatchActionTransfer(refund, amount)
	}
	ctx.Log("creating %s failed, refunded %s to %s", s.Account, amount.Dec(), s.Predecessor)
	return ctx.ReturnJSON(false)
}
