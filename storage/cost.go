// Package storage charges callers for the storage their call consumes.
package storage

import (
	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/env"
	"github.com/holiman/uint256"
)

// MeasureCost runs f and returns the price of the storage it added. Calls that
// free storage cost nothing.
func MeasureCost(ctx *env.Context, f func() error) (*uint256.Int, error) {
	host := ctx.Host()
	before := host.StorageUsage()
	if err := f(); err != nil {
		return nil, err
	}
	after := host.StorageUsage()
	if after <= before {
		return new(uint256.Int), nil
	}
	delta := uint256.NewInt(after - before)
	return delta.Mul(delta, host.StorageByteCost()), nil
}

// LeftOverBalance runs f and returns what remains of the attached deposit
// after paying for the storage f added.
func LeftOverBalance(ctx *env.Context, f func() error) (*uint256.Int, error) {
	cost, err := MeasureCost(ctx, f)
	if err != nil {
		return nil, err
	}
	attached := ctx.AttachedDeposit()
	if err := core.Requiref(!attached.Lt(cost), core.ErrInsufficientDeposit,
		"attached %s, storage costs %s", attached.Dec(), cost.Dec()); err != nil {
		return nil, err
	}
	return attached.Sub(attached, cost), nil
}

// RefundCost runs f, charges the storage it added against the attached
// deposit and transfers the remainder back to the predecessor.
func RefundCost(ctx *env.Context, f func() error) error {
	left, err := LeftOverBalance(ctx, f)
	if err != nil {
		return err
	}
	if left.IsZero() {
		return nil
	}
	pred, err := ctx.Predecessor()
	if err != nil {
		return err
	}
	host := ctx.Host()
	batch := host.PromiseBatchCreate(pred)
	host.PromiseBatchActionTransfer(batch, left)
	ctx.Logger().Debug("storage refund", "to", pred, "amount", left.Dec())
	return nil
}
