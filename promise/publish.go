package promise

import (
	"fmt"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/guard"
	"github.com/govm-net/riffs/registry"
	"github.com/govm-net/riffs/types"
)

// PublishBuffer is kept back from the forwarded gas.
const PublishBuffer = 1 * types.TGas

// Publisher forwards publications to the registry sub-account
// registry.<current account>.
type Publisher struct {
	ctx  *env.Context
	auth guard.Ownable
}

func NewPublisher(ctx *env.Context, auth guard.Ownable) *Publisher {
	return &Publisher{ctx: ctx, auth: auth}
}

// Publish calls the registry's bump method with the invocation input and the
// attached deposit, passing on all remaining gas but PublishBuffer.
func (p *Publisher) Publish(b registry.Bump) (uint64, error) {
	if err := p.auth.AssertOwner(); err != nil {
		return 0, err
	}
	current, err := p.ctx.Current()
	if err != nil {
		return 0, err
	}
	target, err := types.ParseAccountID("registry." + string(current))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	payload, err := p.ctx.Input()
	if err != nil {
		return 0, err
	}

	host := p.ctx.Host()
	used := host.UsedGas() + PublishBuffer
	if host.PrepaidGas() <= used {
		return 0, fmt.Errorf("%w: not enough gas left to forward", core.ErrMalformedInput)
	}
	id := host.PromiseCreate(target, b.String(), payload, p.ctx.AttachedDeposit(), host.PrepaidGas()-used)
	host.PromiseReturn(id)
	return id, nil
}
