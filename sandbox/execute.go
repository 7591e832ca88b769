package sandbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/security"
	"github.com/govm-net/riffs/store"
	"github.com/govm-net/riffs/types"
)

// txRun is the execution state of one transaction: the receipt queue and the
// slots results travel through.
type txRun struct {
	chain    *Chain
	slots    []*slot
	queue    []*Receipt
	tracer   *security.CallTracer
	outcome  *Outcome
	executed int
}

func (c *Chain) run(ctx context.Context, first *Receipt) *Outcome {
	t := &txRun{
		chain:   c,
		tracer:  security.NewCallTracer(),
		outcome: &Outcome{TxID: first.ID},
	}
	final := t.newSlot()
	first.outputs = []int{final}
	t.queue = []*Receipt{first}

	for len(t.queue) > 0 {
		i := t.next()
		if i < 0 {
			c.logger.Error("receipts stalled", "tx", first.ID, "pending", len(t.queue))
			break
		}
		r := t.queue[i]
		t.queue = append(t.queue[:i], t.queue[i+1:]...)
		t.step(ctx, r)
	}

	s := t.slots[final]
	o := t.outcome
	o.Trace = t.tracer.Frames()
	if !s.done {
		o.Status, o.Err = types.PromiseFailed, "transaction did not complete"
		return o
	}
	o.Status, o.Value, o.Err, o.cause = s.status, s.data, s.err, s.cause
	return o
}

func (t *txRun) newSlot() int {
	t.slots = append(t.slots, &slot{})
	return len(t.slots) - 1
}

// next returns the first queued receipt whose dependencies are resolved.
func (t *txRun) next() int {
	for i, r := range t.queue {
		ready := true
		for _, d := range r.deps {
			if !t.slots[d].done {
				ready = false
				break
			}
		}
		if ready {
			return i
		}
	}
	return -1
}

func (t *txRun) fill(outputs []int, s slot) {
	s.done = true
	for _, id := range outputs {
		v := s
		t.slots[id] = &v
	}
}

func (t *txRun) step(ctx context.Context, r *Receipt) {
	c := t.chain
	t.executed++
	res := &Result{
		ID:          r.ID,
		Predecessor: r.Predecessor,
		Receiver:    r.Receiver,
		Method:      r.Method(),
		Deposit:     r.Deposit(),
	}
	t.outcome.Receipts = append(t.outcome.Receipts, res)
	t.tracer.BeginCall(r.frame())

	results := make([]*slot, len(r.deps))
	for i, d := range r.deps {
		results[i] = t.slots[d]
	}
	overlay := store.NewOverlay(c.store)
	rt := newRuntime(c, overlay, r, results)

	err := c.limits.CheckReceipts(t.executed)
	if err == nil {
		err = rt.apply(ctx)
	}
	if err == nil {
		err = rt.flush()
	}
	if err == nil {
		err = overlay.Commit()
	}
	res.Logs, res.GasUsed = rt.logs, rt.gasUsed

	if err != nil {
		overlay.Discard()
		res.Status, res.Err, res.cause = types.PromiseFailed, err.Error(), err
		t.fill(r.outputs, slot{status: types.PromiseFailed, err: res.Err, cause: err})
		c.logger.Warn("receipt failed", "receipt", r.ID, "receiver", r.Receiver, "method", res.Method, "error", err)
		c.refund(r)
		t.tracer.EndCall(true)
		return
	}
	res.Status, res.Value = types.PromiseSuccessful, rt.returned
	t.schedule(r, rt)
	t.tracer.EndCall(false)
}

// schedule turns the promises of a successful receipt into receipts and wires
// their results.
func (t *txRun) schedule(parent *Receipt, rt *runtime) {
	receipts := make([]*Receipt, len(rt.promises))
	for i, p := range rt.promises {
		if p.joint() {
			continue
		}
		receipts[i] = &Receipt{
			ID:          uuid.NewString(),
			Parent:      parent.ID,
			Depth:       parent.Depth + 1,
			Predecessor: parent.Receiver,
			Receiver:    p.receiver,
			Signer:      parent.Signer,
			SignerKey:   parent.SignerKey,
			Actions:     p.actions,
		}
	}
	for i, p := range rt.promises {
		if p.joint() {
			continue
		}
		for _, dep := range p.after {
			for _, src := range expand(rt.promises, dep) {
				s := t.newSlot()
				receipts[src].outputs = append(receipts[src].outputs, s)
				receipts[i].deps = append(receipts[i].deps, s)
			}
		}
	}

	if rt.returnedPromise != nil {
		target := receipts[*rt.returnedPromise]
		target.outputs = append(target.outputs, parent.outputs...)
	} else {
		t.fill(parent.outputs, slot{status: types.PromiseSuccessful, data: rt.returned})
	}
	for _, r := range receipts {
		if r != nil {
			t.queue = append(t.queue, r)
		}
	}
}

// expand resolves a promise index to the receipt promises it stands for.
func expand(promises []*pending, idx uint64) []uint64 {
	p := promises[idx]
	if !p.joint() {
		return []uint64{idx}
	}
	var out []uint64
	for _, j := range p.joined {
		out = append(out, expand(promises, j)...)
	}
	return out
}

// apply runs the receipt's actions in order. Host aborts are recovered and
// reported as errors.
func (rt *runtime) apply(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if he, ok := r.(*types.HostError); ok {
				err = he
				return
			}
			err = fmt.Errorf("%w: panic: %v", ErrExecution, r)
		}
	}()
	for i, a := range rt.receipt.Actions {
		if err := rt.applyAction(ctx, a); err != nil {
			return fmt.Errorf("action #%d (%s): %w", i, a.Kind, err)
		}
	}
	return nil
}

func (rt *runtime) applyAction(ctx context.Context, a Action) error {
	r := rt.receipt
	if a.Kind == ActionCreateAccount {
		_, err := rt.account(r.Receiver)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrAccountExists, r.Receiver)
		}
		if !errors.Is(err, ErrAccountNotFound) {
			return err
		}
		if !r.Receiver.IsSubAccountOf(r.Predecessor) {
			return fmt.Errorf("%w: %s cannot create %s", ErrCannotCreateAccount, r.Predecessor, r.Receiver)
		}
		rt.accounts[r.Receiver] = newAccount()
		return nil
	}

	acct, err := rt.account(r.Receiver)
	if err != nil {
		return err
	}
	switch a.Kind {
	case ActionTransfer:
		return acct.credit(a.amount())
	case ActionAddKey:
		if _, err := types.ParsePublicKey(string(a.Key)); err != nil {
			return err
		}
		return acct.addKey(a.Key)
	case ActionDeleteKey:
		return acct.deleteKey(a.Key)
	case ActionDeployContract:
		return rt.chain.install(ctx, acct, a.Code)
	case ActionFunctionCall:
		return rt.call(ctx, acct, a)
	}
	return fmt.Errorf("unknown action %q", a.Kind)
}

func (rt *runtime) call(ctx context.Context, acct *Account, a Action) error {
	c := rt.chain
	if err := c.limits.CheckArgs(a.Args); err != nil {
		return err
	}
	if err := acct.credit(a.amount()); err != nil {
		return err
	}
	contract, err := c.resolve(ctx, acct)
	if err != nil {
		return err
	}
	rt.beginCall(a)
	defer rt.endCall()
	logger := c.logger.With("account", rt.receipt.Receiver, "receipt", rt.receipt.ID)
	return env.Dispatch(contract, rt, a.Method, logger)
}
