// Package reg hands out host registers by purpose for the duration of one
// invocation.
//
// Identity facts (input, account ids, promise results) are filled into their
// own register the first time they are acquired and are never re-fetched.
// Storage reads and evictions share scratch registers that are overwritten by
// every operation of that kind.
package reg

import (
	"fmt"
	"math"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/types"
)

//go:generate mockgen -source=arena.go -destination=mock_host_test.go -package=reg

// Host is the part of the runtime the arena talks to.
type Host interface {
	types.Registers
	types.Identity
	StorageWrite(key []byte, valueRegister, evictedRegister uint64) bool
	StorageRead(key []byte, register uint64) bool
	StorageRemove(key []byte, evictedRegister uint64) bool
	StorageHasKey(key []byte) bool
	PromiseResult(index uint64, register uint64) types.PromiseStatus
}

// Handle is a register id.
type Handle uint64

// Purpose names what a register holds.
type Purpose uint64

const (
	Input Purpose = iota
	CurrentAccount
	Predecessor
	Signer
	SignerPK
	// StorageData receives every storage read.
	StorageData
	// Evicted receives values displaced by writes and removals.
	Evicted
	// Staged holds bytes the component pushes towards the host.
	Staged

	promiseResultBase
)

// Scratch registers live at the top of the id space.
const (
	evictedRegister Handle = math.MaxUint64 - 1
	dataRegister    Handle = math.MaxUint64 - 2
	stagedRegister  Handle = math.MaxUint64 - 3
)

// PromiseResult is the purpose of the n-th dependency result.
func PromiseResult(n uint64) Purpose {
	return promiseResultBase + Purpose(n)
}

func (p Purpose) String() string {
	switch p {
	case Input:
		return "input"
	case CurrentAccount:
		return "current_account"
	case Predecessor:
		return "predecessor"
	case Signer:
		return "signer"
	case SignerPK:
		return "signer_pk"
	case StorageData:
		return "storage_data"
	case Evicted:
		return "evicted"
	case Staged:
		return "staged"
	}
	return fmt.Sprintf("promise_result(%d)", uint64(p-promiseResultBase))
}

func (p Purpose) scratch() bool {
	return p == StorageData || p == Evicted || p == Staged
}

// Handle returns the register reserved for p.
func (p Purpose) Handle() Handle {
	switch p {
	case StorageData:
		return dataRegister
	case Evicted:
		return evictedRegister
	case Staged:
		return stagedRegister
	}
	return Handle(p)
}

// Arena tracks which purpose registers have been filled in the current
// invocation. An Arena must not outlive the invocation it was created for.
type Arena struct {
	host     Host
	filled   map[Purpose]bool
	statuses map[uint64]types.PromiseStatus
}

// NewArena creates an empty arena over host.
func NewArena(host Host) *Arena {
	return &Arena{
		host:     host,
		filled:   make(map[Purpose]bool),
		statuses: make(map[uint64]types.PromiseStatus),
	}
}

// Acquire returns the register for p, asking the host to fill it the first
// time p is acquired. Scratch purposes are returned as is.
func (a *Arena) Acquire(p Purpose) Handle {
	h := p.Handle()
	if p.scratch() || a.filled[p] {
		return h
	}
	switch p {
	case Input:
		a.host.Input(uint64(h))
	case CurrentAccount:
		a.host.CurrentAccountID(uint64(h))
	case Predecessor:
		a.host.PredecessorAccountID(uint64(h))
	case Signer:
		a.host.SignerAccountID(uint64(h))
	case SignerPK:
		a.host.SignerAccountPK(uint64(h))
	default:
		n := uint64(p - promiseResultBase)
		a.statuses[n] = a.host.PromiseResult(n, uint64(h))
	}
	a.filled[p] = true
	return h
}

// Read copies the content of h. An unset register yields ErrResourceEmpty.
func (a *Arena) Read(h Handle) ([]byte, error) {
	data, ok := a.host.ReadRegister(uint64(h))
	if !ok {
		return nil, fmt.Errorf("%w: register %d", core.ErrResourceEmpty, uint64(h))
	}
	return data, nil
}

// ReadPurpose acquires p and reads it.
func (a *Arena) ReadPurpose(p Purpose) ([]byte, error) {
	return a.Read(a.Acquire(p))
}

// Stage places data in the staged register so it can be passed to the host
// by handle.
func (a *Arena) Stage(data []byte) Handle {
	a.host.WriteRegister(uint64(stagedRegister), data)
	return stagedRegister
}

// Write stores the content of value under key. When a previous value existed
// it is returned.
func (a *Arena) Write(key []byte, value Handle) ([]byte, bool, error) {
	if !a.host.StorageWrite(key, uint64(value), uint64(evictedRegister)) {
		return nil, false, nil
	}
	prev, err := a.Read(evictedRegister)
	if err != nil {
		return nil, false, err
	}
	return prev, true, nil
}

// WriteBytes stages value and writes it under key.
func (a *Arena) WriteBytes(key, value []byte) ([]byte, bool, error) {
	return a.Write(key, a.Stage(value))
}

// StorageRead loads key into the shared data register. The handle is valid
// until the next storage read.
func (a *Arena) StorageRead(key []byte) (Handle, bool) {
	return dataRegister, a.host.StorageRead(key, uint64(dataRegister))
}

// ReadStorage loads and copies the value under key.
func (a *Arena) ReadStorage(key []byte) ([]byte, bool, error) {
	h, ok := a.StorageRead(key)
	if !ok {
		return nil, false, nil
	}
	data, err := a.Read(h)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Remove deletes key and returns the removed value, if any.
func (a *Arena) Remove(key []byte) ([]byte, bool, error) {
	if !a.host.StorageRemove(key, uint64(evictedRegister)) {
		return nil, false, nil
	}
	prev, err := a.Read(evictedRegister)
	if err != nil {
		return nil, false, err
	}
	return prev, true, nil
}

// HasKey reports whether key is present in storage.
func (a *Arena) HasKey(key []byte) bool {
	return a.host.StorageHasKey(key)
}

// PromiseOutcome acquires the n-th dependency result and returns its register
// together with the resolution status.
func (a *Arena) PromiseOutcome(n uint64) (Handle, types.PromiseStatus) {
	h := a.Acquire(PromiseResult(n))
	return h, a.statuses[n]
}

// PromiseValue returns the handle of the n-th dependency result if it
// succeeded.
func (a *Arena) PromiseValue(n uint64) (Handle, error) {
	h, status := a.PromiseOutcome(n)
	switch status {
	case types.PromiseSuccessful:
		return h, nil
	case types.PromiseFailed:
		return 0, fmt.Errorf("%w: dependency %d", core.ErrPriorCallFailed, n)
	default:
		return 0, fmt.Errorf("%w: dependency %d not ready", core.ErrResourceEmpty, n)
	}
}
