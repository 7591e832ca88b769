// Package core provides the error taxonomy and small helpers shared by the
// contract components and the host runtime.
package core

import (
	"errors"
)

// Errors surfaced by contract components. Every one of them aborts the
// invocation that produced it; the runtime discards the invocation's writes.
var (
	ErrNotOwner            = errors.New("not owner")
	ErrNoOwnerSet          = errors.New("no owner set")
	ErrNotAdminOrOwner     = errors.New("not admin or owner")
	ErrNotSelf             = errors.New("method is private")
	ErrResourceEmpty       = errors.New("resource empty")
	ErrMissingBinary       = errors.New("MISSING BINARY")
	ErrDeserialization     = errors.New("deserialization error")
	ErrSerialization       = errors.New("serialization error")
	ErrPriorCallFailed     = errors.New("prior call failed")
	ErrMalformedInput      = errors.New("malformed input")
	ErrInsufficientDeposit = errors.New("insufficient deposit")
	ErrRequiresOneYocto    = errors.New("requires attached deposit of exactly 1 yoctoNEAR")
	ErrMethodNotFound      = errors.New("method not found")
)
