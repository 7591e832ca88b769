// Package promise implements the multi-step workflows of a contract: the
// two-phase install of a binary fetched from a registry, sub-account creation
// and forwarding publications to a registry.
//
// A workflow schedules its first call and a continuation on the current
// account. The continuation receives a Step describing what to do when the
// first call has resolved.
package promise

import (
	"encoding/json"
	"fmt"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
)

// StepKind selects the continuation logic.
type StepKind uint8

const (
	// StepInstall installs the binary returned by the dependency.
	StepInstall StepKind = iota + 1
	// StepAccountCreated finishes sub-account creation, refunding on failure.
	StepAccountCreated
	// StepInstallAborted fails the install after the deposit was refunded.
	StepInstallAborted
)

var stepNames = map[StepKind]string{
	StepInstall:        "install",
	StepAccountCreated: "account_created",
	StepInstallAborted: "install_aborted",
}

func (k StepKind) String() string {
	if name, ok := stepNames[k]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", uint8(k))
}

func (k StepKind) MarshalText() ([]byte, error) {
	if _, ok := stepNames[k]; !ok {
		return nil, fmt.Errorf("unknown step kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *StepKind) UnmarshalText(text []byte) error {
	for kind, name := range stepNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", text)
}

// Step is the payload of a continuation call.
type Step struct {
	Kind        StepKind        `json:"step"`
	Predecessor types.AccountID `json:"predecessor_account_id,omitempty"`
	Amount      string          `json:"amount,omitempty"`
	Account     types.AccountID `json:"new_account_id,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// Encode serializes s for a continuation call.
func (s Step) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSerialization, err)
	}
	return data, nil
}

// AmountValue parses Amount; an empty amount is zero.
func (s Step) AmountValue() (*uint256.Int, error) {
	if s.Amount == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q", core.ErrMalformedInput, s.Amount)
	}
	return v, nil
}

// DecodeStep parses a continuation payload.
func DecodeStep(raw []byte) (Step, error) {
	var s Step
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%w: continuation step: %v", core.ErrDeserialization, err)
	}
	if s.Kind == 0 {
		return s, fmt.Errorf("%w: continuation step missing", core.ErrDeserialization)
	}
	return s, nil
}
