package sandbox

import (
	"github.com/govm-net/riffs/security"
	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
)

// ActionKind names a receipt action.
type ActionKind string

const (
	ActionCreateAccount  ActionKind = "create_account"
	ActionDeployContract ActionKind = "deploy_contract"
	ActionFunctionCall   ActionKind = "function_call"
	ActionTransfer       ActionKind = "transfer"
	ActionAddKey         ActionKind = "add_key"
	ActionDeleteKey      ActionKind = "delete_key"
)

// Action is one step of a receipt. All actions of a receipt succeed or none do.
type Action struct {
	Kind    ActionKind
	Method  string
	Args    []byte
	Deposit *uint256.Int
	Gas     types.Gas
	Code    []byte
	Key     types.PublicKey
}

func (a Action) amount() *uint256.Int {
	if a.Deposit == nil {
		return new(uint256.Int)
	}
	return a.Deposit
}

// Receipt is a unit of execution against one receiver.
type Receipt struct {
	ID          string
	Parent      string
	Depth       int
	Predecessor types.AccountID
	Receiver    types.AccountID
	Signer      types.AccountID
	SignerKey   types.PublicKey
	Actions     []Action

	// deps are the slots whose results the receipt reads, in order.
	deps []int
	// outputs are the slots the receipt's result is delivered to.
	outputs []int
}

// Deposit is the total balance the receipt carries.
func (r *Receipt) Deposit() *uint256.Int {
	sum := new(uint256.Int)
	for _, a := range r.Actions {
		if a.Kind == ActionTransfer || a.Kind == ActionFunctionCall {
			sum.Add(sum, a.amount())
		}
	}
	return sum
}

// Method is the first function called by the receipt, if any.
func (r *Receipt) Method() string {
	for _, a := range r.Actions {
		if a.Kind == ActionFunctionCall {
			return a.Method
		}
	}
	return ""
}

func (r *Receipt) frame() security.CallFrame {
	return security.CallFrame{
		Receipt:     r.ID,
		Parent:      r.Parent,
		Predecessor: string(r.Predecessor),
		Receiver:    string(r.Receiver),
		Method:      r.Method(),
		Depth:       r.Depth,
	}
}

// slot carries a result between receipts.
type slot struct {
	done   bool
	status types.PromiseStatus
	data   []byte
	err    string
	cause  error
}

// Result is the outcome of one receipt.
type Result struct {
	ID          string              `json:"id"`
	Predecessor types.AccountID     `json:"predecessor"`
	Receiver    types.AccountID     `json:"receiver"`
	Method      string              `json:"method,omitempty"`
	Deposit     *uint256.Int        `json:"deposit"`
	Status      types.PromiseStatus `json:"status"`
	Value       []byte              `json:"value,omitempty"`
	Err         string              `json:"error,omitempty"`
	Logs        []string            `json:"logs,omitempty"`
	GasUsed     types.Gas           `json:"gas_used"`

	cause error
}

// Cause is the error that failed the receipt.
func (r *Result) Cause() error {
	return r.cause
}

// Failed reports whether the receipt was reverted.
func (r *Result) Failed() bool {
	return r.Status == types.PromiseFailed
}

// Outcome is the result of a transaction and every receipt it spawned.
type Outcome struct {
	TxID     string               `json:"tx_id"`
	Status   types.PromiseStatus  `json:"status"`
	Value    []byte               `json:"value,omitempty"`
	Err      string               `json:"error,omitempty"`
	Receipts []*Result            `json:"receipts"`
	Trace    []security.CallFrame `json:"trace"`

	cause error
}

// Cause is the error behind a failed final result.
func (o *Outcome) Cause() error {
	return o.cause
}

// Failed reports whether the transaction's final result is a failure.
func (o *Outcome) Failed() bool {
	return o.Status != types.PromiseSuccessful
}

// Logs collects the logs of every receipt in execution order.
func (o *Outcome) Logs() []string {
	var logs []string
	for _, r := range o.Receipts {
		logs = append(logs, r.Logs...)
	}
	return logs
}

// Receipt returns the first receipt calling method on receiver.
func (o *Outcome) Receipt(receiver types.AccountID, method string) *Result {
	for _, r := range o.Receipts {
		if r.Receiver == receiver && r.Method == method {
			return r
		}
	}
	return nil
}
