// Package types contains shared type definitions and constants
// used by both the host runtime and the contract components
package types

import "github.com/holiman/uint256"

// HostFunctionID identifies a host primitive a contract component can invoke.
// The host uses the id to price the call (gas) and to label trace output, so
// both sides must agree on the values.
type HostFunctionID int32

const (
	// FuncReadRegister copies a register's content out of the host
	FuncReadRegister HostFunctionID = iota + 1 // 1
	// FuncRegisterLen returns the length of a register
	FuncRegisterLen // 2
	// FuncWriteRegister places bytes into a register
	FuncWriteRegister // 3
	// FuncInput fills a register with the invocation's raw input
	FuncInput // 4
	// FuncCurrentAccountID fills a register with the executing account id
	FuncCurrentAccountID // 5
	// FuncPredecessorAccountID fills a register with the immediate caller's id
	FuncPredecessorAccountID // 6
	// FuncSignerAccountID fills a register with the transaction signer's id
	FuncSignerAccountID // 7
	// FuncSignerAccountPK fills a register with the signer's public key
	FuncSignerAccountPK // 8
	// FuncStorageWrite writes a register's content under a key
	FuncStorageWrite // 9
	// FuncStorageRead reads a key into a register
	FuncStorageRead // 10
	// FuncStorageRemove deletes a key
	FuncStorageRemove // 11
	// FuncStorageHasKey tests a key for presence
	FuncStorageHasKey // 12
	// FuncLog appends a line to the invocation log
	FuncLog // 13
	// FuncValueReturn sets the invocation's return value from a register
	FuncValueReturn // 14
	// FuncPromiseCreate schedules a function call on another account
	FuncPromiseCreate // 15
	// FuncPromiseThen schedules a continuation of an earlier promise
	FuncPromiseThen // 16
	// FuncPromiseAnd joins several promises
	FuncPromiseAnd // 17
	// FuncPromiseBatchCreate opens an action batch against an account
	FuncPromiseBatchCreate // 18
	// FuncPromiseBatchThen opens an action batch that waits on a promise
	FuncPromiseBatchThen // 19
	// FuncPromiseBatchAction appends an action to a batch
	FuncPromiseBatchAction // 20
	// FuncPromiseResult reads the result of a resolved dependency
	FuncPromiseResult // 21
	// FuncPromiseReturn forwards the invocation's result to a promise
	FuncPromiseReturn // 22
)

var hostFunctionNames = map[HostFunctionID]string{
	FuncReadRegister:         "read_register",
	FuncRegisterLen:          "register_len",
	FuncWriteRegister:        "write_register",
	FuncInput:                "input",
	FuncCurrentAccountID:     "current_account_id",
	FuncPredecessorAccountID: "predecessor_account_id",
	FuncSignerAccountID:      "signer_account_id",
	FuncSignerAccountPK:      "signer_account_pk",
	FuncStorageWrite:         "storage_write",
	FuncStorageRead:          "storage_read",
	FuncStorageRemove:        "storage_remove",
	FuncStorageHasKey:        "storage_has_key",
	FuncLog:                  "log_utf8",
	FuncValueReturn:          "value_return",
	FuncPromiseCreate:        "promise_create",
	FuncPromiseThen:          "promise_then",
	FuncPromiseAnd:           "promise_and",
	FuncPromiseBatchCreate:   "promise_batch_create",
	FuncPromiseBatchThen:     "promise_batch_then",
	FuncPromiseBatchAction:   "promise_batch_action",
	FuncPromiseResult:        "promise_result",
	FuncPromiseReturn:        "promise_return",
}

func (id HostFunctionID) String() string {
	if name, ok := hostFunctionNames[id]; ok {
		return name
	}
	return "unknown"
}

// PromiseStatus is the resolution state of a dependency as seen by a continuation.
type PromiseStatus uint8

const (
	PromiseNotReady PromiseStatus = iota
	PromiseSuccessful
	PromiseFailed
)

func (s PromiseStatus) String() string {
	switch s {
	case PromiseSuccessful:
		return "successful"
	case PromiseFailed:
		return "failed"
	default:
		return "not_ready"
	}
}

func (s PromiseStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Registers is the host's register file. Registers hold bytes produced by the
// host on behalf of the contract and can be fed back into host calls without
// copying them through contract memory.
type Registers interface {
	ReadRegister(id uint64) ([]byte, bool)
	RegisterLen(id uint64) (uint64, bool)
	WriteRegister(id uint64, data []byte)
}

// Identity exposes facts about the current invocation.
type Identity interface {
	Input(register uint64)
	CurrentAccountID(register uint64)
	PredecessorAccountID(register uint64)
	SignerAccountID(register uint64)
	SignerAccountPK(register uint64)
}

// Storage is the executing account's durable key/value state.
// Write and Remove report whether a previous value was evicted; when they do
// the previous value is placed in the evicted register.
type Storage interface {
	StorageWrite(key []byte, valueRegister, evictedRegister uint64) bool
	StorageRead(key []byte, register uint64) bool
	StorageRemove(key []byte, evictedRegister uint64) bool
	StorageHasKey(key []byte) bool
	StorageUsage() uint64
}

// Env covers balances, gas and output of the invocation.
type Env interface {
	AttachedDeposit() *uint256.Int
	AccountBalance() *uint256.Int
	StorageByteCost() *uint256.Int
	PrepaidGas() Gas
	UsedGas() Gas
	BlockHeight() uint64
	LogStr(msg string)
	ValueReturn(register uint64)
}

// Promises schedules work on other accounts. Indices returned by the create
// functions are only meaningful within the invocation that produced them.
type Promises interface {
	PromiseCreate(account AccountID, method string, args []byte, amount *uint256.Int, gas Gas) uint64
	PromiseThen(promise uint64, account AccountID, method string, args []byte, amount *uint256.Int, gas Gas) uint64
	PromiseAnd(promises ...uint64) uint64
	PromiseBatchCreate(account AccountID) uint64
	PromiseBatchThen(promise uint64, account AccountID) uint64

	PromiseBatchActionCreateAccount(promise uint64)
	PromiseBatchActionDeployContract(promise uint64, codeRegister uint64)
	PromiseBatchActionFunctionCall(promise uint64, method string, args []byte, amount *uint256.Int, gas Gas)
	PromiseBatchActionTransfer(promise uint64, amount *uint256.Int)
	PromiseBatchActionAddKeyWithFullAccess(promise uint64, key PublicKey, nonce uint64)
	PromiseBatchActionDeleteKey(promise uint64, key PublicKey)

	PromiseResultsCount() uint64
	PromiseResult(index uint64, register uint64) PromiseStatus
	PromiseReturn(promise uint64)
}

// Host is everything a contract component may ask of its runtime.
type Host interface {
	Registers
	Identity
	Storage
	Env
	Promises
}

// AccountIDParams is the object form of an account id argument.
type AccountIDParams struct {
	AccountID AccountID `json:"account_id"`
}

// CreateSubaccountParams are the arguments of create_subaccount_and_deploy.
type CreateSubaccountParams struct {
	NewAccountID string    `json:"new_account_id"`
	NewPublicKey PublicKey `json:"new_public_key,omitempty"`
	OwnerID      AccountID `json:"owner_id,omitempty"`
}
