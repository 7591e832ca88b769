// Package hosttest provides an in-memory types.Host for unit tests of contract
// components. It records scheduled promises instead of executing them.
package hosttest

import (
	"sort"

	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/types"
	"github.com/holiman/uint256"
)

// DataOverhead is charged per stored entry on top of key and value length.
const DataOverhead = 40

// AccountOverhead is the storage usage of an empty account.
const AccountOverhead = 100

// Action is a recorded promise action.
type Action struct {
	Kind   string
	Method string
	Args   []byte
	Amount *uint256.Int
	Gas    types.Gas
	Code   []byte
	Key    types.PublicKey
}

// Promise is a recorded promise.
type Promise struct {
	Index   uint64
	Account types.AccountID
	After   []uint64
	Joined  []uint64
	Actions []Action
}

// Result is a dependency result visible through PromiseResult.
type Result struct {
	Status types.PromiseStatus
	Data   []byte
}

// Host is a scriptable host. Zero values of the exported fields are valid.
type Host struct {
	CurrentID     types.AccountID
	PredecessorID types.AccountID
	SignerID      types.AccountID
	SignerKey     types.PublicKey
	InputData     []byte
	Deposit       *uint256.Int
	Balance       *uint256.Int
	ByteCost      *uint256.Int
	Prepaid       types.Gas
	Used          types.Gas
	Height        uint64

	Data     map[string][]byte
	Results  []Result
	Promises []*Promise
	Logs     []string

	Returned        []byte
	ReturnedPromise *uint64

	// Calls counts host function invocations.
	Calls map[types.HostFunctionID]int

	registers map[uint64][]byte
}

// New returns a host executing current on behalf of predecessor.
func New(current, predecessor types.AccountID) *Host {
	return &Host{
		CurrentID:     current,
		PredecessorID: predecessor,
		SignerID:      predecessor,
		SignerKey:     "ed25519:11111111111111111111111111111111",
		Deposit:       new(uint256.Int),
		Balance:       types.Near(100),
		ByteCost:      types.Yocto(10_000_000_000_000_000_000),
		Prepaid:       300 * types.TGas,
		Data:          make(map[string][]byte),
		Calls:         make(map[types.HostFunctionID]int),
		registers:     make(map[uint64][]byte),
	}
}

// Context returns a fresh invocation context over h.
func (h *Host) Context() *env.Context {
	return env.NewContext(h, nil)
}

// As switches the caller, keeping state. The returned context is fresh.
func (h *Host) As(predecessor types.AccountID) *env.Context {
	h.PredecessorID = predecessor
	h.SignerID = predecessor
	h.registers = make(map[uint64][]byte)
	return h.Context()
}

// Reset clears per-invocation state: registers, promises, logs and return value.
func (h *Host) Reset() {
	h.registers = make(map[uint64][]byte)
	h.Promises = nil
	h.Logs = nil
	h.Returned = nil
	h.ReturnedPromise = nil
	h.Results = nil
}

// Keys returns the stored keys in order.
func (h *Host) Keys() []string {
	keys := make([]string, 0, len(h.Data))
	for k := range h.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h *Host) count(id types.HostFunctionID) {
	if h.Calls == nil {
		h.Calls = make(map[types.HostFunctionID]int)
	}
	h.Calls[id]++
}

func (h *Host) ReadRegister(id uint64) ([]byte, bool) {
	h.count(types.FuncReadRegister)
	data, ok := h.registers[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (h *Host) RegisterLen(id uint64) (uint64, bool) {
	h.count(types.FuncRegisterLen)
	data, ok := h.registers[id]
	return uint64(len(data)), ok
}

func (h *Host) WriteRegister(id uint64, data []byte) {
	h.count(types.FuncWriteRegister)
	h.registers[id] = append([]byte{}, data...)
}

func (h *Host) register(fn types.HostFunctionID, id uint64) []byte {
	data, ok := h.registers[id]
	if !ok {
		types.Abort(fn, "register %d is not set", id)
	}
	return data
}

func (h *Host) Input(register uint64) {
	h.count(types.FuncInput)
	h.registers[register] = append([]byte{}, h.InputData...)
}

func (h *Host) CurrentAccountID(register uint64) {
	h.count(types.FuncCurrentAccountID)
	h.registers[register] = []byte(h.CurrentID)
}

func (h *Host) PredecessorAccountID(register uint64) {
	h.count(types.FuncPredecessorAccountID)
	h.registers[register] = []byte(h.PredecessorID)
}

func (h *Host) SignerAccountID(register uint64) {
	h.count(types.FuncSignerAccountID)
	h.registers[register] = []byte(h.SignerID)
}

func (h *Host) SignerAccountPK(register uint64) {
	h.count(types.FuncSignerAccountPK)
	h.registers[register] = []byte(h.SignerKey)
}

func (h *Host) StorageWrite(key []byte, valueRegister, evictedRegister uint64) bool {
	h.count(types.FuncStorageWrite)
	value := append([]byte{}, h.register(types.FuncStorageWrite, valueRegister)...)
	prev, ok := h.Data[string(key)]
	h.Data[string(key)] = value
	if ok {
		h.registers[evictedRegister] = prev
	}
	return ok
}

func (h *Host) StorageRead(key []byte, register uint64) bool {
	h.count(types.FuncStorageRead)
	v, ok := h.Data[string(key)]
	if ok {
		h.registers[register] = append([]byte{}, v...)
	}
	return ok
}

func (h *Host) StorageRemove(key []byte, evictedRegister uint64) bool {
	h.count(types.FuncStorageRemove)
	prev, ok := h.Data[string(key)]
	if ok {
		delete(h.Data, string(key))
		h.registers[evictedRegister] = prev
	}
	return ok
}

func (h *Host) StorageHasKey(key []byte) bool {
	h.count(types.FuncStorageHasKey)
	_, ok := h.Data[string(key)]
	return ok
}

func (h *Host) StorageUsage() uint64 {
	usage := uint64(AccountOverhead)
	for k, v := range h.Data {
		usage += uint64(len(k)+len(v)) + DataOverhead
	}
	return usage
}

func (h *Host) AttachedDeposit() *uint256.Int { return new(uint256.Int).Set(h.Deposit) }
func (h *Host) AccountBalance() *uint256.Int  { return new(uint256.Int).Set(h.Balance) }
func (h *Host) StorageByteCost() *uint256.Int { return new(uint256.Int).Set(h.ByteCost) }
func (h *Host) PrepaidGas() types.Gas         { return h.Prepaid }
func (h *Host) UsedGas() types.Gas            { return h.Used }
func (h *Host) BlockHeight() uint64           { return h.Height }

func (h *Host) LogStr(msg string) {
	h.count(types.FuncLog)
	h.Logs = append(h.Logs, msg)
}

func (h *Host) ValueReturn(register uint64) {
	h.count(types.FuncValueReturn)
	h.Returned = append([]byte{}, h.register(types.FuncValueReturn, register)...)
}

func (h *Host) promise(fn types.HostFunctionID, idx uint64) *Promise {
	if idx >= uint64(len(h.Promises)) {
		types.Abort(fn, "unknown promise %d", idx)
	}
	return h.Promises[idx]
}

func (h *Host) spend(fn types.HostFunctionID, amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return new(uint256.Int)
	}
	if h.Balance.Lt(amount) {
		types.Abort(fn, "balance %s is less than %s", h.Balance.Dec(), amount.Dec())
	}
	h.Balance = new(uint256.Int).Sub(h.Balance, amount)
	return new(uint256.Int).Set(amount)
}

func (h *Host) newPromise(account types.AccountID, after ...uint64) *Promise {
	p := &Promise{Index: uint64(len(h.Promises)), Account: account, After: after}
	h.Promises = append(h.Promises, p)
	return p
}

func (h *Host) PromiseCreate(account types.AccountID, method string, args []byte, amount *uint256.Int, gas types.Gas) uint64 {
	h.count(types.FuncPromiseCreate)
	p := h.newPromise(account)
	p.Actions = append(p.Actions, Action{Kind: "function_call", Method: method, Args: args,
		Amount: h.spend(types.FuncPromiseCreate, amount), Gas: gas})
	return p.Index
}

func (h *Host) PromiseThen(promise uint64, account types.AccountID, method string, args []byte, amount *uint256.Int, gas types.Gas) uint64 {
	h.count(types.FuncPromiseThen)
	h.promise(types.FuncPromiseThen, promise)
	p := h.newPromise(account, promise)
	p.Actions = append(p.Actions, Action{Kind: "function_call", Method: method, Args: args,
		Amount: h.spend(types.FuncPromiseThen, amount), Gas: gas})
	return p.Index
}

func (h *Host) PromiseAnd(promises ...uint64) uint64 {
	h.count(types.FuncPromiseAnd)
	for _, idx := range promises {
		h.promise(types.FuncPromiseAnd, idx)
	}
	p := h.newPromise("")
	p.Joined = promises
	return p.Index
}

func (h *Host) PromiseBatchCreate(account types.AccountID) uint64 {
	h.count(types.FuncPromiseBatchCreate)
	return h.newPromise(account).Index
}

func (h *Host) PromiseBatchThen(promise uint64, account types.AccountID) uint64 {
	h.count(types.FuncPromiseBatchThen)
	h.promise(types.FuncPromiseBatchThen, promise)
	return h.newPromise(account, promise).Index
}

func (h *Host) addAction(promise uint64, a Action) {
	h.count(types.FuncPromiseBatchAction)
	p := h.promise(types.FuncPromiseBatchAction, promise)
	p.Actions = append(p.Actions, a)
}

func (h *Host) PromiseBatchActionCreateAccount(promise uint64) {
	h.addAction(promise, Action{Kind: "create_account"})
}

func (h *Host) PromiseBatchActionDeployContract(promise uint64, codeRegister uint64) {
	code := append([]byte{}, h.register(types.FuncPromiseBatchAction, codeRegister)...)
	h.addAction(promise, Action{Kind: "deploy_contract", Code: code})
}

func (h *Host) PromiseBatchActionFunctionCall(promise uint64, method string, args []byte, amount *uint256.Int, gas types.Gas) {
	h.addAction(promise, Action{Kind: "function_call", Method: method, Args: args,
		Amount: h.spend(types.FuncPromiseBatchAction, amount), Gas: gas})
}

func (h *Host) PromiseBatchActionTransfer(promise uint64, amount *uint256.Int) {
	h.addAction(promise, Action{Kind: "transfer", Amount: h.spend(types.FuncPromiseBatchAction, amount)})
}

func (h *Host) PromiseBatchActionAddKeyWithFullAccess(promise uint64, key types.PublicKey, nonce uint64) {
	h.addAction(promise, Action{Kind: "add_key", Key: key})
}

func (h *Host) PromiseBatchActionDeleteKey(promise uint64, key types.PublicKey) {
	h.addAction(promise, Action{Kind: "delete_key", Key: key})
}

func (h *Host) PromiseResultsCount() uint64 {
	return uint64(len(h.Results))
}

func (h *Host) PromiseResult(index uint64, register uint64) types.PromiseStatus {
	h.count(types.FuncPromiseResult)
	if index >= uint64(len(h.Results)) {
		types.Abort(types.FuncPromiseResult, "no dependency %d", index)
	}
	r := h.Results[index]
	if r.Status == types.PromiseSuccessful {
		h.registers[register] = append([]byte{}, r.Data...)
	}
	return r.Status
}

func (h *Host) PromiseReturn(promise uint64) {
	h.count(types.FuncPromiseReturn)
	h.promise(types.FuncPromiseReturn, promise)
	h.ReturnedPromise = &promise
}

var _ types.Host = (*Host)(nil)
